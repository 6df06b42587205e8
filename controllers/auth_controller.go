package controllers

import (
	"net/http"

	"github.com/iluvios/menumagic-sub001/models"
	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	svc    service.AuthService
	signer *utils.SessionSigner
}

func NewAuthController(svc service.AuthService, signer *utils.SessionSigner) *AuthController {
	return &AuthController{svc: svc, signer: signer}
}

func (h *AuthController) startSession(c *gin.Context, status int, message string, user models.User) {
	token, exp, err := h.signer.Sign(models.Session{UserID: user.ID, RestaurantID: user.RestaurantID})
	if err != nil {
		respondError(c, err)
		return
	}
	h.signer.SetCookie(c, token)
	utils.Success(c, status, message, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": exp,
	})
}

func (h *AuthController) Register(c *gin.Context) {
	var in service.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, http.StatusCreated, "registered", user)
}

func (h *AuthController) Login(c *gin.Context) {
	var in service.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		if err == service.ErrAuthenticationRequired {
			utils.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		respondError(c, err)
		return
	}
	h.startSession(c, http.StatusOK, "logged in", user)
}

func (h *AuthController) Logout(c *gin.Context) {
	h.signer.ClearCookie(c)
	utils.Success(c, http.StatusOK, "logged out", nil)
}

func (h *AuthController) Me(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	user, err := h.svc.Me(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", user)
}
