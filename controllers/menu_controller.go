package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	svc           service.MenuService
	publicBaseURL string
}

// NewMenuController: publicBaseURL prefixes the guest-facing /menu/:id links
// encoded in QR codes. When empty the request's own scheme and host are used.
func NewMenuController(svc service.MenuService, publicBaseURL string) *MenuController {
	return &MenuController{svc: svc, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (h *MenuController) List(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	rows, err := h.svc.List(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", rows)
}

func (h *MenuController) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.Get(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", m)
}

func (h *MenuController) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var in service.MenuInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.svc.Create(c.Request.Context(), sess, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "menu created", m)
}

func (h *MenuController) Update(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.MenuInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.svc.Update(c.Request.Context(), sess, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "menu updated", m)
}

func (h *MenuController) Delete(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), sess, id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "menu deleted", nil)
}

func (h *MenuController) SetItems(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Items []service.MenuItemInput `json:"items" binding:"dive"`
	}
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.svc.SetItems(c.Request.Context(), sess, id, in.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "menu items updated", m)
}

func (h *MenuController) Publish(c *gin.Context)   { h.setPublished(c, true) }
func (h *MenuController) Unpublish(c *gin.Context) { h.setPublished(c, false) }

func (h *MenuController) setPublished(c *gin.Context, published bool) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.SetPublished(c.Request.Context(), sess, id, published)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "menu unpublished"
	if published {
		msg = "menu published"
	}
	utils.Success(c, http.StatusOK, msg, m)
}

// QRCode returns the QR code pointing guests at the public menu page.
func (h *MenuController) QRCode(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.Get(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}

	url := fmt.Sprintf("%s/menu/%d", h.baseURL(c), m.ID)
	dataURI, err := utils.QRCodeDataURI(url)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", gin.H{
		"url":          url,
		"data_uri":     dataURI,
		"is_published": m.IsPublished,
	})
}

func (h *MenuController) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
