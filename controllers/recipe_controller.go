package controllers

import (
	"net/http"

	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type RecipeController struct {
	svc service.RecipeService
}

func NewRecipeController(svc service.RecipeService) *RecipeController {
	return &RecipeController{svc: svc}
}

func (h *RecipeController) List(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	rows, err := h.svc.List(c.Request.Context(), sess, c.Query("category"), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", rows)
}

func (h *RecipeController) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.Get(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", r)
}

func (h *RecipeController) Cost(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cost, err := h.svc.Cost(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", cost)
}

func (h *RecipeController) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var in service.RecipeInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := h.svc.Create(c.Request.Context(), sess, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "recipe created", r)
}

func (h *RecipeController) Update(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.RecipeInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := h.svc.Update(c.Request.Context(), sess, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "recipe updated", r)
}

func (h *RecipeController) Delete(c *gin.Context) {
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
	utils.Success(c, http.StatusOK, "recipe deleted", nil)
}
