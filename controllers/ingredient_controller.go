package controllers

import (
	"net/http"

	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type IngredientController struct {
	svc service.IngredientService
}

func NewIngredientController(svc service.IngredientService) *IngredientController {
	return &IngredientController{svc: svc}
}

func (h *IngredientController) List(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	rows, err := h.svc.List(c.Request.Context(), sess, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", rows)
}

func (h *IngredientController) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ing, err := h.svc.Get(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", ing)
}

func (h *IngredientController) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var in service.IngredientInput
	if !bindJSON(c, &in) {
		return
	}
	ing, err := h.svc.Create(c.Request.Context(), sess, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "ingredient created", ing)
}

func (h *IngredientController) Update(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.IngredientInput
	if !bindJSON(c, &in) {
		return
	}
	ing, err := h.svc.Update(c.Request.Context(), sess, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "ingredient updated", ing)
}

func (h *IngredientController) Delete(c *gin.Context) {
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
	utils.Success(c, http.StatusOK, "ingredient deleted", nil)
}
