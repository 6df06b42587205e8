package controllers

import (
	"net/http"

	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type SupplierController struct {
	svc service.SupplierService
}

func NewSupplierController(svc service.SupplierService) *SupplierController {
	return &SupplierController{svc: svc}
}

func (h *SupplierController) List(c *gin.Context) {
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

func (h *SupplierController) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sup, err := h.svc.Get(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", sup)
}

func (h *SupplierController) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var in service.SupplierInput
	if !bindJSON(c, &in) {
		return
	}
	sup, err := h.svc.Create(c.Request.Context(), sess, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "supplier created", sup)
}

func (h *SupplierController) Update(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.SupplierInput
	if !bindJSON(c, &in) {
		return
	}
	sup, err := h.svc.Update(c.Request.Context(), sess, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "supplier updated", sup)
}

func (h *SupplierController) Delete(c *gin.Context) {
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
	utils.Success(c, http.StatusOK, "supplier deleted", nil)
}
