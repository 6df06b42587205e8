package controllers

import (
	"net/http"

	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type InventoryController struct {
	svc service.InventoryService
}

func NewInventoryController(svc service.InventoryService) *InventoryController {
	return &InventoryController{svc: svc}
}

// Adjust handles POST /api/inventory/adjustments.
func (h *InventoryController) Adjust(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var in service.AdjustInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.svc.Adjust(c.Request.Context(), sess, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "stock adjusted", res)
}

// History handles GET /api/inventory/ingredients/:id/history?limit=N.
func (h *InventoryController) History(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.svc.History(c.Request.Context(), sess, id, getInt(c, "limit", service.DefaultHistoryLimit))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", rows)
}

func (h *InventoryController) Levels(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	rows, err := h.svc.StockLevels(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", rows)
}
