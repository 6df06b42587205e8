package controllers

import (
	"net/http"

	"github.com/iluvios/menumagic-sub001/models"
	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	svc service.OrderService
}

func NewOrderController(svc service.OrderService) *OrderController {
	return &OrderController{svc: svc}
}

func (h *OrderController) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var in service.CreateOrderInput
	if !bindJSON(c, &in) {
		return
	}
	o, err := h.svc.CreateOrder(c.Request.Context(), sess, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "order created", o)
}

// List supports ?status=&from=&to=&page=&page_size=.
func (h *OrderController) List(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	from, err := queryTime(c, "from")
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := queryTime(c, "to")
	if err != nil {
		respondError(c, err)
		return
	}
	f := service.OrderFilter{
		Status:   c.Query("status"),
		From:     from,
		To:       to,
		Page:     getInt(c, "page", 1),
		PageSize: getInt(c, "page_size", 50),
	}
	rows, total, err := h.svc.ListOrders(c.Request.Context(), sess, f)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Paged(c, rows, total, f.Page, f.PageSize)
}

func (h *OrderController) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.svc.GetOrder(c.Request.Context(), sess, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", o)
}

func (h *OrderController) RecordPayment(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	o, err := h.svc.RecordPayment(c.Request.Context(), sess, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "payment recorded", o)
}

func (h *OrderController) UpdateStatus(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}
	o, err := h.svc.UpdateStatus(c.Request.Context(), sess, id, in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "order updated", o)
}
