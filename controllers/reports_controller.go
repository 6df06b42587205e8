package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
)

type ReportsController struct {
	svc service.Service
}

func NewReportsController(svc service.Service) *ReportsController {
	return &ReportsController{svc: svc}
}

// RecipeCosts handles GET /api/reports/recipe-costs?q=&category=&sort=&page=&page_size=.
func (h *ReportsController) RecipeCosts(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	f := service.RecipeCostFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
		Page:     getInt(c, "page", 1),
		PageSize: getInt(c, "page_size", 50),
		SortBy:   c.DefaultQuery("sort", "name"),
	}
	rows, total, err := h.svc.RecipeCostReport(c.Request.Context(), sess, f)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Paged(c, rows, total, f.Page, f.PageSize)
}

func (h *ReportsController) Stock(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	f := service.StockReportFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		LowOnly:  c.Query("low") == "true",
		Page:     getInt(c, "page", 1),
		PageSize: getInt(c, "page_size", 50),
		SortBy:   c.DefaultQuery("sort", "name"),
	}
	rows, total, err := h.svc.StockReport(c.Request.Context(), sess, f)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Paged(c, rows, total, f.Page, f.PageSize)
}

// Sales handles GET /api/reports/sales?from=&to=. Without a range it covers
// the current UTC day.
func (h *ReportsController) Sales(c *gin.Context) {
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
	if from == nil {
		day := time.Now().UTC().Truncate(24 * time.Hour)
		from = &day
	}
	if to == nil {
		next := from.Add(24 * time.Hour)
		to = &next
	}
	sum, err := h.svc.SalesSummary(c.Request.Context(), sess, *from, *to)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "", sum)
}
