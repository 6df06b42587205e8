package service

import (
	"context"
	"time"

	"github.com/iluvios/menumagic-sub001/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// unitCostSQL mirrors models.Ingredient.StorageUnitCost in SQL.
const unitCostSQL = `COALESCE(
	CASE WHEN i.conversion_factor > 0 AND i.purchase_unit_cost IS NOT NULL
		THEN i.purchase_unit_cost / i.conversion_factor END,
	i.cost_per_unit, 0)`

// ===== Recipe cost & margin =====

type RecipeCostRow struct {
	RecipeID         uint             `json:"recipe_id"`
	Name             string           `json:"name"`
	Category         string           `json:"category"`
	IsActive         bool             `json:"is_active"`
	SellingPrice     decimal.Decimal  `json:"selling_price"`
	Cost             decimal.Decimal  `json:"cost"`
	CostIncomplete   bool             `json:"cost_incomplete"`
	Margin           *decimal.Decimal `json:"margin" gorm:"-"`
	MarginPercentage *decimal.Decimal `json:"margin_percentage" gorm:"-"`
}

type RecipeCostFilter struct {
	Query    string // matches name
	Category string
	Page     int    // 1-based
	PageSize int    // default 50
	SortBy   string // "name","-name","cost","-cost","margin","-margin"
}

// ===== Stock valuation =====

type StockReportRow struct {
	IngredientID    uint            `json:"ingredient_id"`
	Name            string          `json:"name"`
	StorageUnit     string          `json:"storage_unit"`
	SupplierName    string          `json:"supplier_name"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	ParLevel        decimal.Decimal `json:"par_level"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	StockValue      decimal.Decimal `json:"stock_value"`
	Low             bool            `json:"low"`
}

type StockReportFilter struct {
	Query    string
	LowOnly  bool
	Page     int
	PageSize int
	SortBy   string // "name","-name","quantity","-quantity","value","-value"
}

// ===== Sales =====

type MethodTotal struct {
	Method    string          `json:"method"`
	Payments  int64           `json:"payments"`
	Collected decimal.Decimal `json:"collected"`
}

type SalesSummary struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Orders    int64           `json:"orders"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	Cancelled int64           `json:"cancelled"`
	ByMethod  []MethodTotal   `json:"by_method"`
}

// ===== Service =====

type Service interface {
	RecipeCostReport(ctx context.Context, s models.Session, f RecipeCostFilter) ([]RecipeCostRow, int64, error)
	StockReport(ctx context.Context, s models.Session, f StockReportFilter) ([]StockReportRow, int64, error)
	// SalesSummary covers completed orders created in [from, to).
	SalesSummary(ctx context.Context, s models.Session, from, to time.Time) (SalesSummary, error)
}

type service struct{ db *gorm.DB }

func NewService(db *gorm.DB) Service { return &service{db: db} }

func pageBounds(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 50
	}
	return page, pageSize
}

func (s *service) RecipeCostReport(ctx context.Context, sess models.Session, f RecipeCostFilter) ([]RecipeCostRow, int64, error) {
	f.Page, f.PageSize = pageBounds(f.Page, f.PageSize)

	filter := func(q *gorm.DB) *gorm.DB {
		q = q.Where("r.restaurant_id = ?", sess.RestaurantID)
		if f.Query != "" {
			q = q.Where("r.name ILIKE ?", "%"+f.Query+"%")
		}
		if f.Category != "" {
			q = q.Where("r.category = ?", f.Category)
		}
		return q
	}

	// Count on the bare recipes table; the grouped query below has one row per recipe.
	var total int64
	if err := filter(s.db.WithContext(ctx).Table("recipes r")).Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "report")
	}

	q := filter(s.db.WithContext(ctx).Table("recipes r")).
		Select(`
			r.id AS recipe_id,
			r.name,
			r.category,
			r.is_active,
			r.selling_price,
			COALESCE(SUM(ri.quantity * ` + unitCostSQL + `), 0) AS cost,
			COALESCE(BOOL_OR(ri.id IS NOT NULL AND ` + unitCostSQL + ` = 0), false) AS cost_incomplete,
			CASE WHEN r.selling_price > 0
				THEN (r.selling_price - COALESCE(SUM(ri.quantity * ` + unitCostSQL + `), 0)) / r.selling_price
			END AS margin_sort
		`).
		Joins("LEFT JOIN recipe_ingredients ri ON ri.recipe_id = r.id").
		Joins("LEFT JOIN ingredients i ON i.id = ri.ingredient_id").
		Group("r.id, r.name, r.category, r.is_active, r.selling_price")

	switch f.SortBy {
	case "name":
		q = q.Order("r.name ASC")
	case "-name":
		q = q.Order("r.name DESC")
	case "cost":
		q = q.Order("cost ASC")
	case "-cost":
		q = q.Order("cost DESC")
	case "margin":
		q = q.Order("margin_sort ASC NULLS LAST")
	case "-margin":
		q = q.Order("margin_sort DESC NULLS LAST")
	default:
		q = q.Order("r.id DESC")
	}

	rows := make([]RecipeCostRow, 0)
	if err := q.Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).Scan(&rows).Error; err != nil {
		return nil, 0, dbError(err, "report")
	}
	for i := range rows {
		rows[i].Cost = rows[i].Cost.Round(4)
		rows[i].Margin, rows[i].MarginPercentage = marginFields(rows[i].SellingPrice, rows[i].Cost)
	}
	return rows, total, nil
}

func (s *service) StockReport(ctx context.Context, sess models.Session, f StockReportFilter) ([]StockReportRow, int64, error) {
	f.Page, f.PageSize = pageBounds(f.Page, f.PageSize)

	q := s.db.WithContext(ctx).
		Table("ingredients i").
		Select(`
			i.id AS ingredient_id,
			i.name,
			i.storage_unit,
			COALESCE(sp.name, '') AS supplier_name,
			COALESCE(l.current_quantity, 0) AS current_quantity,
			i.par_level,
			` + unitCostSQL + ` AS unit_cost,
			COALESCE(l.current_quantity, 0) * ` + unitCostSQL + ` AS stock_value,
			COALESCE(l.current_quantity, 0) < i.par_level AS low
		`).
		Joins("LEFT JOIN inventory_stock_levels l ON l.ingredient_id = i.id").
		Joins("LEFT JOIN suppliers sp ON sp.id = i.supplier_id").
		Where("i.restaurant_id = ?", sess.RestaurantID)

	if f.Query != "" {
		q = q.Where("i.name ILIKE ?", "%"+f.Query+"%")
	}
	if f.LowOnly {
		q = q.Where("COALESCE(l.current_quantity, 0) < i.par_level")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "report")
	}

	switch f.SortBy {
	case "name":
		q = q.Order("i.name ASC")
	case "-name":
		q = q.Order("i.name DESC")
	case "quantity":
		q = q.Order("current_quantity ASC")
	case "-quantity":
		q = q.Order("current_quantity DESC")
	case "value":
		q = q.Order("stock_value ASC")
	case "-value":
		q = q.Order("stock_value DESC")
	default:
		q = q.Order("i.id DESC")
	}

	rows := make([]StockReportRow, 0)
	if err := q.Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).Scan(&rows).Error; err != nil {
		return nil, 0, dbError(err, "report")
	}
	for i := range rows {
		rows[i].UnitCost = rows[i].UnitCost.Round(4)
		rows[i].StockValue = rows[i].StockValue.Round(2)
	}
	return rows, total, nil
}

func (s *service) SalesSummary(ctx context.Context, sess models.Session, from, to time.Time) (SalesSummary, error) {
	if !to.After(from) {
		return SalesSummary{}, invalid("to", "must be after from")
	}
	out := SalesSummary{From: from, To: to, ByMethod: make([]MethodTotal, 0)}

	var totals struct {
		Orders   int64
		Subtotal decimal.Decimal
		Tax      decimal.Decimal
		Discount decimal.Decimal
		Total    decimal.Decimal
	}
	db := s.db.WithContext(ctx)
	if err := db.Table("orders").
		Select(`
			COUNT(*) AS orders,
			COALESCE(SUM(subtotal), 0) AS subtotal,
			COALESCE(SUM(tax), 0) AS tax,
			COALESCE(SUM(discount), 0) AS discount,
			COALESCE(SUM(total), 0) AS total
		`).
		Where("restaurant_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			sess.RestaurantID, models.OrderCompleted, from, to).
		Scan(&totals).Error; err != nil {
		return SalesSummary{}, dbError(err, "report")
	}
	out.Orders = totals.Orders
	out.Subtotal, out.Tax, out.Discount, out.Total = totals.Subtotal, totals.Tax, totals.Discount, totals.Total

	if err := db.Model(&models.Order{}).
		Where("restaurant_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			sess.RestaurantID, models.OrderCancelled, from, to).
		Count(&out.Cancelled).Error; err != nil {
		return SalesSummary{}, dbError(err, "report")
	}

	if err := db.Table("payments p").
		Select("p.method, COUNT(p.id) AS payments, COALESCE(SUM(p.amount), 0) AS collected").
		Joins("INNER JOIN orders o ON o.id = p.order_id").
		Where("o.restaurant_id = ? AND o.status = ? AND o.created_at >= ? AND o.created_at < ?",
			sess.RestaurantID, models.OrderCompleted, from, to).
		Group("p.method").
		Order("p.method ASC").
		Scan(&out.ByMethod).Error; err != nil {
		return SalesSummary{}, dbError(err, "report")
	}
	return out, nil
}
