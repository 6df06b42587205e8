package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iluvios/menumagic-sub001/models"
	"github.com/iluvios/menumagic-sub001/notifier"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxOrderNumberRetries = 3

type OrderItemInput struct {
	RecipeID  uint                `json:"recipe_id" binding:"required"`
	Quantity  int64               `json:"quantity" binding:"required"`
	UnitPrice decimal.NullDecimal `json:"unit_price"`
}

type CreateOrderInput struct {
	TableLabel   string           `json:"table_label"`
	CustomerName string           `json:"customer_name"`
	Discount     decimal.Decimal  `json:"discount"`
	Items        []OrderItemInput `json:"items" binding:"required,dive"`
}

type PaymentInput struct {
	Amount decimal.Decimal      `json:"amount"`
	Method models.PaymentMethod `json:"method" binding:"required"`
}

type OrderFilter struct {
	Status   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type OrderView struct {
	models.Order
	AmountPaid decimal.Decimal `json:"amount_paid"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

func newOrderView(o models.Order) OrderView {
	paid := decimal.Zero
	for _, p := range o.Payments {
		paid = paid.Add(p.Amount)
	}
	due := o.Total.Sub(paid)
	if due.IsNegative() {
		due = decimal.Zero
	}
	return OrderView{Order: o, AmountPaid: paid, BalanceDue: due}
}

type OrderService interface {
	CreateOrder(ctx context.Context, s models.Session, in CreateOrderInput) (OrderView, error)
	RecordPayment(ctx context.Context, s models.Session, orderID uint, in PaymentInput) (OrderView, error)
	UpdateStatus(ctx context.Context, s models.Session, orderID uint, status models.OrderStatus) (OrderView, error)
	GetOrder(ctx context.Context, s models.Session, orderID uint) (OrderView, error)
	ListOrders(ctx context.Context, s models.Session, f OrderFilter) ([]OrderView, int64, error)
}

type orderService struct {
	db      *gorm.DB
	taxRate decimal.Decimal
	events  notifier.Publisher
	log     *slog.Logger
	now     func() time.Time
}

func NewOrderService(db *gorm.DB, taxRate decimal.Decimal, events notifier.Publisher, log *slog.Logger) OrderService {
	if events == nil {
		events = notifier.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &orderService{
		db:      db,
		taxRate: taxRate,
		events:  events,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func validateOrder(in CreateOrderInput) error {
	if len(in.Items) == 0 {
		return invalid("items", "at least one item is required")
	}
	for i, it := range in.Items {
		if it.RecipeID == 0 {
			return invalid(fmt.Sprintf("items[%d].recipe_id", i), "is required")
		}
		if it.Quantity <= 0 {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		if it.UnitPrice.Valid {
			if it.UnitPrice.Decimal.IsNegative() {
				return invalid(fmt.Sprintf("items[%d].unit_price", i), "must not be negative")
			}
			if !isCents(it.UnitPrice.Decimal) {
				return invalid(fmt.Sprintf("items[%d].unit_price", i), "must have at most 2 decimal places")
			}
		}
	}
	if in.Discount.IsNegative() {
		return invalid("discount", "must not be negative")
	}
	if !isCents(in.Discount) {
		return invalid("discount", "must have at most 2 decimal places")
	}
	return nil
}

// isCents reports whether d fits the numeric(12,2) money columns unchanged.
func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// CreateOrder prices the lines from the recipes (unless a unit price is
// given), computes totals and stores the order as pending.
func (s *orderService) CreateOrder(ctx context.Context, sess models.Session, in CreateOrderInput) (OrderView, error) {
	if err := validateOrder(in); err != nil {
		return OrderView{}, err
	}

	var order models.Order
	var lastErr error
	for range maxOrderNumberRetries {
		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ids := make([]uint, 0, len(in.Items))
			for _, it := range in.Items {
				ids = append(ids, it.RecipeID)
			}
			var recipes []models.Recipe
			if err := tx.Where("id IN ? AND restaurant_id = ? AND is_active = ?", ids, sess.RestaurantID, true).
				Find(&recipes).Error; err != nil {
				return err
			}
			byID := make(map[uint]models.Recipe, len(recipes))
			for _, r := range recipes {
				byID[r.ID] = r
			}

			items := make([]models.OrderItem, 0, len(in.Items))
			lines := make([]Line, 0, len(in.Items))
			for _, it := range in.Items {
				r, ok := byID[it.RecipeID]
				if !ok {
					return notFound("recipe", it.RecipeID)
				}
				price := r.SellingPrice
				if it.UnitPrice.Valid {
					price = it.UnitPrice.Decimal
				}
				lines = append(lines, Line{Quantity: it.Quantity, UnitPrice: price})
				items = append(items, models.OrderItem{
					RecipeID:  r.ID,
					Name:      r.Name,
					Quantity:  it.Quantity,
					UnitPrice: price,
					LineTotal: price.Mul(decimal.NewFromInt(it.Quantity)),
				})
			}

			totals := ComputeTotals(lines, s.taxRate, in.Discount)
			if totals.Total.IsNegative() {
				return invalid("discount", "exceeds subtotal plus tax")
			}

			// The sequence restarts every calendar year.
			now := s.now()
			yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
			var last models.Order
			if err := tx.Where("restaurant_id = ? AND created_at >= ? AND created_at < ?",
				sess.RestaurantID, yearStart, yearStart.AddDate(1, 0, 0)).
				Order("order_seq DESC").
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Limit(1).
				Find(&last).Error; err != nil {
				return err
			}
			seq := last.OrderSeq + 1

			order = models.Order{
				RestaurantID: sess.RestaurantID,
				OrderNumber:  utils.GenOrderNumber(sess.RestaurantID, seq, now),
				OrderSeq:     seq,
				TableLabel:   strings.TrimSpace(in.TableLabel),
				CustomerName: strings.TrimSpace(in.CustomerName),
				Status:       models.OrderPending,
				Subtotal:     totals.Subtotal,
				Tax:          totals.Tax,
				Discount:     totals.Discount,
				Total:        totals.Total,
				CreatedByID:  sess.UserID,
				Items:        items,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			return tx.Create(&order).Error
		})
		if lastErr == nil || !isUniqueViolation(lastErr) {
			break
		}
		s.log.Warn("order number collision, retrying", "restaurant_id", sess.RestaurantID)
	}
	if lastErr != nil {
		return OrderView{}, dbError(lastErr, "order")
	}

	s.publish(ctx, notifier.EventOrderCreated, order)
	return newOrderView(order), nil
}

// RecordPayment stores the payment and marks the order completed with the
// payment's method. Partial amounts complete the order too.
func (s *orderService) RecordPayment(ctx context.Context, sess models.Session, orderID uint, in PaymentInput) (OrderView, error) {
	if !in.Amount.IsPositive() {
		return OrderView{}, invalid("amount", "must be greater than zero")
	}
	if !isCents(in.Amount) {
		return OrderView{}, invalid("amount", "must have at most 2 decimal places")
	}
	in.Method = models.PaymentMethod(strings.ToLower(strings.TrimSpace(string(in.Method))))
	if !in.Method.Valid() {
		return OrderView{}, invalid("method", "unknown payment method %q", in.Method)
	}

	var before models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND restaurant_id = ?", orderID, sess.RestaurantID).
			First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("order", orderID)
			}
			return err
		}
		if o.Status == models.OrderCancelled {
			return invalid("status", "order %s is cancelled", o.OrderNumber)
		}
		before = o.Status

		now := s.now()
		if err := tx.Create(&models.Payment{
			OrderID:      o.ID,
			RestaurantID: sess.RestaurantID,
			Amount:       in.Amount,
			Method:       in.Method,
			ReceivedByID: sess.UserID,
			PaidAt:       now,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&o).Updates(map[string]any{
			"status":         models.OrderCompleted,
			"payment_method": in.Method,
			"updated_at":     now,
		}).Error
	})
	if err != nil {
		return OrderView{}, dbError(err, "payment")
	}

	view, err := s.GetOrder(ctx, sess, orderID)
	if err != nil {
		return OrderView{}, err
	}
	if before != models.OrderCompleted {
		s.publish(ctx, notifier.EventOrderCompleted, view.Order)
	}
	return view, nil
}

// UpdateStatus only models pending → cancelled.
func (s *orderService) UpdateStatus(ctx context.Context, sess models.Session, orderID uint, status models.OrderStatus) (OrderView, error) {
	status = models.OrderStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if status != models.OrderCancelled {
		return OrderView{}, invalid("status", "only %q can be set directly", models.OrderCancelled)
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND restaurant_id = ? AND status = ?", orderID, sess.RestaurantID, models.OrderPending).
		Updates(map[string]any{"status": status, "updated_at": s.now()})
	if res.Error != nil {
		return OrderView{}, dbError(res.Error, "order")
	}

	view, err := s.GetOrder(ctx, sess, orderID)
	if err != nil {
		return OrderView{}, err
	}
	if res.RowsAffected == 0 {
		return OrderView{}, invalid("status", "order %s is %s, not pending", view.OrderNumber, view.Status)
	}
	s.publish(ctx, notifier.EventOrderCancelled, view.Order)
	return view, nil
}

func (s *orderService) GetOrder(ctx context.Context, sess models.Session, orderID uint) (OrderView, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payments.paid_at ASC, payments.id ASC") }).
		Where("id = ? AND restaurant_id = ?", orderID, sess.RestaurantID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderView{}, notFound("order", orderID)
	}
	if err != nil {
		return OrderView{}, dbError(err, "order")
	}
	return newOrderView(o), nil
}

func (s *orderService) ListOrders(ctx context.Context, sess models.Session, f OrderFilter) ([]OrderView, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 || f.PageSize > 200 {
		f.PageSize = 50
	}

	q := s.db.WithContext(ctx).Model(&models.Order{}).Where("restaurant_id = ?", sess.RestaurantID)
	if st := strings.ToLower(strings.TrimSpace(f.Status)); st != "" {
		switch models.OrderStatus(st) {
		case models.OrderPending, models.OrderCompleted, models.OrderCancelled:
			q = q.Where("status = ?", st)
		default:
			return nil, 0, invalid("status", "unknown order status %q", f.Status)
		}
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "order")
	}

	var rows []models.Order
	if err := q.Preload("Items").Preload("Payments").
		Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, dbError(err, "order")
	}
	out := make([]OrderView, 0, len(rows))
	for _, o := range rows {
		out = append(out, newOrderView(o))
	}
	return out, total, nil
}

// publish never fails the request; the order is already committed.
func (s *orderService) publish(ctx context.Context, eventType string, o models.Order) {
	ev := notifier.OrderEvent{
		Type:         eventType,
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		RestaurantID: o.RestaurantID,
		Status:       string(o.Status),
		Total:        o.Total.StringFixed(2),
		OccurredAt:   s.now(),
	}
	if err := s.events.PublishOrderEvent(ctx, ev); err != nil {
		s.log.Error("publish order event", "type", eventType, "order_number", o.OrderNumber, "error", err)
	}
}
