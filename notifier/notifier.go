package notifier

import (
	"context"
	"time"
)

// OrderEvent is published whenever an order is created or changes status.
type OrderEvent struct {
	Type         string    `json:"type"` // order.created, order.completed, order.cancelled
	OrderID      uint      `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	RestaurantID uint      `json:"restaurant_id"`
	Status       string    `json:"status"`
	Total        string    `json:"total"`
	OccurredAt   time.Time `json:"occurred_at"`
}

const (
	EventOrderCreated   = "order.created"
	EventOrderCompleted = "order.completed"
	EventOrderCancelled = "order.cancelled"
)

type Publisher interface {
	PublishOrderEvent(ctx context.Context, ev OrderEvent) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderEvent(context.Context, OrderEvent) error { return nil }
func (Nop) Close() error                                       { return nil }
