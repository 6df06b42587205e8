package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentOther    PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentOther:
		return true
	}
	return false
}

type Order struct {
	ID            uint            `gorm:"primaryKey"                          json:"id"`
	RestaurantID  uint            `gorm:"index;not null"                      json:"restaurant_id"`
	OrderNumber   string          `gorm:"uniqueIndex;size:40;not null"        json:"order_number"`
	OrderSeq      uint            `gorm:"not null;index"                      json:"-"`
	TableLabel    string          `gorm:"size:40"                             json:"table_label"`
	CustomerName  string          `gorm:"size:180"                            json:"customer_name"`
	Status        OrderStatus     `gorm:"size:12;not null;index;default:pending" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null"         json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:numeric(12,2);not null"         json:"tax"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null"         json:"total"`
	PaymentMethod *PaymentMethod  `gorm:"size:20"                             json:"payment_method"`
	CreatedByID   uint            `gorm:"index"                               json:"created_by_id"`
	Items         []OrderItem     `gorm:"constraint:OnDelete:CASCADE;"        json:"items"`
	Payments      []Payment       `gorm:"constraint:OnDelete:CASCADE;"        json:"payments,omitempty"`
	CreatedAt     time.Time       `gorm:"index"                               json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	OrderID   uint            `gorm:"index;not null"              json:"order_id"`
	RecipeID  uint            `gorm:"index;not null"              json:"recipe_id"`
	Name      string          `gorm:"size:180;not null"           json:"name"` // snapshot at order time
	Quantity  int64           `gorm:"not null"                    json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
}

type Payment struct {
	ID           uint            `gorm:"primaryKey"                  json:"id"`
	OrderID      uint            `gorm:"index;not null"              json:"order_id"`
	RestaurantID uint            `gorm:"index;not null"              json:"restaurant_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method       PaymentMethod   `gorm:"size:20;not null"            json:"method"`
	ReceivedByID uint            `gorm:"index"                       json:"received_by_id"`
	PaidAt       time.Time       `gorm:"not null"                    json:"paid_at"`
	CreatedAt    time.Time       `json:"created_at"`
}
