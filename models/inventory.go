package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReasonCode string

const (
	ReasonRestock         ReasonCode = "restock"
	ReasonWaste           ReasonCode = "waste"
	ReasonSpoilage        ReasonCode = "spoilage"
	ReasonCountCorrection ReasonCode = "count_correction"
	ReasonTransfer        ReasonCode = "transfer"
	ReasonSale            ReasonCode = "sale"
	ReasonOther           ReasonCode = "other"
)

var ReasonCodes = []ReasonCode{
	ReasonRestock,
	ReasonWaste,
	ReasonSpoilage,
	ReasonCountCorrection,
	ReasonTransfer,
	ReasonSale,
	ReasonOther,
}

func (r ReasonCode) Valid() bool {
	for _, c := range ReasonCodes {
		if r == c {
			return true
		}
	}
	return false
}

// InventoryStockLevel is the running sum of all adjustments for one
// ingredient. It is only ever changed by accumulation.
type InventoryStockLevel struct {
	ID              uint            `gorm:"primaryKey"                      json:"id"`
	RestaurantID    uint            `gorm:"index;not null"                  json:"restaurant_id"`
	IngredientID    uint            `gorm:"uniqueIndex;not null"            json:"ingredient_id"`
	Ingredient      *Ingredient     `gorm:"constraint:OnDelete:RESTRICT;"   json:"ingredient,omitempty"`
	CurrentQuantity decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"current_quantity"`
	LastUpdatedAt   time.Time       `gorm:"not null"                        json:"last_updated_at"`
}

// InventoryAdjustment is the audit trail. Rows are never updated or deleted.
type InventoryAdjustment struct {
	ID               uint            `gorm:"primaryKey"                   json:"id"`
	RestaurantID     uint            `gorm:"index;not null"               json:"restaurant_id"`
	IngredientID     uint            `gorm:"index;not null"               json:"ingredient_id"`
	Ingredient       *Ingredient     `gorm:"constraint:OnDelete:RESTRICT;" json:"ingredient,omitempty"`
	QuantityAdjusted decimal.Decimal `gorm:"type:numeric(14,4);not null"  json:"quantity_adjusted"`
	Reason           ReasonCode      `gorm:"size:40;not null;index"       json:"reason"`
	Note             *string         `gorm:"size:255"                     json:"note,omitempty"`
	CreatedByID      *uint           `gorm:"index"                        json:"created_by_id,omitempty"`
	CreatedAt        time.Time       `gorm:"not null;index"               json:"created_at"`
}
