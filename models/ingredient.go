package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is bought in PurchaseUnit and tracked in StorageUnit.
// ConversionFactor says how many storage units one purchase unit yields.
type Ingredient struct {
	ID               uint                `gorm:"primaryKey"               json:"id"`
	RestaurantID     uint                `gorm:"index;not null"           json:"restaurant_id"`
	SupplierID       *uint               `gorm:"index"                    json:"supplier_id"`
	Supplier         *Supplier           `gorm:"constraint:OnDelete:SET NULL;" json:"supplier,omitempty"`
	Name             string              `gorm:"size:180;not null"        json:"name"`
	PurchaseUnit     string              `gorm:"size:40"                  json:"purchase_unit"`
	StorageUnit      string              `gorm:"size:40;not null"         json:"storage_unit"`
	ConversionFactor decimal.NullDecimal `gorm:"type:numeric(14,4)"       json:"conversion_factor"`
	PurchaseUnitCost decimal.NullDecimal `gorm:"type:numeric(14,4)"       json:"purchase_unit_cost"`
	CostPerUnit      decimal.NullDecimal `gorm:"type:numeric(14,4)"       json:"cost_per_unit"`
	ParLevel         decimal.Decimal     `gorm:"type:numeric(14,4);not null;default:0" json:"par_level"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// StorageUnitCost derives the cost of one storage unit. The second return is
// false when the ingredient carries no usable cost data at all.
func (i Ingredient) StorageUnitCost() (decimal.Decimal, bool) {
	if i.ConversionFactor.Valid && i.PurchaseUnitCost.Valid && i.ConversionFactor.Decimal.IsPositive() {
		return i.PurchaseUnitCost.Decimal.Div(i.ConversionFactor.Decimal), true
	}
	if i.CostPerUnit.Valid {
		return i.CostPerUnit.Decimal, true
	}
	return decimal.Zero, false
}
