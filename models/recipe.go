package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is a sellable dish.
type Recipe struct {
	ID           uint               `gorm:"primaryKey"                 json:"id"`
	RestaurantID uint               `gorm:"index;not null"             json:"restaurant_id"`
	Name         string             `gorm:"size:180;not null"          json:"name"`
	Category     string             `gorm:"size:80;index"              json:"category"`
	Description  string             `gorm:"type:text"                  json:"description"`
	SellingPrice decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"selling_price"`
	IsActive     bool               `gorm:"not null"                   json:"is_active"`
	Ingredients  []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE;" json:"ingredients"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type RecipeIngredient struct {
	ID           uint            `gorm:"primaryKey"                                     json:"id"`
	RecipeID     uint            `gorm:"uniqueIndex:idx_recipe_ingredient;not null"     json:"recipe_id"`
	IngredientID uint            `gorm:"uniqueIndex:idx_recipe_ingredient;not null"     json:"ingredient_id"`
	Ingredient   *Ingredient     `gorm:"constraint:OnDelete:RESTRICT;"                  json:"ingredient,omitempty"`
	Quantity     decimal.Decimal `gorm:"type:numeric(14,4);not null"                    json:"quantity"`
}
