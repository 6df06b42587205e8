package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type DigitalMenu struct {
	ID           uint              `gorm:"primaryKey"            json:"id"`
	RestaurantID uint              `gorm:"index;not null"        json:"restaurant_id"`
	Restaurant   *Restaurant       `json:"restaurant,omitempty"`
	Name         string            `gorm:"size:180;not null"     json:"name"`
	Description  string            `gorm:"type:text"             json:"description"`
	IsPublished  bool              `gorm:"not null;default:false" json:"is_published"`
	Settings     datatypes.JSONMap `gorm:"type:jsonb"            json:"settings"` // theme, colours, footer text
	Items        []DigitalMenuItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type DigitalMenuItem struct {
	ID            uint                `gorm:"primaryKey"                         json:"id"`
	DigitalMenuID uint                `gorm:"uniqueIndex:idx_menu_recipe;not null" json:"digital_menu_id"`
	RecipeID      uint                `gorm:"uniqueIndex:idx_menu_recipe;not null" json:"recipe_id"`
	Recipe        *Recipe             `gorm:"constraint:OnDelete:CASCADE;"       json:"recipe,omitempty"`
	Position      int                 `gorm:"not null;default:0"                 json:"position"`
	DisplayPrice  decimal.NullDecimal `gorm:"type:numeric(12,2)"                 json:"display_price"`
}
