package models

import "time"

type Supplier struct {
	ID           uint      `gorm:"primaryKey"          json:"id"`
	RestaurantID uint      `gorm:"index;not null"      json:"restaurant_id"`
	Name         string    `gorm:"size:180;not null"   json:"name"`
	ContactName  string    `gorm:"size:180"            json:"contact_name"`
	Phone        string    `gorm:"size:60"             json:"phone"`
	Email        string    `gorm:"size:180"            json:"email"`
	Address      string    `gorm:"size:255"            json:"address"`
	Notes        string    `gorm:"type:text"           json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
