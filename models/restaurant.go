package models

import "time"

// Restaurant is the tenant root. Every other row points back here.
type Restaurant struct {
	ID        uint      `gorm:"primaryKey"                  json:"id"`
	Name      string    `gorm:"size:180;not null"           json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	Currency  string    `gorm:"size:3;not null;default:MXN" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
