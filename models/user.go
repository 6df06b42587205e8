package models

import "time"

type UserRole string

const (
	RoleOwner UserRole = "owner"
	RoleStaff UserRole = "staff"
)

type User struct {
	ID           uint       `gorm:"primaryKey"                json:"id"`
	RestaurantID uint       `gorm:"index;not null"            json:"restaurant_id"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`
	Email        string     `gorm:"uniqueIndex;size:180;not null" json:"email"`
	FullName     string     `gorm:"size:180"                  json:"full_name"`
	Role         UserRole   `gorm:"size:20;not null;default:staff" json:"role"`
	PasswordHash string     `gorm:"size:255"                  json:"-"` // never sent to the client
	IsActive     bool       `gorm:"default:true"              json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Session is the authenticated identity carried by a request. Handlers pass it
// explicitly to every service call; nothing reads it from ambient state.
type Session struct {
	UserID       uint `json:"userId"`
	RestaurantID uint `json:"restaurantId"`
}
