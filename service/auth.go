package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iluvios/menumagic-sub001/models"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type RegisterInput struct {
	RestaurantName string `json:"restaurant_name" binding:"required"`
	Currency       string `json:"currency"`
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthService interface {
	// Register creates a restaurant together with its owner account.
	Register(ctx context.Context, in RegisterInput) (models.User, error)
	Login(ctx context.Context, in LoginInput) (models.User, error)
	Me(ctx context.Context, s models.Session) (models.User, error)
}

type authService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) AuthService { return &authService{db: db} }

func (s *authService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.RestaurantName = strings.TrimSpace(in.RestaurantName)
	if in.RestaurantName == "" {
		return models.User{}, invalid("restaurant_name", "is required")
	}
	if in.Email == "" {
		return models.User{}, invalid("email", "is required")
	}
	if len(in.Password) < minPasswordLength {
		return models.User{}, invalid("password", "must be at least %d characters", minPasswordLength)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "MXN"
	}
	if len(currency) != 3 {
		return models.User{}, invalid("currency", "must be a 3-letter code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("%w: email already registered", ErrConflict)
		}

		slug := utils.Slugify(in.RestaurantName)
		if slug == "" {
			slug = "restaurant"
		}
		var clash int64
		if err := tx.Model(&models.Restaurant{}).Where("slug = ?", slug).Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			slug = slug + "-" + uuid.NewString()[:8]
		}

		rest := models.Restaurant{Name: in.RestaurantName, Slug: slug, Currency: currency}
		if err := tx.Create(&rest).Error; err != nil {
			return err
		}
		user = models.User{
			RestaurantID: rest.ID,
			Email:        in.Email,
			FullName:     strings.TrimSpace(in.FullName),
			Role:         models.RoleOwner,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		user.Restaurant = &rest
		return nil
	})
	if err != nil {
		return models.User{}, dbError(err, "user")
	}
	return user, nil
}

// Login answers every failure with ErrAuthenticationRequired so callers
// cannot probe which emails exist.
func (s *authService) Login(ctx context.Context, in LoginInput) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	var user models.User
	err := s.db.WithContext(ctx).Preload("Restaurant").
		Where("email = ? AND is_active = ?", email, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrAuthenticationRequired
	}
	if err != nil {
		return models.User{}, dbError(err, "user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return models.User{}, ErrAuthenticationRequired
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return models.User{}, dbError(err, "user")
	}
	user.LastLoginAt = &now
	return user, nil
}

func (s *authService) Me(ctx context.Context, sess models.Session) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Restaurant").
		Where("id = ? AND restaurant_id = ? AND is_active = ?", sess.UserID, sess.RestaurantID, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrAuthenticationRequired
	}
	if err != nil {
		return models.User{}, dbError(err, "user")
	}
	return user, nil
}
