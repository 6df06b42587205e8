package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iluvios/menumagic-sub001/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MenuInput struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Settings    map[string]any `json:"settings"`
}

type MenuItemInput struct {
	RecipeID     uint                `json:"recipe_id" binding:"required"`
	Position     int                 `json:"position"`
	DisplayPrice decimal.NullDecimal `json:"display_price"`
}

// PublicMenu is what guests see when they scan the table QR code.
type PublicMenu struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	RestaurantName string         `json:"restaurant_name"`
	Currency       string         `json:"currency"`
	Settings       map[string]any `json:"settings"`
	Sections       []MenuSection  `json:"sections"`
}

type MenuSection struct {
	Category string       `json:"category"`
	Dishes   []PublicDish `json:"dishes"`
}

type PublicDish struct {
	RecipeID    uint            `json:"recipe_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type MenuService interface {
	List(ctx context.Context, s models.Session) ([]models.DigitalMenu, error)
	Get(ctx context.Context, s models.Session, id uint) (models.DigitalMenu, error)
	Create(ctx context.Context, s models.Session, in MenuInput) (models.DigitalMenu, error)
	Update(ctx context.Context, s models.Session, id uint, in MenuInput) (models.DigitalMenu, error)
	Delete(ctx context.Context, s models.Session, id uint) error
	SetItems(ctx context.Context, s models.Session, id uint, items []MenuItemInput) (models.DigitalMenu, error)
	SetPublished(ctx context.Context, s models.Session, id uint, published bool) (models.DigitalMenu, error)
	// Public needs no session; unpublished menus are reported as not found.
	Public(ctx context.Context, id uint) (PublicMenu, error)
}

type menuService struct{ db *gorm.DB }

func NewMenuService(db *gorm.DB) MenuService { return &menuService{db: db} }

func preloadMenuItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("digital_menu_items.position ASC, digital_menu_items.id ASC")
	}).Preload("Items.Recipe")
}

func (s *menuService) List(ctx context.Context, sess models.Session) ([]models.DigitalMenu, error) {
	out := make([]models.DigitalMenu, 0)
	if err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", sess.RestaurantID).
		Order("name ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, dbError(err, "menu")
	}
	return out, nil
}

func (s *menuService) Get(ctx context.Context, sess models.Session, id uint) (models.DigitalMenu, error) {
	var m models.DigitalMenu
	err := preloadMenuItems(s.db.WithContext(ctx)).
		Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, notFound("menu", id)
	}
	return m, dbError(err, "menu")
}

func (s *menuService) Create(ctx context.Context, sess models.Session, in MenuInput) (models.DigitalMenu, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.DigitalMenu{}, invalid("name", "is required")
	}
	m := models.DigitalMenu{
		RestaurantID: sess.RestaurantID,
		Name:         name,
		Description:  in.Description,
		Settings:     datatypes.JSONMap(in.Settings),
	}
	if m.Settings == nil {
		m.Settings = datatypes.JSONMap{}
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return m, dbError(err, "menu")
	}
	return s.Get(ctx, sess, m.ID)
}

func (s *menuService) Update(ctx context.Context, sess models.Session, id uint, in MenuInput) (models.DigitalMenu, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.DigitalMenu{}, invalid("name", "is required")
	}
	updates := map[string]any{"name": name, "description": in.Description}
	if in.Settings != nil {
		updates["settings"] = datatypes.JSONMap(in.Settings)
	}
	res := s.db.WithContext(ctx).Model(&models.DigitalMenu{}).
		Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).
		Updates(updates)
	if res.Error != nil {
		return models.DigitalMenu{}, dbError(res.Error, "menu")
	}
	if res.RowsAffected == 0 {
		return models.DigitalMenu{}, notFound("menu", id)
	}
	return s.Get(ctx, sess, id)
}

func (s *menuService) Delete(ctx context.Context, sess models.Session, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).Delete(&models.DigitalMenu{})
	if res.Error != nil {
		return dbError(res.Error, "menu")
	}
	if res.RowsAffected == 0 {
		return notFound("menu", id)
	}
	return nil
}

// SetItems replaces the menu's dish list. Positions default to list order.
func (s *menuService) SetItems(ctx context.Context, sess models.Session, id uint, items []MenuItemInput) (models.DigitalMenu, error) {
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it.RecipeID == 0 {
			return models.DigitalMenu{}, invalid("items", "recipe_id is required")
		}
		if seen[it.RecipeID] {
			return models.DigitalMenu{}, invalid("items", "recipe %d listed twice", it.RecipeID)
		}
		if it.DisplayPrice.Valid && it.DisplayPrice.Decimal.IsNegative() {
			return models.DigitalMenu{}, invalid("items", "display_price for recipe %d must not be negative", it.RecipeID)
		}
		seen[it.RecipeID] = true
		ids = append(ids, it.RecipeID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var menu models.DigitalMenu
		if err := tx.Select("id").Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).First(&menu).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("menu", id)
			}
			return err
		}
		if len(ids) > 0 {
			var n int64
			if err := tx.Model(&models.Recipe{}).Where("id IN ? AND restaurant_id = ?", ids, sess.RestaurantID).Count(&n).Error; err != nil {
				return err
			}
			if int(n) != len(ids) {
				return invalid("items", "unknown recipe in menu")
			}
		}
		if err := tx.Where("digital_menu_id = ?", id).Delete(&models.DigitalMenuItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		rows := make([]models.DigitalMenuItem, 0, len(items))
		for i, it := range items {
			pos := it.Position
			if pos == 0 {
				pos = i + 1
			}
			rows = append(rows, models.DigitalMenuItem{
				DigitalMenuID: id,
				RecipeID:      it.RecipeID,
				Position:      pos,
				DisplayPrice:  it.DisplayPrice,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return models.DigitalMenu{}, dbError(err, "menu")
	}
	return s.Get(ctx, sess, id)
}

func (s *menuService) SetPublished(ctx context.Context, sess models.Session, id uint, published bool) (models.DigitalMenu, error) {
	res := s.db.WithContext(ctx).Model(&models.DigitalMenu{}).
		Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).
		Update("is_published", published)
	if res.Error != nil {
		return models.DigitalMenu{}, dbError(res.Error, "menu")
	}
	if res.RowsAffected == 0 {
		return models.DigitalMenu{}, notFound("menu", id)
	}
	return s.Get(ctx, sess, id)
}

func (s *menuService) Public(ctx context.Context, id uint) (PublicMenu, error) {
	var m models.DigitalMenu
	err := preloadMenuItems(s.db.WithContext(ctx)).
		Preload("Restaurant").
		Where("id = ? AND is_published = ?", id, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PublicMenu{}, notFound("menu", id)
	}
	if err != nil {
		return PublicMenu{}, dbError(err, "menu")
	}
	return buildPublicMenu(m), nil
}

// buildPublicMenu groups active dishes by category, keeping the order in
// which each category first appears.
func buildPublicMenu(m models.DigitalMenu) PublicMenu {
	out := PublicMenu{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Settings:    map[string]any(m.Settings),
		Sections:    make([]MenuSection, 0),
	}
	if m.Restaurant != nil {
		out.RestaurantName = m.Restaurant.Name
		out.Currency = m.Restaurant.Currency
	}
	index := make(map[string]int)
	for _, it := range m.Items {
		if it.Recipe == nil || !it.Recipe.IsActive {
			continue
		}
		price := it.Recipe.SellingPrice
		if it.DisplayPrice.Valid {
			price = it.DisplayPrice.Decimal
		}
		cat := it.Recipe.Category
		if cat == "" {
			cat = "Other"
		}
		i, ok := index[cat]
		if !ok {
			i = len(out.Sections)
			index[cat] = i
			out.Sections = append(out.Sections, MenuSection{Category: cat})
		}
		out.Sections[i].Dishes = append(out.Sections[i].Dishes, PublicDish{
			RecipeID:    it.Recipe.ID,
			Name:        it.Recipe.Name,
			Description: it.Recipe.Description,
			Price:       price,
		})
	}
	return out
}
