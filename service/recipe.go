package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iluvios/menumagic-sub001/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecipeIngredientInput struct {
	IngredientID uint            `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type RecipeInput struct {
	Name         string                  `json:"name" binding:"required"`
	Category     string                  `json:"category"`
	Description  string                  `json:"description"`
	SellingPrice decimal.Decimal         `json:"selling_price"`
	IsActive     *bool                   `json:"is_active"`
	Ingredients  []RecipeIngredientInput `json:"ingredients" binding:"dive"`
}

// RecipeView is a recipe with its cost recomputed from current ingredient
// prices.
type RecipeView struct {
	models.Recipe
	Cost             decimal.Decimal  `json:"cost"`
	CostIncomplete   bool             `json:"cost_incomplete"`
	Margin           *decimal.Decimal `json:"margin"`
	MarginPercentage *decimal.Decimal `json:"margin_percentage"`
	CostBreakdown    []CostLine       `json:"cost_breakdown,omitempty"`
}

func newRecipeView(r models.Recipe, withBreakdown bool) RecipeView {
	cost := RollUpCost(r.Ingredients)
	total := cost.Total.Round(4)
	v := RecipeView{Recipe: r, Cost: total, CostIncomplete: cost.Incomplete}
	v.Margin, v.MarginPercentage = marginFields(r.SellingPrice, total)
	if withBreakdown {
		v.CostBreakdown = cost.Lines
	}
	return v
}

type RecipeService interface {
	List(ctx context.Context, s models.Session, category string, activeOnly bool) ([]RecipeView, error)
	Get(ctx context.Context, s models.Session, id uint) (RecipeView, error)
	Create(ctx context.Context, s models.Session, in RecipeInput) (RecipeView, error)
	Update(ctx context.Context, s models.Session, id uint, in RecipeInput) (RecipeView, error)
	Delete(ctx context.Context, s models.Session, id uint) error
	Cost(ctx context.Context, s models.Session, id uint) (CostBreakdown, error)
}

type recipeService struct{ db *gorm.DB }

func NewRecipeService(db *gorm.DB) RecipeService { return &recipeService{db: db} }

func preloadRecipeIngredients(db *gorm.DB) *gorm.DB {
	return db.Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("recipe_ingredients.id ASC")
	}).Preload("Ingredients.Ingredient")
}

func validateRecipe(in RecipeInput) (RecipeInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return in, invalid("name", "is required")
	}
	if in.SellingPrice.IsNegative() {
		return in, invalid("selling_price", "must not be negative")
	}
	seen := make(map[uint]bool, len(in.Ingredients))
	for _, link := range in.Ingredients {
		if link.IngredientID == 0 {
			return in, invalid("ingredients", "ingredient_id is required")
		}
		if seen[link.IngredientID] {
			return in, invalid("ingredients", "ingredient %d listed twice", link.IngredientID)
		}
		seen[link.IngredientID] = true
		if !link.Quantity.IsPositive() {
			return in, invalid("ingredients", "quantity for ingredient %d must be greater than zero", link.IngredientID)
		}
	}
	return in, nil
}

// replaceLinks swaps the recipe's ingredient links for the given ones. Every
// referenced ingredient must belong to the same restaurant.
func replaceLinks(tx *gorm.DB, sess models.Session, recipeID uint, links []RecipeIngredientInput) error {
	if len(links) > 0 {
		ids := make([]uint, 0, len(links))
		for _, l := range links {
			ids = append(ids, l.IngredientID)
		}
		var n int64
		if err := tx.Model(&models.Ingredient{}).
			Where("id IN ? AND restaurant_id = ?", ids, sess.RestaurantID).
			Count(&n).Error; err != nil {
			return err
		}
		if int(n) != len(ids) {
			return invalid("ingredients", "unknown ingredient in recipe")
		}
	}

	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, 0, len(links))
	for _, l := range links {
		rows = append(rows, models.RecipeIngredient{RecipeID: recipeID, IngredientID: l.IngredientID, Quantity: l.Quantity})
	}
	return tx.Create(&rows).Error
}

func (s *recipeService) find(ctx context.Context, sess models.Session, id uint) (models.Recipe, error) {
	var r models.Recipe
	err := preloadRecipeIngredients(s.db.WithContext(ctx)).
		Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r, notFound("recipe", id)
	}
	return r, dbError(err, "recipe")
}

func (s *recipeService) List(ctx context.Context, sess models.Session, category string, activeOnly bool) ([]RecipeView, error) {
	q := preloadRecipeIngredients(s.db.WithContext(ctx)).Where("restaurant_id = ?", sess.RestaurantID)
	if category = strings.TrimSpace(category); category != "" {
		q = q.Where("category = ?", category)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.Recipe
	if err := q.Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, dbError(err, "recipe")
	}
	out := make([]RecipeView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newRecipeView(r, false))
	}
	return out, nil
}

func (s *recipeService) Get(ctx context.Context, sess models.Session, id uint) (RecipeView, error) {
	r, err := s.find(ctx, sess, id)
	if err != nil {
		return RecipeView{}, err
	}
	return newRecipeView(r, true), nil
}

func (s *recipeService) Cost(ctx context.Context, sess models.Session, id uint) (CostBreakdown, error) {
	r, err := s.find(ctx, sess, id)
	if err != nil {
		return CostBreakdown{}, err
	}
	return RollUpCost(r.Ingredients), nil
}

func (s *recipeService) Create(ctx context.Context, sess models.Session, in RecipeInput) (RecipeView, error) {
	in, err := validateRecipe(in)
	if err != nil {
		return RecipeView{}, err
	}
	r := models.Recipe{
		RestaurantID: sess.RestaurantID,
		Name:         in.Name,
		Category:     in.Category,
		Description:  in.Description,
		SellingPrice: in.SellingPrice,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		return replaceLinks(tx, sess, r.ID, in.Ingredients)
	})
	if err != nil {
		return RecipeView{}, dbError(err, "recipe")
	}
	return s.Get(ctx, sess, r.ID)
}

func (s *recipeService) Update(ctx context.Context, sess models.Session, id uint, in RecipeInput) (RecipeView, error) {
	in, err := validateRecipe(in)
	if err != nil {
		return RecipeView{}, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":          in.Name,
			"category":      in.Category,
			"description":   in.Description,
			"selling_price": in.SellingPrice,
		}
		if in.IsActive != nil {
			updates["is_active"] = *in.IsActive
		}
		res := tx.Model(&models.Recipe{}).
			Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("recipe", id)
		}
		return replaceLinks(tx, sess, id, in.Ingredients)
	})
	if err != nil {
		return RecipeView{}, dbError(err, "recipe")
	}
	return s.Get(ctx, sess, id)
}

// Delete removes the recipe and its links. Past order lines keep their
// snapshot name and price.
func (s *recipeService) Delete(ctx context.Context, sess models.Session, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).Delete(&models.Recipe{})
	if res.Error != nil {
		return dbError(res.Error, "recipe")
	}
	if res.RowsAffected == 0 {
		return notFound("recipe", id)
	}
	return nil
}
