package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iluvios/menumagic-sub001/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type IngredientInput struct {
	Name             string              `json:"name" binding:"required"`
	SupplierID       *uint               `json:"supplier_id"`
	PurchaseUnit     string              `json:"purchase_unit"`
	StorageUnit      string              `json:"storage_unit" binding:"required"`
	ConversionFactor decimal.NullDecimal `json:"conversion_factor"`
	PurchaseUnitCost decimal.NullDecimal `json:"purchase_unit_cost"`
	CostPerUnit      decimal.NullDecimal `json:"cost_per_unit"`
	ParLevel         decimal.Decimal     `json:"par_level"`
}

// IngredientView adds the derived storage-unit cost to an ingredient.
type IngredientView struct {
	models.Ingredient
	StorageUnitCost decimal.Decimal `json:"storage_unit_cost"`
	CostMissing     bool            `json:"cost_missing"`
}

func newIngredientView(ing models.Ingredient) IngredientView {
	cost, ok := ing.StorageUnitCost()
	return IngredientView{Ingredient: ing, StorageUnitCost: cost.Round(4), CostMissing: !ok}
}

type IngredientService interface {
	List(ctx context.Context, s models.Session, query string) ([]IngredientView, error)
	Get(ctx context.Context, s models.Session, id uint) (IngredientView, error)
	Create(ctx context.Context, s models.Session, in IngredientInput) (IngredientView, error)
	Update(ctx context.Context, s models.Session, id uint, in IngredientInput) (IngredientView, error)
	Delete(ctx context.Context, s models.Session, id uint) error
}

type ingredientService struct{ db *gorm.DB }

func NewIngredientService(db *gorm.DB) IngredientService { return &ingredientService{db: db} }

func validateIngredient(in IngredientInput) (IngredientInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.StorageUnit = strings.TrimSpace(in.StorageUnit)
	in.PurchaseUnit = strings.TrimSpace(in.PurchaseUnit)
	if in.Name == "" {
		return in, invalid("name", "is required")
	}
	if in.StorageUnit == "" {
		return in, invalid("storage_unit", "is required")
	}
	if in.ConversionFactor.Valid && !in.ConversionFactor.Decimal.IsPositive() {
		return in, invalid("conversion_factor", "must be greater than zero")
	}
	if in.PurchaseUnitCost.Valid && in.PurchaseUnitCost.Decimal.IsNegative() {
		return in, invalid("purchase_unit_cost", "must not be negative")
	}
	if in.CostPerUnit.Valid && in.CostPerUnit.Decimal.IsNegative() {
		return in, invalid("cost_per_unit", "must not be negative")
	}
	if in.PurchaseUnitCost.Valid && !in.ConversionFactor.Valid {
		return in, invalid("conversion_factor", "is required with purchase_unit_cost")
	}
	if !(in.ConversionFactor.Valid && in.PurchaseUnitCost.Valid) && !in.CostPerUnit.Valid {
		return in, invalid("cost_per_unit", "is required without conversion data")
	}
	if in.ParLevel.IsNegative() {
		return in, invalid("par_level", "must not be negative")
	}
	return in, nil
}

func (s *ingredientService) checkSupplier(tx *gorm.DB, sess models.Session, supplierID *uint) error {
	if supplierID == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&models.Supplier{}).
		Where("id = ? AND restaurant_id = ?", *supplierID, sess.RestaurantID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return invalid("supplier_id", "supplier %d does not exist", *supplierID)
	}
	return nil
}

func (s *ingredientService) List(ctx context.Context, sess models.Session, query string) ([]IngredientView, error) {
	q := s.db.WithContext(ctx).Preload("Supplier").Where("restaurant_id = ?", sess.RestaurantID)
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}
	var rows []models.Ingredient
	if err := q.Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, dbError(err, "ingredient")
	}
	out := make([]IngredientView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newIngredientView(r))
	}
	return out, nil
}

func (s *ingredientService) find(ctx context.Context, sess models.Session, id uint) (models.Ingredient, error) {
	var ing models.Ingredient
	err := s.db.WithContext(ctx).Preload("Supplier").
		Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).
		First(&ing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ing, notFound("ingredient", id)
	}
	return ing, dbError(err, "ingredient")
}

func (s *ingredientService) Get(ctx context.Context, sess models.Session, id uint) (IngredientView, error) {
	ing, err := s.find(ctx, sess, id)
	if err != nil {
		return IngredientView{}, err
	}
	return newIngredientView(ing), nil
}

func (in IngredientInput) apply(ing *models.Ingredient) {
	ing.Name = in.Name
	ing.SupplierID = in.SupplierID
	ing.Supplier = nil
	ing.PurchaseUnit = in.PurchaseUnit
	ing.StorageUnit = in.StorageUnit
	ing.ConversionFactor = in.ConversionFactor
	ing.PurchaseUnitCost = in.PurchaseUnitCost
	ing.CostPerUnit = in.CostPerUnit
	ing.ParLevel = in.ParLevel
}

func (s *ingredientService) Create(ctx context.Context, sess models.Session, in IngredientInput) (IngredientView, error) {
	in, err := validateIngredient(in)
	if err != nil {
		return IngredientView{}, err
	}
	ing := models.Ingredient{RestaurantID: sess.RestaurantID}
	in.apply(&ing)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkSupplier(tx, sess, in.SupplierID); err != nil {
			return err
		}
		return tx.Create(&ing).Error
	})
	if err != nil {
		return IngredientView{}, dbError(err, "ingredient")
	}
	return s.Get(ctx, sess, ing.ID)
}

func (s *ingredientService) Update(ctx context.Context, sess models.Session, id uint, in IngredientInput) (IngredientView, error) {
	in, err := validateIngredient(in)
	if err != nil {
		return IngredientView{}, err
	}
	ing, err := s.find(ctx, sess, id)
	if err != nil {
		return IngredientView{}, err
	}
	in.apply(&ing)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkSupplier(tx, sess, in.SupplierID); err != nil {
			return err
		}
		return tx.Save(&ing).Error
	})
	if err != nil {
		return IngredientView{}, dbError(err, "ingredient")
	}
	return s.Get(ctx, sess, id)
}

// Delete refuses ingredients that already have ledger history or are used by
// a recipe; neither the audit trail nor recipe costs change behind the user.
func (s *ingredientService) Delete(ctx context.Context, sess models.Session, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ing models.Ingredient
		if err := tx.Select("id").Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).First(&ing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("ingredient", id)
			}
			return err
		}
		var history int64
		if err := tx.Model(&models.InventoryAdjustment{}).Where("ingredient_id = ?", id).Count(&history).Error; err != nil {
			return err
		}
		if history > 0 {
			return fmt.Errorf("%w: ingredient %d has inventory history", ErrConflict, id)
		}
		var used int64
		if err := tx.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return fmt.Errorf("%w: ingredient %d is used by %d recipe(s)", ErrConflict, id, used)
		}
		return tx.Delete(&models.Ingredient{}, id).Error
	})
	return dbError(err, "ingredient")
}
