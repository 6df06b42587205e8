package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iluvios/menumagic-sub001/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
	maxNoteLength       = 255
	quantityScale       = 4 // numeric(14,4)
)

type AdjustInput struct {
	IngredientID uint              `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal   `json:"quantity"`
	Reason       models.ReasonCode `json:"reason" binding:"required"`
	Note         *string           `json:"note"`
}

type AdjustResult struct {
	Adjustment models.InventoryAdjustment `json:"adjustment"`
	StockLevel models.InventoryStockLevel `json:"stock_level"`
}

type StockLevelRow struct {
	IngredientID    uint            `json:"ingredient_id"`
	Name            string          `json:"name"`
	StorageUnit     string          `json:"storage_unit"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	ParLevel        decimal.Decimal `json:"par_level"`
	LastUpdatedAt   *time.Time      `json:"last_updated_at"`
	Low             bool            `json:"low" gorm:"-"`
}

type InventoryService interface {
	Adjust(ctx context.Context, s models.Session, in AdjustInput) (AdjustResult, error)
	History(ctx context.Context, s models.Session, ingredientID uint, limit int) ([]models.InventoryAdjustment, error)
	StockLevels(ctx context.Context, s models.Session) ([]StockLevelRow, error)
}

type inventoryService struct {
	db            *gorm.DB
	allowNegative bool
	now           func() time.Time
}

func NewInventoryService(db *gorm.DB, allowNegative bool) InventoryService {
	return &inventoryService{db: db, allowNegative: allowNegative, now: func() time.Time { return time.Now().UTC() }}
}

func normalizeAdjust(in AdjustInput) (AdjustInput, error) {
	if in.IngredientID == 0 {
		return in, invalid("ingredient_id", "is required")
	}
	if in.Quantity.IsZero() {
		return in, invalid("quantity", "must be non-zero")
	}
	if !in.Quantity.Equal(in.Quantity.Round(quantityScale)) {
		return in, invalid("quantity", "must have at most %d decimal places", quantityScale)
	}
	in.Reason = models.ReasonCode(strings.ToLower(strings.TrimSpace(string(in.Reason))))
	if !in.Reason.Valid() {
		return in, invalid("reason", "unknown reason code %q", in.Reason)
	}
	if in.Note != nil {
		note := strings.TrimSpace(*in.Note)
		switch {
		case note == "":
			in.Note = nil
		case len(note) > maxNoteLength:
			return in, invalid("note", "must be at most %d characters", maxNoteLength)
		default:
			in.Note = &note
		}
	}
	return in, nil
}

// Adjust appends one ledger row and folds its quantity into the stock level,
// both in one transaction. A failure at any step leaves neither behind.
func (s *inventoryService) Adjust(ctx context.Context, sess models.Session, in AdjustInput) (AdjustResult, error) {
	in, err := normalizeAdjust(in)
	if err != nil {
		return AdjustResult{}, err
	}

	var out AdjustResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ing models.Ingredient
		if err := tx.Select("id").
			Where("id = ? AND restaurant_id = ?", in.IngredientID, sess.RestaurantID).
			First(&ing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("ingredient", in.IngredientID)
			}
			return err
		}

		if !s.allowNegative && in.Quantity.IsNegative() {
			var current models.InventoryStockLevel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("ingredient_id = ?", ing.ID).
				Limit(1).
				Find(&current).Error; err != nil {
				return err
			}
			onHand := decimal.Zero
			if current.ID != 0 {
				onHand = current.CurrentQuantity
			}
			if onHand.Add(in.Quantity).IsNegative() {
				return fmt.Errorf("%w (on hand %s, requested %s)", ErrInsufficientStock, onHand, in.Quantity)
			}
		}

		now := s.now()
		adj := models.InventoryAdjustment{
			RestaurantID:     sess.RestaurantID,
			IngredientID:     ing.ID,
			QuantityAdjusted: in.Quantity,
			Reason:           in.Reason,
			Note:             in.Note,
			CreatedAt:        now,
		}
		if sess.UserID != 0 {
			uid := sess.UserID
			adj.CreatedByID = &uid
		}
		if err := tx.Create(&adj).Error; err != nil {
			return err
		}

		level := models.InventoryStockLevel{
			RestaurantID:    sess.RestaurantID,
			IngredientID:    ing.ID,
			CurrentQuantity: in.Quantity,
			LastUpdatedAt:   now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ingredient_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"current_quantity": gorm.Expr("inventory_stock_levels.current_quantity + excluded.current_quantity"),
				"last_updated_at":  now,
			}),
		}).Create(&level).Error; err != nil {
			return err
		}

		if err := tx.Where("ingredient_id = ?", ing.ID).First(&out.StockLevel).Error; err != nil {
			return err
		}
		out.Adjustment = adj
		return nil
	})
	if err != nil {
		return AdjustResult{}, dbError(err, "inventory adjustment")
	}
	return out, nil
}

// History returns the newest adjustments first.
func (s *inventoryService) History(ctx context.Context, sess models.Session, ingredientID uint, limit int) ([]models.InventoryAdjustment, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	db := s.db.WithContext(ctx)
	var exists int64
	if err := db.Model(&models.Ingredient{}).
		Where("id = ? AND restaurant_id = ?", ingredientID, sess.RestaurantID).
		Count(&exists).Error; err != nil {
		return nil, dbError(err, "ingredient")
	}
	if exists == 0 {
		return nil, notFound("ingredient", ingredientID)
	}

	rows := make([]models.InventoryAdjustment, 0)
	if err := db.Where("restaurant_id = ? AND ingredient_id = ?", sess.RestaurantID, ingredientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, dbError(err, "inventory adjustment")
	}
	return rows, nil
}

// StockLevels lists every ingredient of the restaurant with its on-hand
// quantity. Ingredients never adjusted report zero.
func (s *inventoryService) StockLevels(ctx context.Context, sess models.Session) ([]StockLevelRow, error) {
	rows := make([]StockLevelRow, 0)
	err := s.db.WithContext(ctx).
		Table("ingredients").
		Select(`
			ingredients.id AS ingredient_id,
			ingredients.name,
			ingredients.storage_unit,
			COALESCE(l.current_quantity, 0) AS current_quantity,
			ingredients.par_level,
			l.last_updated_at
		`).
		Joins("LEFT JOIN inventory_stock_levels l ON l.ingredient_id = ingredients.id").
		Where("ingredients.restaurant_id = ?", sess.RestaurantID).
		Order("ingredients.name ASC, ingredients.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "stock level")
	}
	for i := range rows {
		rows[i].Low = rows[i].CurrentQuantity.LessThan(rows[i].ParLevel)
	}
	return rows, nil
}
