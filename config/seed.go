package config

import (
	"fmt"

	"github.com/iluvios/menumagic-sub001/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DemoSlug     = "demo-bistro"
	DemoEmail    = "owner@demo-bistro.test"
	DemoPassword = "demo-password"
)

// SeedDemo creates a demo tenant with a few ingredients and dishes. Running it
// twice is a no-op.
func SeedDemo(db *gorm.DB) error {
	var cnt int64
	if err := db.Model(&models.Restaurant{}).Where("slug = ?", DemoSlug).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		r := models.Restaurant{Name: "Demo Bistro", Slug: DemoSlug, Currency: "MXN"}
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		owner := models.User{
			RestaurantID: r.ID,
			Email:        DemoEmail,
			FullName:     "Demo Owner",
			Role:         models.RoleOwner,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		sup := models.Supplier{RestaurantID: r.ID, Name: "Mercado Central", ContactName: "Luis", Phone: "555-0100"}
		if err := tx.Create(&sup).Error; err != nil {
			return err
		}

		// cost per gram = purchase cost / grams per kg bag
		flour := models.Ingredient{
			RestaurantID:     r.ID,
			SupplierID:       &sup.ID,
			Name:             "Flour",
			PurchaseUnit:     "kg",
			StorageUnit:      "g",
			ConversionFactor: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
			PurchaseUnitCost: decimal.NewNullDecimal(decimal.RequireFromString("24.00")),
			ParLevel:         decimal.NewFromInt(2000),
		}
		tomato := models.Ingredient{
			RestaurantID: r.ID,
			SupplierID:   &sup.ID,
			Name:         "Tomato sauce",
			StorageUnit:  "ml",
			CostPerUnit:  decimal.NewNullDecimal(decimal.RequireFromString("0.05")),
			ParLevel:     decimal.NewFromInt(1000),
		}
		for _, ing := range []*models.Ingredient{&flour, &tomato} {
			if err := tx.Create(ing).Error; err != nil {
				return err
			}
		}

		pizza := models.Recipe{
			RestaurantID: r.ID,
			Name:         "Pizza margherita",
			Category:     "mains",
			SellingPrice: decimal.RequireFromString("149.00"),
			IsActive:     true,
			Ingredients: []models.RecipeIngredient{
				{IngredientID: flour.ID, Quantity: decimal.NewFromInt(250)},
				{IngredientID: tomato.ID, Quantity: decimal.NewFromInt(120)},
			},
		}
		if err := tx.Create(&pizza).Error; err != nil {
			return err
		}

		menu := models.DigitalMenu{
			RestaurantID: r.ID,
			Name:         "Carta",
			IsPublished:  true,
			Items:        []models.DigitalMenuItem{{RecipeID: pizza.ID, Position: 1}},
		}
		return tx.Create(&menu).Error
	})
}
