//go:build integration

package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/iluvios/menumagic-sub001/config"
	"github.com/iluvios/menumagic-sub001/logger"
	"github.com/iluvios/menumagic-sub001/models"
	"github.com/iluvios/menumagic-sub001/notifier"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("menumagic"),
		postgres.WithUsername("menumagic"),
		postgres.WithPassword("menumagic"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := config.ConnectDB(config.DatabaseConfig{URL: connStr}, logger.New("error", "text", io.Discard))
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// tenant creates a restaurant with one owner and returns its session.
func tenant(t *testing.T, db *gorm.DB, slug string) models.Session {
	t.Helper()
	r := models.Restaurant{Name: slug, Slug: slug, Currency: "MXN"}
	require.NoError(t, db.Create(&r).Error)
	u := models.User{RestaurantID: r.ID, Email: slug + "@example.test", Role: models.RoleOwner, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return models.Session{UserID: u.ID, RestaurantID: r.ID}
}

func newIngredient(t *testing.T, svc IngredientService, sess models.Session, name, cost string) IngredientView {
	t.Helper()
	ing, err := svc.Create(context.Background(), sess, IngredientInput{
		Name:        name,
		StorageUnit: "g",
		CostPerUnit: decimal.NullDecimal{Decimal: decimal.RequireFromString(cost), Valid: true},
	})
	require.NoError(t, err)
	return ing
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notifier.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, ev notifier.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := setupTestDB(t)
	ctx := context.Background()

	ingredients := NewIngredientService(db)
	inventory := NewInventoryService(db, false)
	recipes := NewRecipeService(db)
	events := &recordingPublisher{}
	orders := NewOrderService(db, DefaultTaxRate, events, logger.New("error", "text", io.Discard))
	menus := NewMenuService(db)
	reports := NewService(db)

	sess := tenant(t, db, "bistro-one")
	other := tenant(t, db, "bistro-two")

	t.Run("adjustments accumulate", func(t *testing.T) {
		ing := newIngredient(t, ingredients, sess, "Tomato", "0.05")

		_, err := inventory.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: decimal.NewFromInt(100), Reason: models.ReasonRestock})
		require.NoError(t, err)
		res, err := inventory.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: decimal.NewFromInt(-30), Reason: "WASTE"})
		require.NoError(t, err)

		assert.Equal(t, "70", res.StockLevel.CurrentQuantity.String())
		assert.Equal(t, models.ReasonWaste, res.Adjustment.Reason)
		require.NotNil(t, res.Adjustment.CreatedByID)
		assert.Equal(t, sess.UserID, *res.Adjustment.CreatedByID)

		history, err := inventory.History(ctx, sess, ing.ID, 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "-30", history[0].QuantityAdjusted.String())
		assert.Equal(t, "100", history[1].QuantityAdjusted.String())

		limited, err := inventory.History(ctx, sess, ing.ID, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("stock levels and stock report", func(t *testing.T) {
		anchovy, err := ingredients.Create(ctx, sess, IngredientInput{
			Name: "Stock anchovy", StorageUnit: "g",
			CostPerUnit: decimal.NullDecimal{Decimal: decimal.RequireFromString("0.50"), Valid: true},
			ParLevel:    decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		capers, err := ingredients.Create(ctx, sess, IngredientInput{
			Name: "Stock capers", StorageUnit: "g",
			CostPerUnit: decimal.NullDecimal{Decimal: decimal.RequireFromString("0.20"), Valid: true},
			ParLevel:    decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		pepper, err := ingredients.Create(ctx, sess, IngredientInput{
			Name: "Stock pepper", StorageUnit: "g", PurchaseUnit: "bag",
			ConversionFactor: decimal.NullDecimal{Decimal: decimal.NewFromInt(100), Valid: true},
			PurchaseUnitCost: decimal.NullDecimal{Decimal: decimal.RequireFromString("12.00"), Valid: true},
		})
		require.NoError(t, err)

		_, err = inventory.Adjust(ctx, sess, AdjustInput{IngredientID: anchovy.ID, Quantity: decimal.NewFromInt(4), Reason: models.ReasonRestock})
		require.NoError(t, err)
		_, err = inventory.Adjust(ctx, sess, AdjustInput{IngredientID: pepper.ID, Quantity: decimal.NewFromInt(50), Reason: models.ReasonRestock})
		require.NoError(t, err)

		levels, err := inventory.StockLevels(ctx, sess)
		require.NoError(t, err)
		byID := make(map[uint]StockLevelRow, len(levels))
		for _, row := range levels {
			byID[row.IngredientID] = row
		}
		require.Contains(t, byID, anchovy.ID)
		require.Contains(t, byID, capers.ID)
		require.Contains(t, byID, pepper.ID)

		assert.Equal(t, "4", byID[anchovy.ID].CurrentQuantity.String())
		assert.True(t, byID[anchovy.ID].Low)
		assert.True(t, byID[capers.ID].CurrentQuantity.IsZero())
		assert.Nil(t, byID[capers.ID].LastUpdatedAt)
		assert.True(t, byID[capers.ID].Low)
		assert.Equal(t, "50", byID[pepper.ID].CurrentQuantity.String())
		assert.False(t, byID[pepper.ID].Low)

		otherLevels, err := inventory.StockLevels(ctx, other)
		require.NoError(t, err)
		for _, row := range otherLevels {
			assert.NotEqual(t, anchovy.ID, row.IngredientID)
		}

		report, total, err := reports.StockReport(ctx, sess, StockReportFilter{Query: "stock ", SortBy: "name"})
		require.NoError(t, err)
		require.EqualValues(t, 3, total)
		require.Len(t, report, 3)
		assert.Equal(t, "Stock anchovy", report[0].Name)
		assert.Equal(t, "0.50", report[0].UnitCost.StringFixed(2))
		assert.Equal(t, "2.00", report[0].StockValue.StringFixed(2))
		assert.True(t, report[0].Low)
		assert.Equal(t, "Stock capers", report[1].Name)
		assert.Equal(t, "0.00", report[1].StockValue.StringFixed(2))
		assert.Equal(t, "Stock pepper", report[2].Name)
		assert.Equal(t, "0.12", report[2].UnitCost.StringFixed(2))
		assert.Equal(t, "6.00", report[2].StockValue.StringFixed(2))
		assert.False(t, report[2].Low)

		low, total, err := reports.StockReport(ctx, sess, StockReportFilter{Query: "stock ", LowOnly: true, SortBy: "-value"})
		require.NoError(t, err)
		require.EqualValues(t, 2, total)
		require.Len(t, low, 2)
		assert.Equal(t, "Stock anchovy", low[0].Name)
		assert.Equal(t, "Stock capers", low[1].Name)

		paged, total, err := reports.StockReport(ctx, sess, StockReportFilter{Query: "stock ", SortBy: "name", Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, paged, 1)
		assert.Equal(t, "Stock pepper", paged[0].Name)
	})

	t.Run("level equals sum of adjustments", func(t *testing.T) {
		ing := newIngredient(t, ingredients, sess, "Basil", "0.30")
		sum := decimal.Zero
		for _, q := range []string{"12.5", "-2.25", "40", "-0.25", "3"} {
			d := decimal.RequireFromString(q)
			sum = sum.Add(d)
			_, err := inventory.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: d, Reason: models.ReasonCountCorrection})
			require.NoError(t, err)
		}
		var level models.InventoryStockLevel
		require.NoError(t, db.Where("ingredient_id = ?", ing.ID).First(&level).Error)
		assert.True(t, sum.Equal(level.CurrentQuantity), "want %s got %s", sum, level.CurrentQuantity)
	})

	t.Run("negative stock is rejected and nothing is written", func(t *testing.T) {
		ing := newIngredient(t, ingredients, sess, "Mozzarella", "0.21")
		_, err := inventory.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: decimal.NewFromInt(5), Reason: models.ReasonRestock})
		require.NoError(t, err)

		_, err = inventory.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: decimal.NewFromInt(-8), Reason: models.ReasonSpoilage})
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.ErrorIs(t, err, ErrValidation)

		history, err := inventory.History(ctx, sess, ing.ID, 0)
		require.NoError(t, err)
		assert.Len(t, history, 1)

		lenient := NewInventoryService(db, true)
		res, err := lenient.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: decimal.NewFromInt(-8), Reason: models.ReasonSpoilage})
		require.NoError(t, err)
		assert.Equal(t, "-3", res.StockLevel.CurrentQuantity.String())
	})

	t.Run("adjust validates input", func(t *testing.T) {
		ing := newIngredient(t, ingredients, sess, "Salt", "0.01")
		_, err := inventory.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: decimal.Zero, Reason: models.ReasonRestock})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = inventory.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: decimal.NewFromInt(1), Reason: "gift"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		ing := newIngredient(t, ingredients, sess, "Olive oil", "0.12")

		_, err := inventory.Adjust(ctx, other, AdjustInput{IngredientID: ing.ID, Quantity: decimal.NewFromInt(1), Reason: models.ReasonRestock})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = inventory.History(ctx, other, ing.ID, 0)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = ingredients.Get(ctx, other, ing.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		var n int64
		require.NoError(t, db.Model(&models.InventoryAdjustment{}).Where("ingredient_id = ?", ing.ID).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("ingredient with history cannot be deleted", func(t *testing.T) {
		ing := newIngredient(t, ingredients, sess, "Yeast", "0.40")
		_, err := inventory.Adjust(ctx, sess, AdjustInput{IngredientID: ing.ID, Quantity: decimal.NewFromInt(2), Reason: models.ReasonRestock})
		require.NoError(t, err)
		assert.ErrorIs(t, ingredients.Delete(ctx, sess, ing.ID), ErrConflict)
	})

	t.Run("deleting a supplier detaches its ingredients", func(t *testing.T) {
		suppliers := NewSupplierService(db)
		sup, err := suppliers.Create(ctx, sess, SupplierInput{Name: "Molino Rojo"})
		require.NoError(t, err)

		flour, err := ingredients.Create(ctx, sess, IngredientInput{
			Name:        "Flour",
			SupplierID:  &sup.ID,
			StorageUnit: "g",
			CostPerUnit: decimal.NullDecimal{Decimal: decimal.RequireFromString("0.002"), Valid: true},
		})
		require.NoError(t, err)
		require.NotNil(t, flour.SupplierID)

		assert.ErrorIs(t, suppliers.Delete(ctx, other, sup.ID), ErrNotFound)
		require.NoError(t, suppliers.Delete(ctx, sess, sup.ID))

		got, err := ingredients.Get(ctx, sess, flour.ID)
		require.NoError(t, err)
		assert.Nil(t, got.SupplierID)
	})

	var pizza RecipeView
	t.Run("recipe cost roll-up", func(t *testing.T) {
		cheese := newIngredient(t, ingredients, sess, "Parmesan", "2.00")
		herbs := newIngredient(t, ingredients, sess, "Oregano", "1.50")

		var err error
		pizza, err = recipes.Create(ctx, sess, RecipeInput{
			Name:         "Pizza bianca",
			Category:     "Pizza",
			SellingPrice: decimal.RequireFromString("36"),
			Ingredients: []RecipeIngredientInput{
				{IngredientID: herbs.ID, Quantity: decimal.NewFromInt(2)},
				{IngredientID: cheese.ID, Quantity: decimal.NewFromInt(3)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "9.00", pizza.Cost.StringFixed(2))
		assert.False(t, pizza.CostIncomplete)
		require.NotNil(t, pizza.Margin)
		assert.Equal(t, "0.75", pizza.Margin.StringFixed(2))
		assert.Len(t, pizza.CostBreakdown, 2)

		assert.ErrorIs(t, ingredients.Delete(ctx, sess, herbs.ID), ErrConflict)
		again, err := recipes.Get(ctx, sess, pizza.ID)
		require.NoError(t, err)
		assert.Equal(t, "9.00", again.Cost.StringFixed(2))

		_, err = recipes.Create(ctx, sess, RecipeInput{
			Name:        "Twice",
			Ingredients: []RecipeIngredientInput{{IngredientID: cheese.ID, Quantity: decimal.NewFromInt(1)}, {IngredientID: cheese.ID, Quantity: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, ErrValidation)

		foreign := newIngredient(t, ingredients, other, "Foreign", "1")
		_, err = recipes.Create(ctx, sess, RecipeInput{
			Name:        "Borrowed",
			Ingredients: []RecipeIngredientInput{{IngredientID: foreign.ID, Quantity: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, ErrValidation)

		rows, total, err := reports.RecipeCostReport(ctx, sess, RecipeCostFilter{Query: "bianca"})
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		assert.Equal(t, "9.00", rows[0].Cost.StringFixed(2))
		require.NotNil(t, rows[0].MarginPercentage)
		assert.Equal(t, "75.00", rows[0].MarginPercentage.StringFixed(2))
	})

	t.Run("order lifecycle", func(t *testing.T) {
		side, err := recipes.Create(ctx, sess, RecipeInput{Name: "Garlic bread", Category: "Sides", SellingPrice: decimal.NewFromInt(5)})
		require.NoError(t, err)

		order, err := orders.CreateOrder(ctx, sess, CreateOrderInput{
			TableLabel: "T4",
			Items: []OrderItemInput{
				{RecipeID: pizza.ID, Quantity: 2, UnitPrice: decimal.NullDecimal{Decimal: decimal.NewFromInt(10), Valid: true}},
				{RecipeID: side.ID, Quantity: 1},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, order.Status)
		assert.Equal(t, "25.00", order.Subtotal.StringFixed(2))
		assert.Equal(t, "4.00", order.Tax.StringFixed(2))
		assert.Equal(t, "29.00", order.Total.StringFixed(2))
		assert.Regexp(t, `^ORD-\d+-\d{4}-000001$`, order.OrderNumber)

		paid, err := orders.RecordPayment(ctx, sess, order.ID, PaymentInput{Amount: decimal.NewFromInt(10), Method: models.PaymentCard})
		require.NoError(t, err)
		assert.Equal(t, models.OrderCompleted, paid.Status)
		require.NotNil(t, paid.PaymentMethod)
		assert.Equal(t, models.PaymentCard, *paid.PaymentMethod)
		assert.Equal(t, "10.00", paid.AmountPaid.StringFixed(2))
		assert.Equal(t, "19.00", paid.BalanceDue.StringFixed(2))

		_, err = orders.UpdateStatus(ctx, sess, order.ID, models.OrderCancelled)
		assert.ErrorIs(t, err, ErrValidation)

		second, err := orders.CreateOrder(ctx, sess, CreateOrderInput{Items: []OrderItemInput{{RecipeID: side.ID, Quantity: 1}}})
		require.NoError(t, err)
		assert.Regexp(t, `-000002$`, second.OrderNumber)

		cancelled, err := orders.UpdateStatus(ctx, sess, second.ID, models.OrderCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, cancelled.Status)

		_, err = orders.RecordPayment(ctx, sess, second.ID, PaymentInput{Amount: decimal.NewFromInt(5), Method: models.PaymentCash})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = orders.RecordPayment(ctx, sess, order.ID, PaymentInput{Amount: decimal.Zero, Method: models.PaymentCash})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = orders.GetOrder(ctx, other, order.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = orders.CreateOrder(ctx, sess, CreateOrderInput{
			Discount: decimal.NewFromInt(100),
			Items:    []OrderItemInput{{RecipeID: side.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrValidation)

		assert.Equal(t, []string{
			notifier.EventOrderCreated,
			notifier.EventOrderCompleted,
			notifier.EventOrderCreated,
			notifier.EventOrderCancelled,
		}, events.types())

		now := time.Now().UTC()
		sum, err := reports.SalesSummary(ctx, sess, now.Add(-time.Hour), now.Add(time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, sum.Orders)
		assert.EqualValues(t, 1, sum.Cancelled)
		assert.Equal(t, "29.00", sum.Total.StringFixed(2))
		require.Len(t, sum.ByMethod, 1)
		assert.Equal(t, "card", sum.ByMethod[0].Method)
		assert.Equal(t, "10.00", sum.ByMethod[0].Collected.StringFixed(2))

		nextYear := NewOrderService(db, DefaultTaxRate, notifier.Nop{}, logger.New("error", "text", io.Discard)).(*orderService)
		nextYear.now = func() time.Time { return time.Date(now.Year()+1, time.January, 2, 12, 0, 0, 0, time.UTC) }
		fresh, err := nextYear.CreateOrder(ctx, sess, CreateOrderInput{Items: []OrderItemInput{{RecipeID: side.ID, Quantity: 1}}})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-%d-%d-000001", sess.RestaurantID, now.Year()+1), fresh.OrderNumber)

		_, err = orders.CreateOrder(ctx, sess, CreateOrderInput{
			Discount: decimal.RequireFromString("0.005"),
			Items:    []OrderItemInput{{RecipeID: side.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("public menu only when published", func(t *testing.T) {
		menu, err := menus.Create(ctx, sess, MenuInput{Name: "Dinner", Settings: map[string]any{"accent_color": "#123456"}})
		require.NoError(t, err)
		_, err = menus.SetItems(ctx, sess, menu.ID, []MenuItemInput{{RecipeID: pizza.ID}})
		require.NoError(t, err)

		_, err = menus.Public(ctx, menu.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = menus.SetPublished(ctx, sess, menu.ID, true)
		require.NoError(t, err)

		public, err := menus.Public(ctx, menu.ID)
		require.NoError(t, err)
		assert.Equal(t, "bistro-one", public.RestaurantName)
		require.Len(t, public.Sections, 1)
		assert.Equal(t, "Pizza", public.Sections[0].Category)
		assert.Equal(t, "36.00", public.Sections[0].Dishes[0].Price.StringFixed(2))
		assert.Equal(t, "#123456", public.Settings["accent_color"])
	})
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := setupTestDB(t)
	require.NoError(t, config.SeedDemo(db))
	require.NoError(t, config.SeedDemo(db))

	var n int64
	require.NoError(t, db.Model(&models.Restaurant{}).Where("slug = ?", config.DemoSlug).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	user, err := NewAuthService(db).Login(context.Background(), LoginInput{Email: config.DemoEmail, Password: config.DemoPassword})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, user.Role)

	_, err = NewAuthService(db).Login(context.Background(), LoginInput{Email: config.DemoEmail, Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}
