package models

// All lists every model in migration order.
func All() []any {
	return []any{
		&Restaurant{},
		&User{},
		&Supplier{},
		&Ingredient{},
		&InventoryStockLevel{},
		&InventoryAdjustment{},
		&Recipe{},
		&RecipeIngredient{},
		&DigitalMenu{},
		&DigitalMenuItem{},
		&Order{},
		&OrderItem{},
		&Payment{},
	}
}
