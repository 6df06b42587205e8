package routes

import (
	"github.com/iluvios/menumagic-sub001/controllers"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth        *controllers.AuthController
	Suppliers   *controllers.SupplierController
	Ingredients *controllers.IngredientController
	Inventory   *controllers.InventoryController
	Recipes     *controllers.RecipeController
	Orders      *controllers.OrderController
	Menus       *controllers.MenuController
	PublicMenu  *controllers.PublicMenuController
	Reports     *controllers.ReportsController
	Health      gin.HandlerFunc
}

func SetupRoutes(r *gin.Engine, h Handlers, sessionAuth gin.HandlerFunc) {
	if h.Health != nil {
		r.GET("/healthz", h.Health)
	}

	// Guest-facing page behind the table QR code
	r.GET("/menu/:id", h.PublicMenu.Show)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", sessionAuth, h.Auth.Me)
		}

		// Everything below needs a session
		secured := api.Group("/", sessionAuth)

		secured.POST("/qr", controllers.GenerateQRCode)

		suppliers := secured.Group("/suppliers")
		{
			suppliers.GET("", h.Suppliers.List)
			suppliers.GET("/:id", h.Suppliers.Get)
			suppliers.POST("", h.Suppliers.Create)
			suppliers.PUT("/:id", h.Suppliers.Update)
			suppliers.DELETE("/:id", h.Suppliers.Delete)
		}

		ingredients := secured.Group("/ingredients")
		{
			ingredients.GET("", h.Ingredients.List)
			ingredients.GET("/:id", h.Ingredients.Get)
			ingredients.POST("", h.Ingredients.Create)
			ingredients.PUT("/:id", h.Ingredients.Update)
			ingredients.DELETE("/:id", h.Ingredients.Delete)
			ingredients.GET("/:id/history", h.Inventory.History)
		}

		inventory := secured.Group("/inventory")
		{
			inventory.GET("/levels", h.Inventory.Levels)
			inventory.POST("/adjustments", h.Inventory.Adjust)
		}

		recipes := secured.Group("/recipes")
		{
			recipes.GET("", h.Recipes.List)
			recipes.GET("/:id", h.Recipes.Get)
			recipes.GET("/:id/cost", h.Recipes.Cost)
			recipes.POST("", h.Recipes.Create)
			recipes.PUT("/:id", h.Recipes.Update)
			recipes.DELETE("/:id", h.Recipes.Delete)
		}

		orders := secured.Group("/orders")
		{
			orders.GET("", h.Orders.List)
			orders.GET("/:id", h.Orders.Get)
			orders.POST("", h.Orders.Create)
			orders.POST("/:id/payments", h.Orders.RecordPayment)
			orders.PATCH("/:id/status", h.Orders.UpdateStatus)
		}

		menus := secured.Group("/menus")
		{
			menus.GET("", h.Menus.List)
			menus.GET("/:id", h.Menus.Get)
			menus.POST("", h.Menus.Create)
			menus.PUT("/:id", h.Menus.Update)
			menus.DELETE("/:id", h.Menus.Delete)
			menus.PUT("/:id/items", h.Menus.SetItems)
			menus.POST("/:id/publish", h.Menus.Publish)
			menus.POST("/:id/unpublish", h.Menus.Unpublish)
			menus.GET("/:id/qr", h.Menus.QRCode)
		}

		reports := secured.Group("/reports")
		{
			reports.GET("/recipe-costs", h.Reports.RecipeCosts)
			reports.GET("/stock", h.Reports.Stock)
			reports.GET("/sales", h.Reports.Sales)
		}
	}
}
