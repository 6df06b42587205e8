package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iluvios/menumagic-sub001/config"
	"github.com/iluvios/menumagic-sub001/controllers"
	"github.com/iluvios/menumagic-sub001/logger"
	"github.com/iluvios/menumagic-sub001/middlewares"
	"github.com/iluvios/menumagic-sub001/notifier"
	"github.com/iluvios/menumagic-sub001/routes"
	"github.com/iluvios/menumagic-sub001/service"
	"github.com/iluvios/menumagic-sub001/templates"
	"github.com/iluvios/menumagic-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		if autoMigrate {
			if err := config.Migrate(db); err != nil {
				return err
			}
		}

		events := newPublisher(cfg.RabbitMQ, log)
		defer events.Close()

		router, err := newRouter(cfg, db, events, log)
		if err != nil {
			return err
		}

		server := &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return run(server, log)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Run schema migration before serving")
	rootCmd.AddCommand(serveCmd)
}

// newPublisher falls back to a no-op publisher when no broker is configured
// or reachable; order events are best-effort.
func newPublisher(cfg config.RabbitMQConfig, log *slog.Logger) notifier.Publisher {
	if cfg.URL == "" {
		log.Info("RABBITMQ_URL not set, order events disabled")
		return notifier.Nop{}
	}
	pub, err := notifier.NewRabbitMQ(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Warn("rabbitmq unavailable, order events disabled", "error", err)
		return notifier.Nop{}
	}
	log.Info("publishing order events", "exchange", cfg.Exchange)
	return pub
}

func newRouter(cfg *config.Config, db *gorm.DB, events notifier.Publisher, log *slog.Logger) (*gin.Engine, error) {
	taxRate, err := cfg.TaxRate()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pages, err := templates.Load()
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(log))
	r.SetHTMLTemplate(pages)

	signer := utils.NewSessionSigner(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure)
	menus := service.NewMenuService(db)

	routes.SetupRoutes(r, routes.Handlers{
		Auth:        controllers.NewAuthController(service.NewAuthService(db), signer),
		Suppliers:   controllers.NewSupplierController(service.NewSupplierService(db)),
		Ingredients: controllers.NewIngredientController(service.NewIngredientService(db)),
		Inventory:   controllers.NewInventoryController(service.NewInventoryService(db, cfg.Inventory.AllowNegative)),
		Recipes:     controllers.NewRecipeController(service.NewRecipeService(db)),
		Orders:      controllers.NewOrderController(service.NewOrderService(db, taxRate, events, log)),
		Menus:       controllers.NewMenuController(menus, cfg.Server.PublicBaseURL),
		PublicMenu:  controllers.NewPublicMenuController(menus),
		Reports:     controllers.NewReportsController(service.NewService(db)),
		Health:      controllers.Health(sqlDB),
	}, middlewares.SessionAuth(signer))

	return r, nil
}

func run(server *http.Server, log *slog.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
