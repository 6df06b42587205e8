package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/iluvios/menumagic-sub001/config"
	"github.com/iluvios/menumagic-sub001/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "menumagic",
	Short: "MenuMagic restaurant back-office API",
	Long: `MenuMagic runs the back office of a restaurant: ingredient inventory,
recipe costing, orders and payments, and QR-published digital menus.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("MENUMAGIC_CONFIG"), "Path to a YAML config file")
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap() (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	slog.SetDefault(log)

	db, err := config.ConnectDB(cfg.Database, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
