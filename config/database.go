package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN returns the connection string. A full URL wins over the discrete parts.
func (d DatabaseConfig) DSN() string {
	if d.URL == "" {
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
		)
	}

	dsn := d.URL
	// hosted postgres usually needs sslmode=require
	if !strings.Contains(dsn, "sslmode=") {
		dsn = appendParam(dsn, "sslmode=require")
	}
	// keep tables in the public schema
	if !strings.Contains(dsn, "search_path=") {
		dsn = appendParam(dsn, "search_path=public")
	}
	return dsn
}

func appendParam(dsn, param string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + param
}

func ConnectDB(cfg DatabaseConfig, appLog *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "[GORM] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := db.Exec(`SET search_path TO public`).Error; err != nil {
		appLog.Warn("failed to set search_path", "error", err)
	}
	if err := db.Exec(`SET TIME ZONE 'UTC'`).Error; err != nil {
		appLog.Warn("failed to set time zone", "error", err)
	}

	var dbName, currentUser string
	_ = db.Raw("SELECT current_database()").Scan(&dbName)
	_ = db.Raw("SELECT current_user").Scan(&currentUser)
	appLog.Info("database connected", "db", dbName, "user", currentUser)

	return db, nil
}
