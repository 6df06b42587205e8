package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "GIN_MODE", "SESSION_TTL", "SESSION_SECRET", "ORDER_TAX_RATE", "INVENTORY_ALLOW_NEGATIVE", "RABBITMQ_EXCHANGE", "PUBLIC_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "order_events", cfg.RabbitMQ.Exchange)
	assert.False(t, cfg.Inventory.AllowNegative)

	rate, err := cfg.TaxRate()
	require.NoError(t, err)
	assert.Equal(t, "0.16", rate.String())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menumagic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  public_base_url: https://menus.example.com/
orders:
  tax_rate: "0.08"
inventory:
  allow_negative: true
database:
  slow_threshold: 500ms
`), 0o600))

	clearEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("PUBLIC_BASE_URL", "https://qr.example.com/")
	t.Setenv("SESSION_TTL", "24h")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "https://qr.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, "0.08", cfg.Orders.TaxRate)
	assert.True(t, cfg.Inventory.AllowNegative)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.SlowThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Run("tax rate", func(t *testing.T) {
		t.Setenv("ORDER_TAX_RATE", "sixteen")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("tax rate out of range", func(t *testing.T) {
		t.Setenv("ORDER_TAX_RATE", "1.5")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "http")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("dev secret in release", func(t *testing.T) {
		t.Setenv("GIN_MODE", "release")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{URL: "postgres://u:p@db.example.com:5432/app"}
	assert.Equal(t, "postgres://u:p@db.example.com:5432/app?sslmode=require&search_path=public", d.DSN())

	d = DatabaseConfig{URL: "postgres://u:p@localhost/app?sslmode=disable"}
	assert.Equal(t, "postgres://u:p@localhost/app?sslmode=disable&search_path=public", d.DSN())

	d = DatabaseConfig{Host: "localhost", Port: "5432", User: "postgres", Password: "pw", Name: "menumagic", SSLMode: "disable"}
	assert.Equal(t, "host=localhost user=postgres password=pw dbname=menumagic port=5432 sslmode=disable", d.DSN())
}
