package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "order.exchange", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 5*time.Second, cfg.Services.CallTimeout)
	assert.Equal(t, "0.08", cfg.Order.TaxRate)
	assert.Equal(t, 3, cfg.Notify.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Notify.RetryBase)
	assert.Equal(t, 15*time.Minute, cfg.Notify.RetryCap)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: "9001"
mysql:
  user: app
  password: secret
  host: db
  port: "3306"
  database: orders
order:
  tax_rate: "0.10"
`), 0o600))

	t.Setenv("PORT", "9002")
	t.Setenv("MYSQL_HOST", "db-replica")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9002", cfg.HTTP.Port)
	assert.Equal(t, "0.10", cfg.Order.TaxRate)
	assert.Equal(t, "app:secret@tcp(db-replica:3306)/orders?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.MySQL.DSN())
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTP.Port)
}
