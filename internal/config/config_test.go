package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_PORT", "DEV", "FRONTEND_URL", "SESSION_SECRET", "SESSION_TTL_HOURS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.App.Dev)
	assert.Equal(t, DevSessionSecret, cfg.App.SessionSecret)
	assert.Equal(t, 14*24*time.Hour, cfg.App.SessionTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("FRONTEND_URL", "http://localhost:5173")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port, "invalid int falls back to default")
	assert.True(t, cfg.App.Migrations)
	assert.Equal(t, "http://localhost:5173", cfg.App.FrontendURL)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=inv sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5433/inv?sslmode=disable", d.URL())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "postgres"},
		App:      AppConfig{Dev: true, FrontendURL: "http://localhost:5173", SessionSecret: DevSessionSecret},
	}
	require.NoError(t, cfg.Validate())

	cfg.App.Dev = false
	require.ErrorContains(t, cfg.Validate(), "SESSION_SECRET")

	cfg.App.SessionSecret = "s3cret"
	cfg.App.FrontendURL = ""
	require.ErrorContains(t, cfg.Validate(), "FRONTEND_URL")

	cfg.App.FrontendURL = "http://localhost:5173"
	cfg.Database.Driver = "mysql"
	require.ErrorContains(t, cfg.Validate(), "DB_DRIVER")
}
