package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "PORT", "DB_DRIVER", "DATABASE_URL", "DB_NAME", "JWT_SECRET",
		"JWT_EXPIRATION_HOURS", "HPP_CAUTION_MARGIN", "HPP_HEALTHY_MARGIN",
		"HPP_PRICE_ROUNDING_STEP", "HPP_REFRESH_SCHEDULE",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.False(t, cfg.App.IsProd())
	assert.Empty(t, cfg.Costing.RefreshSchedule)

	opts, err := cfg.Costing.Options()
	require.NoError(t, err)
	assert.Equal(t, 500.0, opts.PriceRoundingStep)
	require.Len(t, opts.Tiers, 2)
	assert.Equal(t, 30.0, opts.Tiers[0].MarginPct)
	assert.Equal(t, 50.0, opts.Risk.HealthyPct)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=sqlite\nDB_NAME=hpp.db\nHPP_REFRESH_SCHEDULE=0 2 * * *\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("DB_DRIVER")
		_ = os.Unsetenv("DB_NAME")
		_ = os.Unsetenv("HPP_REFRESH_SCHEDULE")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "hpp.db", cfg.DB.DSN())
	assert.Equal(t, "0 2 * * *", cfg.Costing.RefreshSchedule)
}

func TestDSN(t *testing.T) {
	d := DBConfig{Driver: DriverPostgres, Host: "db", User: "hpp", Password: "pw", Name: "hpp", Port: "5432", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=hpp password=pw dbname=hpp port=5432 sslmode=disable TimeZone=UTC", d.DSN())

	d.URL = "postgres://hpp@db/hpp"
	assert.Equal(t, "postgres://hpp@db/hpp", d.DSN())
}

func TestValidateRejects(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:     AppConfig{Env: AppEnvDev, Port: "3000"},
			DB:      DBConfig{Driver: DriverPostgres},
			JWT:     JWTConfig{ExpirationHours: 24},
			Costing: CostingConfig{StandardMarginPct: 30, PremiumMarginPct: 50, HealthyMarginPct: 50, CautionMarginPct: 20, DisplayMinPct: -100, DisplayMaxPct: 300},
		}
	}
	require.NoError(t, base().Validate())

	tests := map[string]func(c *Config){
		"prod without secret": func(c *Config) { c.App.Env = AppEnvProd },
		"unknown driver":      func(c *Config) { c.DB.Driver = "mysql" },
		"no port":             func(c *Config) { c.App.Port = "" },
		"zero expiry":         func(c *Config) { c.JWT.ExpirationHours = 0 },
		"inverted risk bands": func(c *Config) { c.Costing.CautionMarginPct = 60 },
		"negative rounding":   func(c *Config) { c.Costing.PriceRoundingStep = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
