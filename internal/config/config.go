package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go-hpp-engine/internal/costing"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full configuration surface of the service.
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	Costing CostingConfig
}

type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	Port     string `envconfig:"PORT" default:"3000"`
	Name     string `envconfig:"APP_NAME" default:"HPP Engine v1.0"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"` // postgres | sqlite
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Jakarta"`

	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DSN returns DATABASE_URL when set, otherwise builds one from the parts.
// For sqlite the database name is used as the file path.
func (d DBConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == DriverSQLite {
		return d.Name
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET"`
	Issuer          string `envconfig:"JWT_ISSUER" default:"go-hpp-engine"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// CostingConfig holds the engine tunables. Margins are percentages.
type CostingConfig struct {
	DefaultMonthlyVolume float64 `envconfig:"HPP_DEFAULT_MONTHLY_VOLUME" default:"0"`
	ConsistencyTolerance float64 `envconfig:"HPP_CONSISTENCY_TOLERANCE" default:"1"`
	PriceRoundingStep    float64 `envconfig:"HPP_PRICE_ROUNDING_STEP" default:"500"`
	StandardMarginPct    float64 `envconfig:"HPP_STANDARD_MARGIN" default:"30"`
	PremiumMarginPct     float64 `envconfig:"HPP_PREMIUM_MARGIN" default:"50"`
	HealthyMarginPct     float64 `envconfig:"HPP_HEALTHY_MARGIN" default:"50"`
	CautionMarginPct     float64 `envconfig:"HPP_CAUTION_MARGIN" default:"20"`
	DisplayMinPct        float64 `envconfig:"HPP_DISPLAY_MIN_MARGIN" default:"-100"`
	DisplayMaxPct        float64 `envconfig:"HPP_DISPLAY_MAX_MARGIN" default:"300"`

	// RefreshSchedule is a 5-field cron expression for recomputing stored
	// snapshots. Empty disables the job.
	RefreshSchedule string `envconfig:"HPP_REFRESH_SCHEDULE"`
}

// Options converts the config into engine options and validates them.
func (c CostingConfig) Options() (costing.Options, error) {
	opts := costing.Options{
		DefaultMonthlyVolume: c.DefaultMonthlyVolume,
		ConsistencyTolerance: c.ConsistencyTolerance,
		PriceRoundingStep:    c.PriceRoundingStep,
		Tiers: []costing.Tier{
			{Label: costing.TierStandard, MarginPct: c.StandardMarginPct},
			{Label: costing.TierPremium, MarginPct: c.PremiumMarginPct},
		},
		Risk:  costing.RiskThresholds{HealthyPct: c.HealthyMarginPct, CautionPct: c.CautionMarginPct},
		Clamp: costing.DisplayClamp{MinPct: c.DisplayMinPct, MaxPct: c.DisplayMaxPct},
	}
	if err := opts.Validate(); err != nil {
		return costing.Options{}, fmt.Errorf("costing config: %w", err)
	}
	return opts, nil
}

// Load reads an optional .env file and then the process environment.
func Load(envFile string) (*Config, error) {
	files := []string{}
	if envFile != "" {
		files = append(files, envFile)
	}
	if err := godotenv.Load(files...); err != nil && envFile != "" && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.App.Port == "" {
		return errors.New("PORT must be provided")
	}
	if c.App.IsProd() && c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must be provided in production")
	}
	if c.DB.Driver != DriverPostgres && c.DB.Driver != DriverSQLite {
		return fmt.Errorf("DB_DRIVER %q is not supported", c.DB.Driver)
	}
	if c.JWT.ExpirationHours <= 0 {
		return errors.New("JWT_EXPIRATION_HOURS must be positive")
	}
	if _, err := c.Costing.Options(); err != nil {
		return err
	}
	return nil
}
