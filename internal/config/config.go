package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/junction/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Postgres   PostgresConfig   `mapstructure:"postgres" validate:"required"`
	Catalog    CatalogConfig    `mapstructure:"catalog" validate:"required"`
	Timeline   TimelineConfig   `mapstructure:"timeline" validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required,oneof=local worker"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// CatalogConfig points at the YAML catalog definition served by the static catalog
type CatalogConfig struct {
	Path            string `mapstructure:"path"`
	CacheEnabled    bool   `mapstructure:"cache_enabled"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// TimelineConfig drives the batch timeline builder
type TimelineConfig struct {
	AccountIDs     []string `mapstructure:"account_ids"`
	MaxConcurrency int      `mapstructure:"max_concurrency" validate:"gte=1"`
	OrderingStart  int64    `mapstructure:"ordering_start" validate:"gte=0"`
	// TenantID scopes every build of the batch
	TenantID string `mapstructure:"tenant_id" validate:"required"`
	// IntervalSeconds is the rebuild period in worker mode
	IntervalSeconds int `mapstructure:"interval_seconds" validate:"gte=1"`
}

// Interval returns the worker rebuild period
func (c TimelineConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func NewConfig() (*Configuration, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/junction")

	v.SetEnvPrefix("JUNCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the yaml file does not mention it
func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "junction")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "junction")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.cache_enabled", true)
	v.SetDefault("catalog.cache_ttl_seconds", 300)
	v.SetDefault("timeline.account_ids", []string{})
	v.SetDefault("timeline.max_concurrency", 4)
	v.SetDefault("timeline.ordering_start", 0)
	v.SetDefault("timeline.tenant_id", types.DefaultTenantID)
	v.SetDefault("timeline.interval_seconds", 300)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Catalog:    CatalogConfig{CacheEnabled: true, CacheTTLSeconds: 300},
		Timeline: TimelineConfig{
			MaxConcurrency:  4,
			TenantID:        types.DefaultTenantID,
			IntervalSeconds: 300,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

func (c PostgresConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

func (c CatalogConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
