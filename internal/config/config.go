package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// Configuration is the root application configuration. Values come from
// config files and environment variables (prefix SHARIAHSCREEN), with
// defaults suitable for local development.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Screening  ScreeningConfig  `mapstructure:"screening"`
	Plans      PlansConfig      `mapstructure:"plans"`
}

type DeploymentConfig struct {
	Mode string `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Type    string `mapstructure:"type"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// ScreeningConfig holds the compliance ratio thresholds. The cutoffs follow
// the common AAOIFI style screens; each is a fraction in [0, 1].
type ScreeningConfig struct {
	DebtToAssetsThreshold          float64 `mapstructure:"debt_to_assets_threshold"`
	InterestIncomeThreshold        float64 `mapstructure:"interest_income_threshold"`
	InterestBearingAssetsThreshold float64 `mapstructure:"interest_bearing_assets_threshold"`
	ReceivablesThreshold           float64 `mapstructure:"receivables_threshold"`
	MissingRatioConfidenceCap      float64 `mapstructure:"missing_ratio_confidence_cap"`
	CacheTTLMinutes                int     `mapstructure:"cache_ttl_minutes"`
	HighConfidencePercentageCutoff float64 `mapstructure:"high_confidence_percentage_cutoff"`
}

// PlansConfig holds per-tier entitlement limits and price points. Prices are
// decimal strings in INR; tax is applied on top at TaxRatePercent.
type PlansConfig struct {
	FreeViewQuota         int    `mapstructure:"free_view_quota"`
	BasicWatchlistLimit   int    `mapstructure:"basic_watchlist_limit"`
	PremiumWatchlistLimit int    `mapstructure:"premium_watchlist_limit"`
	BasicMonthlyPrice     string `mapstructure:"basic_monthly_price"`
	BasicAnnualPrice      string `mapstructure:"basic_annual_price"`
	PremiumMonthlyPrice   string `mapstructure:"premium_monthly_price"`
	PremiumAnnualPrice    string `mapstructure:"premium_annual_price"`
	TaxRatePercent        string `mapstructure:"tax_rate_percent"`
}

// NewConfig loads the configuration from config files, .env, and environment
// variables in increasing order of precedence.
func NewConfig() (*Configuration, error) {
	v := viper.New()

	// Load .env if present; ignore when missing
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SHARIAHSCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrSystem)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "api")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", "inmemory")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("screening.debt_to_assets_threshold", 0.33)
	v.SetDefault("screening.interest_income_threshold", 0.05)
	v.SetDefault("screening.interest_bearing_assets_threshold", 0.33)
	v.SetDefault("screening.receivables_threshold", 0.49)
	v.SetDefault("screening.missing_ratio_confidence_cap", 0.5)
	v.SetDefault("screening.cache_ttl_minutes", 30)
	v.SetDefault("screening.high_confidence_percentage_cutoff", 100)

	v.SetDefault("plans.free_view_quota", 3)
	v.SetDefault("plans.basic_watchlist_limit", 10)
	v.SetDefault("plans.premium_watchlist_limit", 25)
	v.SetDefault("plans.basic_monthly_price", "299")
	v.SetDefault("plans.basic_annual_price", "1999")
	v.SetDefault("plans.premium_monthly_price", "499")
	v.SetDefault("plans.premium_annual_price", "2999")
	v.SetDefault("plans.tax_rate_percent", "18")
}

// GetDefaultConfig returns a configuration with defaults only. Intended for
// tests and scripts that do not load the full configuration stack.
func GetDefaultConfig() *Configuration {
	v := viper.New()
	setDefaults(v)

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults always unmarshal; reaching here is a programming error
		panic(err)
	}
	return &cfg
}
