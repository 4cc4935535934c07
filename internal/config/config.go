package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Market data modes.
const (
	ModeSynthetic = "synthetic"
	ModeLive      = "live"
)

// Config holds all configuration for the application.
type Config struct {
	Market    Market    `mapstructure:"market"`
	Analytics Analytics `mapstructure:"analytics"`
	Search    Search    `mapstructure:"search"`
	Logger    Logger    `mapstructure:"logger"`
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
}

// Market holds the configuration for the market data provider.
type Market struct {
	Mode             string  `mapstructure:"mode"`
	ApiKey           string  `mapstructure:"api_key"`
	BaseURL          string  `mapstructure:"base_url"`
	RateLimit        float64 `mapstructure:"rate_limit"`
	RateLimitBurst   int     `mapstructure:"rate_limit_burst"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
	SimulatedLatency int     `mapstructure:"simulated_latency_ms"`
}

// Analytics holds the prediction and confidence policy knobs.
type Analytics struct {
	Window      int        `mapstructure:"window"`
	HistoryDays int        `mapstructure:"history_days"`
	Confidence  Confidence `mapstructure:"confidence"`
}

// Confidence selects a confidence preset ("synthetic" or "live").
// Overrides that are set, zero included, replace the preset's values.
type Confidence struct {
	Preset     string   `mapstructure:"preset"`
	Base       *float64 `mapstructure:"base"`
	Multiplier *float64 `mapstructure:"multiplier"`
	Floor      *float64 `mapstructure:"floor"`
	Ceiling    *float64 `mapstructure:"ceiling"`
}

// Search holds the configuration for symbol search.
type Search struct {
	MinQueryLen int `mapstructure:"min_query_len"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the workspace store.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("market.mode", ModeSynthetic)
	v.SetDefault("market.api_key", "")
	v.SetDefault("market.base_url", "https://www.alphavantage.co")
	v.SetDefault("market.rate_limit", 5.0/60.0) // free tier: 5 requests per minute
	v.SetDefault("market.rate_limit_burst", 5)
	v.SetDefault("market.timeout_seconds", 15)
	v.SetDefault("market.simulated_latency_ms", 0)

	v.SetDefault("analytics.window", 7)
	v.SetDefault("analytics.history_days", 30)
	v.SetDefault("analytics.confidence.preset", "")
	// overrides have no default so an unset knob stays nil
	for _, key := range []string{"base", "multiplier", "floor", "ceiling"} {
		_ = v.BindEnv("analytics.confidence." + key)
	}

	v.SetDefault("search.min_query_len", 2)

	v.SetDefault("server.port", 8080)
	v.SetDefault("database.dsn", "file::memory:?cache=shared")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and the environment apply.
func LoadConfig(path string) (config Config, err error) {
	// .env is optional, it usually only carries MARKET_API_KEY
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
