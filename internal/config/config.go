package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application-level configuration. The portfolio itself
// (settings and holdings) lives in its own TOML document, see package portfolio.
type Config struct {
	Feed   Feed   `mapstructure:"feed"`
	Logger Logger `mapstructure:"logger"`
	Cache  Cache  `mapstructure:"cache"`
	Watch  Watch  `mapstructure:"watch"`
}

// Feed holds the configuration for the price feed API.
type Feed struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Cache holds the configuration for the latest-quote cache.
// An empty DSN disables the cache.
type Cache struct {
	DSN string `mapstructure:"dsn"`
}

// Watch holds the defaults for watch mode.
type Watch struct {
	Interval float64 `mapstructure:"interval"`
}

// LoadConfig reads configuration from an optional config file and environment
// variables prefixed with COINFOLIO_. A missing config file is not an error.
func LoadConfig(paths ...string) (config Config, err error) {
	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.SetEnvPrefix("coinfolio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	v.SetDefault("feed.base_url", "https://min-api.cryptocompare.com/data")
	v.SetDefault("feed.timeout", 5*time.Second)
	v.SetDefault("feed.rate_limit", 10) // requests per second
	v.SetDefault("feed.rate_limit_burst", 5)
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("cache.dsn", "")
	v.SetDefault("watch.interval", 5)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

// DefaultPaths returns the directories searched for config.yml, most
// specific first.
func DefaultPaths() []string {
	paths := []string{"./configs"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "coinfolio"))
	}
	return paths
}
