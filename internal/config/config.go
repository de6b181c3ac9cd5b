// Package config provides configuration management for the plot cache
// daemon.
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/jmgilman/go/plotcache/errors"
)

// Locator strategy names accepted in configuration.
const (
	StrategyDirect     = "direct"
	StrategyRunListing = "run-listing"
)

// Config represents the daemon configuration.
type Config struct {
	// Server settings
	Addr string `mapstructure:"addr"`

	// Cache layout
	CacheDir string `mapstructure:"cache_dir"`
	PlotsDir string `mapstructure:"plots_dir"`

	// Artifact resolution
	Strategy   string `mapstructure:"strategy"`
	APIBaseURL string `mapstructure:"api_base_url"`
	Token      string `mapstructure:"token"`

	// Build settings
	BuildTimeout time.Duration `mapstructure:"build_timeout"`
	ImageExts    []string      `mapstructure:"image_exts"`

	// Logging
	Debug bool `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables. Pass an
// empty configPath to search the standard locations.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("cache_dir", "cache")
	v.SetDefault("plots_dir", "static/plots")
	v.SetDefault("strategy", StrategyDirect)
	v.SetDefault("api_base_url", "")
	v.SetDefault("build_timeout", 5*time.Minute)
	v.SetDefault("image_exts", []string{".png"})
	v.SetDefault("debug", false)

	v.SetEnvPrefix("PLOTCACHE")
	v.AutomaticEnv()

	_ = v.BindEnv("addr", "PLOTCACHE_ADDR")
	_ = v.BindEnv("token", "PLOTCACHE_TOKEN")
	_ = v.BindEnv("strategy", "PLOTCACHE_STRATEGY")
	_ = v.BindEnv("debug", "PLOTCACHE_DEBUG")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("plotcache")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/plotcache")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to unmarshal config")
	}

	// The conventional CI token variable wins over an unset
	// plotcache-specific one.
	if config.Token == "" {
		config.Token = os.Getenv("GITHUB_TOKEN")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Strategy != StrategyDirect && c.Strategy != StrategyRunListing {
		err := errors.New(errors.CodeInvalidConfig, "strategy must be direct or run-listing")
		return errors.WithContext(err, "strategy", c.Strategy)
	}

	if c.CacheDir == "" || c.PlotsDir == "" {
		return errors.New(errors.CodeInvalidConfig, "cache_dir and plots_dir cannot be empty")
	}

	if c.BuildTimeout < 0 {
		return errors.New(errors.CodeInvalidConfig, "build_timeout cannot be negative")
	}

	return nil
}
