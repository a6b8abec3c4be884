package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Version is the application version, set at build time via ldflags.
var Version = "dev"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	TMDB      TMDBConfig      `mapstructure:"tmdb"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string  `mapstructure:"host"`
	Port           int     `mapstructure:"port"`
	BodyLimit      string  `mapstructure:"body_limit"`
	RateLimit      float64 `mapstructure:"rate_limit"` // requests/second per IP on /discover, 0 disables
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// TMDBConfig holds TMDB catalog API configuration.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Timeout      int    `mapstructure:"timeout"` // seconds
}

// LLMConfig holds completion-service configuration.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // seconds
}

// DiscoveryConfig holds tuning constants for the discovery pipeline.
// Relative ordering of the vote floors is the contract; exact values are tunable.
type DiscoveryConfig struct {
	MinResults       int `mapstructure:"min_results"`        // ladder trigger threshold
	MaxPages         int `mapstructure:"max_pages"`          // page 1 + up to MaxPages-1 extra
	PageDelayMs      int `mapstructure:"page_delay_ms"`      // inter-page delay
	ResultCap        int `mapstructure:"result_cap"`         // stop paginating past this many results
	MaxActiveFilters int `mapstructure:"max_active_filters"` // pre-emptive relaxation threshold
	GenreCap         int `mapstructure:"genre_cap"`

	// Vote-count floors keyed by minimum-rating bands.
	VoteFloorHigh    int `mapstructure:"vote_floor_high"`    // minRating >= 8
	VoteFloorMid     int `mapstructure:"vote_floor_mid"`     // minRating >= 7
	VoteFloorLow     int `mapstructure:"vote_floor_low"`     // minRating >= 6
	VoteFloorDefault int `mapstructure:"vote_floor_default"`
}

// CacheConfig holds catalog cache configuration.
type CacheConfig struct {
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	MaxItems   int    `mapstructure:"max_items"`
	RedisURL   string `mapstructure:"redis_url"` // empty selects the in-memory backend
}

// SchedulerConfig holds background task configuration.
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	GenreSyncCron string `mapstructure:"genre_sync_cron"`
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.streamsage")
	}

	v.SetEnvPrefix("STREAMSAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", "64K")
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_limit_burst", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.timeout", 10)

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.timeout", 30)

	v.SetDefault("discovery.min_results", 5)
	v.SetDefault("discovery.max_pages", 5)
	v.SetDefault("discovery.page_delay_ms", 250)
	v.SetDefault("discovery.result_cap", 100)
	v.SetDefault("discovery.max_active_filters", 3)
	v.SetDefault("discovery.genre_cap", 2)
	v.SetDefault("discovery.vote_floor_high", 300)
	v.SetDefault("discovery.vote_floor_mid", 200)
	v.SetDefault("discovery.vote_floor_low", 100)
	v.SetDefault("discovery.vote_floor_default", 50)

	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("cache.max_items", 1000)
	v.SetDefault("cache.redis_url", "")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.genre_sync_cron", "30 4 * * *")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// VoteFloor returns the vote-count floor for a given minimum-rating request.
// Stricter rating requirements demand more votes so tiny-sample ratings cannot
// dominate the results.
func (c *DiscoveryConfig) VoteFloor(minRating float64) int {
	switch {
	case minRating >= 8.0:
		return c.VoteFloorHigh
	case minRating >= 7.0:
		return c.VoteFloorMid
	case minRating >= 6.0:
		return c.VoteFloorLow
	default:
		return c.VoteFloorDefault
	}
}
