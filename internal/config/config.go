package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Places    PlacesConfig    `yaml:"places" mapstructure:"places"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PlacesConfig holds places-search API settings.
type PlacesConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DiscoveryConfig configures the grid fan-out behavior.
type DiscoveryConfig struct {
	StepKM         float64 `yaml:"step_km" mapstructure:"step_km"`
	RadiusKM       float64 `yaml:"radius_km" mapstructure:"radius_km"`
	RateLimit      float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	MaxGridPoints  int     `yaml:"max_grid_points" mapstructure:"max_grid_points"`
	ResultsPerCall int     `yaml:"results_per_call" mapstructure:"results_per_call"`
}

// CrawlConfig configures the website crawler.
type CrawlConfig struct {
	MaxConcurrent    int      `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	MaxDepth         int      `yaml:"max_depth" mapstructure:"max_depth"`
	PageTimeoutSecs  int      `yaml:"page_timeout_secs" mapstructure:"page_timeout_secs"`
	TotalTimeoutSecs int      `yaml:"total_timeout_secs" mapstructure:"total_timeout_secs"`
	FetchDelayMillis int      `yaml:"fetch_delay_millis" mapstructure:"fetch_delay_millis"`
	UserAgent        string   `yaml:"user_agent" mapstructure:"user_agent"`
	ExcludePaths     []string `yaml:"exclude_paths" mapstructure:"exclude_paths"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("places.timeout_secs", 10)
	v.SetDefault("discovery.step_km", 1.5)
	v.SetDefault("discovery.radius_km", 5.0)
	v.SetDefault("discovery.rate_limit", 5.0)
	v.SetDefault("discovery.max_retries", 3)
	v.SetDefault("discovery.max_grid_points", 200)
	v.SetDefault("discovery.results_per_call", 20)
	v.SetDefault("crawl.max_concurrent", 5)
	v.SetDefault("crawl.max_depth", 2)
	v.SetDefault("crawl.page_timeout_secs", 15)
	v.SetDefault("crawl.total_timeout_secs", 120)
	v.SetDefault("crawl.fetch_delay_millis", 250)
	v.SetDefault("crawl.user_agent", "LeadScoutBot/1.0 (+https://scoutline.io/bot)")
	v.SetDefault("crawl.exclude_paths", []string{
		"/blog/*", "/news/*", "/tag/*", "/archive/*", "/feed/*", "/sitemap*",
	})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
