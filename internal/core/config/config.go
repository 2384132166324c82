package config

import (
	"github.com/windlane/gustline/internal/acquire"
	"github.com/windlane/gustline/internal/infra/archive"
	"github.com/windlane/gustline/internal/infra/backend"
	"github.com/windlane/gustline/internal/infra/store"
	"github.com/windlane/gustline/internal/infra/stream"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig          `yaml:"server"`
	Backend   backend.Config        `yaml:"backend"`
	Stream    stream.Config         `yaml:"stream"`
	Venue     acquire.Config        `yaml:"venue"`
	Refresh   acquire.RefreshConfig `yaml:"refresh"`
	Providers ProvidersConfig       `yaml:"providers"`
	Redis     store.RedisConfig     `yaml:"redis"`
	Database  archive.Config        `yaml:"database"`
	Logging   LoggingConfig         `yaml:"logging"`
}

// ServerConfig holds health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ProvidersConfig holds credentials for the fallback weather providers.
type ProvidersConfig struct {
	WeatherAPIKey string `yaml:"weatherapi_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
