package web

import (
	"encoding/json"
	"os"

	"github.com/lville-gis/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig  `json:"server"`
	Auth     AuthConfig    `json:"auth"`
	Features FeatureConfig `json:"features"`
	Batch    BatchConfig   `json:"batch"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"api_key"`
}

// FeatureConfig contains feature toggles
type FeatureConfig struct {
	BatchEnabled bool `json:"batch_enabled"`
	CORSEnabled  bool `json:"cors_enabled"`
}

// BatchConfig bounds the batch endpoint and its worker pool
type BatchConfig struct {
	MaxAddresses int `json:"max_addresses"`
	Workers      int `json:"workers"`
	CacheSize    int `json:"cache_size"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		Features: FeatureConfig{
			BatchEnabled: true,
			CORSEnabled:  true,
		},
		Batch: BatchConfig{
			MaxAddresses: 5000,
			Workers:      0,
			CacheSize:    10000,
		},
	}
}

// ConfigFromEnv overlays WEB_* and BATCH_* environment variables on the
// defaults
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.Server.Host = config.GetEnv("WEB_HOST", cfg.Server.Host)
	cfg.Server.Port = config.GetEnvInt("WEB_PORT", cfg.Server.Port)
	cfg.Auth.APIKey = config.GetEnv("WEB_API_KEY", "")
	cfg.Auth.Enabled = cfg.Auth.APIKey != ""
	cfg.Features.BatchEnabled = config.GetEnvBool("ENABLE_BATCH", cfg.Features.BatchEnabled)
	cfg.Features.CORSEnabled = config.GetEnvBool("ENABLE_CORS", cfg.Features.CORSEnabled)
	cfg.Batch.MaxAddresses = config.GetEnvInt("BATCH_MAX_ADDRESSES", cfg.Batch.MaxAddresses)
	cfg.Batch.Workers = config.GetEnvInt("BATCH_WORKERS", cfg.Batch.Workers)
	cfg.Batch.CacheSize = config.GetEnvInt("BATCH_CACHE_SIZE", cfg.Batch.CacheSize)
	return cfg
}
