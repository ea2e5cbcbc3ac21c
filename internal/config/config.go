// Package config loads and validates querygate configuration from file
// and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Query    QueryConfig    `mapstructure:"query"`
	Models   []ModelConfig  `mapstructure:"models"`
}

// ModelConfig declares one queryable table.
type ModelConfig struct {
	Schema      string        `mapstructure:"schema"`       // Postgres schema (default: public)
	Table       string        `mapstructure:"table"`        // Table name, also the collection route
	PrimaryKey  string        `mapstructure:"primary_key"`  // Default ordering column
	OwnerColumn string        `mapstructure:"owner_column"` // Column holding the owning principal id, empty disables scoping
	Exposed     []string      `mapstructure:"exposed"`      // Filterable/orderable fields; omit for open mode
	Fields      []FieldConfig `mapstructure:"fields"`
}

// FieldConfig declares one column on a model.
type FieldConfig struct {
	Name   string `mapstructure:"name"`
	Type   string `mapstructure:"type"` // integer, text, boolean, timestamp, or a registered custom type
	Unique bool   `mapstructure:"unique"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Address string `mapstructure:"address"` // Listen address (default: :8080)
}

// DatabaseConfig contains the store connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url"` // Postgres connection URL
}

// AuthConfig contains principal extraction settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"` // HMAC secret for bearer tokens
	AdminRole string `mapstructure:"admin_role"` // Role claim value exempt from owner scoping (default: admin)
}

// QueryConfig contains query construction settings.
type QueryConfig struct {
	DefaultPage    int    `mapstructure:"default_page"`    // Page used when the request has no $page (default: 1)
	DefaultPerPage int    `mapstructure:"default_per_page"` // Window used when the request has no $per_page (default: 20)
	MaxPerPage     int    `mapstructure:"max_per_page"`    // Upper bound on $per_page, 0 = unlimited
	RequesterAttr  string `mapstructure:"requester_attr"`  // Principal attribute used for owner scoping (default: id)
	StrictExposure bool   `mapstructure:"strict_exposure"` // Error on non-exposed fields instead of dropping them
}

// Load reads configuration from querygate.yaml (if present) and
// QUERYGATE_* environment variables. A .env file is honored when found.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("querygate")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/querygate")

	v.SetEnvPrefix("QUERYGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("auth.admin_role", "admin")
	v.SetDefault("query.default_page", 1)
	v.SetDefault("query.default_per_page", 20)
	v.SetDefault("query.max_per_page", 100)
	v.SetDefault("query.requester_attr", "id")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	for i, m := range c.Models {
		if m.Table == "" {
			return fmt.Errorf("models[%d].table is required", i)
		}
		if len(m.Fields) == 0 {
			return fmt.Errorf("models[%d] (%s) declares no fields", i, m.Table)
		}
		for j, f := range m.Fields {
			if f.Name == "" || f.Type == "" {
				return fmt.Errorf("models[%d].fields[%d] needs both name and type", i, j)
			}
		}
	}
	return c.Query.Validate()
}

// Validate validates query construction settings.
func (qc *QueryConfig) Validate() error {
	if qc.DefaultPage < 1 {
		return fmt.Errorf("query.default_page must be at least 1, got: %d", qc.DefaultPage)
	}
	if qc.DefaultPerPage < 1 {
		return fmt.Errorf("query.default_per_page must be at least 1, got: %d", qc.DefaultPerPage)
	}
	if qc.MaxPerPage < 0 {
		return fmt.Errorf("query.max_per_page must not be negative, got: %d", qc.MaxPerPage)
	}
	if qc.MaxPerPage > 0 && qc.DefaultPerPage > qc.MaxPerPage {
		return fmt.Errorf("query.default_per_page (%d) exceeds query.max_per_page (%d)", qc.DefaultPerPage, qc.MaxPerPage)
	}
	return nil
}
