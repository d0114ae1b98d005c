package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSourceURL is the published match listing this gateway fronts.
const DefaultSourceURL = "https://lyfe05.github.io/highlight-api/matches.json"

// Config holds all matchgate configuration.
type Config struct {
	Listen  string      `yaml:"listen"`
	Source  string      `yaml:"source"`
	APIKeys []string    `yaml:"api_keys"`
	Audit   AuditConfig `yaml:"audit"`
}

// AuditConfig controls the optional request log. The log is active only
// when a database path is set.
type AuditConfig struct {
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"`
}

// AuthEnabled reports whether requests to gated endpoints must carry a key.
func (c *Config) AuthEnabled() bool {
	return len(c.APIKeys) > 0
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":8000",
		Source: DefaultSourceURL,
		Audit: AuditConfig{
			RetentionDays: 30,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with PORT, API_KEYS, MATCHES_SOURCE_URL and
// AUDIT_DB, matching the deployment environments the service runs in.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Listen = ":" + port
	}
	if keys := os.Getenv("API_KEYS"); keys != "" {
		c.APIKeys = nil
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.APIKeys = append(c.APIKeys, k)
			}
		}
	}
	if src := os.Getenv("MATCHES_SOURCE_URL"); src != "" {
		c.Source = src
	}
	if db := os.Getenv("AUDIT_DB"); db != "" {
		c.Audit.DBPath = db
	}
}
