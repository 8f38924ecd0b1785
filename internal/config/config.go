// Package config provides configuration management for the ontology server.
//
// Settings come from a YAML file, then from the environment, which may be
// seeded from a .env file in the working directory. Environment variables
// override the file.
//
// Config file locations (priority order):
//  1. $ONTOSERVER_CONFIG
//  2. ./ontoserver.yaml
//  3. ~/.config/ontoserver/config.yaml
//  4. /etc/ontoserver/config.yaml
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvAddr           = "ONTOSERVER_ADDR"
	EnvOntology       = "ONTOSERVER_ONTOLOGY"
	EnvOntologyFormat = "ONTOSERVER_ONTOLOGY_FORMAT"
	EnvWatch          = "ONTOSERVER_WATCH"
	EnvDatabase       = "ONTOSERVER_DB"
	EnvDownloadFormat = "ONTOSERVER_DOWNLOAD_FORMAT"
	EnvLogLevel       = "ONTOSERVER_LOG_LEVEL"
	EnvLogFormat      = "ONTOSERVER_LOG_FORMAT"
	EnvCORSOrigins    = "ONTOSERVER_CORS_ORIGINS"
)

// Load reads .env, finds and loads the config file (or defaults if none is
// found) and applies environment overrides
func Load() (*Config, string, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	path := FindConfigPath()

	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg = DefaultConfig()
	} else if cfg, path, err = LoadFromPath(path); err != nil {
		return nil, path, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Database: DatabaseConfig{Path: "ontoserver.db"},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Ontology.WatchDebounce == 0 {
		c.Ontology.WatchDebounce = Duration(500 * time.Millisecond)
	}
	if c.Ontology.DownloadFormat == "" {
		c.Ontology.DownloadFormat = "yaml"
	}
	if c.Ontology.SnapshotFormat == "" {
		c.Ontology.SnapshotFormat = "yaml"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ApplyEnv overrides settings from ONTOSERVER_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvOntology); v != "" {
		c.Ontology.Path = v
	}
	if v := os.Getenv(EnvOntologyFormat); v != "" {
		c.Ontology.Format = v
	}
	if v := os.Getenv(EnvWatch); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvWatch, err)
		}
		c.Ontology.Watch = watch
	}
	if v, ok := os.LookupEnv(EnvDatabase); ok {
		// set but empty disables snapshots
		c.Database.Path = v
	}
	if v := os.Getenv(EnvDownloadFormat); v != "" {
		c.Ontology.DownloadFormat = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	return nil
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q: must be text or json", c.Log.Format)
	}
	if c.Ontology.Watch && c.Ontology.Path == "" {
		return fmt.Errorf("ontology watch requires ontology path")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative")
	}
	return nil
}

// Logger builds a logrus logger from the log settings
func (c *Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	ontology := c.Ontology.Path
	if ontology == "" {
		ontology = "(none)"
	}
	db := c.Database.Path
	if db == "" {
		db = "(snapshots disabled)"
	}
	return fmt.Sprintf("addr=%s ontology=%s watch=%t db=%s download=%s",
		c.Server.Addr, ontology, c.Ontology.Watch, db, c.Ontology.DownloadFormat)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
