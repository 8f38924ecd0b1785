package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Ontology OntologyConfig `yaml:"ontology"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string `yaml:"cors_origins,omitempty"`
}

// OntologyConfig names the ontology loaded at startup and the document
// formats used by default
type OntologyConfig struct {
	Path           string   `yaml:"path,omitempty"`
	Format         string   `yaml:"format,omitempty"` // empty = from file extension
	Watch          bool     `yaml:"watch"`
	WatchDebounce  Duration `yaml:"watch_debounce"`
	DownloadFormat string   `yaml:"download_format"`
	SnapshotFormat string   `yaml:"snapshot_format"`
}

// DatabaseConfig configures snapshot storage
type DatabaseConfig struct {
	Path string `yaml:"path"` // empty disables snapshots
}

// LogConfig configures logrus
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML parses duration strings like "30s" or "5m"
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML outputs duration as string
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
