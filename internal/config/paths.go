package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "ONTOSERVER_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "ontoserver.yaml"
	// ConfigDirName is the directory under XDG config homes and /etc
	ConfigDirName = "ontoserver"
)

// SearchPaths lists the config file candidates in priority order:
// $ONTOSERVER_CONFIG, ./ontoserver.yaml, $XDG_CONFIG_HOME/ontoserver/config.yaml,
// ~/.config/ontoserver/config.yaml and /etc/ontoserver/config.yaml
func SearchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing candidate from SearchPaths, or
// "" when there is none
func FindConfigPath() string {
	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// EnsureConfigDir creates the directory that will hold configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}
