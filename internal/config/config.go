// Package config loads the reinvent configuration file and resolves
// the config/data directories. Everything has a default; a missing
// config file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the upstream endpoints the planner syncs from.
const (
	DefaultCatalogURL = "https://reinvent-planner.cloud/api"
	DefaultRSSURL     = "https://reinvent-planner.cloud/api/feed/rss"
	DefaultAgendaURL  = "https://reinvent.awsevents.com/agenda/"

	DefaultCacheTTL    = 30 * time.Minute
	DefaultHTTPTimeout = 30 * time.Second
)

// Config holds all tunables for the sync engine and store.
type Config struct {
	DBPath      string        `yaml:"db_path"`
	CatalogURL  string        `yaml:"catalog_url"`
	RSSURL      string        `yaml:"rss_url"`
	AgendaURL   string        `yaml:"agenda_url"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// fileConfig is the on-disk shape: durations are written like "30m".
type fileConfig struct {
	DBPath      string `yaml:"db_path"`
	CatalogURL  string `yaml:"catalog_url"`
	RSSURL      string `yaml:"rss_url"`
	AgendaURL   string `yaml:"agenda_url"`
	CacheTTL    string `yaml:"cache_ttl"`
	HTTPTimeout string `yaml:"http_timeout"`
}

// GetConfigDir returns the directory holding config.yaml.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "reinvent"), nil
}

// GetDataDir returns the directory holding the SQLite database and
// exported files.
func GetDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "reinvent"), nil
}

// Load reads config.yaml from the config directory, filling in
// defaults for anything unset. A missing file yields the defaults.
func Load() (Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(filepath.Join(dir, "config.yaml"))
}

// LoadFile reads a specific config file, filling in defaults.
func LoadFile(path string) (Config, error) {
	var raw fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := Config{
		DBPath:     raw.DBPath,
		CatalogURL: raw.CatalogURL,
		RSSURL:     raw.RSSURL,
		AgendaURL:  raw.AgendaURL,
	}
	if cfg.CacheTTL, err = parseDuration("cache_ttl", raw.CacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = parseDuration("http_timeout", raw.HTTPTimeout); err != nil {
		return Config{}, err
	}

	if cfg.DBPath == "" {
		dataDir, err := GetDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = filepath.Join(dataDir, "reinvent.db")
	}
	if cfg.CatalogURL == "" {
		cfg.CatalogURL = DefaultCatalogURL
	}
	if cfg.RSSURL == "" {
		cfg.RSSURL = DefaultRSSURL
	}
	if cfg.AgendaURL == "" {
		cfg.AgendaURL = DefaultAgendaURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	return cfg, nil
}

// parseDuration parses values like "30m" or "1h30m". Empty means
// unset.
func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config %s: %w", key, err)
	}
	return d, nil
}
