// Package daemon wires the ledger service: configuration, the HTTP API,
// and the scheduled background pull from the remote store of record.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full daemon configuration, loaded from
// ~/.momai/config.toml. Missing file means defaults.
type Config struct {
	API      APIConfig      `toml:"api"`
	Storage  StorageConfig  `toml:"storage"`
	Sync     SyncConfig     `toml:"sync"`
	Business BusinessConfig `toml:"business"`
	Insights InsightsConfig `toml:"insights"`
}

// APIConfig controls the local HTTP surface.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// StorageConfig locates durable local storage.
type StorageConfig struct {
	Path string `toml:"path"`
}

// SyncConfig configures the remote store of record.
type SyncConfig struct {
	SheetURL     string `toml:"sheet_url"`
	AutoPull     bool   `toml:"auto_pull"`
	PullInterval string `toml:"pull_interval"`
}

// BusinessConfig seeds the business profile on first run; afterwards
// the settings table in local storage is authoritative.
type BusinessConfig struct {
	Name  string `toml:"name"`
	UPIID string `toml:"upi_id"`
}

// InsightsConfig selects the model for the insight collaborator. The
// API key comes from the environment, never from the config file.
type InsightsConfig struct {
	Model string `toml:"model"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8817,
			Metrics: true,
		},
		Storage: StorageConfig{
			Path: filepath.Join(homeDir(), ".momai", "ledger.db"),
		},
		Sync: SyncConfig{
			AutoPull:     true,
			PullInterval: "5m",
		},
		Insights: InsightsConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// DefaultConfigPath is where Load looks when no explicit path is given.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".momai", "config.toml")
}

// Load reads the TOML config at path, layered over defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// PullEvery parses the configured interval, falling back to five
// minutes on a bad value.
func (c Config) PullEvery() time.Duration {
	d, err := time.ParseDuration(c.Sync.PullInterval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// Addr is the listen address of the API server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
