// Package daemon wires configuration and the long-running API server.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from TOML.
type Config struct {
	API   APIConfig   `toml:"api"`
	Store StoreConfig `toml:"store"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// StoreConfig configures the SQLite ledger store.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    3001,
			Metrics: true,
		},
		Store: StoreConfig{
			Dir: defaultStoreDir(),
		},
	}
}

// LoadConfig overlays a TOML file on the defaults. A missing file is
// not an error; defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr returns the host:port the API listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// DefaultConfigPath returns ~/.gighall/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".gighall", "config.toml")
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".gighall")
}
