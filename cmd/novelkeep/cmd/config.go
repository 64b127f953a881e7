package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the deployment knobs for the CLI. Policy constants
// (lockout threshold and duration, input length limits) are compiled in
// and deliberately not configurable here.
type Config struct {
	// AuthEndpoint is the login URL of the reading service.
	AuthEndpoint string `toml:"auth_endpoint"`
	// DataDir holds the local state database.
	DataDir string `toml:"data_dir"`
	// HTTPTimeoutSeconds bounds the login network call.
	HTTPTimeoutSeconds int `toml:"http_timeout_seconds"`
}

func defaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		AuthEndpoint:       "http://localhost:8080/api/auth/login",
		DataDir:            filepath.Join(home, ".novelkeep"),
		HTTPTimeoutSeconds: 15,
	}
}

// loadConfig reads the TOML config at path, falling back to defaults for
// a missing file or missing fields.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) httpTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "novelkeep.toml"
	}
	return filepath.Join(home, ".novelkeep", "config.toml")
}
