// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for sofusers with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// Flags are applied by the CLI after LoadConfig returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from the file at configPath, or from the
// first file found in the standard locations when configPath is empty:
//   - .sofusers.yaml (current directory)
//   - .sofusers.yml (current directory)
//   - ~/.sofusers/config.yaml
//   - ~/.sofusers/config.yml
//
// Environment variables are applied after the file. Returns an error if an
// explicitly named file cannot be loaded, but succeeds with defaults if no
// file exists in the standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".sofusers.yaml",
			".sofusers.yml",
			filepath.Join(os.Getenv("HOME"), ".sofusers", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".sofusers", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Defaults.StateDir = expandPath(cfg.Defaults.StateDir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("STACKEXCHANGE_API_ENDPOINT"); endpoint != "" {
		cfg.API.Endpoint = endpoint
	}
	if site := os.Getenv("STACKEXCHANGE_SITE"); site != "" {
		cfg.API.Site = site
	}

	if pageSize := os.Getenv("SOFUSERS_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if stateDir := os.Getenv("SOFUSERS_STATE_DIR"); stateDir != "" {
		cfg.Defaults.StateDir = stateDir
	}
	if backend := os.Getenv("SOFUSERS_STORE"); backend != "" {
		cfg.Store.Backend = strings.ToLower(strings.TrimSpace(backend))
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// APIKey returns the access key from the environment variable named by
// API.KeyEnv. An empty key is allowed; the API then applies its
// anonymous quota.
func (c *Config) APIKey() string {
	if c.API.KeyEnv == "" {
		return ""
	}
	return os.Getenv(c.API.KeyEnv)
}

// BookmarksPath returns the location of the bookmark store for the
// configured backend inside the state directory.
func (c *Config) BookmarksPath() string {
	name := "bookmarks.json"
	if c.Store.Backend == BackendSQLite {
		name = "bookmarks.db"
	}
	return filepath.Join(c.Defaults.StateDir, name)
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration and applying flags to catch
// invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("default page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > MaxPageSize {
		return fmt.Errorf("default page size %d exceeds API limit of %d", c.Defaults.PageSize, MaxPageSize)
	}
	if c.Defaults.Order != "asc" && c.Defaults.Order != "desc" {
		return fmt.Errorf("default order must be asc or desc, got: %q", c.Defaults.Order)
	}
	if c.API.Endpoint == "" {
		return fmt.Errorf("API endpoint cannot be empty")
	}
	if c.API.Site == "" {
		return fmt.Errorf("API site cannot be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive, got: %s", c.API.Timeout)
	}
	if c.Store.Backend != BackendFile && c.Store.Backend != BackendSQLite {
		return fmt.Errorf("unknown store backend %q (want %s or %s)", c.Store.Backend, BackendFile, BackendSQLite)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative, got: %d", c.Retry.MaxRetries)
	}
	return nil
}
