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

// Package config types define the configuration structures used throughout
// sofusers. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for sofusers.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Store    StoreConfig    `yaml:"store"`
	Retry    RetryConfig    `yaml:"retry"`
}

// APIConfig contains Stack Exchange API settings. The access key itself is
// never stored in the file; KeyEnv names the environment variable holding it.
type APIConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Site     string        `yaml:"site"`
	KeyEnv   string        `yaml:"key_env"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultsConfig contains the values used when the user does not supply
// a page size or sort order, and where bookmarks are kept.
type DefaultsConfig struct {
	PageSize int    `yaml:"page_size"`
	Order    string `yaml:"order"`
	StateDir string `yaml:"state_dir"`
}

// StoreConfig selects the bookmark persistence backend.
type StoreConfig struct {
	// Backend is "file" (JSON, default) or "sqlite".
	Backend string `yaml:"backend"`
}

// RetryConfig controls retries of transient API failures.
// MaxRetries of 0 disables retrying.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// Supported store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// MaxPageSize is the largest page the Stack Exchange API will serve.
const MaxPageSize = 100

// DefaultConfig returns a Config with defaults for the public
// api.stackexchange.com endpoint.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: "https://api.stackexchange.com/2.2",
			Site:     "stackoverflow",
			KeyEnv:   "STACKEXCHANGE_KEY",
			Timeout:  30 * time.Second,
		},
		Defaults: DefaultsConfig{
			PageSize: MaxPageSize,
			Order:    "desc",
			StateDir: "~/.sofusers",
		},
		Store: StoreConfig{
			Backend: BackendFile,
		},
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialBackoff: 1 * time.Second,
			MaxBackoff:     30 * time.Second,
		},
	}
}
