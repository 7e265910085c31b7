// Copyright 2026 OdooForge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigFileName is the name of the config file (odoo-forge.yaml).
const DefaultConfigFileName = "odoo-forge"

// Config holds all configuration for the CLI.
// Priority: CLI flags > config file > env vars > defaults
type Config struct {
	// Odoo endpoint and session configuration
	Odoo OdooConfig `mapstructure:"odoo"`

	// Postgres direct-access configuration (diagnostics)
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Compose deployment configuration
	Compose ComposeConfig `mapstructure:"compose"`

	// Snapshot store configuration
	Snapshots SnapshotsConfig `mapstructure:"snapshots"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// OdooConfig holds the remote instance endpoint and credentials.
type OdooConfig struct {
	// URL is the base endpoint, e.g. "http://localhost:8069"
	URL string `mapstructure:"url"`

	// Database is the target database for all operations
	Database string `mapstructure:"database"`

	// Username and Password authenticate against the target database
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// MasterPassword authorizes database create and drop
	MasterPassword string `mapstructure:"master_password"`
}

// PostgresConfig holds direct database access settings. The port is the
// host-mapped one, not the in-network 5432.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// ComposeConfig locates the deployment.
type ComposeConfig struct {
	// Path is the directory containing docker-compose.yml. Empty disables
	// container orchestration.
	Path string `mapstructure:"path"`
}

// SnapshotsConfig locates the snapshot store.
type SnapshotsConfig struct {
	// Dir is the snapshot store directory. Empty disables snapshots.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log format (text, json)
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration from multiple sources with proper priority:
// 1. Command line flags (highest priority)
// 2. Config file
// 3. Environment variables
// 4. Defaults (lowest priority)
func LoadConfig(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.odoo-forge")
		viper.SetConfigName(DefaultConfigFileName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
		// Config file not found; using defaults + env vars + flags
	}

	// ODOO_FORGE_ODOO_URL, ODOO_FORGE_POSTGRES_PORT, ...
	viper.SetEnvPrefix("ODOO_FORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Conventional short forms used by Odoo docker images.
	_ = viper.BindEnv("odoo.url", "ODOO_URL")
	_ = viper.BindEnv("odoo.database", "ODOO_DB")
	_ = viper.BindEnv("odoo.master_password", "ODOO_MASTER_PASSWORD")
	_ = viper.BindEnv("postgres.host", "POSTGRES_HOST")
	_ = viper.BindEnv("postgres.user", "POSTGRES_USER")
	_ = viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	_ = viper.BindEnv("compose.path", "COMPOSE_PATH")
	_ = viper.BindEnv("snapshots.dir", "SNAPSHOTS_DIR")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("odoo.url", "http://localhost:8069")
	viper.SetDefault("odoo.database", "odoo")
	viper.SetDefault("odoo.username", "admin")
	viper.SetDefault("odoo.password", "admin")

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "odoo")
	viper.SetDefault("postgres.password", "odoo")

	viper.SetDefault("compose.path", "")
	viper.SetDefault("snapshots.dir", "")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
