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
	"encoding/json"
	"fmt"
	"os"

	"github.com/hamzatrq/odoo-forge/internal/log"
	"github.com/hamzatrq/odoo-forge/internal/version"
	"github.com/hamzatrq/odoo-forge/pkg/compose"
	"github.com/hamzatrq/odoo-forge/pkg/health"
	"github.com/hamzatrq/odoo-forge/pkg/pg"
	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"github.com/hamzatrq/odoo-forge/pkg/snapshot"
	"github.com/hamzatrq/odoo-forge/pkg/statecache"
	"github.com/hamzatrq/odoo-forge/pkg/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	config  *Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "odoo-forge",
	Short:   "OdooForge - drive a dockerized Odoo instance safely",
	Long:    `OdooForge manages a docker compose Odoo deployment end to end: databases, modules, records, custom fields, addon scaffolding, and named database snapshots for safe experimentation.`,
	Version: version.Get(),
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./odoo-forge.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8069", "Odoo base URL")
	rootCmd.PersistentFlags().StringP("database", "d", "odoo", "target database")
	rootCmd.PersistentFlags().String("username", "admin", "Odoo login")
	rootCmd.PersistentFlags().String("password", "admin", "Odoo password")
	rootCmd.PersistentFlags().String("master-password", "", "master password for database management")

	rootCmd.PersistentFlags().String("compose-path", "", "directory containing docker-compose.yml")
	rootCmd.PersistentFlags().String("snapshots-dir", "", "snapshot store directory")

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("odoo.url", rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("odoo.database", rootCmd.PersistentFlags().Lookup("database"))
	_ = viper.BindPFlag("odoo.username", rootCmd.PersistentFlags().Lookup("username"))
	_ = viper.BindPFlag("odoo.password", rootCmd.PersistentFlags().Lookup("password"))
	_ = viper.BindPFlag("odoo.master_password", rootCmd.PersistentFlags().Lookup("master-password"))

	_ = viper.BindPFlag("compose.path", rootCmd.PersistentFlags().Lookup("compose-path"))
	_ = viper.BindPFlag("snapshots.dir", rootCmd.PersistentFlags().Lookup("snapshots-dir"))

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	config, err = LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(config.Logging.Level, config.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
}

// buildToolkit wires the subsystems from the loaded config. Compose,
// snapshots, and direct postgres access are optional; toolkit operations
// needing an absent one report that clearly.
func buildToolkit() (*tools.Toolkit, error) {
	logger := log.Logger()

	client, err := rpc.New(rpc.Config{
		URL:      config.Odoo.URL,
		Database: config.Odoo.Database,
		Username: config.Odoo.Username,
		Password: config.Odoo.Password,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	cfg := tools.Config{
		API:            client,
		Cache:          statecache.New(client, config.Odoo.Database, logger),
		Database:       config.Odoo.Database,
		MasterPassword: config.Odoo.MasterPassword,
		Logger:         logger,
	}

	probe := health.New(config.Odoo.URL+"/web/health", health.WithLogger(logger))
	cfg.Health = probe

	if config.Compose.Path != "" {
		orch, err := compose.New(compose.Config{Dir: config.Compose.Path, Logger: logger})
		if err != nil {
			return nil, err
		}
		cfg.Compose = orch

		if config.Snapshots.Dir != "" {
			snaps, err := snapshot.NewManager(snapshot.Config{
				Dir:          config.Snapshots.Dir,
				Orchestrator: orch,
				Health:       probe,
				Logger:       logger,
			})
			if err != nil {
				return nil, err
			}
			cfg.Snapshots = snaps
		}
	}

	cfg.PG = pg.NewClient(pg.Config{
		Host:     config.Postgres.Host,
		Port:     config.Postgres.Port,
		User:     config.Postgres.User,
		Password: config.Postgres.Password,
		Logger:   logger,
	})

	return tools.NewToolkit(cfg)
}

// printJSON renders command results; stdout stays machine-readable because
// logs go to stderr.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
