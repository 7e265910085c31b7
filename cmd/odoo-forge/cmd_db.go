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

	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage databases on the instance",
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all databases",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		names, err := tk.ListDatabases()
		if err != nil {
			return err
		}
		return printJSON(names)
	},
}

var (
	dbDemo          bool
	dbLang          string
	dbCountry       string
	dbAdminLogin    string
	dbAdminPassword string
)

var dbCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create and initialize a new database",
	Long:  `Create a new database and initialize the base module. The remote call returns only after initialization finishes, which can take several minutes.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		if err := tk.CreateDatabase(args[0], rpc.DBCreateOptions{
			Demo:          dbDemo,
			Language:      dbLang,
			CountryCode:   dbCountry,
			AdminLogin:    dbAdminLogin,
			AdminPassword: dbAdminPassword,
		}); err != nil {
			return err
		}
		fmt.Printf("database %q created\n", args[0])
		return nil
	},
}

var dbDropYes bool

var dbDropCmd = &cobra.Command{
	Use:   "drop <name>",
	Short: "Drop a database (irreversible)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		return tk.DropDatabase(args[0], dbDropYes)
	},
}

var dbInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show size and content diagnostics straight from postgres",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		info, err := tk.DatabaseInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(info)
	},
}

func init() {
	dbCreateCmd.Flags().BoolVar(&dbDemo, "demo", false, "install demo data")
	dbCreateCmd.Flags().StringVar(&dbLang, "lang", "en_US", "language code")
	dbCreateCmd.Flags().StringVar(&dbCountry, "country", "", "country code (e.g. us, de)")
	dbCreateCmd.Flags().StringVar(&dbAdminLogin, "admin-login", "admin", "admin login")
	dbCreateCmd.Flags().StringVar(&dbAdminPassword, "admin-password", "admin", "admin password")

	dbDropCmd.Flags().BoolVar(&dbDropYes, "yes", false, "confirm destructive operation")

	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbCreateCmd)
	dbCmd.AddCommand(dbDropCmd)
	dbCmd.AddCommand(dbInfoCmd)
	rootCmd.AddCommand(dbCmd)
}
