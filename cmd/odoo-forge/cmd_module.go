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

	"github.com/spf13/cobra"
)

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Install, upgrade, and inspect modules",
}

var moduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed modules on the target database",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		modules, err := tk.ListModules(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(modules)
	},
}

var moduleInstallCmd = &cobra.Command{
	Use:   "install <name>...",
	Short: "Install modules on the target database",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		if _, err := tk.InstallModules(cmd.Context(), args); err != nil {
			return err
		}
		fmt.Printf("installed: %s\n", strings.Join(args, ", "))
		return nil
	},
}

var moduleUpgradeCmd = &cobra.Command{
	Use:   "upgrade <name>...",
	Short: "Upgrade modules on the target database",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		if _, err := tk.UpgradeModules(cmd.Context(), args); err != nil {
			return err
		}
		fmt.Printf("upgraded: %s\n", strings.Join(args, ", "))
		return nil
	},
}

var moduleUninstallYes bool

var moduleUninstallCmd = &cobra.Command{
	Use:   "uninstall <name>...",
	Short: "Uninstall modules, deleting the data they own",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		return tk.UninstallModules(cmd.Context(), args, moduleUninstallYes)
	},
}

var moduleStatusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show one module's lifecycle state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		state, err := tk.ModuleStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(state)
		return nil
	},
}

var moduleRecommendCmd = &cobra.Command{
	Use:   "recommend <requirement>",
	Short: "Match a business requirement against the module catalog",
	Long:  `Match a free-text business requirement ("we need lead management") against the built-in module catalog and report candidates with their dependencies and installed state.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		return printJSON(tk.RecommendModules(strings.Join(args, " ")))
	},
}

func init() {
	moduleUninstallCmd.Flags().BoolVar(&moduleUninstallYes, "yes", false, "confirm destructive operation")

	moduleCmd.AddCommand(moduleListCmd)
	moduleCmd.AddCommand(moduleInstallCmd)
	moduleCmd.AddCommand(moduleUpgradeCmd)
	moduleCmd.AddCommand(moduleUninstallCmd)
	moduleCmd.AddCommand(moduleStatusCmd)
	moduleCmd.AddCommand(moduleRecommendCmd)
	rootCmd.AddCommand(moduleCmd)
}
