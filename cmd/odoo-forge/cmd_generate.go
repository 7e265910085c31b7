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
	"path/filepath"
	"sort"

	"github.com/hamzatrq/odoo-forge/pkg/codegen"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scaffold addons from a declarative spec",
}

var (
	generateSpec string
	generateOut  string
)

var generateAddonCmd = &cobra.Command{
	Use:   "addon",
	Short: "Generate a complete addon from a JSON description",
	Long: `Generate a complete installable addon (manifest, models, views,
access rules) from a JSON description of its models and fields. Write it
into the deployment's addons path and install it like any other module.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(generateSpec)
		if err != nil {
			return err
		}
		var addon codegen.Addon
		if err := json.Unmarshal(data, &addon); err != nil {
			return fmt.Errorf("invalid addon description: %w", err)
		}

		files, err := codegen.BuildAddon(addon)
		if err != nil {
			return err
		}

		root := filepath.Join(generateOut, addon.Name)
		paths := make([]string, 0, len(files))
		for path := range files {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			full := filepath.Join(root, path)
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(full, []byte(files[path]), 0o644); err != nil {
				return err
			}
			fmt.Println(full)
		}
		return nil
	},
}

func init() {
	generateAddonCmd.Flags().StringVar(&generateSpec, "spec", "", "JSON file describing the addon")
	_ = generateAddonCmd.MarkFlagRequired("spec")
	generateAddonCmd.Flags().StringVar(&generateOut, "out", ".", "output directory")

	generateCmd.AddCommand(generateAddonCmd)
	rootCmd.AddCommand(generateCmd)
}
