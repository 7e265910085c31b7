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

	"github.com/hamzatrq/odoo-forge/pkg/tools"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect and extend model schemas",
}

var schemaFieldsCmd = &cobra.Command{
	Use:   "fields <model>",
	Short: "Show a model's field schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		fields, err := tk.ModelFields(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(fields)
	},
}

var (
	fieldType     string
	fieldLabel    string
	fieldRequired bool
	fieldRelation string
)

var schemaAddFieldCmd = &cobra.Command{
	Use:   "add-field <model> <x_name>",
	Short: "Add a custom x_ field to an existing model",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		id, err := tk.CreateCustomField(cmd.Context(), args[0], tools.CustomFieldSpec{
			Name:     args[1],
			Type:     fieldType,
			Label:    fieldLabel,
			Required: fieldRequired,
			Relation: fieldRelation,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created field %s on %s (id %d)\n", args[1], args[0], id)
		return nil
	},
}

var schemaCheckViewsCmd = &cobra.Command{
	Use:   "check-views",
	Short: "Find views whose inherit parent no longer exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		orphans, err := tk.CheckViewIntegrity(cmd.Context())
		if err != nil {
			return err
		}
		if len(orphans) == 0 {
			fmt.Println("no orphaned views")
			return nil
		}
		return printJSON(orphans)
	},
}

func init() {
	schemaAddFieldCmd.Flags().StringVar(&fieldType, "type", "char", "field type")
	schemaAddFieldCmd.Flags().StringVar(&fieldLabel, "label", "", "user-facing label")
	schemaAddFieldCmd.Flags().BoolVar(&fieldRequired, "required", false, "field is required")
	schemaAddFieldCmd.Flags().StringVar(&fieldRelation, "relation", "", "comodel for relational types")

	schemaCmd.AddCommand(schemaFieldsCmd)
	schemaCmd.AddCommand(schemaAddFieldCmd)
	schemaCmd.AddCommand(schemaCheckViewsCmd)
	rootCmd.AddCommand(schemaCmd)
}
