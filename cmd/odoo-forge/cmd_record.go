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
	"strconv"

	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Search, create, update, and delete records",
}

// parseDomain decodes a JSON search domain, e.g.
// '[["customer_rank", ">", 0]]'.
func parseDomain(s string) ([]interface{}, error) {
	if s == "" {
		return nil, nil
	}
	var domain []interface{}
	if err := json.Unmarshal([]byte(s), &domain); err != nil {
		return nil, fmt.Errorf("invalid domain JSON: %w", err)
	}
	return domain, nil
}

func parseValues(s string) (map[string]interface{}, error) {
	var values map[string]interface{}
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, fmt.Errorf("invalid values JSON: %w", err)
	}
	return values, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid record id %q", a)
		}
		ids[i] = id
	}
	return ids, nil
}

var (
	searchDomain string
	searchFields []string
	searchLimit  int
	searchOffset int
	searchOrder  string
)

var recordSearchCmd = &cobra.Command{
	Use:   "search <model>",
	Short: "Search records with a JSON domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := parseDomain(searchDomain)
		if err != nil {
			return err
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		records, err := tk.SearchRecords(cmd.Context(), args[0], domain, rpc.SearchOptions{
			Fields: searchFields,
			Limit:  searchLimit,
			Offset: searchOffset,
			Order:  searchOrder,
		})
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

var readFields []string

var recordReadCmd = &cobra.Command{
	Use:   "read <model> <id>...",
	Short: "Read specific records by id",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		records, err := tk.ReadRecords(cmd.Context(), args[0], ids, readFields)
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

var countDomain string

var recordCountCmd = &cobra.Command{
	Use:   "count <model>",
	Short: "Count records matching a JSON domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, err := parseDomain(countDomain)
		if err != nil {
			return err
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		n, err := tk.CountRecords(cmd.Context(), args[0], domain)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var createValues string

var recordCreateCmd = &cobra.Command{
	Use:   "create <model>",
	Short: "Create one record from JSON values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseValues(createValues)
		if err != nil {
			return err
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		id, err := tk.CreateRecord(cmd.Context(), args[0], values)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var updateValues string

var recordUpdateCmd = &cobra.Command{
	Use:   "update <model> <id>...",
	Short: "Write JSON values to records",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseValues(updateValues)
		if err != nil {
			return err
		}
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		return tk.UpdateRecords(cmd.Context(), args[0], ids, values)
	},
}

var recordDeleteYes bool

var recordDeleteCmd = &cobra.Command{
	Use:   "delete <model> <id>...",
	Short: "Permanently delete records",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		return tk.DeleteRecords(cmd.Context(), args[0], ids, recordDeleteYes)
	},
}

var (
	importFields []string
	importFile   string
)

var recordImportCmd = &cobra.Command{
	Use:   "import <model>",
	Short: "Bulk-import rows via the native load method",
	Long:  `Bulk-import records from a JSON file holding an array of rows (arrays of values, one per field). External ids in relational columns are resolved by the remote.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(importFile)
		if err != nil {
			return err
		}
		var rows [][]interface{}
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("invalid rows JSON: %w", err)
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		result, err := tk.ImportRecords(cmd.Context(), args[0], importFields, rows)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var termDomain string

var recordTermCmd = &cobra.Command{
	Use:   "term <business-term>",
	Short: "Search by business term (customer, invoice, lead, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := parseDomain(termDomain)
		if err != nil {
			return err
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		records, err := tk.SearchByTerm(cmd.Context(), args[0], extra, rpc.SearchOptions{Limit: searchLimit})
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

func init() {
	recordSearchCmd.Flags().StringVar(&searchDomain, "domain", "", "JSON search domain")
	recordSearchCmd.Flags().StringSliceVar(&searchFields, "fields", nil, "fields to return")
	recordSearchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum records")
	recordSearchCmd.Flags().IntVar(&searchOffset, "offset", 0, "records to skip")
	recordSearchCmd.Flags().StringVar(&searchOrder, "order", "", "sort order (e.g. \"name asc\")")

	recordReadCmd.Flags().StringSliceVar(&readFields, "fields", nil, "fields to return")
	recordCountCmd.Flags().StringVar(&countDomain, "domain", "", "JSON search domain")
	recordCreateCmd.Flags().StringVar(&createValues, "values", "", "JSON object of field values")
	_ = recordCreateCmd.MarkFlagRequired("values")
	recordUpdateCmd.Flags().StringVar(&updateValues, "values", "", "JSON object of field values")
	_ = recordUpdateCmd.MarkFlagRequired("values")
	recordDeleteCmd.Flags().BoolVar(&recordDeleteYes, "yes", false, "confirm destructive operation")
	recordImportCmd.Flags().StringSliceVar(&importFields, "fields", nil, "field names, one per row column")
	_ = recordImportCmd.MarkFlagRequired("fields")
	recordImportCmd.Flags().StringVar(&importFile, "file", "", "JSON file with an array of rows")
	_ = recordImportCmd.MarkFlagRequired("file")
	recordTermCmd.Flags().StringVar(&termDomain, "domain", "", "extra JSON domain appended to the term's filter")

	recordCmd.AddCommand(recordSearchCmd)
	recordCmd.AddCommand(recordReadCmd)
	recordCmd.AddCommand(recordCountCmd)
	recordCmd.AddCommand(recordCreateCmd)
	recordCmd.AddCommand(recordUpdateCmd)
	recordCmd.AddCommand(recordDeleteCmd)
	recordCmd.AddCommand(recordImportCmd)
	recordCmd.AddCommand(recordTermCmd)
	rootCmd.AddCommand(recordCmd)
}
