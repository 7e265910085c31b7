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

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Checkpoint and restore the target database",
}

var snapDescription string

var snapshotCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a named snapshot of the target database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		manifest, err := tk.CreateSnapshot(cmd.Context(), args[0], snapDescription)
		if err != nil {
			return err
		}
		return printJSON(manifest)
	},
}

var snapRestoreYes bool

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Replace the target database with a snapshot's contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		if err := tk.RestoreSnapshot(cmd.Context(), args[0], snapRestoreYes); err != nil {
			return err
		}
		fmt.Printf("snapshot %q restored\n", args[0])
		return nil
	},
}

var snapListDB string

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		snapshots, err := tk.ListSnapshots(snapListDB)
		if err != nil {
			return err
		}
		return printJSON(snapshots)
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a snapshot from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		freed, err := tk.DeleteSnapshot(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("deleted %q, freed %d bytes\n", args[0], freed)
		return nil
	},
}

func init() {
	snapshotCreateCmd.Flags().StringVar(&snapDescription, "description", "", "what this checkpoint captures")
	snapshotRestoreCmd.Flags().BoolVar(&snapRestoreYes, "yes", false, "confirm destructive operation")
	snapshotListCmd.Flags().StringVar(&snapListDB, "database", "", "filter by database (default: all)")

	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}
