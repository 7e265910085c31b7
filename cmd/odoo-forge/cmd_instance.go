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

	"github.com/hamzatrq/odoo-forge/pkg/compose"
	"github.com/spf13/cobra"
)

var instanceCmd = &cobra.Command{
	Use:   "instance",
	Short: "Start, stop, and inspect the deployment",
}

var instanceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the environment and wait until it serves traffic",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		if err := tk.StartInstance(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("instance is up")
		return nil
	},
}

var (
	stopVolumes bool
	stopYes     bool
)

var instanceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		return tk.StopInstance(cmd.Context(), stopVolumes, stopYes)
	},
}

var instanceRestartCmd = &cobra.Command{
	Use:   "restart [service]",
	Short: "Restart a service (default: web)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := compose.WebService
		if len(args) == 1 {
			service = args[0]
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		return tk.RestartService(cmd.Context(), service)
	},
}

var instanceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show container states, server version, and liveness",
	RunE: func(cmd *cobra.Command, args []string) error {
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		status, err := tk.Status(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

var (
	logsTail  int
	logsSince string
	logsGrep  string
)

var instanceLogsCmd = &cobra.Command{
	Use:   "logs [service]",
	Short: "Show recent service logs (default: web)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := compose.WebService
		if len(args) == 1 {
			service = args[0]
		}
		tk, err := buildToolkit()
		if err != nil {
			return err
		}
		out, err := tk.Logs(cmd.Context(), service, logsTail, logsSince, logsGrep)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	instanceStopCmd.Flags().BoolVar(&stopVolumes, "volumes", false, "also remove volumes (erases all data)")
	instanceStopCmd.Flags().BoolVar(&stopYes, "yes", false, "confirm destructive operation")

	instanceLogsCmd.Flags().IntVar(&logsTail, "tail", 100, "number of lines from the end")
	instanceLogsCmd.Flags().StringVar(&logsSince, "since", "", "only logs since this time (e.g. 10m)")
	instanceLogsCmd.Flags().StringVar(&logsGrep, "grep", "", "case-insensitive filter pattern")

	instanceCmd.AddCommand(instanceStartCmd)
	instanceCmd.AddCommand(instanceStopCmd)
	instanceCmd.AddCommand(instanceRestartCmd)
	instanceCmd.AddCommand(instanceStatusCmd)
	instanceCmd.AddCommand(instanceLogsCmd)
	rootCmd.AddCommand(instanceCmd)
}
