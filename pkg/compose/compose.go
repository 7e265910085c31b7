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

// Package compose orchestrates the Odoo docker compose deployment (web +
// postgres services) through the docker CLI. Compose has no SDK surface, so
// every operation is a subprocess with an explicit timeout and a hard
// kill-on-timeout policy.
package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds ordinary compose commands.
	DefaultTimeout = 2 * time.Minute
	// LongTimeout bounds module installs and large dumps/restores.
	LongTimeout = 5 * time.Minute
	// upTimeout bounds environment startup (image pulls included).
	upTimeout = 3 * time.Minute

	// WebService is the application container's compose service name.
	WebService = "web"
	// DBService is the postgres container's compose service name.
	DBService = "db"
)

// ContainerState is one entry of `docker compose ps --format json`.
type ContainerState struct {
	Name    string `json:"Name"`
	Service string `json:"Service"`
	State   string `json:"State"`
	Status  string `json:"Status"`
	Health  string `json:"Health"`
}

// Config configures a Compose wrapper.
type Config struct {
	// Dir is the directory containing docker-compose.yml (required).
	Dir string

	// Runner executes subprocesses (default: ExecRunner).
	Runner Runner

	// Logger is the zap logger (default: zap.NewNop).
	Logger *zap.Logger
}

// Compose wraps `docker compose -f <file>` for one deployment.
type Compose struct {
	dir    string
	file   string
	runner Runner
	logger *zap.Logger
}

// New creates a Compose wrapper, verifying the compose file exists.
func New(cfg Config) (*Compose, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("compose dir is required")
	}
	file := filepath.Join(cfg.Dir, "docker-compose.yml")
	if _, err := os.Stat(file); err != nil {
		return nil, fmt.Errorf("docker-compose.yml not found at %s: %w", file, err)
	}
	if cfg.Runner == nil {
		cfg.Runner = &ExecRunner{Logger: cfg.Logger}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Compose{dir: cfg.Dir, file: file, runner: cfg.Runner, logger: cfg.Logger}, nil
}

// Dir returns the compose project directory.
func (c *Compose) Dir() string { return c.dir }

func (c *Compose) args(sub ...string) []string {
	return append([]string{"docker", "compose", "-f", c.file}, sub...)
}

func (c *Compose) run(ctx context.Context, timeout time.Duration, sub ...string) (Result, error) {
	return c.runner.Run(ctx, c.dir, timeout, c.args(sub...)...)
}

// Up starts the environment and waits for compose-level health.
func (c *Compose) Up(ctx context.Context, detach bool) error {
	sub := []string{"up"}
	if detach {
		sub = append(sub, "-d")
	}
	sub = append(sub, "--wait")

	res, err := c.run(ctx, upTimeout, sub...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("docker compose up failed:\n%s", res.Stderr)
	}
	c.logger.Info("compose environment started")
	return nil
}

// Down stops the environment. Removing volumes erases all data.
func (c *Compose) Down(ctx context.Context, removeVolumes bool) error {
	sub := []string{"down"}
	if removeVolumes {
		sub = append(sub, "-v")
	}
	res, err := c.run(ctx, DefaultTimeout, sub...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("docker compose down failed:\n%s", res.Stderr)
	}
	c.logger.Info("compose environment stopped", zap.Bool("volumes_removed", removeVolumes))
	return nil
}

// Restart restarts one service.
func (c *Compose) Restart(ctx context.Context, service string) error {
	res, err := c.run(ctx, DefaultTimeout, "restart", service)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("restart of %q failed:\n%s", service, res.Stderr)
	}
	return nil
}

// Status reports container states. Lines that fail to parse as JSON are
// skipped; compose emits one JSON object per line.
func (c *Compose) Status(ctx context.Context) ([]ContainerState, error) {
	res, err := c.run(ctx, DefaultTimeout, "ps", "--format", "json")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("docker compose ps failed:\n%s", res.Stderr)
	}

	var containers []ContainerState
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var state ContainerState
		if err := json.Unmarshal([]byte(line), &state); err != nil {
			continue
		}
		containers = append(containers, state)
	}
	return containers, nil
}

// Logs returns recent log output for a service, optionally filtered by a
// case-insensitive pattern.
func (c *Compose) Logs(ctx context.Context, service string, tail int, since, grep string) (string, error) {
	if tail <= 0 {
		tail = 100
	}
	sub := []string{"logs", service, fmt.Sprintf("--tail=%d", tail), "--no-color"}
	if since != "" {
		sub = append(sub, "--since", since)
	}
	res, err := c.run(ctx, DefaultTimeout, sub...)
	if err != nil {
		return "", err
	}

	output := res.Stdout
	if output == "" {
		output = res.Stderr
	}
	if grep != "" && output != "" {
		pattern, err := regexp.Compile("(?i)" + grep)
		if err != nil {
			return "", fmt.Errorf("invalid grep pattern %q: %w", grep, err)
		}
		var matched []string
		for _, line := range strings.Split(output, "\n") {
			if pattern.MatchString(line) {
				matched = append(matched, line)
			}
		}
		output = strings.Join(matched, "\n")
	}
	return output, nil
}

// Exec runs a shell command inside a running service container and returns
// its stdout. A nonzero exit is an error carrying the captured output.
func (c *Compose) Exec(ctx context.Context, service, command string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	res, err := c.run(ctx, timeout, "exec", "-T", service, "bash", "-c", command)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		output := res.Stderr
		if output == "" {
			output = res.Stdout
		}
		return "", fmt.Errorf("exec in %q failed (exit %d):\n%s", service, res.ExitCode, output)
	}
	return res.Stdout, nil
}

// CopyFrom copies a file out of a service container.
func (c *Compose) CopyFrom(ctx context.Context, service, containerPath, localPath string) error {
	res, err := c.run(ctx, DefaultTimeout, "cp", service+":"+containerPath, localPath)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("copy from %s:%s failed:\n%s", service, containerPath, res.Stderr)
	}
	return nil
}

// CopyTo copies a local file into a service container.
func (c *Compose) CopyTo(ctx context.Context, localPath, service, containerPath string) error {
	res, err := c.run(ctx, DefaultTimeout, "cp", localPath, service+":"+containerPath)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("copy to %s:%s failed:\n%s", service, containerPath, res.Stderr)
	}
	return nil
}

// InstallModules installs modules through the Odoo CLI, which is more
// reliable than XML-RPC for large modules. Odoo logs to stderr.
func (c *Compose) InstallModules(ctx context.Context, db string, modules []string) (string, error) {
	return c.moduleCLI(ctx, db, "-i", modules)
}

// UpgradeModules upgrades modules through the Odoo CLI.
func (c *Compose) UpgradeModules(ctx context.Context, db string, modules []string) (string, error) {
	return c.moduleCLI(ctx, db, "-u", modules)
}

func (c *Compose) moduleCLI(ctx context.Context, db, flag string, modules []string) (string, error) {
	list := strings.Join(modules, ",")
	res, err := c.run(ctx, LongTimeout,
		"exec", "-T", WebService, "odoo", "-d", db, flag, list, "--stop-after-init")
	if err != nil {
		return "", err
	}

	output := res.Stderr
	if output == "" {
		output = res.Stdout
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("odoo CLI failed for [%s] on %q:\n%s", list, db, tailOf(output, 2000))
	}
	return output, nil
}

// tailOf returns the last n bytes of s; module install logs can be huge and
// only the end carries the failure reason.
func tailOf(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
