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

// Package snapshot manages named point-in-time database backups: pg_dump
// inside the database container, one binary dump plus one JSON manifest per
// snapshot in the local store. Restore replaces the target database
// entirely; it is not a merge.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Manifest describes one snapshot. Persisted as <name>.json beside
// <name>.dump; a manifest without its dump file is considered corrupt.
type Manifest struct {
	Name        string    `json:"name"`
	Database    string    `json:"database"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	DumpFile    string    `json:"dump_file"`
	SizeBytes   int64     `json:"size_bytes"`
}

// SnapshotError is any failure of the snapshot lifecycle. Output carries the
// captured command output when a container step failed.
type SnapshotError struct {
	Op     string
	Name   string
	Output string
	Err    error
}

func (e *SnapshotError) Error() string {
	msg := fmt.Sprintf("snapshot %s %q failed", e.Op, e.Name)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// Orchestrator is the slice of the compose wrapper the manager needs.
// *compose.Compose satisfies it.
type Orchestrator interface {
	Exec(ctx context.Context, service, command string, timeout time.Duration) (string, error)
	CopyFrom(ctx context.Context, service, containerPath, localPath string) error
	CopyTo(ctx context.Context, localPath, service, containerPath string) error
	Restart(ctx context.Context, service string) error
}

// HealthWaiter blocks until the application serves traffic again.
// *health.Probe satisfies it.
type HealthWaiter interface {
	Wait(ctx context.Context, timeout time.Duration) error
}

// nameRe guards snapshot and database names before they are interpolated
// into container shell commands.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	dumpTimeout   = 5 * time.Minute
	healthTimeout = 2 * time.Minute
)

// Config configures a Manager.
type Config struct {
	// Dir is the snapshot store directory (required).
	Dir string

	// Orchestrator runs container commands (required).
	Orchestrator Orchestrator

	// Health waits for the application after a restore (required).
	Health HealthWaiter

	// DBService and WebService are the compose service names
	// (defaults: "db" and "web").
	DBService  string
	WebService string

	// PGUser is the postgres superuser inside the db container
	// (default: "odoo").
	PGUser string

	// Logger is the zap logger (default: zap.NewNop).
	Logger *zap.Logger
}

// Manager owns the snapshot store. It is the only durable state this
// subsystem keeps outside the remote instance itself.
type Manager struct {
	dir        string
	orch       Orchestrator
	health     HealthWaiter
	dbService  string
	webService string
	pgUser     string
	logger     *zap.Logger
}

// NewManager creates a Manager, creating the store directory if needed.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapshot dir is required")
	}
	if cfg.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if cfg.Health == nil {
		return nil, fmt.Errorf("health waiter is required")
	}
	if cfg.DBService == "" {
		cfg.DBService = "db"
	}
	if cfg.WebService == "" {
		cfg.WebService = "web"
	}
	if cfg.PGUser == "" {
		cfg.PGUser = "odoo"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &Manager{
		dir:        cfg.Dir,
		orch:       cfg.Orchestrator,
		health:     cfg.Health,
		dbService:  cfg.DBService,
		webService: cfg.WebService,
		pgUser:     cfg.PGUser,
		logger:     cfg.Logger,
	}, nil
}

// Dir returns the snapshot store directory.
func (m *Manager) Dir() string { return m.dir }

func (m *Manager) dumpPath(name string) string {
	return filepath.Join(m.dir, name+".dump")
}

func (m *Manager) manifestPath(name string) string {
	return filepath.Join(m.dir, name+".json")
}

func validateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name is required", kind)
	}
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%s name %q contains invalid characters (allowed: letters, digits, underscores, hyphens)", kind, name)
	}
	return nil
}

// Create dumps the database inside the db container, copies the dump into
// the store, and writes the manifest. A duplicate name is rejected before
// any subprocess runs. There is no rollback of completed steps, but the
// container-local temp dump is cleaned up on the copy-out failure path.
func (m *Manager) Create(ctx context.Context, database, name, description string) (*Manifest, error) {
	if err := validateName("snapshot", name); err != nil {
		return nil, &SnapshotError{Op: "create", Name: name, Err: err}
	}
	if err := validateName("database", database); err != nil {
		return nil, &SnapshotError{Op: "create", Name: name, Err: err}
	}

	existing, err := m.List("")
	if err != nil {
		return nil, &SnapshotError{Op: "create", Name: name, Err: err}
	}
	for _, s := range existing {
		if s.Name == name {
			return nil, &SnapshotError{Op: "create", Name: name,
				Err: fmt.Errorf("snapshot %q already exists; delete it or pick another name", name)}
		}
	}

	dumpFile := name + ".dump"
	containerPath := "/tmp/" + dumpFile

	dumpCmd := fmt.Sprintf("pg_dump -U %s -Fc %s -f %s", m.pgUser, database, containerPath)
	if out, err := m.orch.Exec(ctx, m.dbService, dumpCmd, dumpTimeout); err != nil {
		return nil, &SnapshotError{Op: "create", Name: name, Output: out, Err: err}
	}

	localPath := m.dumpPath(name)
	if err := m.orch.CopyFrom(ctx, m.dbService, containerPath, localPath); err != nil {
		// Best effort: don't leave the temp dump behind in the container.
		m.cleanupContainerFile(ctx, containerPath)
		return nil, &SnapshotError{Op: "create", Name: name, Err: err}
	}

	m.cleanupContainerFile(ctx, containerPath)

	var size int64
	if info, err := os.Stat(localPath); err == nil {
		size = info.Size()
	}

	manifest := &Manifest{
		Name:        name,
		Database:    database,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		DumpFile:    dumpFile,
		SizeBytes:   size,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, &SnapshotError{Op: "create", Name: name, Err: err}
	}
	if err := os.WriteFile(m.manifestPath(name), data, 0o644); err != nil {
		return nil, &SnapshotError{Op: "create", Name: name, Err: err}
	}

	m.logger.Info("snapshot created",
		zap.String("name", name),
		zap.String("database", database),
		zap.Int64("size_bytes", size),
	)
	return manifest, nil
}

// Restore replaces the target database with the snapshot's contents: copy
// the dump in, terminate other connections, drop and recreate the database,
// pg_restore, restart the application, and wait until it serves traffic.
// Callers issuing RPC concurrently with a restore will observe errors while
// the database is dropped; that is accepted.
func (m *Manager) Restore(ctx context.Context, database, name string) error {
	if err := validateName("snapshot", name); err != nil {
		return &SnapshotError{Op: "restore", Name: name, Err: err}
	}
	if err := validateName("database", database); err != nil {
		return &SnapshotError{Op: "restore", Name: name, Err: err}
	}

	manifest, err := m.readManifest(name)
	if err != nil {
		return &SnapshotError{Op: "restore", Name: name, Err: err}
	}
	localPath := filepath.Join(m.dir, manifest.DumpFile)
	if _, err := os.Stat(localPath); err != nil {
		return &SnapshotError{Op: "restore", Name: name,
			Err: fmt.Errorf("dump file %s missing (corrupt snapshot): %w", manifest.DumpFile, err)}
	}

	containerPath := "/tmp/" + manifest.DumpFile
	if err := m.orch.CopyTo(ctx, localPath, m.dbService, containerPath); err != nil {
		return &SnapshotError{Op: "restore", Name: name, Err: err}
	}

	steps := []struct {
		desc    string
		command string
		timeout time.Duration
	}{
		{
			desc: "terminate connections",
			command: fmt.Sprintf(
				`psql -U %s -d postgres -c "SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname='%s' AND pid <> pg_backend_pid();"`,
				m.pgUser, database),
		},
		{desc: "drop database", command: fmt.Sprintf("dropdb -U %s --if-exists %s", m.pgUser, database)},
		{desc: "create database", command: fmt.Sprintf("createdb -U %s %s", m.pgUser, database)},
		{
			desc:    "pg_restore",
			command: fmt.Sprintf("pg_restore -U %s -d %s --no-owner %s", m.pgUser, database, containerPath),
			timeout: dumpTimeout,
		},
	}
	for _, step := range steps {
		if out, err := m.orch.Exec(ctx, m.dbService, step.command, step.timeout); err != nil {
			return &SnapshotError{Op: "restore", Name: name, Output: out,
				Err: fmt.Errorf("%s: %w", step.desc, err)}
		}
	}

	m.cleanupContainerFile(ctx, containerPath)

	if err := m.orch.Restart(ctx, m.webService); err != nil {
		return &SnapshotError{Op: "restore", Name: name, Err: err}
	}
	if err := m.health.Wait(ctx, healthTimeout); err != nil {
		return &SnapshotError{Op: "restore", Name: name,
			Err: fmt.Errorf("application did not recover after restore: %w", err)}
	}

	m.logger.Info("snapshot restored",
		zap.String("name", name),
		zap.String("database", database),
	)
	return nil
}

// List reads every manifest in the store, optionally filtered by database.
// Manifests that fail to parse are skipped: a crashed prior run may have
// left a partial write behind.
func (m *Manager) List(database string) ([]Manifest, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot dir: %w", err)
	}

	var snapshots []Manifest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			continue
		}
		var manifest Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			continue
		}
		if database != "" && manifest.Database != database {
			continue
		}
		snapshots = append(snapshots, manifest)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Name < snapshots[j].Name
	})
	return snapshots, nil
}

// Delete removes the dump and manifest, reporting bytes freed. Deleting a
// nonexistent snapshot succeeds and frees zero bytes, keeping the operation
// idempotent.
func (m *Manager) Delete(name string) (int64, error) {
	if err := validateName("snapshot", name); err != nil {
		return 0, &SnapshotError{Op: "delete", Name: name, Err: err}
	}

	var freed int64
	if info, err := os.Stat(m.dumpPath(name)); err == nil {
		freed = info.Size()
		if err := os.Remove(m.dumpPath(name)); err != nil {
			return 0, &SnapshotError{Op: "delete", Name: name, Err: err}
		}
	}
	if err := os.Remove(m.manifestPath(name)); err != nil && !os.IsNotExist(err) {
		return freed, &SnapshotError{Op: "delete", Name: name, Err: err}
	}

	m.logger.Info("snapshot deleted", zap.String("name", name), zap.Int64("freed_bytes", freed))
	return freed, nil
}

func (m *Manager) readManifest(name string) (*Manifest, error) {
	data, err := os.ReadFile(m.manifestPath(name))
	if err != nil {
		return nil, fmt.Errorf("snapshot %q not found: %w", name, err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("manifest for %q is corrupt: %w", name, err)
	}
	return &manifest, nil
}

func (m *Manager) cleanupContainerFile(ctx context.Context, path string) {
	if _, err := m.orch.Exec(ctx, m.dbService, "rm -f "+path, 0); err != nil {
		m.logger.Warn("failed to remove container temp file", zap.String("path", path), zap.Error(err))
	}
}
