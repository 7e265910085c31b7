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

// Package tools is the operation layer: every user-facing action goes
// through a Toolkit method that validates input against the live state
// cache, performs the remote call, and refreshes the cache after mutations.
// Destructive operations are gated behind an explicit confirm flag.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/hamzatrq/odoo-forge/pkg/compose"
	"github.com/hamzatrq/odoo-forge/pkg/pg"
	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"github.com/hamzatrq/odoo-forge/pkg/snapshot"
	"github.com/hamzatrq/odoo-forge/pkg/statecache"
	"go.uber.org/zap"
)

// API is the slice of the session client the toolkit needs. *rpc.Client
// satisfies it.
type API interface {
	Execute(ctx context.Context, db, model, method string, args []interface{}, kwargs map[string]interface{}) (interface{}, error)
	SearchRead(ctx context.Context, db, model string, domain []interface{}, opts rpc.SearchOptions) ([]map[string]interface{}, error)
	SearchCount(ctx context.Context, db, model string, domain []interface{}) (int64, error)
	Create(ctx context.Context, db, model string, values map[string]interface{}) (int64, error)
	Read(ctx context.Context, db, model string, ids []int64, fields []string) ([]map[string]interface{}, error)
	Write(ctx context.Context, db, model string, ids []int64, values map[string]interface{}) error
	Unlink(ctx context.Context, db, model string, ids []int64) error
	Load(ctx context.Context, db, model string, fields []string, rows [][]interface{}) (map[string]interface{}, error)
	GetView(ctx context.Context, db, model, viewType string, viewID int64) (map[string]interface{}, error)
	CreateInheritingView(ctx context.Context, db, model string, parentViewID int64, name, arch string, priority int) (int64, error)
	ServerVersion() (string, error)
	DBList() ([]string, error)
	DBExists(name string) (bool, error)
	DBCreate(masterPassword, name string, opts rpc.DBCreateOptions) error
	DBDrop(masterPassword, name string) error
	InvalidateSession()
}

var _ API = (*rpc.Client)(nil)

// Orchestrator is the slice of the compose wrapper the toolkit needs.
// *compose.Compose satisfies it.
type Orchestrator interface {
	Up(ctx context.Context, detach bool) error
	Down(ctx context.Context, removeVolumes bool) error
	Restart(ctx context.Context, service string) error
	Status(ctx context.Context) ([]compose.ContainerState, error)
	Logs(ctx context.Context, service string, tail int, since, grep string) (string, error)
	InstallModules(ctx context.Context, db string, modules []string) (string, error)
	UpgradeModules(ctx context.Context, db string, modules []string) (string, error)
}

var _ Orchestrator = (*compose.Compose)(nil)

// Snapshotter is the slice of the snapshot manager the toolkit needs.
// *snapshot.Manager satisfies it.
type Snapshotter interface {
	Create(ctx context.Context, database, name, description string) (*snapshot.Manifest, error)
	Restore(ctx context.Context, database, name string) error
	List(database string) ([]snapshot.Manifest, error)
	Delete(name string) (int64, error)
}

var _ Snapshotter = (*snapshot.Manager)(nil)

// HealthWaiter blocks until the application serves traffic. *health.Probe
// satisfies it.
type HealthWaiter interface {
	Wait(ctx context.Context, timeout time.Duration) error
}

// ConfirmationError is returned by a destructive operation invoked without
// confirm. Nothing has happened yet; the caller should describe Detail to
// the user and retry with confirm set.
type ConfirmationError struct {
	Action string
	Detail string
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("%s requires confirmation: %s", e.Action, e.Detail)
}

// Config configures a Toolkit. API, Cache, and Database are required; the
// remaining subsystems are optional and operations needing an absent one
// fail with a clear error.
type Config struct {
	API      API
	Cache    *statecache.Cache
	Database string

	Compose   Orchestrator
	Snapshots Snapshotter
	PG        *pg.Client
	Health    HealthWaiter

	// MasterPassword authorizes database create and drop.
	MasterPassword string

	Logger *zap.Logger
}

// Toolkit bundles the subsystems behind the operation layer.
type Toolkit struct {
	api    API
	cache  *statecache.Cache
	db     string
	orch   Orchestrator
	snaps  Snapshotter
	pg     *pg.Client
	health HealthWaiter
	master string
	logger *zap.Logger
}

// NewToolkit creates a Toolkit.
func NewToolkit(cfg Config) (*Toolkit, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("state cache is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Toolkit{
		api:    cfg.API,
		cache:  cfg.Cache,
		db:     cfg.Database,
		orch:   cfg.Compose,
		snaps:  cfg.Snapshots,
		pg:     cfg.PG,
		health: cfg.Health,
		master: cfg.MasterPassword,
		logger: cfg.Logger,
	}, nil
}

// Database returns the target database the toolkit operates on.
func (t *Toolkit) Database() string { return t.db }

func (t *Toolkit) needCompose() error {
	if t.orch == nil {
		return fmt.Errorf("container orchestration is not configured (set compose.path)")
	}
	return nil
}

func (t *Toolkit) needSnapshots() error {
	if t.snaps == nil {
		return fmt.Errorf("snapshot store is not configured (set snapshots.dir)")
	}
	return nil
}

func (t *Toolkit) needPG() error {
	if t.pg == nil {
		return fmt.Errorf("direct postgres access is not configured")
	}
	return nil
}
