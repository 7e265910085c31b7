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

// Package pg provides direct PostgreSQL access for diagnostics and fast
// read-only queries that bypass the Odoo ORM: module states, database and
// table sizes, and view integrity checks.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Config configures a Client.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Logger   *zap.Logger
}

// Client holds one sql.DB per target database, created on demand.
type Client struct {
	host     string
	port     int
	user     string
	password string
	logger   *zap.Logger

	mu    sync.Mutex
	conns map[string]*sql.DB
}

// NewClient creates a Client. No connections are opened until first use.
func NewClient(cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.User == "" {
		cfg.User = "odoo"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		logger:   cfg.Logger,
		conns:    map[string]*sql.DB{},
	}
}

func (c *Client) db(database string) (*sql.DB, error) {
	if database == "" {
		database = "postgres"
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if db, ok := c.conns[database]; ok {
		return db, nil
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.user), url.QueryEscape(c.password), c.host, c.port, database)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection to %q: %w", database, err)
	}
	db.SetMaxOpenConns(5)
	c.conns[database] = db
	return db, nil
}

// Close closes every open connection pool.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for name, db := range c.conns {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.conns, name)
	}
	return firstErr
}

// ModuleState is one row of the fast module-status query.
type ModuleState struct {
	Name    string
	State   string
	Version string
}

// InstalledModules queries ir_module_module directly, bypassing the ORM.
func (c *Client) InstalledModules(ctx context.Context, database string) ([]ModuleState, error) {
	db, err := c.db(database)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT name, state, COALESCE(latest_version, '')
		 FROM ir_module_module
		 WHERE state = 'installed'
		 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("module query failed: %w", err)
	}
	defer rows.Close()

	var modules []ModuleState
	for rows.Next() {
		var m ModuleState
		if err := rows.Scan(&m.Name, &m.State, &m.Version); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// DatabaseSize returns the target database's size in human-readable form.
func (c *Client) DatabaseSize(ctx context.Context, database string) (string, error) {
	db, err := c.db("postgres")
	if err != nil {
		return "", err
	}
	var size string
	err = db.QueryRowContext(ctx,
		`SELECT pg_size_pretty(pg_database_size($1))`, database).Scan(&size)
	if err != nil {
		return "", fmt.Errorf("size query failed: %w", err)
	}
	return size, nil
}

// TableSize is one row of the largest-tables diagnostic.
type TableSize struct {
	Table     string
	Pretty    string
	SizeBytes int64
}

// TableSizes lists the largest tables in the target database.
func (c *Client) TableSizes(ctx context.Context, database string, limit int) ([]TableSize, error) {
	if limit <= 0 {
		limit = 20
	}
	db, err := c.db(database)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT relname,
		        pg_size_pretty(pg_total_relation_size(c.oid)),
		        pg_total_relation_size(c.oid)
		 FROM pg_class c
		 LEFT JOIN pg_namespace n ON n.oid = c.relnamespace
		 WHERE n.nspname = 'public' AND c.relkind = 'r'
		 ORDER BY pg_total_relation_size(c.oid) DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("table size query failed: %w", err)
	}
	defer rows.Close()

	var sizes []TableSize
	for rows.Next() {
		var t TableSize
		if err := rows.Scan(&t.Table, &t.Pretty, &t.SizeBytes); err != nil {
			return nil, err
		}
		sizes = append(sizes, t)
	}
	return sizes, rows.Err()
}

// OrphanedView is a view whose inherit parent no longer exists.
type OrphanedView struct {
	ID    int64
	Name  string
	Model string
}

// CheckViewIntegrity finds views with orphaned inherit references.
func (c *Client) CheckViewIntegrity(ctx context.Context, database string) ([]OrphanedView, error) {
	db, err := c.db(database)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT v.id, COALESCE(v.name, ''), COALESCE(v.model, '')
		 FROM ir_ui_view v
		 LEFT JOIN ir_ui_view p ON v.inherit_id = p.id
		 WHERE v.inherit_id IS NOT NULL AND p.id IS NULL
		 ORDER BY v.model, v.name`)
	if err != nil {
		return nil, fmt.Errorf("view integrity query failed: %w", err)
	}
	defer rows.Close()

	var orphans []OrphanedView
	for rows.Next() {
		var v OrphanedView
		if err := rows.Scan(&v.ID, &v.Name, &v.Model); err != nil {
			return nil, err
		}
		orphans = append(orphans, v)
	}
	return orphans, rows.Err()
}

// ListDatabases lists non-template databases, excluding postgres itself.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	db, err := c.db("postgres")
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT datname FROM pg_database
		 WHERE datistemplate = false AND datname <> 'postgres'
		 ORDER BY datname`)
	if err != nil {
		return nil, fmt.Errorf("database list query failed: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
