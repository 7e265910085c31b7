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

// Package statecache maintains an in-memory mirror of the remote instance's
// installed modules, per-model field schema, and model catalog. Mutating
// operations refresh it afterwards so local validation stays truthful.
//
// Refresh failures are deliberately folded into the last known value: a
// stale cache is safer than blocking the agent entirely. This is a named
// policy, not an oversight — refresh methods still return the error so
// callers that care can see it.
package statecache

import (
	"context"
	"sync"
	"time"

	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"go.uber.org/zap"
)

// Fetcher is the slice of the session client the cache needs. *rpc.Client
// satisfies it.
type Fetcher interface {
	SearchRead(ctx context.Context, db, model string, domain []interface{}, opts rpc.SearchOptions) ([]map[string]interface{}, error)
	FieldsGet(ctx context.Context, db, model string, attributes []string) (map[string]rpc.FieldDef, error)
}

// fieldAttributes is the subset of fields_get attributes the cache mirrors.
var fieldAttributes = []string{"string", "type", "required", "readonly", "relation"}

// Cache mirrors the live state of one target database. Single-writer,
// read-mostly; every refresh replaces its entry wholesale so readers never
// observe a half-updated field set.
type Cache struct {
	fetcher Fetcher
	db      string
	logger  *zap.Logger

	mu          sync.Mutex
	modules     map[string]string // module name -> lifecycle state
	modelFields map[string]map[string]rpc.FieldDef
	models      []string
	lastRefresh time.Time
}

// New creates a Cache bound to one target database. Entries are populated
// lazily on first access.
func New(fetcher Fetcher, db string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		fetcher:     fetcher,
		db:          db,
		logger:      logger,
		modules:     map[string]string{},
		modelFields: map[string]map[string]rpc.FieldDef{},
	}
}

// Database returns the database this cache mirrors.
func (c *Cache) Database() string { return c.db }

// Initialized reports whether any refresh has ever succeeded.
func (c *Cache) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.lastRefresh.IsZero()
}

// RefreshModules re-queries the installed module set. On failure it returns
// the previous (stale) value together with the error.
func (c *Cache) RefreshModules(ctx context.Context) (map[string]string, error) {
	records, err := c.fetcher.SearchRead(ctx, c.db, "ir.module.module",
		[]interface{}{[]interface{}{"state", "=", "installed"}},
		rpc.SearchOptions{Fields: []string{"name", "state"}, Limit: 500},
	)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("failed to refresh module cache", zap.Error(err))
		return copyModules(c.modules), err
	}

	modules := make(map[string]string, len(records))
	for _, r := range records {
		name, _ := r["name"].(string)
		state, _ := r["state"].(string)
		if name != "" {
			modules[name] = state
		}
	}
	c.modules = modules
	c.lastRefresh = time.Now().UTC()
	c.logger.Debug("refreshed module cache", zap.Int("installed", len(modules)))
	return copyModules(modules), nil
}

// RefreshModelFields re-queries fields_get for one model, replacing its
// cached entry wholesale. Stale-on-failure like RefreshModules.
func (c *Cache) RefreshModelFields(ctx context.Context, model string) (map[string]rpc.FieldDef, error) {
	fields, err := c.fetcher.FieldsGet(ctx, c.db, model, fieldAttributes)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("failed to refresh field cache", zap.String("model", model), zap.Error(err))
		return copyFields(c.modelFields[model]), err
	}

	c.modelFields[model] = fields
	c.lastRefresh = time.Now().UTC()
	c.logger.Debug("refreshed field cache", zap.String("model", model), zap.Int("fields", len(fields)))
	return copyFields(fields), nil
}

// RefreshModels re-queries the catalog of model names.
func (c *Cache) RefreshModels(ctx context.Context) ([]string, error) {
	records, err := c.fetcher.SearchRead(ctx, c.db, "ir.model", nil,
		rpc.SearchOptions{Fields: []string{"model"}, Limit: 2000},
	)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("failed to refresh model catalog", zap.Error(err))
		return append([]string(nil), c.models...), err
	}

	models := make([]string, 0, len(records))
	for _, r := range records {
		if m, ok := r["model"].(string); ok {
			models = append(models, m)
		}
	}
	c.models = models
	c.lastRefresh = time.Now().UTC()
	return append([]string(nil), models...), nil
}

// RefreshAll refreshes modules, the model catalog, and every model whose
// fields have ever been cached. Refreshing all possible models is too
// expensive, so only previously-seen ones are touched.
func (c *Cache) RefreshAll(ctx context.Context) {
	c.RefreshModules(ctx)
	c.RefreshModels(ctx)

	c.mu.Lock()
	cached := make([]string, 0, len(c.modelFields))
	for model := range c.modelFields {
		cached = append(cached, model)
	}
	c.mu.Unlock()

	for _, model := range cached {
		c.RefreshModelFields(ctx, model)
	}
}

// IsModuleInstalled answers from the cached installed-module set.
func (c *Cache) IsModuleInstalled(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.modules[name]
	return ok
}

// InstalledModules returns a copy of the cached module set.
func (c *Cache) InstalledModules() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyModules(c.modules)
}

// ModelFields returns the cached schema for a model, or nil when the model
// has never been fetched. Absence means unknown, not nonexistent.
func (c *Cache) ModelFields(model string) map[string]rpc.FieldDef {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fields, ok := c.modelFields[model]; ok {
		return copyFields(fields)
	}
	return nil
}

// Models returns the cached model catalog.
func (c *Cache) Models() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.models...)
}

// IsFieldValid answers from cache when the model is cached, fetching live
// first on a cold cache to avoid false negatives.
func (c *Cache) IsFieldValid(ctx context.Context, model, field string) bool {
	c.mu.Lock()
	fields, cached := c.modelFields[model]
	c.mu.Unlock()

	if !cached {
		fields, _ = c.RefreshModelFields(ctx, model)
	}
	_, ok := fields[field]
	return ok
}

// ValidateFields returns the subset of names not present in the model's
// schema. The synthetic identifier field is always valid. When the model has
// never been fetched and the fetch yields nothing, validation is skipped
// (empty result): an empty schema cannot distinguish "model has no fields"
// from "model unknown".
func (c *Cache) ValidateFields(ctx context.Context, model string, names []string) []string {
	c.mu.Lock()
	fields, cached := c.modelFields[model]
	c.mu.Unlock()

	if !cached {
		fields, _ = c.RefreshModelFields(ctx, model)
	}
	if len(fields) == 0 {
		return nil
	}

	var invalid []string
	for _, name := range names {
		if name == "id" {
			continue
		}
		if _, ok := fields[name]; !ok {
			invalid = append(invalid, name)
		}
	}
	return invalid
}

func copyModules(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFields(m map[string]rpc.FieldDef) map[string]rpc.FieldDef {
	if m == nil {
		return map[string]rpc.FieldDef{}
	}
	out := make(map[string]rpc.FieldDef, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
