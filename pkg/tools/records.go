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
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hamzatrq/odoo-forge/pkg/knowledge"
	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"go.uber.org/zap"
)

// checkFields rejects field names the cached schema does not know. A cold
// cache triggers a live fetch; an unknown model skips the check entirely.
func (t *Toolkit) checkFields(ctx context.Context, model string, names []string) error {
	invalid := t.cache.ValidateFields(ctx, model, names)
	if len(invalid) == 0 {
		return nil
	}
	sort.Strings(invalid)
	return fmt.Errorf("unknown fields on %s: %s", model, strings.Join(invalid, ", "))
}

func valueFields(values map[string]interface{}) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	return names
}

// SearchRecords validates the model, domain, and requested fields before
// searching.
func (t *Toolkit) SearchRecords(ctx context.Context, model string, domain []interface{}, opts rpc.SearchOptions) ([]map[string]interface{}, error) {
	if err := ValidateModelName(model); err != nil {
		return nil, err
	}
	if err := ValidateDomain(domain); err != nil {
		return nil, err
	}
	if err := t.checkFields(ctx, model, opts.Fields); err != nil {
		return nil, err
	}
	return t.api.SearchRead(ctx, t.db, model, domain, opts)
}

// CountRecords counts records matching a domain.
func (t *Toolkit) CountRecords(ctx context.Context, model string, domain []interface{}) (int64, error) {
	if err := ValidateModelName(model); err != nil {
		return 0, err
	}
	if err := ValidateDomain(domain); err != nil {
		return 0, err
	}
	return t.api.SearchCount(ctx, t.db, model, domain)
}

// ReadRecords reads specific records by id.
func (t *Toolkit) ReadRecords(ctx context.Context, model string, ids []int64, fields []string) ([]map[string]interface{}, error) {
	if err := ValidateModelName(model); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no record ids given")
	}
	if err := t.checkFields(ctx, model, fields); err != nil {
		return nil, err
	}
	return t.api.Read(ctx, t.db, model, ids, fields)
}

// CreateRecord validates the value keys against the schema and creates one
// record.
func (t *Toolkit) CreateRecord(ctx context.Context, model string, values map[string]interface{}) (int64, error) {
	if err := ValidateModelName(model); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("no values given for %s", model)
	}
	if err := t.checkFields(ctx, model, valueFields(values)); err != nil {
		return 0, err
	}
	id, err := t.api.Create(ctx, t.db, model, values)
	if err != nil {
		return 0, err
	}
	t.logger.Debug("record created", zap.String("model", model), zap.Int64("id", id))
	return id, nil
}

// UpdateRecords writes values to the given records.
func (t *Toolkit) UpdateRecords(ctx context.Context, model string, ids []int64, values map[string]interface{}) error {
	if err := ValidateModelName(model); err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no record ids given")
	}
	if len(values) == 0 {
		return fmt.Errorf("no values given for %s", model)
	}
	if err := t.checkFields(ctx, model, valueFields(values)); err != nil {
		return err
	}
	return t.api.Write(ctx, t.db, model, ids, values)
}

// DeleteRecords permanently deletes records and so requires confirm.
func (t *Toolkit) DeleteRecords(ctx context.Context, model string, ids []int64, confirm bool) error {
	if err := ValidateModelName(model); err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no record ids given")
	}
	if !confirm {
		return &ConfirmationError{
			Action: "delete records",
			Detail: fmt.Sprintf("%d %s record(s) will be permanently deleted", len(ids), model),
		}
	}
	if err := t.api.Unlink(ctx, t.db, model, ids); err != nil {
		return err
	}
	t.logger.Info("records deleted", zap.String("model", model), zap.Int("count", len(ids)))
	return nil
}

// ImportRecords bulk-imports rows through the native load method, which
// resolves external ids and reports row-level messages.
func (t *Toolkit) ImportRecords(ctx context.Context, model string, fields []string, rows [][]interface{}) (map[string]interface{}, error) {
	if err := ValidateModelName(model); err != nil {
		return nil, err
	}
	if len(fields) == 0 || len(rows) == 0 {
		return nil, fmt.Errorf("fields and rows are both required")
	}
	for i, row := range rows {
		if len(row) != len(fields) {
			return nil, fmt.Errorf("row %d has %d values for %d fields", i, len(row), len(fields))
		}
	}
	return t.api.Load(ctx, t.db, model, fields, rows)
}

// SearchByTerm resolves a business term ("customer", "invoice") through the
// dictionary and searches the resulting model with its implied filter
// prepended to the extra domain.
func (t *Toolkit) SearchByTerm(ctx context.Context, term string, extra []interface{}, opts rpc.SearchOptions) ([]map[string]interface{}, error) {
	def, ok := knowledge.LookupTerm(term)
	if !ok {
		return nil, fmt.Errorf("unknown business term %q (known terms: %s)",
			term, strings.Join(knowledge.Terms(), ", "))
	}
	domain := append(append([]interface{}{}, def.Filter...), extra...)
	return t.SearchRecords(ctx, def.Model, domain, opts)
}
