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

	"github.com/hamzatrq/odoo-forge/pkg/pg"
	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"go.uber.org/zap"
)

// ModelFields returns the model's field schema, served from cache when warm.
func (t *Toolkit) ModelFields(ctx context.Context, model string) (map[string]rpc.FieldDef, error) {
	if err := ValidateModelName(model); err != nil {
		return nil, err
	}
	if fields := t.cache.ModelFields(model); fields != nil {
		return fields, nil
	}
	fields, err := t.cache.RefreshModelFields(ctx, model)
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// CustomFieldSpec describes a field to add to an existing model at runtime.
type CustomFieldSpec struct {
	// Name must carry the x_ prefix the ORM requires for runtime fields.
	Name     string
	Type     string
	Label    string
	Required bool
	// Relation is the comodel, for relational types only.
	Relation string
}

// CreateCustomField adds an x_ field to an existing model via ir.model.fields
// and refreshes the model's cached schema.
func (t *Toolkit) CreateCustomField(ctx context.Context, model string, spec CustomFieldSpec) (int64, error) {
	if err := ValidateModelName(model); err != nil {
		return 0, err
	}
	if err := ValidateCustomFieldName(spec.Name); err != nil {
		return 0, err
	}
	if !validFieldTypes[spec.Type] {
		return 0, fmt.Errorf("unknown field type %q", spec.Type)
	}
	relational := spec.Type == "many2one" || spec.Type == "one2many" || spec.Type == "many2many"
	if relational && spec.Relation == "" {
		return 0, fmt.Errorf("%s fields need a relation model", spec.Type)
	}

	models, err := t.api.SearchRead(ctx, t.db, "ir.model",
		[]interface{}{[]interface{}{"model", "=", model}},
		rpc.SearchOptions{Fields: []string{"id"}, Limit: 1},
	)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, fmt.Errorf("model %q does not exist on the instance", model)
	}
	modelID, _ := models[0]["id"].(int64)

	label := spec.Label
	if label == "" {
		label = spec.Name
	}
	values := map[string]interface{}{
		"name":              spec.Name,
		"model_id":          modelID,
		"field_description": label,
		"ttype":             spec.Type,
		"required":          spec.Required,
	}
	if relational {
		values["relation"] = spec.Relation
	}
	id, err := t.api.Create(ctx, t.db, "ir.model.fields", values)
	if err != nil {
		return 0, err
	}

	t.cache.RefreshModelFields(ctx, model)
	t.logger.Info("custom field created",
		zap.String("model", model),
		zap.String("field", spec.Name),
		zap.String("type", spec.Type),
	)
	return id, nil
}

// GetView fetches the compiled view arch for a model.
func (t *Toolkit) GetView(ctx context.Context, model, viewType string, viewID int64) (map[string]interface{}, error) {
	if err := ValidateModelName(model); err != nil {
		return nil, err
	}
	return t.api.GetView(ctx, t.db, model, viewType, viewID)
}

// CreateInheritingView creates a view extension on top of a parent view.
func (t *Toolkit) CreateInheritingView(ctx context.Context, model string, parentViewID int64, name, arch string, priority int) (int64, error) {
	if err := ValidateModelName(model); err != nil {
		return 0, err
	}
	if parentViewID == 0 {
		return 0, fmt.Errorf("parent view id is required")
	}
	if name == "" || arch == "" {
		return 0, fmt.Errorf("view name and arch are both required")
	}
	return t.api.CreateInheritingView(ctx, t.db, model, parentViewID, name, arch, priority)
}

// CheckViewIntegrity finds views whose inherit parent no longer exists,
// straight from postgres.
func (t *Toolkit) CheckViewIntegrity(ctx context.Context) ([]pg.OrphanedView, error) {
	if err := t.needPG(); err != nil {
		return nil, err
	}
	return t.pg.CheckViewIntegrity(ctx, t.db)
}
