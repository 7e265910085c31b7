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
package rpc

import (
	"context"
	"fmt"
)

// SearchOptions narrows a SearchRead call.
type SearchOptions struct {
	Fields []string
	Limit  int
	Offset int
	Order  string
}

// FieldDef is the per-field schema metadata reported by fields_get.
type FieldDef struct {
	Label    string
	Type     string
	Required bool
	Readonly bool
	Relation string
}

// SearchRead combines search and read in one round trip.
func (c *Client) SearchRead(ctx context.Context, db, model string, domain []interface{}, opts SearchOptions) ([]map[string]interface{}, error) {
	if domain == nil {
		domain = []interface{}{}
	}
	kwargs := map[string]interface{}{
		"limit":  opts.Limit,
		"offset": opts.Offset,
	}
	if kwargs["limit"] == 0 {
		kwargs["limit"] = 20
	}
	if len(opts.Fields) > 0 {
		kwargs["fields"] = opts.Fields
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}

	reply, err := c.Execute(ctx, db, model, "search_read", []interface{}{domain}, kwargs)
	if err != nil {
		return nil, err
	}
	return asRecords(reply)
}

// SearchCount counts records matching the domain.
func (c *Client) SearchCount(ctx context.Context, db, model string, domain []interface{}) (int64, error) {
	if domain == nil {
		domain = []interface{}{}
	}
	reply, err := c.Execute(ctx, db, model, "search_count", []interface{}{domain}, nil)
	if err != nil {
		return 0, err
	}
	return asInt(reply), nil
}

// Create creates one record and returns its id.
func (c *Client) Create(ctx context.Context, db, model string, values map[string]interface{}) (int64, error) {
	reply, err := c.Execute(ctx, db, model, "create", []interface{}{[]interface{}{values}}, nil)
	if err != nil {
		return 0, err
	}
	// create on a list of values returns a list of ids
	if ids, ok := reply.([]interface{}); ok && len(ids) > 0 {
		return asInt(ids[0]), nil
	}
	return asInt(reply), nil
}

// Read reads specific records by id.
func (c *Client) Read(ctx context.Context, db, model string, ids []int64, fields []string) ([]map[string]interface{}, error) {
	kwargs := map[string]interface{}{}
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}
	reply, err := c.Execute(ctx, db, model, "read", []interface{}{ids}, kwargs)
	if err != nil {
		return nil, err
	}
	return asRecords(reply)
}

// Write updates the given records with values.
func (c *Client) Write(ctx context.Context, db, model string, ids []int64, values map[string]interface{}) error {
	_, err := c.Execute(ctx, db, model, "write", []interface{}{ids, values}, nil)
	return err
}

// Unlink deletes the given records.
func (c *Client) Unlink(ctx context.Context, db, model string, ids []int64) error {
	_, err := c.Execute(ctx, db, model, "unlink", []interface{}{ids}, nil)
	return err
}

// FieldsGet introspects a model's field schema. This is the truth source the
// state cache mirrors.
func (c *Client) FieldsGet(ctx context.Context, db, model string, attributes []string) (map[string]FieldDef, error) {
	kwargs := map[string]interface{}{}
	if len(attributes) > 0 {
		kwargs["attributes"] = attributes
	}
	reply, err := c.Execute(ctx, db, model, "fields_get", nil, kwargs)
	if err != nil {
		return nil, err
	}

	raw, ok := reply.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected fields_get payload: %T", reply)
	}

	fields := make(map[string]FieldDef, len(raw))
	for name, v := range raw {
		attrs, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		def := FieldDef{}
		if s, ok := attrs["string"].(string); ok {
			def.Label = s
		}
		if s, ok := attrs["type"].(string); ok {
			def.Type = s
		}
		if b, ok := attrs["required"].(bool); ok {
			def.Required = b
		}
		if b, ok := attrs["readonly"].(bool); ok {
			def.Readonly = b
		}
		if s, ok := attrs["relation"].(string); ok {
			def.Relation = s
		}
		fields[name] = def
	}
	return fields, nil
}

// Load bulk-imports rows via Odoo's native load method. The returned map
// carries "ids" and "messages" as the remote reports them.
func (c *Client) Load(ctx context.Context, db, model string, fields []string, rows [][]interface{}) (map[string]interface{}, error) {
	reply, err := c.Execute(ctx, db, model, "load", []interface{}{fields, rows}, nil)
	if err != nil {
		return nil, err
	}
	if m, ok := reply.(map[string]interface{}); ok {
		return m, nil
	}
	return nil, fmt.Errorf("unexpected load payload: %T", reply)
}

// GetView fetches the compiled view arch for a model.
func (c *Client) GetView(ctx context.Context, db, model, viewType string, viewID int64) (map[string]interface{}, error) {
	kwargs := map[string]interface{}{"view_type": viewType}
	if viewID != 0 {
		kwargs["view_id"] = viewID
	}
	reply, err := c.Execute(ctx, db, model, "get_view", nil, kwargs)
	if err != nil {
		return nil, err
	}
	if m, ok := reply.(map[string]interface{}); ok {
		return m, nil
	}
	return nil, fmt.Errorf("unexpected get_view payload: %T", reply)
}

// CreateInheritingView creates an ir.ui.view that inherits from parent.
func (c *Client) CreateInheritingView(ctx context.Context, db, model string, parentViewID int64, name, arch string, priority int) (int64, error) {
	if priority == 0 {
		priority = 99
	}
	return c.Create(ctx, db, "ir.ui.view", map[string]interface{}{
		"name":       name,
		"model":      model,
		"inherit_id": parentViewID,
		"arch":       arch,
		"priority":   priority,
	})
}

// asRecords normalizes a decoded XML-RPC array of structs.
func asRecords(reply interface{}) ([]map[string]interface{}, error) {
	items, ok := reply.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected record payload: %T", reply)
	}
	records := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			records = append(records, m)
		}
	}
	return records, nil
}
