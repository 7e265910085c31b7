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
package statecache

import (
	"context"
	"errors"
	"testing"

	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	searchReadFn int
	records      []map[string]interface{}
	searchErr    error

	fieldsGetFn int
	fields      map[string]map[string]rpc.FieldDef
	fieldsErr   error
}

func (f *fakeFetcher) SearchRead(_ context.Context, _, model string, _ []interface{}, _ rpc.SearchOptions) ([]map[string]interface{}, error) {
	f.searchReadFn++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.records, nil
}

func (f *fakeFetcher) FieldsGet(_ context.Context, _, model string, _ []string) (map[string]rpc.FieldDef, error) {
	f.fieldsGetFn++
	if f.fieldsErr != nil {
		return nil, f.fieldsErr
	}
	return f.fields[model], nil
}

func TestValidateFields(t *testing.T) {
	fetcher := &fakeFetcher{fields: map[string]map[string]rpc.FieldDef{
		"res.partner": {
			"email": {Label: "Email", Type: "char"},
			"name":  {Label: "Name", Type: "char", Required: true},
		},
	}}
	cache := New(fetcher, "db1", nil)

	tests := []struct {
		name    string
		fields  []string
		invalid []string
	}{
		{name: "all valid", fields: []string{"name", "email"}, invalid: nil},
		{name: "one ghost", fields: []string{"name", "ghost"}, invalid: []string{"ghost"}},
		{name: "id always valid", fields: []string{"id", "ghost"}, invalid: []string{"ghost"}},
		{name: "empty input", fields: nil, invalid: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cache.ValidateFields(context.Background(), "res.partner", tt.fields)
			assert.Equal(t, tt.invalid, got)
		})
	}

	// First call fetched live; the rest answered from cache.
	assert.Equal(t, 1, fetcher.fieldsGetFn)
}

func TestValidateFieldsUnknownModelSkipsValidation(t *testing.T) {
	fetcher := &fakeFetcher{fields: map[string]map[string]rpc.FieldDef{}}
	cache := New(fetcher, "db1", nil)

	// The model yields no fields at all: cannot distinguish "no fields"
	// from "model unknown", so validation is skipped.
	invalid := cache.ValidateFields(context.Background(), "x.custom.model", []string{"anything"})
	assert.Empty(t, invalid)
}

func TestIsFieldValidColdCacheFetchesLive(t *testing.T) {
	fetcher := &fakeFetcher{fields: map[string]map[string]rpc.FieldDef{
		"res.partner": {"email": {Type: "char"}},
	}}
	cache := New(fetcher, "db1", nil)

	assert.True(t, cache.IsFieldValid(context.Background(), "res.partner", "email"))
	assert.False(t, cache.IsFieldValid(context.Background(), "res.partner", "ghost"))
	assert.Equal(t, 1, fetcher.fieldsGetFn)
}

func TestRefreshModulesStaleOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{records: []map[string]interface{}{
		{"name": "sale", "state": "installed"},
		{"name": "crm", "state": "installed"},
	}}
	cache := New(fetcher, "db1", nil)

	modules, err := cache.RefreshModules(context.Background())
	require.NoError(t, err)
	assert.Len(t, modules, 2)
	assert.True(t, cache.IsModuleInstalled("sale"))

	// Subsequent failure keeps the previous value.
	fetcher.searchErr = errors.New("connection refused")
	stale, err := cache.RefreshModules(context.Background())
	require.Error(t, err)
	assert.Len(t, stale, 2)
	assert.True(t, cache.IsModuleInstalled("crm"))
}

func TestRefreshModelFieldsReplacesWholesale(t *testing.T) {
	fetcher := &fakeFetcher{fields: map[string]map[string]rpc.FieldDef{
		"res.partner": {"email": {Type: "char"}, "phone": {Type: "char"}},
	}}
	cache := New(fetcher, "db1", nil)

	_, err := cache.RefreshModelFields(context.Background(), "res.partner")
	require.NoError(t, err)
	assert.Len(t, cache.ModelFields("res.partner"), 2)

	// Replace, not merge: the removed field must disappear.
	fetcher.fields["res.partner"] = map[string]rpc.FieldDef{"email": {Type: "char"}}
	_, err = cache.RefreshModelFields(context.Background(), "res.partner")
	require.NoError(t, err)
	fields := cache.ModelFields("res.partner")
	assert.Len(t, fields, 1)
	assert.NotContains(t, fields, "phone")
}

func TestModelFieldsUncachedIsNil(t *testing.T) {
	cache := New(&fakeFetcher{}, "db1", nil)
	assert.Nil(t, cache.ModelFields("res.partner"))
}

func TestRefreshAllOnlyTouchesCachedModels(t *testing.T) {
	fetcher := &fakeFetcher{
		records: []map[string]interface{}{{"name": "sale", "state": "installed"}},
		fields: map[string]map[string]rpc.FieldDef{
			"res.partner": {"name": {Type: "char"}},
		},
	}
	cache := New(fetcher, "db1", nil)
	cache.RefreshModelFields(context.Background(), "res.partner")

	before := fetcher.fieldsGetFn
	cache.RefreshAll(context.Background())
	// Exactly one fields_get per previously-cached model.
	assert.Equal(t, before+1, fetcher.fieldsGetFn)
	assert.True(t, cache.Initialized())
}
