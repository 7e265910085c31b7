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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateModelName(t *testing.T) {
	tests := []struct {
		name  string
		model string
		ok    bool
	}{
		{"dotted", "res.partner", true},
		{"three segments", "account.move.line", true},
		{"single segment", "base", true},
		{"underscores", "ir.module.module", true},
		{"empty", "", false},
		{"uppercase", "Res.Partner", false},
		{"leading digit", "1res.partner", false},
		{"trailing dot", "res.partner.", false},
		{"spaces", "res partner", false},
		{"sql injection", "res.partner; DROP TABLE", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelName(tt.model)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateDBName(t *testing.T) {
	for _, name := range []string{"prod", "test_db", "db-18", "A1"} {
		assert.NoError(t, ValidateDBName(name), name)
	}
	for _, name := range []string{"", "has space", "semi;colon", "../up", "a$b"} {
		assert.Error(t, ValidateDBName(name), name)
	}
}

func TestValidateModuleNames(t *testing.T) {
	assert.NoError(t, ValidateModuleNames([]string{"sale", "pos_restaurant"}))
	assert.Error(t, ValidateModuleNames(nil))
	assert.Error(t, ValidateModuleNames([]string{"sale", "Bad Name"}))
	assert.Error(t, ValidateModuleNames([]string{"sale,crm"}))
}

func TestValidateCustomFieldName(t *testing.T) {
	assert.NoError(t, ValidateCustomFieldName("x_priority"))
	assert.NoError(t, ValidateCustomFieldName("x_loyalty_tier"))
	assert.Error(t, ValidateCustomFieldName("priority"))
	assert.Error(t, ValidateCustomFieldName("x_"))
	assert.Error(t, ValidateCustomFieldName("x_Priority"))
}

func TestValidateDomain(t *testing.T) {
	tests := []struct {
		name   string
		domain []interface{}
		ok     bool
	}{
		{"empty", nil, true},
		{"simple triple", []interface{}{
			[]interface{}{"name", "=", "Acme"},
		}, true},
		{"or of two", []interface{}{
			"|",
			[]interface{}{"customer_rank", ">", 0},
			[]interface{}{"supplier_rank", ">", 0},
		}, true},
		{"in operator", []interface{}{
			[]interface{}{"state", "in", []interface{}{"draft", "sent"}},
		}, true},
		{"unknown connector", []interface{}{"xor"}, false},
		{"unknown operator", []interface{}{
			[]interface{}{"name", "~=", "Acme"},
		}, false},
		{"short triple", []interface{}{
			[]interface{}{"name", "="},
		}, false},
		{"non-string field", []interface{}{
			[]interface{}{42, "=", "Acme"},
		}, false},
		{"bare value", []interface{}{42}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDomain(tt.domain)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
