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
	"fmt"
	"regexp"
)

var (
	modelNameRe  = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)
	dbNameRe     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	moduleNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	customRe     = regexp.MustCompile(`^x_[a-z][a-z0-9_]*$`)
)

// validFieldTypes are the field types accepted when creating custom fields.
var validFieldTypes = map[string]bool{
	"char": true, "text": true, "html": true,
	"integer": true, "float": true, "monetary": true,
	"boolean": true, "date": true, "datetime": true,
	"binary": true, "selection": true,
	"many2one": true, "one2many": true, "many2many": true,
}

// validOperators are the domain operators Odoo accepts.
var validOperators = map[string]bool{
	"=": true, "!=": true, ">": true, ">=": true, "<": true, "<=": true,
	"like": true, "ilike": true, "not like": true, "not ilike": true,
	"=like": true, "=ilike": true,
	"in": true, "not in": true,
	"child_of": true, "parent_of": true,
}

// domainConnectors are the prefix logical operators of a domain.
var domainConnectors = map[string]bool{"&": true, "|": true, "!": true}

// ValidateModelName checks the dotted lowercase form of a technical model
// name such as "res.partner".
func ValidateModelName(name string) error {
	if name == "" {
		return fmt.Errorf("model name is required")
	}
	if !modelNameRe.MatchString(name) {
		return fmt.Errorf("invalid model name %q: expected dotted lowercase like \"res.partner\"", name)
	}
	return nil
}

// ValidateDBName rejects database names that could not be safely passed to
// createdb or interpolated into container commands.
func ValidateDBName(name string) error {
	if name == "" {
		return fmt.Errorf("database name is required")
	}
	if !dbNameRe.MatchString(name) {
		return fmt.Errorf("invalid database name %q (allowed: letters, digits, underscores, hyphens)", name)
	}
	return nil
}

// ValidateModuleNames checks a list of technical module names.
func ValidateModuleNames(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("at least one module name is required")
	}
	for _, n := range names {
		if !moduleNameRe.MatchString(n) {
			return fmt.Errorf("invalid module name %q", n)
		}
	}
	return nil
}

// ValidateCustomFieldName enforces the x_ prefix the ORM requires for
// fields created outside an addon.
func ValidateCustomFieldName(name string) error {
	if !customRe.MatchString(name) {
		return fmt.Errorf("invalid custom field name %q: must start with \"x_\" followed by lowercase letters, digits, or underscores", name)
	}
	return nil
}

// ValidateDomain structurally checks a search domain: each element is either
// a prefix connector ("&", "|", "!") or a [field, operator, value] triple
// with a known operator. Values are not checked; the remote owns those
// semantics.
func ValidateDomain(domain []interface{}) error {
	for i, elem := range domain {
		if s, ok := elem.(string); ok {
			if !domainConnectors[s] {
				return fmt.Errorf("domain element %d: unknown connector %q", i, s)
			}
			continue
		}
		triple, ok := elem.([]interface{})
		if !ok {
			return fmt.Errorf("domain element %d: expected connector or [field, operator, value] triple, got %T", i, elem)
		}
		if len(triple) != 3 {
			return fmt.Errorf("domain element %d: expected 3 items, got %d", i, len(triple))
		}
		field, ok := triple[0].(string)
		if !ok || field == "" {
			return fmt.Errorf("domain element %d: field name must be a non-empty string", i)
		}
		op, ok := triple[1].(string)
		if !ok || !validOperators[op] {
			return fmt.Errorf("domain element %d: unknown operator %v", i, triple[1])
		}
	}
	return nil
}
