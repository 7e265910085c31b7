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

// Package codegen scaffolds installable addons: manifest, model classes,
// list and form views, and access rules, rendered from templates into an
// in-memory file map the caller can write wherever the addons path lives.
package codegen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Field describes one model field to generate.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Label    string `json:"label,omitempty"`
	Required bool   `json:"required,omitempty"`
	// Relation is the comodel for many2one, one2many, and many2many.
	Relation string `json:"relation,omitempty"`
	// Selection holds value/label pairs for selection fields.
	Selection [][2]string `json:"selection,omitempty"`
}

// Model describes one model class to generate.
type Model struct {
	// Name is the technical model name, e.g. "library.book".
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
	// Inherit lists mixins such as "mail.thread".
	Inherit []string `json:"inherit,omitempty"`
}

// Addon describes a complete addon to scaffold.
type Addon struct {
	// Name is the directory and technical name, e.g. "library".
	Name     string   `json:"name"`
	Title    string   `json:"title,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Category string   `json:"category,omitempty"`
	Version  string   `json:"version,omitempty"`
	Author   string   `json:"author,omitempty"`
	Depends  []string `json:"depends,omitempty"`
	Models   []Model  `json:"models"`
}

var (
	addonNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	modelNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)
	fieldNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// relational field types that require a Relation.
var relationalTypes = map[string]bool{
	"many2one":  true,
	"one2many":  true,
	"many2many": true,
}

// mixinDepends maps inherit mixins to the module that ships them.
var mixinDepends = map[string]string{
	"mail.thread":             "mail",
	"mail.activity.mixin":     "mail",
	"portal.mixin":            "portal",
	"website.published.mixin": "website",
}

func (a *Addon) validate() error {
	if !addonNameRe.MatchString(a.Name) {
		return fmt.Errorf("invalid addon name %q: must be lowercase letters, digits, and underscores", a.Name)
	}
	if len(a.Models) == 0 {
		return fmt.Errorf("addon %q has no models", a.Name)
	}
	for _, m := range a.Models {
		if !modelNameRe.MatchString(m.Name) {
			return fmt.Errorf("invalid model name %q", m.Name)
		}
		for _, f := range m.Fields {
			if !fieldNameRe.MatchString(f.Name) {
				return fmt.Errorf("invalid field name %q on model %q", f.Name, m.Name)
			}
			if relationalTypes[f.Type] && f.Relation == "" {
				return fmt.Errorf("field %q on model %q: %s fields need a relation", f.Name, m.Name, f.Type)
			}
		}
	}
	return nil
}

// depends merges the declared depends with those implied by mixins,
// always including base, deduplicated and sorted.
func (a *Addon) depends() []string {
	set := map[string]bool{"base": true}
	for _, d := range a.Depends {
		set[d] = true
	}
	for _, m := range a.Models {
		for _, mixin := range m.Inherit {
			if mod, ok := mixinDepends[mixin]; ok {
				set[mod] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// BuildAddon renders every file of the addon. Keys are paths relative to
// the addon directory; output is deterministic for a given input.
func BuildAddon(a Addon) (map[string]string, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.Version == "" {
		a.Version = "18.0.1.0.0"
	}
	if a.Title == "" {
		a.Title = titleWords(strings.ReplaceAll(a.Name, "_", " "))
	}
	if a.Category == "" {
		a.Category = "Uncategorized"
	}

	files := map[string]string{}

	manifest, err := renderManifest(a)
	if err != nil {
		return nil, err
	}
	files["__manifest__.py"] = manifest
	files["__init__.py"] = "from . import models\n"

	var modelImports []string
	for _, m := range a.Models {
		file := pyFileName(m.Name)
		modelImports = append(modelImports, file)

		body, err := renderModel(m)
		if err != nil {
			return nil, err
		}
		files["models/"+file+".py"] = body

		views, err := renderViews(m)
		if err != nil {
			return nil, err
		}
		files["views/"+file+"_views.xml"] = views
	}
	sort.Strings(modelImports)
	var init strings.Builder
	for _, imp := range modelImports {
		fmt.Fprintf(&init, "from . import %s\n", imp)
	}
	files["models/__init__.py"] = init.String()

	files["security/ir.model.access.csv"] = renderAccessCSV(a)
	return files, nil
}

// pyFileName turns "library.book" into "library_book".
func pyFileName(model string) string {
	return strings.ReplaceAll(model, ".", "_")
}

// className turns "library.book" into "LibraryBook".
func className(model string) string {
	parts := strings.FieldsFunc(model, func(r rune) bool {
		return r == '.' || r == '_'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(titleWords(p))
	}
	return b.String()
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// viewFiles lists the data files the manifest must declare, in order.
func viewFiles(a Addon) []string {
	out := []string{"security/ir.model.access.csv"}
	names := make([]string, 0, len(a.Models))
	for _, m := range a.Models {
		names = append(names, "views/"+pyFileName(m.Name)+"_views.xml")
	}
	sort.Strings(names)
	return append(out, names...)
}

func renderAccessCSV(a Addon) string {
	var b strings.Builder
	b.WriteString("id,name,model_id:id,group_id:id,perm_read,perm_write,perm_create,perm_unlink\n")
	for _, m := range a.Models {
		file := pyFileName(m.Name)
		fmt.Fprintf(&b, "access_%s_user,%s.user,model_%s,base.group_user,1,1,1,1\n",
			file, m.Name, file)
	}
	return b.String()
}
