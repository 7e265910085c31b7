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
package codegen

import (
	"fmt"
	"strings"
	"text/template"
)

var manifestTmpl = template.Must(template.New("manifest").Parse(`{
    "name": "{{.Title}}",
    "summary": "{{.Summary}}",
    "version": "{{.Version}}",
    "category": "{{.Category}}",
{{- if .Author}}
    "author": "{{.Author}}",
{{- end}}
    "license": "LGPL-3",
    "depends": [
{{- range .Depends}}
        "{{.}}",
{{- end}}
    ],
    "data": [
{{- range .Data}}
        "{{.}}",
{{- end}}
    ],
    "installable": True,
    "application": False,
}
`))

type manifestData struct {
	Title    string
	Summary  string
	Version  string
	Category string
	Author   string
	Depends  []string
	Data     []string
}

func renderManifest(a Addon) (string, error) {
	var b strings.Builder
	err := manifestTmpl.Execute(&b, manifestData{
		Title:    a.Title,
		Summary:  a.Summary,
		Version:  a.Version,
		Category: a.Category,
		Author:   a.Author,
		Depends:  a.depends(),
		Data:     viewFiles(a),
	})
	if err != nil {
		return "", fmt.Errorf("manifest render failed: %w", err)
	}
	return b.String(), nil
}

var modelTmpl = template.Must(template.New("model").Parse(`from odoo import api, fields, models


class {{.Class}}(models.Model):
    _name = "{{.Name}}"
    _description = "{{.Description}}"
{{- if .Inherit}}
    _inherit = [{{range $i, $m := .Inherit}}{{if $i}}, {{end}}"{{$m}}"{{end}}]
{{- end}}

{{range .Fields}}    {{.}}
{{end}}`))

type modelData struct {
	Class       string
	Name        string
	Description string
	Inherit     []string
	Fields      []string
}

func renderModel(m Model) (string, error) {
	desc := m.Description
	if desc == "" {
		desc = titleWords(strings.ReplaceAll(pyFileName(m.Name), "_", " "))
	}
	lines := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		line, err := fieldLine(f)
		if err != nil {
			return "", fmt.Errorf("model %q: %w", m.Name, err)
		}
		lines = append(lines, line)
	}

	var b strings.Builder
	err := modelTmpl.Execute(&b, modelData{
		Class:       className(m.Name),
		Name:        m.Name,
		Description: desc,
		Inherit:     m.Inherit,
		Fields:      lines,
	})
	if err != nil {
		return "", fmt.Errorf("model render failed: %w", err)
	}
	return b.String(), nil
}

// pyFieldClasses maps field types to the fields.* class names.
var pyFieldClasses = map[string]string{
	"char":      "Char",
	"text":      "Text",
	"html":      "Html",
	"integer":   "Integer",
	"float":     "Float",
	"monetary":  "Monetary",
	"boolean":   "Boolean",
	"date":      "Date",
	"datetime":  "Datetime",
	"binary":    "Binary",
	"selection": "Selection",
	"many2one":  "Many2one",
	"one2many":  "One2many",
	"many2many": "Many2many",
}

func fieldLine(f Field) (string, error) {
	class, ok := pyFieldClasses[f.Type]
	if !ok {
		return "", fmt.Errorf("unsupported field type %q", f.Type)
	}

	var args []string
	if relationalTypes[f.Type] {
		args = append(args, fmt.Sprintf("%q", f.Relation))
	}
	if f.Type == "selection" {
		pairs := make([]string, len(f.Selection))
		for i, s := range f.Selection {
			pairs[i] = fmt.Sprintf("(%q, %q)", s[0], s[1])
		}
		args = append(args, "["+strings.Join(pairs, ", ")+"]")
	}
	label := f.Label
	if label == "" {
		label = titleWords(strings.ReplaceAll(f.Name, "_", " "))
	}
	args = append(args, fmt.Sprintf("string=%q", label))
	if f.Required {
		args = append(args, "required=True")
	}
	return fmt.Sprintf("%s = fields.%s(%s)", f.Name, class, strings.Join(args, ", ")), nil
}

var viewsTmpl = template.Must(template.New("views").Parse(`<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <record id="{{.File}}_view_list" model="ir.ui.view">
        <field name="name">{{.Model}}.view.list</field>
        <field name="model">{{.Model}}</field>
        <field name="arch" type="xml">
            <list>
{{- range .Fields}}
                <field name="{{.}}"/>
{{- end}}
            </list>
        </field>
    </record>

    <record id="{{.File}}_view_form" model="ir.ui.view">
        <field name="name">{{.Model}}.view.form</field>
        <field name="model">{{.Model}}</field>
        <field name="arch" type="xml">
            <form>
                <sheet>
                    <group>
{{- range .Fields}}
                        <field name="{{.}}"/>
{{- end}}
                    </group>
                </sheet>
            </form>
        </field>
    </record>

    <record id="{{.File}}_action" model="ir.actions.act_window">
        <field name="name">{{.Title}}</field>
        <field name="res_model">{{.Model}}</field>
        <field name="view_mode">list,form</field>
    </record>

    <menuitem id="{{.File}}_menu"
              name="{{.Title}}"
              action="{{.File}}_action"
              parent="base.menu_custom"/>
</odoo>
`))

type viewsData struct {
	File   string
	Model  string
	Title  string
	Fields []string
}

func renderViews(m Model) (string, error) {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	var b strings.Builder
	err := viewsTmpl.Execute(&b, viewsData{
		File:   pyFileName(m.Name),
		Model:  m.Name,
		Title:  titleWords(strings.ReplaceAll(pyFileName(m.Name), "_", " ")),
		Fields: names,
	})
	if err != nil {
		return "", fmt.Errorf("views render failed: %w", err)
	}
	return b.String(), nil
}
