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
package knowledge

import (
	"sort"
	"strings"
)

// Term maps one business word to its technical model, with the domain
// filter that narrows the model to that meaning where one applies.
type Term struct {
	Model  string
	Filter []interface{}
	Note   string
}

var dictionary = map[string]Term{
	"customer": {
		Model:  "res.partner",
		Filter: []interface{}{[]interface{}{"customer_rank", ">", 0}},
		Note:   "Partners are customers once they have at least one sale.",
	},
	"vendor": {
		Model:  "res.partner",
		Filter: []interface{}{[]interface{}{"supplier_rank", ">", 0}},
		Note:   "Partners are vendors once they have at least one purchase.",
	},
	"supplier": {
		Model:  "res.partner",
		Filter: []interface{}{[]interface{}{"supplier_rank", ">", 0}},
	},
	"contact": {
		Model: "res.partner",
	},
	"company": {
		Model:  "res.partner",
		Filter: []interface{}{[]interface{}{"is_company", "=", true}},
	},
	"product": {
		Model: "product.template",
		Note:  "product.product is the variant level; templates are what users see.",
	},
	"quotation": {
		Model:  "sale.order",
		Filter: []interface{}{[]interface{}{"state", "in", []interface{}{"draft", "sent"}}},
	},
	"sales order": {
		Model:  "sale.order",
		Filter: []interface{}{[]interface{}{"state", "=", "sale"}},
	},
	"invoice": {
		Model:  "account.move",
		Filter: []interface{}{[]interface{}{"move_type", "=", "out_invoice"}},
	},
	"bill": {
		Model:  "account.move",
		Filter: []interface{}{[]interface{}{"move_type", "=", "in_invoice"}},
	},
	"lead": {
		Model:  "crm.lead",
		Filter: []interface{}{[]interface{}{"type", "=", "lead"}},
	},
	"opportunity": {
		Model:  "crm.lead",
		Filter: []interface{}{[]interface{}{"type", "=", "opportunity"}},
	},
	"employee": {
		Model: "hr.employee",
	},
	"user": {
		Model: "res.users",
		Note:  "Login accounts; every user also has a res.partner record.",
	},
	"task": {
		Model: "project.task",
	},
	"purchase order": {
		Model:  "purchase.order",
		Filter: []interface{}{[]interface{}{"state", "in", []interface{}{"purchase", "done"}}},
	},
	"delivery": {
		Model:  "stock.picking",
		Filter: []interface{}{[]interface{}{"picking_type_code", "=", "outgoing"}},
	},
	"receipt": {
		Model:  "stock.picking",
		Filter: []interface{}{[]interface{}{"picking_type_code", "=", "incoming"}},
	},
}

// LookupTerm resolves a business term to its model. Matching is
// case-insensitive and tolerates a trailing plural "s".
func LookupTerm(term string) (Term, bool) {
	key := strings.ToLower(strings.TrimSpace(term))
	if t, ok := dictionary[key]; ok {
		return t, true
	}
	if strings.HasSuffix(key, "s") {
		if t, ok := dictionary[strings.TrimSuffix(key, "s")]; ok {
			return t, true
		}
	}
	return Term{}, false
}

// Terms returns every dictionary key, sorted.
func Terms() []string {
	keys := make([]string, 0, len(dictionary))
	for k := range dictionary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
