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

// Package knowledge holds static domain tables: a business-friendly catalog
// of core Odoo modules and a dictionary translating everyday business terms
// into the right models and filters. Pure data, no remote calls.
package knowledge

import (
	"sort"
	"strings"
)

// Module is catalog metadata for one installable module.
type Module struct {
	// Name is the human title ("Sales"); the map key is the technical name.
	Name        string
	Description string
	Category    string
	Depends     []string
	// BusinessNeeds are the phrases the requirement matcher scores against.
	BusinessNeeds []string
}

var modules = map[string]Module{
	"sale": {
		Name:        "Sales",
		Description: "Manage the full sales cycle from quotations to confirmed sales orders, with pricelists, discounts, and automatic invoicing.",
		Category:    "sales",
		Depends:     []string{"contacts", "account"},
		BusinessNeeds: []string{
			"selling products or services", "creating quotations",
			"managing sales orders", "applying pricelists and discounts",
		},
	},
	"crm": {
		Name:        "CRM",
		Description: "Track leads and opportunities through a visual pipeline with activities, forecasting, and win/loss analysis.",
		Category:    "sales",
		Depends:     []string{"contacts", "mail"},
		BusinessNeeds: []string{
			"lead management", "sales pipeline tracking",
			"opportunity forecasting", "customer follow-up activities",
		},
	},
	"account": {
		Name:        "Invoicing",
		Description: "Customer invoices, vendor bills, payments, and the chart of accounts.",
		Category:    "accounting",
		Depends:     []string{"contacts"},
		BusinessNeeds: []string{
			"invoicing customers", "recording payments",
			"tracking receivables", "vendor bills",
		},
	},
	"stock": {
		Name:        "Inventory",
		Description: "Warehouse operations: receipts, deliveries, internal transfers, lot and serial tracking, reordering rules.",
		Category:    "inventory",
		Depends:     []string{"product"},
		BusinessNeeds: []string{
			"tracking stock levels", "warehouse management",
			"receiving and shipping goods", "lot and serial numbers",
		},
	},
	"purchase": {
		Name:        "Purchase",
		Description: "Requests for quotation, purchase orders, and vendor price management.",
		Category:    "inventory",
		Depends:     []string{"account", "stock"},
		BusinessNeeds: []string{
			"buying from vendors", "purchase orders",
			"vendor price comparison", "procurement",
		},
	},
	"mrp": {
		Name:        "Manufacturing",
		Description: "Bills of materials, manufacturing orders, and work center scheduling.",
		Category:    "inventory",
		Depends:     []string{"stock", "product"},
		BusinessNeeds: []string{
			"manufacturing products", "bills of materials",
			"production planning", "work orders",
		},
	},
	"project": {
		Name:        "Project",
		Description: "Projects and tasks with stages, assignees, deadlines, and timesheet integration.",
		Category:    "services",
		Depends:     []string{"mail"},
		BusinessNeeds: []string{
			"managing projects", "task tracking",
			"team workload", "deadlines",
		},
	},
	"hr": {
		Name:        "Employees",
		Description: "Employee directory with departments, job positions, and contracts.",
		Category:    "hr",
		Depends:     []string{"mail"},
		BusinessNeeds: []string{
			"employee records", "departments and positions",
			"organizational chart",
		},
	},
	"pos_restaurant": {
		Name:        "Restaurant",
		Description: "Point of sale tailored for restaurants: floor plans, table orders, kitchen printing.",
		Category:    "pos",
		Depends:     []string{"point_of_sale"},
		BusinessNeeds: []string{
			"restaurant table management", "kitchen order tickets",
			"floor plans",
		},
	},
	"point_of_sale": {
		Name:        "Point of Sale",
		Description: "Touchscreen sales interface for shops with offline support and session cash control.",
		Category:    "pos",
		Depends:     []string{"stock", "account"},
		BusinessNeeds: []string{
			"in-store selling", "cash register",
			"barcode scanning at checkout",
		},
	},
	"website": {
		Name:        "Website",
		Description: "Website builder with blocks, themes, and multi-language pages.",
		Category:    "website",
		Depends:     []string{"mail"},
		BusinessNeeds: []string{
			"company website", "online presence", "landing pages",
		},
	},
	"website_sale": {
		Name:        "eCommerce",
		Description: "Online store on top of the website builder: product pages, cart, checkout, and payment providers.",
		Category:    "website",
		Depends:     []string{"website", "sale"},
		BusinessNeeds: []string{
			"selling online", "online store", "shopping cart",
			"online payments",
		},
	},
}

// LookupModule returns catalog metadata for a technical module name.
func LookupModule(name string) (Module, bool) {
	m, ok := modules[name]
	return m, ok
}

// ModuleNames returns all catalog entries' technical names, sorted.
func ModuleNames() []string {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModulesByCategory returns the technical names in one category, sorted.
func ModulesByCategory(category string) []string {
	var names []string
	for name, m := range modules {
		if m.Category == category {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// MatchModules scores catalog entries against a free-text requirement and
// returns the technical names of modules whose business needs overlap it,
// best match first.
func MatchModules(requirement string) []string {
	requirement = strings.ToLower(requirement)
	words := strings.Fields(requirement)

	type scored struct {
		name  string
		score int
	}
	var results []scored
	for name, m := range modules {
		score := 0
		for _, need := range m.BusinessNeeds {
			need = strings.ToLower(need)
			if strings.Contains(requirement, need) {
				score += 10
				continue
			}
			for _, w := range words {
				if len(w) > 3 && strings.Contains(need, w) {
					score++
				}
			}
		}
		if score > 0 {
			results = append(results, scored{name: name, score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].name < results[j].name
	})

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.name
	}
	return names
}

// Dependencies resolves the transitive dependency closure of a module, the
// module itself excluded. Unknown dependencies are returned as-is; they may
// be real modules outside the catalog.
func Dependencies(name string) []string {
	seen := map[string]bool{name: true}
	var out []string
	var walk func(n string)
	walk = func(n string) {
		m, ok := modules[n]
		if !ok {
			return
		}
		for _, dep := range m.Depends {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			walk(dep)
		}
	}
	walk(name)
	sort.Strings(out)
	return out
}
