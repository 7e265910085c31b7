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
	"strings"

	"github.com/hamzatrq/odoo-forge/pkg/knowledge"
	"github.com/hamzatrq/odoo-forge/pkg/rpc"
	"go.uber.org/zap"
)

// InstallModules installs modules through the CLI path and refreshes the
// cache so subsequent validation sees the new models and fields.
func (t *Toolkit) InstallModules(ctx context.Context, names []string) (string, error) {
	if err := ValidateModuleNames(names); err != nil {
		return "", err
	}
	if err := t.needCompose(); err != nil {
		return "", err
	}
	out, err := t.orch.InstallModules(ctx, t.db, names)
	if err != nil {
		return "", err
	}
	t.cache.RefreshAll(ctx)
	t.logger.Info("modules installed", zap.Strings("modules", names))
	return out, nil
}

// UpgradeModules upgrades modules and refreshes the cache.
func (t *Toolkit) UpgradeModules(ctx context.Context, names []string) (string, error) {
	if err := ValidateModuleNames(names); err != nil {
		return "", err
	}
	if err := t.needCompose(); err != nil {
		return "", err
	}
	out, err := t.orch.UpgradeModules(ctx, t.db, names)
	if err != nil {
		return "", err
	}
	t.cache.RefreshAll(ctx)
	t.logger.Info("modules upgraded", zap.Strings("modules", names))
	return out, nil
}

// UninstallModules removes modules and every record their models own, so it
// requires confirm. Runs over RPC via button_immediate_uninstall.
func (t *Toolkit) UninstallModules(ctx context.Context, names []string, confirm bool) error {
	if err := ValidateModuleNames(names); err != nil {
		return err
	}
	if !confirm {
		return &ConfirmationError{
			Action: "uninstall modules",
			Detail: fmt.Sprintf("uninstalling [%s] deletes all data owned by these modules", strings.Join(names, ", ")),
		}
	}

	records, err := t.api.SearchRead(ctx, t.db, "ir.module.module",
		[]interface{}{[]interface{}{"name", "in", names}},
		rpc.SearchOptions{Fields: []string{"name", "state"}, Limit: len(names)},
	)
	if err != nil {
		return err
	}
	if len(records) < len(names) {
		found := map[string]bool{}
		for _, r := range records {
			if n, ok := r["name"].(string); ok {
				found[n] = true
			}
		}
		for _, n := range names {
			if !found[n] {
				return fmt.Errorf("module %q not found on the instance", n)
			}
		}
	}

	var ids []int64
	for _, r := range records {
		if id, ok := r["id"].(int64); ok {
			ids = append(ids, id)
		}
	}
	if _, err := t.api.Execute(ctx, t.db, "ir.module.module", "button_immediate_uninstall",
		[]interface{}{ids}, nil); err != nil {
		return err
	}
	t.cache.RefreshAll(ctx)
	t.logger.Info("modules uninstalled", zap.Strings("modules", names))
	return nil
}

// ListModules lists installed modules from the instance and refreshes the
// cached set along the way.
func (t *Toolkit) ListModules(ctx context.Context) (map[string]string, error) {
	modules, err := t.cache.RefreshModules(ctx)
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// ModuleStatus reports one module's lifecycle state from the instance.
func (t *Toolkit) ModuleStatus(ctx context.Context, name string) (string, error) {
	if err := ValidateModuleNames([]string{name}); err != nil {
		return "", err
	}
	records, err := t.api.SearchRead(ctx, t.db, "ir.module.module",
		[]interface{}{[]interface{}{"name", "=", name}},
		rpc.SearchOptions{Fields: []string{"state"}, Limit: 1},
	)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("module %q not found on the instance", name)
	}
	state, _ := records[0]["state"].(string)
	return state, nil
}

// Recommendation is one catalog match for a business requirement.
type Recommendation struct {
	Module      string
	Title       string
	Description string
	Depends     []string
	Installed   bool
}

// RecommendModules matches a free-text business requirement against the
// module catalog, flagging what is already installed per the cache.
func (t *Toolkit) RecommendModules(requirement string) []Recommendation {
	var out []Recommendation
	for _, name := range knowledge.MatchModules(requirement) {
		m, ok := knowledge.LookupModule(name)
		if !ok {
			continue
		}
		out = append(out, Recommendation{
			Module:      name,
			Title:       m.Name,
			Description: m.Description,
			Depends:     knowledge.Dependencies(name),
			Installed:   t.cache.IsModuleInstalled(name),
		})
	}
	return out
}
