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

// ListDatabases lists all databases on the instance.
func (t *Toolkit) ListDatabases() ([]string, error) {
	return t.api.DBList()
}

// CreateDatabase creates and initializes a new database. The remote call
// returns only after base-module initialization, which can take minutes.
func (t *Toolkit) CreateDatabase(name string, opts rpc.DBCreateOptions) error {
	if err := ValidateDBName(name); err != nil {
		return err
	}
	if t.master == "" {
		return fmt.Errorf("master password is required to create databases")
	}
	exists, err := t.api.DBExists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("database %q already exists", name)
	}
	if err := t.api.DBCreate(t.master, name, opts); err != nil {
		return err
	}
	t.logger.Info("database created", zap.String("database", name))
	return nil
}

// DropDatabase irreversibly drops a database and so requires confirm.
func (t *Toolkit) DropDatabase(name string, confirm bool) error {
	if err := ValidateDBName(name); err != nil {
		return err
	}
	if !confirm {
		return &ConfirmationError{
			Action: "drop database",
			Detail: fmt.Sprintf("database %q and all its data will be permanently deleted", name),
		}
	}
	if t.master == "" {
		return fmt.Errorf("master password is required to drop databases")
	}
	exists, err := t.api.DBExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("database %q does not exist", name)
	}
	if err := t.api.DBDrop(t.master, name); err != nil {
		return err
	}
	if name == t.db {
		t.api.InvalidateSession()
	}
	t.logger.Info("database dropped", zap.String("database", name))
	return nil
}

// DatabaseInfo is the direct-SQL diagnostic view of one database.
type DatabaseInfo struct {
	Name          string
	Size          string
	ModuleCount   int
	LargestTables []pg.TableSize
}

// DatabaseInfo reports size and content diagnostics straight from postgres,
// bypassing the ORM.
func (t *Toolkit) DatabaseInfo(ctx context.Context, name string) (*DatabaseInfo, error) {
	if err := ValidateDBName(name); err != nil {
		return nil, err
	}
	if err := t.needPG(); err != nil {
		return nil, err
	}

	size, err := t.pg.DatabaseSize(ctx, name)
	if err != nil {
		return nil, err
	}
	modules, err := t.pg.InstalledModules(ctx, name)
	if err != nil {
		return nil, err
	}
	tables, err := t.pg.TableSizes(ctx, name, 10)
	if err != nil {
		return nil, err
	}
	return &DatabaseInfo{
		Name:          name,
		Size:          size,
		ModuleCount:   len(modules),
		LargestTables: tables,
	}, nil
}
