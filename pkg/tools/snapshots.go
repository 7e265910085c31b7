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

	"github.com/hamzatrq/odoo-forge/pkg/snapshot"
)

// CreateSnapshot checkpoints the target database under a name.
func (t *Toolkit) CreateSnapshot(ctx context.Context, name, description string) (*snapshot.Manifest, error) {
	if err := t.needSnapshots(); err != nil {
		return nil, err
	}
	return t.snaps.Create(ctx, t.db, name, description)
}

// RestoreSnapshot wholesale-replaces the target database with a snapshot's
// contents, so it requires confirm. The session and cache are reset
// afterwards: the restored database is a different world.
func (t *Toolkit) RestoreSnapshot(ctx context.Context, name string, confirm bool) error {
	if err := t.needSnapshots(); err != nil {
		return err
	}
	if !confirm {
		return &ConfirmationError{
			Action: "restore snapshot",
			Detail: fmt.Sprintf("database %q will be replaced entirely by snapshot %q; changes since the snapshot are lost", t.db, name),
		}
	}
	if err := t.snaps.Restore(ctx, t.db, name); err != nil {
		return err
	}
	t.api.InvalidateSession()
	t.cache.RefreshAll(ctx)
	return nil
}

// ListSnapshots lists stored snapshots, optionally filtered by database.
// Pass "" for all databases.
func (t *Toolkit) ListSnapshots(database string) ([]snapshot.Manifest, error) {
	if err := t.needSnapshots(); err != nil {
		return nil, err
	}
	return t.snaps.List(database)
}

// DeleteSnapshot removes a snapshot from the store, reporting bytes freed.
func (t *Toolkit) DeleteSnapshot(name string) (int64, error) {
	if err := t.needSnapshots(); err != nil {
		return 0, err
	}
	return t.snaps.Delete(name)
}
