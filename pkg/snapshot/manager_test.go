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
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrch scripts the container side of snapshot operations. CopyFrom
// writes a dump file locally to mimic `docker compose cp`.
type fakeOrch struct {
	execCmds    []string
	execErr     func(command string) error
	copyFromErr error
	dumpContent string
	restarted   []string
}

func (f *fakeOrch) Exec(_ context.Context, _ string, command string, _ time.Duration) (string, error) {
	f.execCmds = append(f.execCmds, command)
	if f.execErr != nil {
		if err := f.execErr(command); err != nil {
			return "pg output", err
		}
	}
	return "", nil
}

func (f *fakeOrch) CopyFrom(_ context.Context, _ string, _, localPath string) error {
	if f.copyFromErr != nil {
		return f.copyFromErr
	}
	content := f.dumpContent
	if content == "" {
		content = "PGDMP fake dump"
	}
	return os.WriteFile(localPath, []byte(content), 0o644)
}

func (f *fakeOrch) CopyTo(_ context.Context, localPath, _, _ string) error {
	_, err := os.Stat(localPath)
	return err
}

func (f *fakeOrch) Restart(_ context.Context, service string) error {
	f.restarted = append(f.restarted, service)
	return nil
}

type fakeHealth struct{ err error }

func (f *fakeHealth) Wait(context.Context, time.Duration) error { return f.err }

func newTestManager(t *testing.T, orch *fakeOrch) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		Dir:          t.TempDir(),
		Orchestrator: orch,
		Health:       &fakeHealth{},
	})
	require.NoError(t, err)
	return m
}

func TestCreateWritesManifestAndDump(t *testing.T) {
	orch := &fakeOrch{}
	m := newTestManager(t, orch)

	manifest, err := m.Create(context.Background(), "prod", "before_sale", "pre-install checkpoint")
	require.NoError(t, err)

	assert.Equal(t, "before_sale", manifest.Name)
	assert.Equal(t, "prod", manifest.Database)
	assert.Equal(t, "before_sale.dump", manifest.DumpFile)
	assert.Equal(t, int64(len("PGDMP fake dump")), manifest.SizeBytes)
	assert.False(t, manifest.CreatedAt.IsZero())

	// pg_dump ran, then the container temp was removed.
	require.GreaterOrEqual(t, len(orch.execCmds), 2)
	assert.Contains(t, orch.execCmds[0], "pg_dump -U odoo -Fc prod")
	assert.Contains(t, orch.execCmds[len(orch.execCmds)-1], "rm -f /tmp/before_sale.dump")

	// Both files exist in the store.
	assert.FileExists(t, filepath.Join(m.Dir(), "before_sale.dump"))
	assert.FileExists(t, filepath.Join(m.Dir(), "before_sale.json"))
}

func TestCreateDuplicateNameFailsWithoutDumping(t *testing.T) {
	orch := &fakeOrch{}
	m := newTestManager(t, orch)

	_, err := m.Create(context.Background(), "prod", "snap1", "")
	require.NoError(t, err)
	dumps := len(orch.execCmds)

	_, err = m.Create(context.Background(), "prod", "snap1", "")
	var snapErr *SnapshotError
	require.ErrorAs(t, err, &snapErr)
	assert.Contains(t, snapErr.Error(), "already exists")
	// No further subprocess ran.
	assert.Equal(t, dumps, len(orch.execCmds))
}

func TestCreateRejectsBadNames(t *testing.T) {
	m := newTestManager(t, &fakeOrch{})

	for _, name := range []string{"", "has space", "semi;colon", "dollar$", "../escape"} {
		_, err := m.Create(context.Background(), "prod", name, "")
		require.Error(t, err, "name %q", name)
	}
}

func TestCreateCleansUpContainerTempOnCopyFailure(t *testing.T) {
	orch := &fakeOrch{copyFromErr: fmt.Errorf("no space left on device")}
	m := newTestManager(t, orch)

	_, err := m.Create(context.Background(), "prod", "snap1", "")
	var snapErr *SnapshotError
	require.ErrorAs(t, err, &snapErr)

	// The temp dump was still removed from the container.
	assert.Contains(t, orch.execCmds[len(orch.execCmds)-1], "rm -f /tmp/snap1.dump")
	// And no manifest was written.
	assert.NoFileExists(t, filepath.Join(m.Dir(), "snap1.json"))
}

func TestRestoreRunsFullSequence(t *testing.T) {
	orch := &fakeOrch{}
	m := newTestManager(t, orch)

	_, err := m.Create(context.Background(), "prod", "snap1", "")
	require.NoError(t, err)
	orch.execCmds = nil

	require.NoError(t, m.Restore(context.Background(), "prod", "snap1"))

	joined := strings.Join(orch.execCmds, "\n")
	terminate := strings.Index(joined, "pg_terminate_backend")
	drop := strings.Index(joined, "dropdb -U odoo --if-exists prod")
	create := strings.Index(joined, "createdb -U odoo prod")
	restore := strings.Index(joined, "pg_restore -U odoo -d prod --no-owner")
	require.True(t, terminate >= 0 && drop >= 0 && create >= 0 && restore >= 0, joined)
	assert.True(t, terminate < drop && drop < create && create < restore,
		"restore steps out of order:\n%s", joined)

	assert.Equal(t, []string{"web"}, orch.restarted)
}

func TestRestoreMissingSnapshot(t *testing.T) {
	m := newTestManager(t, &fakeOrch{})

	err := m.Restore(context.Background(), "prod", "ghost")
	var snapErr *SnapshotError
	require.ErrorAs(t, err, &snapErr)
	assert.Contains(t, snapErr.Error(), "not found")
}

func TestRestoreMissingDumpFileIsCorrupt(t *testing.T) {
	orch := &fakeOrch{}
	m := newTestManager(t, orch)

	_, err := m.Create(context.Background(), "prod", "snap1", "")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(m.Dir(), "snap1.dump")))

	err = m.Restore(context.Background(), "prod", "snap1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestCreateThenRestoreManifestSurvives(t *testing.T) {
	orch := &fakeOrch{}
	m := newTestManager(t, orch)

	_, err := m.Create(context.Background(), "prod", "roundtrip", "keep me")
	require.NoError(t, err)
	require.NoError(t, m.Restore(context.Background(), "prod", "roundtrip"))

	snapshots, err := m.List("")
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "prod", snapshots[0].Database)
	assert.FileExists(t, filepath.Join(m.Dir(), snapshots[0].DumpFile))
}

func TestListFiltersByDatabase(t *testing.T) {
	orch := &fakeOrch{}
	m := newTestManager(t, orch)

	_, err := m.Create(context.Background(), "db1", "a1", "")
	require.NoError(t, err)
	_, err = m.Create(context.Background(), "db2", "b1", "")
	require.NoError(t, err)
	_, err = m.Create(context.Background(), "db1", "a2", "")
	require.NoError(t, err)

	all, err := m.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	db1, err := m.List("db1")
	require.NoError(t, err)
	require.Len(t, db1, 2)
	for _, s := range db1 {
		assert.Equal(t, "db1", s.Database)
	}
}

func TestListSkipsCorruptManifests(t *testing.T) {
	orch := &fakeOrch{}
	m := newTestManager(t, orch)

	_, err := m.Create(context.Background(), "prod", "good", "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "bad.json"), []byte("{truncated"), 0o644))

	snapshots, err := m.List("")
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "good", snapshots[0].Name)
}

func TestDeleteIsIdempotent(t *testing.T) {
	orch := &fakeOrch{}
	m := newTestManager(t, orch)

	_, err := m.Create(context.Background(), "prod", "snap1", "")
	require.NoError(t, err)

	freed, err := m.Delete("snap1")
	require.NoError(t, err)
	assert.Equal(t, int64(len("PGDMP fake dump")), freed)

	// Second delete frees nothing and still succeeds.
	freed, err = m.Delete("snap1")
	require.NoError(t, err)
	assert.Zero(t, freed)

	// Deleting a name that never existed also succeeds.
	freed, err = m.Delete("never-existed")
	require.NoError(t, err)
	assert.Zero(t, freed)
}
