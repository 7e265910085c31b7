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
package compose

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompose(t *testing.T, fake *FakeRunner) *Compose {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("services: {}\n"), 0o644))
	c, err := New(Config{Dir: dir, Runner: fake})
	require.NoError(t, err)
	return c
}

func TestNewRequiresComposeFile(t *testing.T) {
	_, err := New(Config{Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docker-compose.yml not found")
}

func TestUpBuildsCommand(t *testing.T) {
	fake := &FakeRunner{}
	c := newTestCompose(t, fake)

	require.NoError(t, c.Up(context.Background(), true))
	require.Len(t, fake.Calls, 1)
	args := fake.Calls[0]
	assert.Equal(t, "docker", args[0])
	assert.Equal(t, "compose", args[1])
	assert.Contains(t, args, "up")
	assert.Contains(t, args, "-d")
	assert.Contains(t, args, "--wait")
}

func TestDownSurfacesStderr(t *testing.T) {
	fake := &FakeRunner{Handler: func([]string) (Result, error) {
		return Result{ExitCode: 1, Stderr: "network in use"}, nil
	}}
	c := newTestCompose(t, fake)

	err := c.Down(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network in use")
}

func TestStatusParsesJSONLines(t *testing.T) {
	fake := &FakeRunner{Handler: func([]string) (Result, error) {
		return Result{Stdout: strings.Join([]string{
			`{"Name":"odoo-web-1","Service":"web","State":"running","Health":"healthy"}`,
			`not json at all`,
			`{"Name":"odoo-db-1","Service":"db","State":"running"}`,
		}, "\n")}, nil
	}}
	c := newTestCompose(t, fake)

	containers, err := c.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, containers, 2)
	assert.Equal(t, "web", containers[0].Service)
	assert.Equal(t, "healthy", containers[0].Health)
	assert.Equal(t, "db", containers[1].Service)
}

func TestLogsGrepFiltersCaseInsensitively(t *testing.T) {
	fake := &FakeRunner{Handler: func([]string) (Result, error) {
		return Result{Stdout: "INFO starting up\nERROR boom\nwarning: ErrOr again\nINFO ok"}, nil
	}}
	c := newTestCompose(t, fake)

	out, err := c.Logs(context.Background(), "web", 100, "", "error")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ERROR boom")
}

func TestExecNonzeroExitIsError(t *testing.T) {
	fake := &FakeRunner{Handler: func([]string) (Result, error) {
		return Result{ExitCode: 2, Stderr: "pg_dump: error: no such database"}, nil
	}}
	c := newTestCompose(t, fake)

	_, err := c.Exec(context.Background(), "db", "pg_dump missing", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pg_dump: error")
	assert.Contains(t, err.Error(), "exit 2")
}

func TestExecReturnsStdout(t *testing.T) {
	fake := &FakeRunner{Handler: func(args []string) (Result, error) {
		// exec -T <service> bash -c <command>
		assert.Contains(t, args, "-T")
		assert.Contains(t, args, "bash")
		return Result{Stdout: "9.6 MB"}, nil
	}}
	c := newTestCompose(t, fake)

	out, err := c.Exec(context.Background(), "db", "psql -c 'select 1'", 0)
	require.NoError(t, err)
	assert.Equal(t, "9.6 MB", out)
}

func TestCopyDirections(t *testing.T) {
	fake := &FakeRunner{}
	c := newTestCompose(t, fake)

	require.NoError(t, c.CopyFrom(context.Background(), "db", "/tmp/x.dump", "/local/x.dump"))
	require.NoError(t, c.CopyTo(context.Background(), "/local/x.dump", "db", "/tmp/x.dump"))

	require.Len(t, fake.Calls, 2)
	assert.Contains(t, fake.Calls[0], "db:/tmp/x.dump")
	assert.Contains(t, fake.Calls[0], "/local/x.dump")
	assert.Contains(t, fake.Calls[1], "db:/tmp/x.dump")
}

func TestInstallModulesUsesOdooCLI(t *testing.T) {
	fake := &FakeRunner{Handler: func(args []string) (Result, error) {
		return Result{Stderr: "odoo: modules loaded"}, nil
	}}
	c := newTestCompose(t, fake)

	out, err := c.InstallModules(context.Background(), "prod", []string{"sale", "crm"})
	require.NoError(t, err)
	assert.Contains(t, out, "modules loaded")

	args := fake.Calls[0]
	assert.Contains(t, args, "odoo")
	assert.Contains(t, args, "-i")
	assert.Contains(t, args, "sale,crm")
	assert.Contains(t, args, "--stop-after-init")
}

func TestExecRunnerTimeout(t *testing.T) {
	runner := &ExecRunner{}
	_, err := runner.Run(context.Background(), "", 50*time.Millisecond, "sleep", "5")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Contains(t, timeoutErr.Error(), "sleep")
}

func TestExecRunnerCapturesExitCode(t *testing.T) {
	runner := &ExecRunner{}
	res, err := runner.Run(context.Background(), "", 0, "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}
