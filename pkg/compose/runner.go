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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of one subprocess run. It is ephemeral: consumed
// immediately by the caller to decide success or failure, never persisted.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// TimeoutError reports a subprocess that exceeded its budget. The process
// was killed and its output drained before this error was raised.
type TimeoutError struct {
	Args    []string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s", e.Timeout, strings.Join(e.Args, " "))
}

// Runner executes a subprocess with a working directory and a hard timeout.
// A nonzero exit code is reported through Result, not through the error:
// only failure to run at all (or a timeout) produces an error.
type Runner interface {
	Run(ctx context.Context, dir string, timeout time.Duration, args ...string) (Result, error)
}

// ExecRunner runs real subprocesses.
type ExecRunner struct {
	Logger *zap.Logger
}

var _ Runner = (*ExecRunner)(nil)

// Run executes args[0] with the remaining arguments. On timeout the process
// is killed, output is drained, and a *TimeoutError is returned.
func (r *ExecRunner) Run(ctx context.Context, dir string, timeout time.Duration, args ...string) (Result, error) {
	if len(args) == 0 {
		return Result{}, fmt.Errorf("no command given")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Give the killed process a moment to flush pipes before Wait returns.
	cmd.WaitDelay = 5 * time.Second

	if r.Logger != nil {
		r.Logger.Debug("running command", zap.Strings("args", args), zap.Duration("timeout", timeout))
	}

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return Result{}, &TimeoutError{Args: args, Timeout: timeout}
	}

	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The command ran and exited nonzero; the caller decides.
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", args[0], err)
	}
	return result, nil
}

// FakeRunner is a scripted Runner for tests. Handler receives the argv of
// each call; when nil, every call succeeds with an empty Result.
type FakeRunner struct {
	Calls   [][]string
	Handler func(args []string) (Result, error)
}

var _ Runner = (*FakeRunner)(nil)

func (f *FakeRunner) Run(_ context.Context, _ string, _ time.Duration, args ...string) (Result, error) {
	f.Calls = append(f.Calls, args)
	if f.Handler == nil {
		return Result{}, nil
	}
	return f.Handler(args)
}
