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
	"time"

	"github.com/hamzatrq/odoo-forge/pkg/compose"
	"go.uber.org/zap"
)

const startupHealthTimeout = 2 * time.Minute

// InstanceStatus is the combined view of the deployment.
type InstanceStatus struct {
	Containers    []compose.ContainerState
	ServerVersion string
	Healthy       bool
}

// StartInstance brings the environment up, waits until the application
// serves traffic, and warms the state cache.
func (t *Toolkit) StartInstance(ctx context.Context) error {
	if err := t.needCompose(); err != nil {
		return err
	}
	if err := t.orch.Up(ctx, true); err != nil {
		return err
	}
	if t.health != nil {
		if err := t.health.Wait(ctx, startupHealthTimeout); err != nil {
			return err
		}
	}
	t.cache.RefreshAll(ctx)
	t.logger.Info("instance started", zap.String("database", t.db))
	return nil
}

// StopInstance stops the environment. Removing volumes erases every
// database and so requires confirm.
func (t *Toolkit) StopInstance(ctx context.Context, removeVolumes, confirm bool) error {
	if err := t.needCompose(); err != nil {
		return err
	}
	if removeVolumes && !confirm {
		return &ConfirmationError{
			Action: "stop with volume removal",
			Detail: "all databases and filestore data will be permanently erased",
		}
	}
	if err := t.orch.Down(ctx, removeVolumes); err != nil {
		return err
	}
	t.api.InvalidateSession()
	return nil
}

// RestartService restarts one compose service. Restarting the application
// service drops every session, so the cached one is invalidated and the
// probe waits for recovery.
func (t *Toolkit) RestartService(ctx context.Context, service string) error {
	if err := t.needCompose(); err != nil {
		return err
	}
	if err := t.orch.Restart(ctx, service); err != nil {
		return err
	}
	if service == compose.WebService {
		t.api.InvalidateSession()
		if t.health != nil {
			return t.health.Wait(ctx, startupHealthTimeout)
		}
	}
	return nil
}

// Status reports container states, the server version, and liveness. The
// version and health checks are best effort; an unreachable instance still
// yields the container view.
func (t *Toolkit) Status(ctx context.Context) (*InstanceStatus, error) {
	if err := t.needCompose(); err != nil {
		return nil, err
	}
	containers, err := t.orch.Status(ctx)
	if err != nil {
		return nil, err
	}

	status := &InstanceStatus{Containers: containers}
	if v, err := t.api.ServerVersion(); err == nil {
		status.ServerVersion = v
		status.Healthy = true
	} else if t.health != nil {
		status.Healthy = t.health.Wait(ctx, 5*time.Second) == nil
	}
	return status, nil
}

// Logs returns recent log output for a service.
func (t *Toolkit) Logs(ctx context.Context, service string, tail int, since, grep string) (string, error) {
	if err := t.needCompose(); err != nil {
		return "", err
	}
	return t.orch.Logs(ctx, service, tail, since, grep)
}
