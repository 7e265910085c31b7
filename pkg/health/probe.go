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

// Package health polls the application's health endpoint until it serves
// traffic. The application is unusable (RPC calls transport-fail) while it
// boots after a restart, so every restart is followed by a wait here.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TimeoutError reports that the endpoint never became healthy in time.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not become healthy within %s", e.URL, e.Timeout)
}

// Probe polls one health endpoint.
type Probe struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
}

// Option customizes a Probe.
type Option func(*Probe)

// WithInterval overrides the 2s poll interval.
func WithInterval(d time.Duration) Option {
	return func(p *Probe) { p.interval = d }
}

// WithClient overrides the HTTP client (default: 5s per-request timeout).
func WithClient(c *http.Client) Option {
	return func(p *Probe) { p.client = c }
}

// WithLogger sets the zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Probe) { p.logger = l }
}

// New creates a Probe for the given health URL.
func New(url string, opts ...Option) *Probe {
	p := &Probe{
		url:      url,
		interval: 2 * time.Second,
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait polls the endpoint every interval until it answers 200 or the timeout
// elapses, in which case a *TimeoutError is returned.
func (p *Probe) Wait(ctx context.Context, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	for {
		if p.healthy(waitCtx) {
			p.logger.Debug("endpoint healthy",
				zap.String("url", p.url),
				zap.Duration("waited", time.Since(start)),
			)
			return nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				// The caller's context ended, not our budget.
				return ctx.Err()
			}
			return &TimeoutError{URL: p.url, Timeout: timeout}
		case <-time.After(p.interval):
		}
	}
}

func (p *Probe) healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
