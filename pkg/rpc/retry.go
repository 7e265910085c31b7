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
package rpc

import (
	"context"
	"time"
)

// RetryPolicy governs how Execute handles transport-level failures. Faults
// bypass it entirely. Between attempts the client drops its cached session
// and re-authenticates, because a transport failure often means the remote
// process restarted and lost the session.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Backoff returns the delay before retrying after the given
	// zero-based attempt.
	Backoff func(attempt int) time.Duration
}

// DefaultRetryPolicy retries three times with 1s, 2s, 4s exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
	}
}

// wait sleeps for the policy's backoff delay, honoring context cancellation.
func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	delay := time.Duration(0)
	if p.Backoff != nil {
		delay = p.Backoff(attempt)
	}
	if delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
