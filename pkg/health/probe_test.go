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
package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitHealthyImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	probe := New(srv.URL, WithInterval(10*time.Millisecond))
	require.NoError(t, probe.Wait(context.Background(), time.Second))
}

func TestWaitRecoversAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	probe := New(srv.URL, WithInterval(10*time.Millisecond))
	require.NoError(t, probe.Wait(context.Background(), 2*time.Second))
	assert.GreaterOrEqual(t, hits.Load(), int32(3))
}

func TestWaitTimesOutAgainstUnhealthyEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	probe := New(srv.URL, WithInterval(2*time.Second))
	start := time.Now()
	err := probe.Wait(context.Background(), time.Second)
	elapsed := time.Since(start)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, srv.URL, timeoutErr.URL)
	// Bounded by the timeout, not the poll interval.
	assert.Less(t, elapsed, 2*time.Second)
	assert.GreaterOrEqual(t, elapsed, time.Second)
}

func TestWaitRespectsCallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	probe := New(srv.URL, WithInterval(10*time.Millisecond))
	err := probe.Wait(ctx, 10*time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitUnreachableEndpoint(t *testing.T) {
	// Port 1 is essentially guaranteed closed.
	probe := New("http://127.0.0.1:1/web/health", WithInterval(50*time.Millisecond))
	err := probe.Wait(context.Background(), 200*time.Millisecond)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}
