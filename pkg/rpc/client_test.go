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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kolo/xmlrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEndpoint scripts responses for one XML-RPC endpoint proxy.
type fakeEndpoint struct {
	calls   int
	methods []string
	handler func(call int, method string, args []interface{}) (interface{}, error)
}

func (f *fakeEndpoint) Call(method string, args interface{}, reply interface{}) error {
	call := f.calls
	f.calls++
	f.methods = append(f.methods, method)

	var argv []interface{}
	if a, ok := args.([]interface{}); ok {
		argv = a
	}
	result, err := f.handler(call, method, argv)
	if err != nil {
		return err
	}
	if out, ok := reply.(*interface{}); ok {
		*out = result
	}
	return nil
}

func fastRetry(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: attempts,
		Backoff:     func(int) time.Duration { return time.Millisecond },
	}
}

func newTestClient(common, object *fakeEndpoint) *Client {
	return &Client{
		url:      "http://localhost:8069",
		username: "admin",
		password: "admin",
		retry:    fastRetry(3),
		logger:   zap.NewNop(),
		common:   common,
		object:   object,
		db:       "db1",
		uid:      7,
	}
}

func TestExecuteRetriesTransientFailures(t *testing.T) {
	tests := []struct {
		name     string
		failures int
	}{
		{name: "one transient failure", failures: 1},
		{name: "two transient failures", failures: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			common := &fakeEndpoint{handler: func(int, string, []interface{}) (interface{}, error) {
				return int64(7), nil
			}}
			object := &fakeEndpoint{handler: func(call int, _ string, _ []interface{}) (interface{}, error) {
				if call < tt.failures {
					return nil, errors.New("connection refused")
				}
				return "ok", nil
			}}

			c := newTestClient(common, object)
			result, err := c.Execute(context.Background(), "", "res.partner", "search_read", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, "ok", result)
			// One re-authentication per transient failure, none up front
			// (the session was already cached for db1).
			assert.Equal(t, tt.failures, common.calls)
			assert.Equal(t, tt.failures+1, object.calls)
		})
	}
}

func TestExecuteExhaustsRetries(t *testing.T) {
	common := &fakeEndpoint{handler: func(int, string, []interface{}) (interface{}, error) {
		return int64(7), nil
	}}
	object := &fakeEndpoint{handler: func(int, string, []interface{}) (interface{}, error) {
		return nil, errors.New("connection refused")
	}}

	c := newTestClient(common, object)
	_, err := c.Execute(context.Background(), "", "res.partner", "read", nil, nil)

	var connErr *ConnError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, 3, connErr.Attempts)
	assert.Contains(t, connErr.Error(), "connection refused")
	assert.Equal(t, 3, object.calls)
}

func TestExecuteFaultIsTerminal(t *testing.T) {
	common := &fakeEndpoint{handler: func(int, string, []interface{}) (interface{}, error) {
		return int64(7), nil
	}}
	object := &fakeEndpoint{handler: func(int, string, []interface{}) (interface{}, error) {
		return nil, &xmlrpc.FaultError{Code: 2, String: "odoo.exceptions.ValidationError: missing name"}
	}}

	c := newTestClient(common, object)
	_, err := c.Execute(context.Background(), "", "res.partner", "create", nil, nil)

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, FaultValidation, fault.Category)
	assert.Equal(t, "res.partner", fault.Model)
	assert.NotEmpty(t, fault.Suggestion())
	// Terminal: exactly one RPC call, no retries, no re-authentication.
	assert.Equal(t, 1, object.calls)
	assert.Equal(t, 0, common.calls)
}

func TestExecuteReauthenticatesOnDatabaseSwitch(t *testing.T) {
	var authedDB string
	common := &fakeEndpoint{handler: func(_ int, _ string, args []interface{}) (interface{}, error) {
		authedDB, _ = args[0].(string)
		return int64(9), nil
	}}
	object := &fakeEndpoint{handler: func(_ int, _ string, args []interface{}) (interface{}, error) {
		return "ok", nil
	}}

	c := newTestClient(common, object)
	_, err := c.Execute(context.Background(), "db2", "res.partner", "read", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, common.calls)
	assert.Equal(t, "db2", authedDB)
	assert.Equal(t, "db2", c.Database())
}

func TestAuthenticateRejectedCredentials(t *testing.T) {
	common := &fakeEndpoint{handler: func(int, string, []interface{}) (interface{}, error) {
		// Odoo answers boolean false for bad credentials.
		return false, nil
	}}

	c := newTestClient(common, nil)
	c.uid = 0
	_, err := c.Authenticate(context.Background(), "db1")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "db1", authErr.Database)
}

func TestAuthenticateUnreachable(t *testing.T) {
	common := &fakeEndpoint{handler: func(int, string, []interface{}) (interface{}, error) {
		return nil, fmt.Errorf("dial tcp: connection refused")
	}}

	c := newTestClient(common, nil)
	c.uid = 0
	_, err := c.Authenticate(context.Background(), "db1")

	var connErr *ConnError
	require.ErrorAs(t, err, &connErr)
}

func TestClassifyFault(t *testing.T) {
	tests := []struct {
		fault    string
		category FaultCategory
	}{
		{"odoo.exceptions.AccessError: not allowed", FaultAccessError},
		{"AccessDenied", FaultAccessDenied},
		{"odoo.exceptions.MissingError: record gone", FaultMissingRecord},
		{"psycopg2.errors.UniqueViolation: duplicate key", FaultUnique},
		{"psycopg2.errors.ForeignKeyViolation: still referenced", FaultForeignKey},
		{"odoo.exceptions.UserError: cannot confirm", FaultUserError},
		{"something else entirely", FaultUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			f := classifyFault("res.partner", "write", 1, tt.fault)
			assert.Equal(t, tt.category, f.Category)
			assert.NotEmpty(t, f.Suggestion())
		})
	}
}

func TestExecuteNoDatabase(t *testing.T) {
	c := newTestClient(&fakeEndpoint{}, &fakeEndpoint{})
	c.db = ""
	c.uid = 0
	_, err := c.Execute(context.Background(), "", "res.partner", "read", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}
