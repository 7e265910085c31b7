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

// Package rpc implements the authenticated XML-RPC session client for a
// remote Odoo instance. It is the single chokepoint for authentication and
// retry: application faults are surfaced immediately as typed errors, while
// transport failures are retried with exponential backoff and forced
// re-authentication, since a container restart invalidates the session.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kolo/xmlrpc"
	"go.uber.org/zap"
)

// caller is the minimal surface of an XML-RPC endpoint proxy. *xmlrpc.Client
// satisfies it; tests substitute fakes.
type caller interface {
	Call(serviceMethod string, args interface{}, reply interface{}) error
}

// Config configures a Client.
type Config struct {
	// URL is the base Odoo endpoint, e.g. "http://localhost:8069" (required).
	URL string

	// Database is the default target database. May be empty; a database
	// must then be supplied per call.
	Database string

	// Username and Password authenticate against the target database.
	Username string
	Password string

	// Retry governs transport-failure handling (default: DefaultRetryPolicy).
	Retry RetryPolicy

	// Logger is the zap logger (default: zap.NewNop).
	Logger *zap.Logger
}

// Client is the session client for one Odoo endpoint. The cached uid is
// valid only together with the database it was obtained for; switching
// databases forces re-authentication before the next call.
//
// Thread safety: all methods are safe for concurrent use, though the design
// assumes one logical flow of control per agent session.
type Client struct {
	url      string
	username string
	password string
	retry    RetryPolicy
	logger   *zap.Logger

	common caller
	object caller
	dbmgmt caller

	mu  sync.Mutex
	db  string
	uid int64 // 0 means not authenticated
}

// New creates a Client for the given endpoint. No network traffic happens
// until Authenticate or the first Execute.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if cfg.Username == "" {
		cfg.Username = "admin"
	}
	if cfg.Password == "" {
		cfg.Password = "admin"
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	base := strings.TrimRight(cfg.URL, "/")
	common, err := xmlrpc.NewClient(base+"/xmlrpc/2/common", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create common endpoint client: %w", err)
	}
	object, err := xmlrpc.NewClient(base+"/xmlrpc/2/object", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create object endpoint client: %w", err)
	}
	dbmgmt, err := xmlrpc.NewClient(base+"/xmlrpc/2/db", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create db endpoint client: %w", err)
	}

	return &Client{
		url:      base,
		username: cfg.Username,
		password: cfg.Password,
		retry:    cfg.Retry,
		logger:   cfg.Logger,
		common:   common,
		object:   object,
		dbmgmt:   dbmgmt,
		db:       cfg.Database,
	}, nil
}

// URL returns the base endpoint URL.
func (c *Client) URL() string { return c.url }

// Database returns the database the current session is bound to.
func (c *Client) Database() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db
}

// Authenticate authenticates against the given database (or the configured
// default when db is empty) and caches the resulting uid. It returns an
// *AuthError when the remote rejects the credentials and a *ConnError when
// the endpoint is unreachable.
func (c *Client) Authenticate(ctx context.Context, db string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx, db)
}

func (c *Client) authenticateLocked(ctx context.Context, db string) (int64, error) {
	if db == "" {
		db = c.db
	}
	if db == "" {
		return 0, fmt.Errorf("no database specified for authentication")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var reply interface{}
	err := c.common.Call("authenticate", []interface{}{db, c.username, c.password, map[string]interface{}{}}, &reply)
	if err != nil {
		if fe, ok := asFault(err); ok {
			return 0, &AuthError{Database: db, Username: c.username, Message: fe.String}
		}
		return 0, &ConnError{URL: c.url, Attempts: 1, Err: err}
	}

	uid := asInt(reply)
	if uid == 0 {
		// Odoo returns boolean false for bad credentials.
		return 0, &AuthError{Database: db, Username: c.username, Message: "check credentials"}
	}

	c.uid = uid
	c.db = db
	c.logger.Debug("authenticated", zap.String("database", db), zap.Int64("uid", uid))
	return uid, nil
}

// ensureAuthLocked guarantees a valid session for the requested database,
// re-authenticating when the session is absent or bound to another database.
func (c *Client) ensureAuthLocked(ctx context.Context, db string) (string, int64, error) {
	if db == "" {
		db = c.db
	}
	if db == "" {
		return "", 0, fmt.Errorf("no database specified")
	}
	if c.uid == 0 || db != c.db {
		if _, err := c.authenticateLocked(ctx, db); err != nil {
			return "", 0, err
		}
	}
	return db, c.uid, nil
}

// Execute issues execute_kw against the object endpoint. db may be empty to
// use the session's current database. Application faults return a *Fault
// immediately; transport failures are retried per the retry policy with the
// session invalidated and re-established between attempts.
func (c *Client) Execute(ctx context.Context, db, model, method string, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	targetDB, uid, err := c.ensureAuthLocked(ctx, db)
	if err != nil {
		return nil, err
	}

	if args == nil {
		args = []interface{}{}
	}
	if kwargs == nil {
		kwargs = map[string]interface{}{}
	}

	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		var reply interface{}
		err := c.object.Call("execute_kw",
			[]interface{}{targetDB, uid, c.password, model, method, args, kwargs}, &reply)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("rpc retry succeeded",
					zap.String("model", model),
					zap.String("method", method),
					zap.Int("attempt", attempt+1),
				)
			}
			return reply, nil
		}

		if fe, ok := asFault(err); ok {
			return nil, classifyFault(model, method, fe.Code, fe.String)
		}

		lastErr = err
		if attempt >= c.retry.MaxAttempts-1 {
			break
		}

		c.logger.Warn("rpc transport error, retrying",
			zap.String("model", model),
			zap.String("method", method),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.retry.MaxAttempts),
			zap.Error(err),
		)

		if werr := c.retry.wait(ctx, attempt); werr != nil {
			return nil, &ConnError{URL: c.url, Attempts: attempt + 1, Err: fmt.Errorf("%v (cancelled: %w)", lastErr, werr)}
		}

		// The remote may have restarted and lost the session; drop the
		// cached uid and re-authenticate before the next attempt.
		c.uid = 0
		if _, aerr := c.authenticateLocked(ctx, targetDB); aerr != nil {
			var authErr *AuthError
			if errors.As(aerr, &authErr) {
				return nil, aerr
			}
			lastErr = aerr
			continue
		}
		uid = c.uid
	}

	return nil, &ConnError{URL: c.url, Attempts: c.retry.MaxAttempts, Err: lastErr}
}

// ServerVersion reports the Odoo server version string.
func (c *Client) ServerVersion() (string, error) {
	var reply interface{}
	if err := c.common.Call("version", []interface{}{}, &reply); err != nil {
		return "", &ConnError{URL: c.url, Attempts: 1, Err: err}
	}
	if m, ok := reply.(map[string]interface{}); ok {
		if v, ok := m["server_version"].(string); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("unexpected version payload: %T", reply)
}

// asInt normalizes the numeric types the XML-RPC codec may produce.
func asInt(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

// invalidateSession drops the cached uid, forcing re-authentication on the
// next call. Used after operations that restart the application service.
func (c *Client) invalidateSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uid = 0
}

// InvalidateSession is the exported form of invalidateSession.
func (c *Client) InvalidateSession() { c.invalidateSession() }
