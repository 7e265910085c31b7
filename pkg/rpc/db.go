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

import "fmt"

// DBCreateOptions configures DBCreate. Zero values fall back to Odoo's
// defaults (en_US, admin/admin, no demo data).
type DBCreateOptions struct {
	Demo          bool
	Language      string
	AdminLogin    string
	AdminPassword string
	CountryCode   string
}

// DBList lists all databases on the instance.
func (c *Client) DBList() ([]string, error) {
	var reply interface{}
	if err := c.dbmgmt.Call("list", []interface{}{}, &reply); err != nil {
		return nil, &ConnError{URL: c.url, Attempts: 1, Err: err}
	}
	items, ok := reply.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected db list payload: %T", reply)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

// DBExists reports whether the named database exists.
func (c *Client) DBExists(name string) (bool, error) {
	names, err := c.DBList()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// DBCreate creates a new database and initializes the base module. This is a
// long call on the remote side; Odoo answers only once initialization ends.
func (c *Client) DBCreate(masterPassword, name string, opts DBCreateOptions) error {
	if opts.Language == "" {
		opts.Language = "en_US"
	}
	if opts.AdminLogin == "" {
		opts.AdminLogin = "admin"
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "admin"
	}
	var countryCode interface{} = false
	if opts.CountryCode != "" {
		countryCode = opts.CountryCode
	}

	var reply interface{}
	err := c.dbmgmt.Call("create_database",
		[]interface{}{masterPassword, name, opts.Demo, opts.Language, opts.AdminPassword, opts.AdminLogin, countryCode},
		&reply)
	if err != nil {
		if fe, ok := asFault(err); ok {
			return fmt.Errorf("database creation failed: %s", fe.String)
		}
		return &ConnError{URL: c.url, Attempts: 1, Err: err}
	}
	return nil
}

// DBDrop drops a database. The caller is responsible for confirmation; this
// is irreversible.
func (c *Client) DBDrop(masterPassword, name string) error {
	var reply interface{}
	err := c.dbmgmt.Call("drop", []interface{}{masterPassword, name}, &reply)
	if err != nil {
		if fe, ok := asFault(err); ok {
			return fmt.Errorf("database drop failed: %s", fe.String)
		}
		return &ConnError{URL: c.url, Attempts: 1, Err: err}
	}
	return nil
}
