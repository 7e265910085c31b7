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
package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, "localhost", c.host)
	assert.Equal(t, 5432, c.port)
	assert.Equal(t, "odoo", c.user)
}

func TestConnectionPoolIsCachedPerDatabase(t *testing.T) {
	c := NewClient(Config{Password: "odoo"})
	defer c.Close()

	// sql.Open is lazy; no network traffic happens here.
	db1, err := c.db("prod")
	require.NoError(t, err)
	db1again, err := c.db("prod")
	require.NoError(t, err)
	db2, err := c.db("staging")
	require.NoError(t, err)

	assert.Same(t, db1, db1again)
	assert.NotSame(t, db1, db2)
	assert.Len(t, c.conns, 2)
}

func TestEmptyDatabaseFallsBackToPostgres(t *testing.T) {
	c := NewClient(Config{})
	defer c.Close()

	_, err := c.db("")
	require.NoError(t, err)
	assert.Contains(t, c.conns, "postgres")
}

func TestCloseDropsAllPools(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.db("a")
	require.NoError(t, err)
	_, err = c.db("b")
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.Empty(t, c.conns)
}
