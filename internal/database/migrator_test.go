package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbeddedInOrder(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_create_kv_store.sql", names[0])

	body, err := migrationsFS.ReadFile("migrations/" + names[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "CREATE TABLE IF NOT EXISTS kv_store"))
}

func TestUpsertTargetsKeyConflict(t *testing.T) {
	assert.Contains(t, UpsertKVQuery, "ON CONFLICT (key)")
}
