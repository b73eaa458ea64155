package database

import "time"

// KVRow is one entry of the kv_store table.
type KVRow struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

const (
	createMigrationsTableQuery = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`
	migrationAppliedQuery = `SELECT COUNT(*) FROM schema_migrations WHERE name = $1`
	recordMigrationQuery  = `INSERT INTO schema_migrations (name, applied_at) VALUES ($1, NOW())`
)

// Statements used by the Postgres key-value backend.
const (
	GetKVQuery = `
		SELECT key, value, updated_at
		FROM kv_store
		WHERE key = $1
	`
	UpsertKVQuery = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	DeleteKVQuery = `DELETE FROM kv_store WHERE key = $1`
)
