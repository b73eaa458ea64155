package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quick-video-scribe/internal/database"
	"quick-video-scribe/internal/persistence"
)

// KVStore is the Postgres-backed key-value backend. It stores one JSONB
// row per key in kv_store.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

func (k *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row database.KVRow
	err := k.db.QueryRowContext(ctx, database.GetKVQuery, key).Scan(&row.Key, &row.Value, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return row.Value, nil
}

func (k *KVStore) Set(ctx context.Context, key string, value []byte) error {
	// JSONB takes text; a []byte argument would be sent as bytea.
	if _, err := k.db.ExecContext(ctx, database.UpsertKVQuery, key, string(value)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (k *KVStore) Remove(ctx context.Context, key string) error {
	if _, err := k.db.ExecContext(ctx, database.DeleteKVQuery, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (k *KVStore) Close() error {
	return k.db.Close()
}
