package persistence

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a Backend when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

// Backend is a durable key-value store holding JSON-encoded values.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Storage keys shared by the project store and the session holder.
const (
	KeyProjectIndex     = "projects/index"
	KeyCurrentProjectID = "currentProjectId"
	KeyUser             = "user"
	KeyAudioSettings    = "audioSettings"
)

// ProjectKey returns the key a project is stored under.
func ProjectKey(id string) string {
	return "projects/" + id
}
