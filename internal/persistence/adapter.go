package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"quick-video-scribe/internal/metrics"
)

type tombstone struct{}

// Adapter is the single seam to durable storage. Reads never fail: a missing
// or unreadable entry is reported as absent. Writes never fail on backend
// errors either; they degrade to a process-local fallback instead, so the
// latest value stays visible to this process but is not durable.
type Adapter struct {
	backend  Backend
	fallback *gocache.Cache
	logger   *zap.Logger
	metrics  *metrics.Metrics
	degraded atomic.Bool
}

func NewAdapter(backend Backend, logger *zap.Logger, m *metrics.Metrics) *Adapter {
	return &Adapter{
		backend:  backend,
		fallback: gocache.New(gocache.NoExpiration, 0),
		logger:   logger,
		metrics:  m,
	}
}

// Get decodes the value stored under key into out and reports whether one
// was found.
func (a *Adapter) Get(ctx context.Context, key string, out any) bool {
	var data []byte
	if v, found := a.fallback.Get(key); found {
		if _, gone := v.(tombstone); gone {
			return false
		}
		data = v.([]byte)
	} else {
		var err error
		data, err = a.backend.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, ErrKeyNotFound) {
				a.logger.Warn("storage read failed", zap.String("key", key), zap.Error(err))
			}
			return false
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		a.logger.Warn("discarding corrupt storage entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key. Only encoding errors are returned.
func (a *Adapter) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := a.backend.Set(ctx, key, data); err != nil {
		a.degrade("set", key, err)
		a.fallback.Set(key, data, gocache.NoExpiration)
		return nil
	}
	a.fallback.Delete(key)
	return nil
}

// Remove deletes key. A failed removal leaves a tombstone so the key still
// reads as absent in this process.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Remove(ctx, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
		a.degrade("remove", key, err)
		a.fallback.Set(key, tombstone{}, gocache.NoExpiration)
		return
	}
	a.fallback.Delete(key)
}

// Degraded reports whether any write has fallen back to memory.
func (a *Adapter) Degraded() bool {
	return a.degraded.Load()
}

// Status is "ok" or "degraded".
func (a *Adapter) Status() string {
	if a.Degraded() {
		return "degraded"
	}
	return "ok"
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}

func (a *Adapter) degrade(op, key string, err error) {
	a.degraded.Store(true)
	a.metrics.StorageDegraded(op)
	a.logger.Warn("storage_degraded",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
