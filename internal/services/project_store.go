package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/persistence"
)

// KeyValueStore is the persistence seam shared by the project store, the
// session holder and the studio. persistence.Adapter implements it.
type KeyValueStore interface {
	Get(ctx context.Context, key string, out any) bool
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string)
}

// ProjectStore owns the current project and writes every change through to
// durable storage.
type ProjectStore struct {
	mu        sync.Mutex
	kv        KeyValueStore
	current   *models.Project
	listeners []func(models.ProjectEvent)
	logger    *zap.Logger
	now       func() time.Time
}

// NewProjectStore restores the current project recorded in kv, if any.
func NewProjectStore(ctx context.Context, kv KeyValueStore, logger *zap.Logger) *ProjectStore {
	s := &ProjectStore{kv: kv, logger: logger, now: time.Now}

	var id string
	if kv.Get(ctx, persistence.KeyCurrentProjectID, &id) && id != "" {
		var p models.Project
		if kv.Get(ctx, persistence.ProjectKey(id), &p) {
			s.current = &p
			logger.Info("restored current project", zap.String("project_id", id))
		} else {
			logger.Warn("current project pointer is dangling", zap.String("project_id", id))
		}
	}
	return s
}

// Subscribe registers fn to receive every committed change. Events are
// delivered synchronously after the change is persisted.
func (s *ProjectStore) Subscribe(fn func(models.ProjectEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *ProjectStore) publish(ev models.ProjectEvent) {
	s.mu.Lock()
	listeners := make([]func(models.ProjectEvent), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Current returns a copy of the current project, or nil.
func (s *ProjectStore) Current() *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// CreateProject starts an empty project, persists it and makes it current.
func (s *ProjectStore) CreateProject(ctx context.Context) (*models.Project, error) {
	p := models.NewProject(s.now())

	s.mu.Lock()
	if err := s.persist(ctx, p); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.addToIndex(ctx, p.ID); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.current = p
	s.mu.Unlock()

	s.logger.Info("project created", zap.String("project_id", p.ID))
	s.publish(models.ProjectEvent{Kind: models.ProjectCreated, Project: p.Clone(), Current: true})
	return p.Clone(), nil
}

// SetProject merges update into the current project.
func (s *ProjectStore) SetProject(ctx context.Context, update models.ProjectUpdate) (*models.Project, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, models.ErrNoCurrentProject
	}

	next := s.current.Clone()
	changed := update.Apply(next)
	next.UpdatedAt = s.now()

	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.addToIndex(ctx, next.ID); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.current = next
	s.mu.Unlock()

	s.publish(models.ProjectEvent{Kind: models.ProjectUpdated, Project: next.Clone(), Changed: changed, Current: true})
	return next.Clone(), nil
}

// ListProjects returns summaries in index order.
func (s *ProjectStore) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.index(ctx)
	out := make([]models.ProjectSummary, 0, len(ids))
	for _, id := range ids {
		var p models.Project
		if !s.kv.Get(ctx, persistence.ProjectKey(id), &p) {
			s.logger.Warn("indexed project is missing", zap.String("project_id", id))
			continue
		}
		out = append(out, p.Summary())
	}
	return out, nil
}

// LoadProject makes the stored project id current.
func (s *ProjectStore) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if !s.kv.Get(ctx, persistence.ProjectKey(id), &p) {
		return nil, fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}

	s.mu.Lock()
	if err := s.kv.Set(ctx, persistence.KeyCurrentProjectID, p.ID); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.current = &p
	s.mu.Unlock()

	s.logger.Info("project loaded", zap.String("project_id", id))
	s.publish(models.ProjectEvent{Kind: models.ProjectLoaded, Project: p.Clone(), Current: true})
	return p.Clone(), nil
}

// DeleteProject removes a stored project. Deleting the current project
// leaves no project current.
func (s *ProjectStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	var p models.Project
	if !s.kv.Get(ctx, persistence.ProjectKey(id), &p) {
		s.mu.Unlock()
		return fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}

	ids := s.index(ctx)
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if err := s.kv.Set(ctx, persistence.KeyProjectIndex, kept); err != nil {
		s.mu.Unlock()
		return err
	}
	s.kv.Remove(ctx, persistence.ProjectKey(id))

	wasCurrent := s.current != nil && s.current.ID == id
	if wasCurrent {
		s.current = nil
		s.kv.Remove(ctx, persistence.KeyCurrentProjectID)
	}
	s.mu.Unlock()

	s.logger.Info("project deleted", zap.String("project_id", id), zap.Bool("was_current", wasCurrent))
	s.publish(models.ProjectEvent{Kind: models.ProjectDeleted, Project: &p, Current: wasCurrent})
	return nil
}

// persist writes p and points currentProjectId at it. Caller holds mu.
func (s *ProjectStore) persist(ctx context.Context, p *models.Project) error {
	if err := s.kv.Set(ctx, persistence.ProjectKey(p.ID), p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if err := s.kv.Set(ctx, persistence.KeyCurrentProjectID, p.ID); err != nil {
		return fmt.Errorf("failed to save current project pointer: %w", err)
	}
	return nil
}

// Caller holds mu.
func (s *ProjectStore) index(ctx context.Context) []string {
	var ids []string
	s.kv.Get(ctx, persistence.KeyProjectIndex, &ids)
	return ids
}

// Caller holds mu.
func (s *ProjectStore) addToIndex(ctx context.Context, id string) error {
	ids := s.index(ctx)
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	if err := s.kv.Set(ctx, persistence.KeyProjectIndex, append(ids, id)); err != nil {
		return fmt.Errorf("failed to save project index: %w", err)
	}
	return nil
}
