package wizard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"quick-video-scribe/internal/metrics"
	"quick-video-scribe/internal/models"
)

// ProjectSource is the part of the project store the controller depends on.
type ProjectSource interface {
	Current() *models.Project
	CreateProject(ctx context.Context) (*models.Project, error)
	Subscribe(fn func(models.ProjectEvent))
}

// Controller tracks the selected step and the completion flags, and gates
// navigation on reachability.
type Controller struct {
	mu       sync.RWMutex
	source   ProjectSource
	step     Step
	progress Progress
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewController derives progress from the source's current project and
// resumes on the first incomplete step.
func NewController(source ProjectSource, logger *zap.Logger, m *metrics.Metrics) *Controller {
	c := &Controller{
		source:   source,
		progress: NewProgress(),
		logger:   logger,
		metrics:  m,
	}
	c.resume(source.Current())
	source.Subscribe(c.handleProjectEvent)
	return c
}

// resume must be called with mu held or before the controller is shared.
func (c *Controller) resume(project *models.Project) {
	c.progress = DeriveFromProject(project)
	if project == nil {
		c.step = StepNone
		return
	}
	if step, ok := c.progress.FirstIncomplete(); ok {
		c.step = step
	} else {
		c.step = StepRendering
	}
}

func (c *Controller) Step() Step {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.step
}

// Progress returns a copy of the completion flags.
func (c *Controller) Progress() Progress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.progress.Clone()
}

func (c *Controller) Reachable() []Step {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ReachableSteps(c.progress)
}

func (c *Controller) IsReachable(step Step) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return IsReachable(step, c.progress)
}

// GoTo selects step if it is reachable. State is untouched on error.
func (c *Controller) GoTo(step Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(step)
}

func (c *Controller) goTo(step Step) error {
	if !step.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStep, string(step))
	}
	if !IsReachable(step, c.progress) {
		c.metrics.StepRejected(string(step))
		return fmt.Errorf("%w: %s", ErrNotReachable, step)
	}
	if c.step != step {
		c.logger.Debug("wizard step changed", zap.Stringer("from", c.step), zap.Stringer("to", step))
	}
	c.step = step
	c.metrics.StepTransition(string(step))
	return nil
}

// Advance moves to the successor of the current step.
func (c *Controller) Advance() (Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, ok := c.step.Next()
	if !ok {
		return c.step, ErrNoNextStep
	}
	if err := c.goTo(next); err != nil {
		return c.step, err
	}
	return next, nil
}

// Exit returns to the landing state with no step selected.
func (c *Controller) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepNone
}

// MarkComplete sets a completion flag. Only reachable steps may be marked.
func (c *Controller) MarkComplete(step Step, completed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !step.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStep, string(step))
	}
	if !IsReachable(step, c.progress) {
		c.metrics.StepRejected(string(step))
		return fmt.Errorf("%w: %s", ErrNotReachable, step)
	}
	c.progress.MarkComplete(step, completed)
	return nil
}

// ResetToStart starts a fresh project and lands on the first step.
func (c *Controller) ResetToStart(ctx context.Context) (*models.Project, error) {
	// The store publishes a created event while we're in here, so the lock
	// is only taken once the project exists.
	project, err := c.source.CreateProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = NewProgress()
	c.step = StepTopic
	c.metrics.StepTransition(string(StepTopic))
	c.logger.Info("wizard reset", zap.String("project_id", project.ID))
	return project, nil
}

func (c *Controller) handleProjectEvent(ev models.ProjectEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Kind {
	case models.ProjectUpdated:
		if !ev.Current {
			return
		}
		derived := DeriveFromProject(ev.Project)
		for _, field := range ev.Changed {
			if step, ok := fieldSteps[field]; ok {
				c.progress[step] = derived[step]
			}
		}
	case models.ProjectCreated, models.ProjectLoaded:
		c.resume(ev.Project)
		c.logger.Debug("wizard resumed",
			zap.String("project_id", ev.Project.ID),
			zap.Stringer("step", c.step),
		)
	case models.ProjectDeleted:
		if ev.Current {
			c.progress = NewProgress()
			c.step = StepNone
		}
	}
}
