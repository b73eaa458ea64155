package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"quick-video-scribe/internal/assets"
	"quick-video-scribe/internal/audio"
	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/persistence"
	"quick-video-scribe/internal/wizard"
)

// ScriptWriter drafts and critiques scripts. openai.Client implements it.
type ScriptWriter interface {
	GenerateScript(ctx context.Context, req models.ScriptRequest) (*models.Script, error)
	AnalyzeScript(ctx context.Context, script models.Script, topic string) (*models.ScriptFeedback, error)
}

// Narrator renders speech. elevenlabs.Client implements it.
type Narrator interface {
	Synthesize(ctx context.Context, text string, settings models.AudioSettings) ([]byte, error)
	Voices(ctx context.Context) []models.Voice
	Models() []models.VoiceModel
}

// StudioDeps bundles the collaborators of a Studio. Writer and Narrator may
// be nil, in which case the operations that need them fail validation.
type StudioDeps struct {
	KV       KeyValueStore
	Store    *ProjectStore
	Wizard   *wizard.Controller
	Session  *SessionHolder
	Writer   ScriptWriter
	Narrator Narrator
	Assets   assets.Store
	Logger   *zap.Logger
}

// Studio serialises the user's actions on the wizard and runs the
// generation steps against the external services.
type Studio struct {
	mu         sync.Mutex
	kv         KeyValueStore
	store      *ProjectStore
	wizard     *wizard.Controller
	session    *SessionHolder
	writer     ScriptWriter
	narrator   Narrator
	assets     assets.Store
	settings   models.AudioSettings
	inflight   context.CancelFunc
	generation uint64
	duration   func([]byte) (float64, error)
	logger     *zap.Logger
	now        func() time.Time
}

// State is a snapshot of everything the wizard shows.
type State struct {
	Project       *models.Project
	Step          wizard.Step
	Progress      wizard.Progress
	Reachable     []wizard.Step
	User          *models.User
	AudioSettings models.AudioSettings
	StorageStatus string
}

func NewStudio(ctx context.Context, deps StudioDeps) *Studio {
	s := &Studio{
		kv:       deps.KV,
		store:    deps.Store,
		wizard:   deps.Wizard,
		session:  deps.Session,
		writer:   deps.Writer,
		narrator: deps.Narrator,
		assets:   deps.Assets,
		settings: models.DefaultAudioSettings(),
		duration: audio.Duration,
		logger:   deps.Logger,
		now:      time.Now,
	}

	var saved models.AudioSettings
	if deps.KV.Get(ctx, persistence.KeyAudioSettings, &saved) {
		if err := saved.Validate(); err != nil {
			s.logger.Warn("ignoring stored audio settings", zap.Error(err))
		} else {
			s.settings = saved
		}
	}
	return s
}

func (s *Studio) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Project:       s.store.Current(),
		Step:          s.wizard.Step(),
		Progress:      s.wizard.Progress(),
		Reachable:     s.wizard.Reachable(),
		User:          s.session.User(),
		AudioSettings: s.settings,
		StorageStatus: "ok",
	}
	if r, ok := s.kv.(interface{ Status() string }); ok {
		st.StorageStatus = r.Status()
	}
	return st
}

// Response converts the snapshot to its wire form.
func (st State) Response() models.WizardStateResponse {
	reachable := make([]string, len(st.Reachable))
	for i, step := range st.Reachable {
		reachable[i] = string(step)
	}
	return models.WizardStateResponse{
		Project:        st.Project,
		CurrentStep:    st.Step.String(),
		Progress:       st.Progress.Strings(),
		ReachableSteps: reachable,
		User:           st.User.Public(),
		AudioSettings:  st.AudioSettings,
		StorageStatus:  st.StorageStatus,
	}
}

// Projects

func (s *Studio) NewProject(ctx context.Context) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelInflight()
	return s.store.CreateProject(ctx)
}

func (s *Studio) ResetToStart(ctx context.Context) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelInflight()
	return s.wizard.ResetToStart(ctx)
}

func (s *Studio) LoadProject(ctx context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelInflight()
	return s.store.LoadProject(ctx, id)
}

func (s *Studio) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current := s.store.Current(); current != nil && current.ID == id {
		s.cancelInflight()
	}
	return s.store.DeleteProject(ctx, id)
}

// ListProjects returns summaries with the most recently edited first.
func (s *Studio) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	models.SortByUpdatedDesc(summaries)
	return summaries, nil
}

// Navigation

func (s *Studio) GoTo(step wizard.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.wizard.Step()
	if err := s.wizard.GoTo(step); err != nil {
		return err
	}
	if step != before {
		s.cancelInflight()
	}
	return nil
}

func (s *Studio) Advance() (wizard.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, err := s.wizard.Advance()
	if err != nil {
		return step, err
	}
	s.cancelInflight()
	return step, nil
}

func (s *Studio) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelInflight()
	s.wizard.Exit()
}

// CompleteStep flips the completion flag of a reachable step.
func (s *Studio) CompleteStep(step wizard.Step, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.MarkComplete(step, completed)
}

// Topic step

func (s *Studio) SetTopic(ctx context.Context, topic, description *string) (*models.Project, error) {
	if topic != nil && strings.TrimSpace(*topic) == "" {
		return nil, &models.ValidationError{Field: "topic", Message: "topic must not be blank"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	update := models.ProjectUpdate{Description: description}
	if topic != nil {
		update.Topic = models.StringPtr(strings.TrimSpace(*topic))
	}
	return s.store.SetProject(ctx, update)
}

// Script step

// GenerateScript drafts a script for the current topic and commits it. On
// failure the project is left as it was.
func (s *Studio) GenerateScript(ctx context.Context, length models.ScriptLength, tone models.ScriptTone) (*models.Script, error) {
	if length != "" && !length.Valid() {
		return nil, &models.ValidationError{Field: "length", Message: fmt.Sprintf("unknown length %q", length)}
	}
	if tone != "" && !tone.Valid() {
		return nil, &models.ValidationError{Field: "tone", Message: fmt.Sprintf("unknown tone %q", tone)}
	}

	s.mu.Lock()
	project := s.store.Current()
	switch {
	case project == nil:
		s.mu.Unlock()
		return nil, models.ErrNoCurrentProject
	case !project.HasTopic():
		s.mu.Unlock()
		return nil, &models.ValidationError{Field: "topic", Message: "enter a topic before generating a script"}
	case s.writer == nil:
		s.mu.Unlock()
		return nil, &models.ValidationError{Field: "script_generator", Message: "no script generator is configured"}
	}
	genCtx, gen := s.beginGeneration(ctx)
	s.mu.Unlock()
	defer s.endGeneration(gen)

	start := s.now()
	script, err := s.writer.GenerateScript(genCtx, models.ScriptRequest{
		Topic:  project.Topic,
		Length: length,
		Tone:   tone,
	})
	if err != nil {
		s.logger.Warn("script generation failed", zap.String("project_id", project.ID), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFresh(project.ID, gen); err != nil {
		return nil, err
	}
	updated, err := s.store.SetProject(ctx, models.ProjectUpdate{Script: script})
	if err != nil {
		return nil, err
	}
	s.logger.Info("script generated",
		zap.String("project_id", project.ID),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	return updated.Script, nil
}

// UpdateScript applies a manual edit. Editing with no script starts one.
func (s *Studio) UpdateScript(ctx context.Context, edit models.ScriptEdit) (*models.Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.store.Current()
	if project == nil {
		return nil, models.ErrNoCurrentProject
	}
	var base models.Script
	if project.Script != nil {
		base = *project.Script
	}
	script := edit.Apply(base)
	updated, err := s.store.SetProject(ctx, models.ProjectUpdate{Script: &script})
	if err != nil {
		return nil, err
	}
	return updated.Script, nil
}

// AnalyzeScript asks the critic for suggestions. The project is not changed.
func (s *Studio) AnalyzeScript(ctx context.Context) (*models.ScriptFeedback, error) {
	s.mu.Lock()
	project := s.store.Current()
	s.mu.Unlock()

	switch {
	case project == nil:
		return nil, models.ErrNoCurrentProject
	case project.Script == nil:
		return nil, &models.ValidationError{Field: "script", Message: "generate a script before asking for feedback"}
	case s.writer == nil:
		return nil, &models.ValidationError{Field: "script_generator", Message: "no script generator is configured"}
	}
	return s.writer.AnalyzeScript(ctx, *project.Script, project.Topic)
}

// Audio step

func (s *Studio) AudioSettings() models.AudioSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Studio) SetAudioSettings(ctx context.Context, settings models.AudioSettings) (models.AudioSettings, error) {
	if err := settings.Validate(); err != nil {
		return s.AudioSettings(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, persistence.KeyAudioSettings, settings); err != nil {
		return s.settings, err
	}
	s.settings = settings
	return settings, nil
}

func (s *Studio) Voices(ctx context.Context) ([]models.Voice, error) {
	if s.narrator == nil {
		return nil, &models.ValidationError{Field: "narrator", Message: "no narration service is configured"}
	}
	return s.narrator.Voices(ctx), nil
}

func (s *Studio) Models() ([]models.VoiceModel, error) {
	if s.narrator == nil {
		return nil, &models.ValidationError{Field: "narrator", Message: "no narration service is configured"}
	}
	return s.narrator.Models(), nil
}

// GenerateAudio narrates the current script, uploads it and commits the
// resulting source and duration.
func (s *Studio) GenerateAudio(ctx context.Context) (*models.Audio, error) {
	s.mu.Lock()
	project := s.store.Current()
	settings := s.settings
	switch {
	case project == nil:
		s.mu.Unlock()
		return nil, models.ErrNoCurrentProject
	case project.Script == nil || strings.TrimSpace(project.Script.FullText) == "":
		s.mu.Unlock()
		return nil, &models.ValidationError{Field: "script", Message: "generate a script before narration"}
	case s.narrator == nil:
		s.mu.Unlock()
		return nil, &models.ValidationError{Field: "narrator", Message: "no narration service is configured"}
	case s.assets == nil:
		s.mu.Unlock()
		return nil, &models.ValidationError{Field: "assets", Message: "no asset store is configured"}
	}
	genCtx, gen := s.beginGeneration(ctx)
	s.mu.Unlock()
	defer s.endGeneration(gen)

	data, err := s.narrator.Synthesize(genCtx, project.Script.FullText, settings)
	if err != nil {
		s.logger.Warn("narration failed", zap.String("project_id", project.ID), zap.Error(err))
		return nil, err
	}

	seconds, err := s.duration(data)
	if err != nil {
		return nil, models.NewExternalError("audio", "decode", err)
	}

	src, err := s.assets.Put(genCtx, assets.NarrationPath(project.ID, s.now()), data, "audio/mpeg")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFresh(project.ID, gen); err != nil {
		return nil, err
	}
	updated, err := s.store.SetProject(ctx, models.ProjectUpdate{Audio: &models.Audio{Src: src, Duration: seconds}})
	if err != nil {
		return nil, err
	}
	s.logger.Info("narration generated",
		zap.String("project_id", project.ID),
		zap.Float64("duration_seconds", seconds),
		zap.Int("bytes", len(data)),
	)
	return updated.Audio, nil
}

// Session

func (s *Studio) User() *models.User {
	return s.session.User()
}

func (s *Studio) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	return s.session.Login(ctx, creds)
}

func (s *Studio) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	return s.session.Register(ctx, reg)
}

func (s *Studio) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// beginGeneration cancels any running generation and starts a new one.
// Caller holds mu.
func (s *Studio) beginGeneration(ctx context.Context) (context.Context, uint64) {
	s.cancelInflight()
	genCtx, cancel := context.WithCancel(ctx)
	s.generation++
	s.inflight = cancel
	return genCtx, s.generation
}

func (s *Studio) endGeneration(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen && s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}
}

// Caller holds mu.
func (s *Studio) cancelInflight() {
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
		s.generation++
	}
}

// checkFresh reports whether a finished generation may still be committed.
// Caller holds mu.
func (s *Studio) checkFresh(projectID string, gen uint64) error {
	current := s.store.Current()
	if s.generation != gen || current == nil || current.ID != projectID {
		s.logger.Info("discarding stale result", zap.String("project_id", projectID))
		return models.ErrStaleResult
	}
	return nil
}

// IsCanceled reports whether err came from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
