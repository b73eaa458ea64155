package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quick-video-scribe/internal/auth"
	"quick-video-scribe/internal/handlers"
	"quick-video-scribe/internal/middleware"
	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/persistence"
	"quick-video-scribe/internal/services"
	"quick-video-scribe/internal/wizard"
)

const testSecret = "handlers-test-secret"

type stubWriter struct {
	err error
}

func (w *stubWriter) GenerateScript(ctx context.Context, req models.ScriptRequest) (*models.Script, error) {
	if w.err != nil {
		return nil, w.err
	}
	return &models.Script{Title: req.Topic, Introduction: "Hi.", Body: "Facts.", Conclusion: "Bye."}, nil
}

func (w *stubWriter) AnalyzeScript(ctx context.Context, script models.Script, topic string) (*models.ScriptFeedback, error) {
	return &models.ScriptFeedback{}, nil
}

type testServer struct {
	router  *gin.Engine
	writer  *stubWriter
	storage *persistence.Adapter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := zap.NewNop()

	kv := persistence.NewAdapter(persistence.NewMemoryBackend(), logger, nil)
	store := services.NewProjectStore(ctx, kv, logger)
	writer := &stubWriter{}
	studio := services.NewStudio(ctx, services.StudioDeps{
		KV:      kv,
		Store:   store,
		Wizard:  wizard.NewController(store, logger, nil),
		Session: services.NewSessionHolder(ctx, kv, auth.NewLocalProvider(testSecret, time.Hour), logger),
		Writer:  writer,
		Logger:  logger,
	})

	router := gin.New()
	router.GET("/health", handlers.NewHealthHandler(kv).Health)

	api := router.Group("/api/v1")
	projects := handlers.NewProjectsHandler(studio)
	api.POST("/projects", projects.CreateProject)
	api.GET("/projects", projects.ListProjects)
	api.GET("/projects/current", projects.GetCurrent)
	api.PATCH("/projects/current", projects.UpdateCurrent)
	api.POST("/projects/:project_id/load", projects.LoadProject)
	api.DELETE("/projects/:project_id", projects.DeleteProject)

	wiz := handlers.NewWizardHandler(studio)
	api.GET("/wizard", wiz.GetState)
	api.POST("/wizard/goto", wiz.GoTo)
	api.POST("/wizard/advance", wiz.Advance)
	api.POST("/wizard/exit", wiz.Exit)
	api.POST("/wizard/reset", wiz.Reset)
	api.POST("/wizard/steps/:step/complete", wiz.CompleteStep)

	script := handlers.NewScriptHandler(studio)
	api.POST("/script/generate", script.Generate)
	api.PUT("/script", script.Update)

	audio := handlers.NewAudioHandler(studio)
	api.GET("/audio/settings", audio.GetSettings)
	api.PUT("/audio/settings", audio.PutSettings)
	api.GET("/audio/voices", audio.Voices)
	api.POST("/audio/generate", audio.Generate)

	session := handlers.NewSessionHandler(studio)
	api.POST("/auth/login", session.Login)
	api.POST("/auth/register", session.Register)
	authed := api.Group("/auth", middleware.AuthMiddleware(testSecret))
	authed.GET("/me", session.Me)
	authed.POST("/logout", session.Logout)

	return &testServer{router: router, writer: writer, storage: kv}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Storage)
}

func TestWizardFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/wizard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "none", decode[models.WizardStateResponse](t, w).CurrentStep)

	w = s.do(t, http.MethodPatch, "/api/v1/projects/current", models.UpdateProjectRequest{Topic: models.StringPtr("Sharks")})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/projects", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/goto", models.GoToRequest{Step: "script"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "step not reachable", decode[models.ErrorResponse](t, w).Error)

	w = s.do(t, http.MethodPatch, "/api/v1/projects/current", models.UpdateProjectRequest{Topic: models.StringPtr("Sharks")})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "script", decode[models.WizardStateResponse](t, w).CurrentStep)

	w = s.do(t, http.MethodPost, "/api/v1/script/generate", models.GenerateScriptRequest{Length: models.LengthShort})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sharks\n\nHi.\n\nFacts.\n\nBye.", decode[models.ScriptResponse](t, w).Script.FullText)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/goto", models.GoToRequest{Step: "audio"})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[models.WizardStateResponse](t, w)
	assert.Equal(t, "audio", state.CurrentStep)
	assert.True(t, state.Progress["script"])
	assert.Equal(t, []string{"topic", "script", "audio"}, state.ReachableSteps)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/goto", models.GoToRequest{Step: "intro"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateScriptServiceFailure(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/projects", nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, "/api/v1/projects/current", models.UpdateProjectRequest{Topic: models.StringPtr("Rain")}).Code)

	s.writer.err = &models.ExternalServiceError{Service: "openai", Op: "generate_script", StatusCode: 500, Err: errors.New("upstream")}
	w := s.do(t, http.MethodPost, "/api/v1/script/generate", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/projects/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[models.ProjectResponse](t, w).Project.Script)
}

func TestGenerateScriptRequiresTopic(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/projects", nil).Code)

	w := s.do(t, http.MethodPost, "/api/v1/script/generate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAudioWithoutNarrator(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/audio/voices", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/audio/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DefaultAudioSettings(), decode[models.AudioSettings](t, w))

	bad := models.DefaultAudioSettings()
	bad.Stability = 2
	w = s.do(t, http.MethodPut, "/api/v1/audio/settings", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectsListLoadDelete(t *testing.T) {
	s := newTestServer(t)

	first := decode[models.ProjectResponse](t, s.do(t, http.MethodPost, "/api/v1/projects", nil)).Project
	second := decode[models.ProjectResponse](t, s.do(t, http.MethodPost, "/api/v1/projects", nil)).Project

	w := s.do(t, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.ProjectListResponse](t, w).Projects, 2)

	w = s.do(t, http.MethodPost, "/api/v1/projects/"+first.ID+"/load", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, decode[models.ProjectResponse](t, w).Project.ID)

	w = s.do(t, http.MethodDelete, "/api/v1/projects/"+second.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/projects/"+second.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/projects/unknown/load", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteStep(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/projects", nil).Code)

	w := s.do(t, http.MethodPost, "/api/v1/wizard/steps/visuals/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/steps/topic/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.WizardStateResponse](t, w).Progress["topic"])

	w = s.do(t, http.MethodPost, "/api/v1/wizard/steps/topic/complete", models.CompleteStepRequest{Completed: new(bool)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.WizardStateResponse](t, w).Progress["topic"])
}

func TestResetAndExit(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/wizard/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[models.WizardStateResponse](t, w)
	assert.Equal(t, "topic", state.CurrentStep)
	require.NotNil(t, state.Project)

	w = s.do(t, http.MethodPost, "/api/v1/wizard/exit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "none", decode[models.WizardStateResponse](t, w).CurrentStep)
}

func TestSessionEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", models.Credentials{Email: "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", models.Registration{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	session := decode[models.SessionResponse](t, w)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "Ada", session.User.Name)
	assert.Empty(t, session.User.AccessToken)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	bearer := "Bearer " + session.Token
	w = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "Authorization", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, auth.UserID("ada@example.com"), decode[models.SessionResponse](t, w).User.ID)

	w = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, "Authorization", bearer)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "Authorization", bearer)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
