// @title           Quick Video Scribe API
// @version         1.0.0
// @description     Backend API for the video-creation wizard: topic, AI-written script, narration and the placeholder visuals, assembly and export stages.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"quick-video-scribe/internal/app"
	"quick-video-scribe/internal/config"
	"quick-video-scribe/internal/handlers"
	"quick-video-scribe/internal/logging"
	"quick-video-scribe/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// SCRIBE_CONFIG points at a YAML file; config.yaml is used when present.
	cfg, err := config.LoadWithFile(os.Getenv("SCRIBE_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	core, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer core.Close()

	router := newRouter(core)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Narration can take up to the ElevenLabs timeout.
		WriteTimeout: cfg.ElevenLabs.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", httpServer.Addr), zap.String("base_url", cfg.Server.BaseURL))
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

func newRouter(core *app.App) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(core.Logger))
	router.Use(gin.Recovery())

	// Health check and metrics (no auth)
	router.GET("/health", handlers.NewHealthHandler(core.Storage).Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(core.Registry, promhttp.HandlerOpts{})))

	if core.LocalAssets != nil {
		router.Static("/assets", core.LocalAssets.Dir())
	}

	projectsHandler := handlers.NewProjectsHandler(core.Studio)
	wizardHandler := handlers.NewWizardHandler(core.Studio)
	scriptHandler := handlers.NewScriptHandler(core.Studio)
	audioHandler := handlers.NewAudioHandler(core.Studio)
	sessionHandler := handlers.NewSessionHandler(core.Studio)

	api := router.Group("/api/v1")

	// Wizard navigation
	api.GET("/wizard", wizardHandler.GetState)
	api.POST("/wizard/goto", wizardHandler.GoTo)
	api.POST("/wizard/advance", wizardHandler.Advance)
	api.POST("/wizard/exit", wizardHandler.Exit)
	api.POST("/wizard/reset", wizardHandler.Reset)
	api.POST("/wizard/steps/:step/complete", wizardHandler.CompleteStep)

	// Project routes
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/current", projectsHandler.GetCurrent)
	api.PATCH("/projects/current", projectsHandler.UpdateCurrent)
	api.POST("/projects/:project_id/load", projectsHandler.LoadProject)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)

	// Script step
	api.POST("/script/generate", scriptHandler.Generate)
	api.PUT("/script", scriptHandler.Update)
	api.POST("/script/analyze", scriptHandler.Analyze)

	// Audio step
	api.GET("/audio/settings", audioHandler.GetSettings)
	api.PUT("/audio/settings", audioHandler.PutSettings)
	api.GET("/audio/voices", audioHandler.Voices)
	api.GET("/audio/models", audioHandler.Models)
	api.POST("/audio/generate", audioHandler.Generate)

	// Session
	api.POST("/auth/login", sessionHandler.Login)
	api.POST("/auth/register", sessionHandler.Register)
	authed := api.Group("/auth", middleware.AuthMiddleware(core.Config.TokenSecret()))
	authed.GET("/me", sessionHandler.Me)
	authed.POST("/logout", sessionHandler.Logout)

	return router
}
