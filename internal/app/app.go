// Package app wires configuration into the running core shared by the HTTP
// server and the CLI.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"quick-video-scribe/internal/assets"
	"quick-video-scribe/internal/auth"
	"quick-video-scribe/internal/config"
	"quick-video-scribe/internal/database"
	"quick-video-scribe/internal/elevenlabs"
	"quick-video-scribe/internal/metrics"
	"quick-video-scribe/internal/minio"
	"quick-video-scribe/internal/openai"
	"quick-video-scribe/internal/persistence"
	"quick-video-scribe/internal/services"
	"quick-video-scribe/internal/supabase"
	"quick-video-scribe/internal/wizard"
)

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Storage  *persistence.Adapter
	Projects *services.ProjectStore
	Wizard   *wizard.Controller
	Session  *services.SessionHolder
	Studio   *services.Studio
	Assets   assets.Store
	// LocalAssets is set when narrations are written to a local directory
	// that the server has to expose.
	LocalAssets *assets.LocalStore
}

// New builds every component from cfg. Storage problems never fail startup:
// an unusable backend is replaced with an in-memory one.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  m,
	}

	backend := openBackend(ctx, cfg, logger, m)
	a.Storage = persistence.NewAdapter(backend, logger, m)

	store, err := a.openAssets(cfg, logger)
	if err != nil {
		a.Storage.Close()
		return nil, err
	}
	a.Assets = store

	provider, err := newAuthProvider(cfg, logger)
	if err != nil {
		a.Storage.Close()
		return nil, err
	}

	a.Projects = services.NewProjectStore(ctx, a.Storage, logger)
	a.Wizard = wizard.NewController(a.Projects, logger, m)
	a.Session = services.NewSessionHolder(ctx, a.Storage, provider, logger)
	a.Studio = services.NewStudio(ctx, services.StudioDeps{
		KV:       a.Storage,
		Store:    a.Projects,
		Wizard:   a.Wizard,
		Session:  a.Session,
		Writer:   openai.NewClient(cfg.OpenAI, logger, m),
		Narrator: elevenlabs.NewClient(cfg.ElevenLabs, logger, m),
		Assets:   a.Assets,
		Logger:   logger,
	})

	logger.Info("core ready",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("storage_status", a.Storage.Status()),
		zap.String("assets_driver", cfg.Assets.Driver),
		zap.String("auth_provider", cfg.Auth.Provider),
	)
	return a, nil
}

func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	return a.Storage.Close()
}

// openBackend returns the configured durable backend, or an in-memory one
// if it cannot be opened.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) persistence.Backend {
	backend, err := openDurableBackend(ctx, cfg, logger)
	if err == nil {
		return backend
	}

	logger.Warn("storage_degraded",
		zap.String("op", "open"),
		zap.String("driver", cfg.Storage.Driver),
		zap.Error(err),
	)
	m.StorageDegraded("open")
	return persistence.NewMemoryBackend()
}

func openDurableBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (persistence.Backend, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return persistence.NewMemoryBackend(), nil
	case "sqlite":
		return persistence.OpenSQLite(cfg.Storage.SQLitePath)
	case "redis":
		return persistence.NewRedisBackend(ctx, persistence.RedisConfig{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
			Prefix:   cfg.Storage.RedisPrefix,
		})
	case "postgres":
		db, err := database.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err := database.NewMigrator(db, logger).Run(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		return supabase.NewKVStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (a *App) openAssets(cfg *config.Config, logger *zap.Logger) (assets.Store, error) {
	switch cfg.Assets.Driver {
	case "local":
		local, err := assets.NewLocalStore(cfg.Assets.LocalDir, strings.TrimSuffix(cfg.Server.BaseURL, "/")+"/assets")
		if err != nil {
			return nil, err
		}
		a.LocalAssets = local
		return local, nil
	case "supabase":
		return supabase.NewStorageClient(cfg.Supabase.URL, cfg.Supabase.PublishableKey, cfg.Supabase.StorageBucket), nil
	case "minio":
		return minio.NewStore(minio.Config{
			Endpoint:  cfg.Assets.MinioEndpoint,
			AccessKey: cfg.Assets.MinioAccessKey,
			SecretKey: cfg.Assets.MinioSecretKey,
			Bucket:    cfg.Assets.MinioBucket,
			UseSSL:    cfg.Assets.MinioUseSSL,
			URLExpiry: cfg.Assets.MinioURLExpiry,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown assets driver %q", cfg.Assets.Driver)
	}
}

func newAuthProvider(cfg *config.Config, logger *zap.Logger) (services.AuthProvider, error) {
	switch cfg.Auth.Provider {
	case "local":
		if cfg.Auth.JWTSecret == "" {
			secret, err := randomSecret()
			if err != nil {
				return nil, err
			}
			cfg.Auth.JWTSecret = secret
			logger.Warn("AUTH_JWT_SECRET not set, tokens are only valid for this process")
		}
		return auth.NewLocalProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), nil
	case "supabase":
		if cfg.Supabase.JWTSecret == "" {
			logger.Warn("SUPABASE_JWT_SECRET not set, bearer-protected routes will reject every token")
		}
		client, err := supabase.NewClient(cfg.Supabase)
		if err != nil {
			return nil, err
		}
		return supabase.NewAuthProvider(client), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
