package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/persistence"
)

// AuthProvider is implemented by auth.LocalProvider and supabase.AuthProvider.
type AuthProvider interface {
	SignIn(ctx context.Context, creds models.Credentials) (*models.User, error)
	SignUp(ctx context.Context, reg models.Registration) (*models.User, error)
	SignOut(ctx context.Context, token string) error
}

// SessionHolder keeps the signed-in user in memory and under the user key.
type SessionHolder struct {
	mu       sync.RWMutex
	kv       KeyValueStore
	provider AuthProvider
	user     *models.User
	logger   *zap.Logger
}

func NewSessionHolder(ctx context.Context, kv KeyValueStore, provider AuthProvider, logger *zap.Logger) *SessionHolder {
	h := &SessionHolder{kv: kv, provider: provider, logger: logger}

	var u models.User
	if kv.Get(ctx, persistence.KeyUser, &u) && u.ID != "" {
		h.user = &u
		logger.Info("restored session", zap.String("user_id", u.ID))
	}
	return h
}

// User returns a copy of the signed-in user, or nil.
func (h *SessionHolder) User() *models.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	u := *h.user
	return &u
}

// Login signs in with the provider. Provider errors are returned as is.
func (h *SessionHolder) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	u, err := h.provider.SignIn(ctx, creds)
	if err != nil {
		return nil, err
	}
	return h.remember(ctx, u)
}

// Register creates an account with the provider and signs it in.
func (h *SessionHolder) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	u, err := h.provider.SignUp(ctx, reg)
	if err != nil {
		return nil, err
	}
	return h.remember(ctx, u)
}

// Logout forgets the user locally, then reports whatever the provider said.
func (h *SessionHolder) Logout(ctx context.Context) error {
	h.mu.Lock()
	var token string
	if h.user != nil {
		token = h.user.AccessToken
	}
	h.user = nil
	h.kv.Remove(ctx, persistence.KeyUser)
	h.mu.Unlock()

	if err := h.provider.SignOut(ctx, token); err != nil {
		h.logger.Warn("provider sign-out failed", zap.Error(err))
		return err
	}
	return nil
}

func (h *SessionHolder) remember(ctx context.Context, u *models.User) (*models.User, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.kv.Set(ctx, persistence.KeyUser, u); err != nil {
		return nil, err
	}
	h.user = u
	h.logger.Info("signed in", zap.String("user_id", u.ID))
	c := *u
	return &c, nil
}
