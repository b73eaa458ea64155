// Package auth holds the offline identity provider and the bearer tokens it
// issues.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"quick-video-scribe/internal/models"
)

// LocalProvider accepts any well-formed credentials. It is meant for
// single-user and offline use; no password is stored or checked.
type LocalProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewLocalProvider returns a provider that signs HS256 tokens with secret.
// With an empty secret users are returned without an access token.
func NewLocalProvider(secret string, ttl time.Duration) *LocalProvider {
	return &LocalProvider{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (p *LocalProvider) SignIn(ctx context.Context, creds models.Credentials) (*models.User, error) {
	name := strings.SplitN(creds.Email, "@", 2)[0]
	return p.user(ctx, name, creds.Email)
}

func (p *LocalProvider) SignUp(ctx context.Context, reg models.Registration) (*models.User, error) {
	return p.user(ctx, reg.Name, reg.Email)
}

// SignOut has nothing to revoke; tokens simply expire.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	return ctx.Err()
}

func (p *LocalProvider) user(ctx context.Context, name, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := &models.User{
		ID:        UserID(email),
		Name:      name,
		Email:     email,
		AvatarURL: models.AvatarURL(name),
	}
	if len(p.secret) > 0 {
		token, err := p.IssueToken(u)
		if err != nil {
			return nil, err
		}
		u.AccessToken = token
	}
	return u, nil
}

// UserID derives a stable id from an email address.
func UserID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(strings.TrimSpace(email)))).String()
}

// IssueToken signs a bearer token for u.
func (p *LocalProvider) IssueToken(u *models.User) (string, error) {
	now := p.now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"name":  u.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(p.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
