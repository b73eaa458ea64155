package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quick-video-scribe/internal/models"
)

func TestLocalProviderSignIn(t *testing.T) {
	p := NewLocalProvider("", time.Hour)
	user, err := p.SignIn(context.Background(), models.Credentials{Email: "ada.lovelace@example.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, "ada.lovelace", user.Name)
	assert.Equal(t, "https://ui-avatars.com/api/?name=ada.lovelace", user.AvatarURL)
	assert.Empty(t, user.AccessToken)
	assert.Equal(t, UserID("Ada.Lovelace@example.com "), user.ID, "id is stable across case and whitespace")
}

func TestLocalProviderSignUpUsesName(t *testing.T) {
	p := NewLocalProvider("", time.Hour)
	user, err := p.SignUp(context.Background(), models.Registration{Name: "Ada Lovelace", Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Ada%20Lovelace", user.AvatarURL)
}

func TestLocalProviderIssuesVerifiableToken(t *testing.T) {
	secret := "test-secret-key-for-jwt-signing-must-be-long-enough"
	p := NewLocalProvider(secret, time.Hour)
	user, err := p.SignIn(context.Background(), models.Credentials{Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)
	require.NotEmpty(t, user.AccessToken)

	token, err := jwt.Parse(user.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)

	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub)
}

func TestLocalProviderRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalProvider("", time.Hour).SignIn(ctx, models.Credentials{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
