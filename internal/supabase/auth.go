package supabase

import (
	"context"
	"strings"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"quick-video-scribe/internal/models"
)

// AuthProvider signs users in and up against Supabase Auth (GoTrue).
type AuthProvider struct {
	auth gotrue.Client
}

func NewAuthProvider(client *Client) *AuthProvider {
	return &AuthProvider{auth: client.Supabase.Auth}
}

func (p *AuthProvider) SignIn(ctx context.Context, creds models.Credentials) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := p.auth.SignInWithEmailPassword(creds.Email, creds.Password)
	if err != nil {
		return nil, models.NewExternalError("supabase_auth", "sign_in", err)
	}
	return toUser(resp.User, resp.AccessToken), nil
}

func (p *AuthProvider) SignUp(ctx context.Context, reg models.Registration) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := p.auth.Signup(types.SignupRequest{
		Email:    reg.Email,
		Password: reg.Password,
		Data: map[string]interface{}{
			"name": reg.Name,
		},
	})
	if err != nil {
		return nil, models.NewExternalError("supabase_auth", "sign_up", err)
	}
	return toUser(resp.User, resp.AccessToken), nil
}

// SignOut revokes the session behind token. An empty token is a no-op.
func (p *AuthProvider) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.auth.WithToken(token).Logout(); err != nil {
		return models.NewExternalError("supabase_auth", "sign_out", err)
	}
	return nil
}

func toUser(u types.User, accessToken string) *models.User {
	name, _ := u.UserMetadata["name"].(string)
	if name == "" {
		name = strings.SplitN(u.Email, "@", 2)[0]
	}
	avatar, _ := u.UserMetadata["avatar_url"].(string)
	if avatar == "" {
		avatar = models.AvatarURL(name)
	}
	return &models.User{
		ID:          u.ID.String(),
		Name:        name,
		Email:       u.Email,
		AvatarURL:   avatar,
		AccessToken: accessToken,
	}
}
