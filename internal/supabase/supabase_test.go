package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quick-video-scribe/internal/config"
	"quick-video-scribe/internal/models"
)

const testUserID = "5f8b6a5e-2f1c-4c8e-9a51-0c7d2b1e9f10"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.SupabaseConfig{URL: srv.URL + "/", PublishableKey: "anon-key"})
	require.NoError(t, err)
	return client
}

func sessionBody(email string, metadata map[string]any) map[string]any {
	return map[string]any{
		"access_token": "jwt-token",
		"token_type":   "bearer",
		"expires_in":   3600,
		"user": map[string]any{
			"id":            testUserID,
			"email":         email,
			"user_metadata": metadata,
		},
	}
}

func TestNewClientRequiresURLAndKey(t *testing.T) {
	_, err := NewClient(config.SupabaseConfig{})
	assert.Error(t, err)
}

func TestAuthProviderSignIn(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		var body map[string]any
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "pw", body["password"])
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionBody("ada@example.com", map[string]any{"name": "Ada"}))
	})

	provider := NewAuthProvider(newTestClient(t, mux))
	user, err := provider.SignIn(context.Background(), models.Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, testUserID, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "jwt-token", user.AccessToken)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Ada", user.AvatarURL)
}

func TestAuthProviderSignInFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	})

	provider := NewAuthProvider(newTestClient(t, mux))
	_, err := provider.SignIn(context.Background(), models.Credentials{Email: "ada@example.com", Password: "bad"})
	require.Error(t, err)
	assert.True(t, models.IsExternal(err))
}

func TestAuthProviderSignUpStoresName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string         `json:"email"`
			Data  map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Grace", body.Data["name"])
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            testUserID,
			"email":         body.Email,
			"user_metadata": body.Data,
		})
	})

	provider := NewAuthProvider(newTestClient(t, mux))
	user, err := provider.SignUp(context.Background(), models.Registration{
		Name: "Grace", Email: "grace@example.com", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.Name)
	assert.Equal(t, "grace@example.com", user.Email)
}

func TestAuthProviderSignOut(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	provider := NewAuthProvider(newTestClient(t, mux))
	require.NoError(t, provider.SignOut(context.Background(), "jwt-token"))
	assert.Equal(t, "Bearer jwt-token", gotAuth)

	assert.NoError(t, provider.SignOut(context.Background(), ""))
}

func TestStorageClientPut(t *testing.T) {
	var gotPath, gotType, gotUpsert string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"Key":"narrations/projects/p1/narration.mp3"}`)
	}))
	defer srv.Close()

	store := NewStorageClient(srv.URL+"/", "service-key", "narrations")
	url, err := store.Put(context.Background(), "projects/p1/narration.mp3", []byte("ID3"), "audio/mpeg")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/narrations/projects/p1/narration.mp3", gotPath)
	assert.Equal(t, "audio/mpeg", gotType)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/narrations/projects/p1/narration.mp3", url)
}

func TestStorageClientPutFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"statusCode":"500","error":"internal","message":"bucket missing"}`)
	}))
	defer srv.Close()

	store := NewStorageClient(srv.URL, "service-key", "narrations")
	_, err := store.Put(context.Background(), "projects/p1/narration.mp3", []byte("ID3"), "audio/mpeg")
	require.Error(t, err)
	assert.True(t, models.IsExternal(err))
}
