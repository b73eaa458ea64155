package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quick-video-scribe/internal/config"
	"quick-video-scribe/internal/models"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func replyWith(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}, zap.NewNop(), nil)
}

func TestGenerateScript(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(replyWith(`{"title":"Bees","introduction":"Hi","body":"Pollen","conclusion":"Bye"}`))
	})

	script, err := client.GenerateScript(context.Background(), models.ScriptRequest{Topic: "Bees", Length: models.LengthShort})
	require.NoError(t, err)

	assert.Equal(t, "Bees\n\nHi\n\nPollen\n\nBye", script.FullText)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[0].Content, "300 words")
	assert.Contains(t, got.Messages[0].Content, "professional tone")
	assert.Contains(t, got.Messages[1].Content, `"Bees"`)
}

func TestGenerateScriptRequiresTopic(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called")
	})
	_, err := client.GenerateScript(context.Background(), models.ScriptRequest{Topic: "  "})
	assert.True(t, models.IsValidation(err))
}

func TestGenerateScriptRequiresKey(t *testing.T) {
	client := NewClient(config.OpenAIConfig{Model: "gpt-4o-mini", Timeout: time.Second}, zap.NewNop(), nil)
	_, err := client.GenerateScript(context.Background(), models.ScriptRequest{Topic: "Bees"})

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "openai_api_key", verr.Field)
}

func TestGenerateScriptProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	})

	_, err := client.GenerateScript(context.Background(), models.ScriptRequest{Topic: "Bees"})
	var extErr *models.ExternalServiceError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "openai", extErr.Service)
	assert.Equal(t, http.StatusTooManyRequests, extErr.StatusCode)
}

func TestGenerateScriptMalformedReply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(replyWith(`not json`))
	})

	_, err := client.GenerateScript(context.Background(), models.ScriptRequest{Topic: "Bees"})
	assert.True(t, models.IsExternal(err))
}

func TestAnalyzeScript(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Messages[0].Content, `"Bees"`)
		assert.Contains(t, req.Messages[1].Content, "Title: Old")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(replyWith(`{"hasSuggestions":true,"suggestions":["shorter intro"],"improvedScript":{"title":"New","introduction":"I","body":"B","conclusion":"C"}}`))
	})

	feedback, err := client.AnalyzeScript(context.Background(), models.Script{Title: "Old"}, "Bees")
	require.NoError(t, err)

	assert.True(t, feedback.HasSuggestions)
	assert.Equal(t, []string{"shorter intro"}, feedback.Suggestions)
	require.NotNil(t, feedback.ImprovedScript)
	assert.Equal(t, "New\n\nI\n\nB\n\nC", feedback.ImprovedScript.FullText)
}

func TestAnalyzeScriptWithoutSuggestions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(replyWith(`{"hasSuggestions":false}`))
	})

	feedback, err := client.AnalyzeScript(context.Background(), models.Script{Title: "Fine"}, "Bees")
	require.NoError(t, err)
	assert.False(t, feedback.HasSuggestions)
	assert.Empty(t, feedback.Suggestions)
	assert.Nil(t, feedback.ImprovedScript)
}
