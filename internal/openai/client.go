package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"quick-video-scribe/internal/config"
	"quick-video-scribe/internal/metrics"
	"quick-video-scribe/internal/models"
)

const serviceName = "openai"

// Client drafts and critiques narration scripts with a chat model.
type Client struct {
	api     *openai.Client
	model   string
	hasKey  bool
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewClient(cfg config.OpenAIConfig, logger *zap.Logger, m *metrics.Metrics) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:     openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		hasKey:  cfg.APIKey != "",
		logger:  logger,
		metrics: m,
	}
}

// completeJSON runs a chat completion constrained to a JSON object and
// decodes the reply into out.
func (c *Client) completeJSON(ctx context.Context, op, system, user string, out any) error {
	if !c.hasKey {
		return &models.ValidationError{Field: "openai_api_key", Message: "an OpenAI API key must be configured"}
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	c.metrics.ObserveExternal(serviceName, op, start, err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("chat completion failed", zap.String("op", op), zap.Error(err))
		return &models.ExternalServiceError{Service: serviceName, Op: op, StatusCode: statusCode(err), Err: err}
	}

	if len(resp.Choices) == 0 {
		return models.NewExternalError(serviceName, op, errors.New("response contained no choices"))
	}
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return models.NewExternalError(serviceName, op, fmt.Errorf("failed to decode reply: %w", err))
	}
	return nil
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
