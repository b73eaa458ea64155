package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
	"go.uber.org/zap"

	"quick-video-scribe/internal/config"
	"quick-video-scribe/internal/metrics"
	"quick-video-scribe/internal/models"
)

const serviceName = "elevenlabs"

// Client renders narration and lists voices through the ElevenLabs API.
type Client struct {
	http     fastshot.ClientHttpMethods
	hasKey   bool
	backoffs []time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	SpeakingRate    float64 `json:"speaking_rate"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voicesResponse struct {
	Voices []models.Voice `json:"voices"`
}

type errorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

func NewClient(cfg config.ElevenLabsConfig, logger *zap.Logger, m *metrics.Metrics) *Client {
	builder := fastshot.NewClient(strings.TrimSuffix(cfg.BaseURL, "/"))
	httpClient := builder.Config().SetTimeout(cfg.Timeout).
		Header().Add("xi-api-key", cfg.APIKey).
		Build()

	return &Client{
		http:     httpClient,
		hasKey:   cfg.APIKey != "",
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		logger:   logger,
		metrics:  m,
	}
}

// Synthesize renders text with the given settings and returns MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text string, settings models.AudioSettings) ([]byte, error) {
	if !c.hasKey {
		return nil, &models.ValidationError{Field: "elevenlabs_api_key", Message: "an ElevenLabs API key must be configured"}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &models.ValidationError{Field: "text", Message: "nothing to narrate"}
	}

	start := time.Now()
	data, err := c.synthesize(ctx, text, settings)
	c.metrics.ObserveExternal(serviceName, "synthesize", start, err)
	if err != nil {
		return nil, err
	}

	c.logger.Info("narration synthesized",
		zap.String("voice", settings.Voice),
		zap.String("model", settings.Model),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

func (c *Client) synthesize(ctx context.Context, text string, settings models.AudioSettings) ([]byte, error) {
	resp, err := c.http.POST("/v1/text-to-speech/"+url.PathEscape(settings.Voice)).
		Context().Set(ctx).
		Header().Add("Accept", "audio/mpeg").
		Body().AsJSON(ttsRequest{
			Text:    text,
			ModelID: settings.Model,
			VoiceSettings: voiceSettings{
				Stability:       settings.Stability,
				SimilarityBoost: settings.Clarity,
				Style:           0,
				UseSpeakerBoost: true,
				SpeakingRate:    settings.Speed,
			},
		}).
		Send()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, models.NewExternalError(serviceName, "synthesize", err)
	}
	defer resp.Body().Close()

	if resp.Status().IsError() {
		return nil, c.responseError("synthesize", resp)
	}

	data, err := resp.Body().AsBytes()
	if err != nil {
		return nil, models.NewExternalError(serviceName, "synthesize", fmt.Errorf("failed to read audio: %w", err))
	}
	if len(data) == 0 {
		return nil, models.NewExternalError(serviceName, "synthesize", errors.New("empty audio response"))
	}
	return data, nil
}

// Voices lists the voices available to the account. Any failure falls back
// to the built-in catalogue, so the caller always gets a usable list.
func (c *Client) Voices(ctx context.Context) []models.Voice {
	if !c.hasKey {
		return DefaultVoices()
	}

	var voices []models.Voice
	start := time.Now()
	err := c.RetryWithBackoff(ctx, func() error {
		var err error
		voices, err = c.fetchVoices(ctx)
		return err
	}, 3)
	c.metrics.ObserveExternal(serviceName, "list_voices", start, err)
	if err != nil || len(voices) == 0 {
		c.logger.Warn("using default voices", zap.Error(err))
		return DefaultVoices()
	}
	return voices
}

func (c *Client) fetchVoices(ctx context.Context) ([]models.Voice, error) {
	resp, err := c.http.GET("/v1/voices").
		Context().Set(ctx).
		Header().Add("Accept", "application/json").
		Send()
	if err != nil {
		return nil, models.NewExternalError(serviceName, "list_voices", err)
	}
	defer resp.Body().Close()

	if resp.Status().IsError() {
		return nil, c.responseError("list_voices", resp)
	}

	var body voicesResponse
	if err := resp.Body().AsJSON(&body); err != nil {
		return nil, models.NewExternalError(serviceName, "list_voices", fmt.Errorf("failed to parse voices: %w", err))
	}
	return body.Voices, nil
}

// Models lists the synthesis models offered in the audio step.
func (c *Client) Models() []models.VoiceModel {
	return []models.VoiceModel{
		{ID: "eleven_multilingual_v2", Name: "Multilingual v2 (High Quality)"},
		{ID: "eleven_turbo_v2", Name: "Turbo v2 (Fast)"},
	}
}

// RetryWithBackoff executes a function with exponential backoff retry logic.
// It stops early when ctx is done.
func (c *Client) RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i == maxRetries-1 || i >= len(c.backoffs) {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoffs[i]):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func (c *Client) responseError(op string, resp *fastshot.Response) error {
	status := resp.Status().Code()
	msg, _ := resp.Body().AsString()

	var body errorResponse
	if json.Unmarshal([]byte(msg), &body) == nil && body.Detail.Message != "" {
		msg = body.Detail.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &models.ExternalServiceError{
		Service:    serviceName,
		Op:         op,
		StatusCode: status,
		Err:        errors.New(msg),
	}
}
