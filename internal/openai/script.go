package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"quick-video-scribe/internal/models"
)

const scriptSystemPrompt = `You write scripts for short educational videos.
Use a %s tone. The script has three parts:
1. an introduction that hooks the viewer
2. a body that explains the key ideas with examples
3. a conclusion that sums up and closes

Aim for roughly %d words in total.
Reply with a JSON object of the form:
{"title": "...", "introduction": "...", "body": "...", "conclusion": "..."}`

type scriptReply struct {
	Title        string `json:"title"`
	Introduction string `json:"introduction"`
	Body         string `json:"body"`
	Conclusion   string `json:"conclusion"`
}

func (r scriptReply) script() models.Script {
	return models.Script{
		Title:        r.Title,
		Introduction: r.Introduction,
		Body:         r.Body,
		Conclusion:   r.Conclusion,
	}.WithFullText()
}

// GenerateScript drafts a script for req.Topic. Length and tone default to
// medium and professional.
func (c *Client) GenerateScript(ctx context.Context, req models.ScriptRequest) (*models.Script, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, &models.ValidationError{Field: "topic", Message: "topic is required"}
	}
	if req.Length == "" {
		req.Length = models.LengthMedium
	}
	if req.Tone == "" {
		req.Tone = models.ToneProfessional
	}

	var reply scriptReply
	system := fmt.Sprintf(scriptSystemPrompt, req.Tone, req.Length.Words())
	user := fmt.Sprintf("Write a video script about %q.", topic)
	if err := c.completeJSON(ctx, "generate_script", system, user, &reply); err != nil {
		return nil, err
	}
	if reply.Body == "" && reply.Introduction == "" {
		return nil, models.NewExternalError(serviceName, "generate_script", errors.New("reply did not contain a script"))
	}

	script := reply.script()
	c.logger.Info("script generated",
		zap.String("length", string(req.Length)),
		zap.String("tone", string(req.Tone)),
		zap.Int("words", len(strings.Fields(script.FullText))),
	)
	return &script, nil
}
