package openai

import (
	"context"
	"fmt"

	"quick-video-scribe/internal/models"
)

const criticSystemPrompt = `You are an editor reviewing a script for an educational video about %q.
Check it for clarity, apparent factual errors, pacing, structure and tone.
If something should change, list concrete suggestions. If the script is already good, say so and keep
suggestions minor.

Reply with a JSON object of the form:
{"hasSuggestions": bool, "suggestions": ["..."], "improvedScript": {"title": "...", "introduction": "...", "body": "...", "conclusion": "..."}}

Include improvedScript only when the changes are substantial. When hasSuggestions is false,
suggestions must be empty.`

const criticUserTemplate = `Title: %s

Introduction:
%s

Body:
%s

Conclusion:
%s`

type critiqueReply struct {
	HasSuggestions bool         `json:"hasSuggestions"`
	Suggestions    []string     `json:"suggestions"`
	ImprovedScript *scriptReply `json:"improvedScript"`
}

// AnalyzeScript asks the model to critique script. It never modifies the
// project; applying the improved script is an ordinary script update.
func (c *Client) AnalyzeScript(ctx context.Context, script models.Script, topic string) (*models.ScriptFeedback, error) {
	var reply critiqueReply
	system := fmt.Sprintf(criticSystemPrompt, topic)
	user := fmt.Sprintf(criticUserTemplate, script.Title, script.Introduction, script.Body, script.Conclusion)
	if err := c.completeJSON(ctx, "analyze_script", system, user, &reply); err != nil {
		return nil, err
	}

	feedback := &models.ScriptFeedback{
		HasSuggestions: reply.HasSuggestions,
		Suggestions:    reply.Suggestions,
	}
	if feedback.Suggestions == nil {
		feedback.Suggestions = []string{}
	}
	if reply.ImprovedScript != nil {
		improved := reply.ImprovedScript.script()
		feedback.ImprovedScript = &improved
	}
	return feedback, nil
}
