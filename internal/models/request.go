package models

type UpdateProjectRequest struct {
	Topic       *string `json:"topic,omitempty"`
	Description *string `json:"description,omitempty"`
}

type GoToRequest struct {
	Step string `json:"step" binding:"required" example:"script"`
}

type CompleteStepRequest struct {
	// Completed defaults to true when omitted.
	Completed *bool `json:"completed,omitempty"`
}

type GenerateScriptRequest struct {
	Length ScriptLength `json:"length,omitempty" example:"medium"`
	Tone   ScriptTone   `json:"tone,omitempty" example:"professional"`
}

// ScriptEdit is a manual edit of the script sections. Omitted sections keep
// their current text.
type ScriptEdit struct {
	Title        *string `json:"title,omitempty"`
	Introduction *string `json:"introduction,omitempty"`
	Body         *string `json:"body,omitempty"`
	Conclusion   *string `json:"conclusion,omitempty"`
}

// Apply returns the script with the edit merged in and FullText recomputed.
func (e ScriptEdit) Apply(s Script) Script {
	if e.Title != nil {
		s.Title = *e.Title
	}
	if e.Introduction != nil {
		s.Introduction = *e.Introduction
	}
	if e.Body != nil {
		s.Body = *e.Body
	}
	if e.Conclusion != nil {
		s.Conclusion = *e.Conclusion
	}
	return s.WithFullText()
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
