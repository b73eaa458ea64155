package models

import "strings"

type Script struct {
	Title        string `json:"title"`
	Introduction string `json:"introduction"`
	Body         string `json:"body"`
	Conclusion   string `json:"conclusion"`
	FullText     string `json:"full_text"`
}

// ComposeFullText joins the sections with a blank line between each.
func (s Script) ComposeFullText() string {
	return strings.Join([]string{s.Title, s.Introduction, s.Body, s.Conclusion}, "\n\n")
}

// WithFullText returns a copy with FullText derived from the sections.
func (s Script) WithFullText() Script {
	s.FullText = s.ComposeFullText()
	return s
}

type ScriptLength string

const (
	LengthShort  ScriptLength = "short"
	LengthMedium ScriptLength = "medium"
	LengthLong   ScriptLength = "long"
)

// Words is the target word count handed to the script writer.
func (l ScriptLength) Words() int {
	switch l {
	case LengthShort:
		return 300
	case LengthLong:
		return 1200
	default:
		return 600
	}
}

func (l ScriptLength) Valid() bool {
	return l == LengthShort || l == LengthMedium || l == LengthLong
}

type ScriptTone string

const (
	ToneCasual       ScriptTone = "casual"
	ToneProfessional ScriptTone = "professional"
	ToneEnthusiastic ScriptTone = "enthusiastic"
)

func (t ScriptTone) Valid() bool {
	return t == ToneCasual || t == ToneProfessional || t == ToneEnthusiastic
}

type ScriptRequest struct {
	Topic  string       `json:"topic"`
	Length ScriptLength `json:"length"`
	Tone   ScriptTone   `json:"tone"`
}

// ScriptFeedback is the critic's verdict on a draft.
type ScriptFeedback struct {
	HasSuggestions bool     `json:"has_suggestions"`
	Suggestions    []string `json:"suggestions"`
	ImprovedScript *Script  `json:"improved_script,omitempty"`
}
