package models

import "fmt"

type Audio struct {
	Src      string  `json:"src"`
	Duration float64 `json:"duration"`
}

type VisualType string

const (
	VisualImage VisualType = "image"
	VisualVideo VisualType = "video"
)

type Visual struct {
	ID          string     `json:"id"`
	Type        VisualType `json:"type"`
	Src         string     `json:"src"`
	StartTime   float64    `json:"start_time"`
	Duration    float64    `json:"duration"`
	Description string     `json:"description,omitempty"`
}

// AudioSettings are the parameters handed to the narration provider.
type AudioSettings struct {
	Voice     string  `json:"voice"`
	Model     string  `json:"model"`
	Speed     float64 `json:"speed"`
	Stability float64 `json:"stability"`
	Clarity   float64 `json:"clarity"`
}

const (
	DefaultVoice = "EXAVITQu4vr4xnSDxMaL" // Sarah
	DefaultModel = "eleven_multilingual_v2"

	MinSpeed = 0.7
	MaxSpeed = 1.2
)

func DefaultAudioSettings() AudioSettings {
	return AudioSettings{
		Voice:     DefaultVoice,
		Model:     DefaultModel,
		Speed:     1.0,
		Stability: 0.5,
		Clarity:   0.75,
	}
}

// Validate checks the settings at the boundary where user input enters.
func (s AudioSettings) Validate() error {
	if s.Voice == "" {
		return &ValidationError{Field: "voice", Message: "voice is required"}
	}
	if s.Model == "" {
		return &ValidationError{Field: "model", Message: "model is required"}
	}
	if s.Speed < MinSpeed || s.Speed > MaxSpeed {
		return &ValidationError{Field: "speed", Message: fmt.Sprintf("speed must be between %.1f and %.1f", MinSpeed, MaxSpeed)}
	}
	if s.Stability < 0 || s.Stability > 1 {
		return &ValidationError{Field: "stability", Message: "stability must be between 0 and 1"}
	}
	if s.Clarity < 0 || s.Clarity > 1 {
		return &ValidationError{Field: "clarity", Message: "clarity must be between 0 and 1"}
	}
	return nil
}

type Voice struct {
	VoiceID  string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type VoiceModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
