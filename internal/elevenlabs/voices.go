package elevenlabs

import "quick-video-scribe/internal/models"

var defaultVoices = []models.Voice{
	{VoiceID: "9BWtsMINqrJLrRacOk9x", Name: "Aria"},
	{VoiceID: "CwhRBWXzGAHq8TQ4Fs17", Name: "Roger"},
	{VoiceID: "EXAVITQu4vr4xnSDxMaL", Name: "Sarah"},
	{VoiceID: "FGY2WhTYpPnrIDTdsKH5", Name: "Laura"},
	{VoiceID: "IKne3meq5aSn9XLyUdCD", Name: "Charlie"},
	{VoiceID: "JBFqnCBsd6RMkjVDRZzb", Name: "George"},
	{VoiceID: "N2lVS1w4EtoT3dr4eOWO", Name: "Callum"},
	{VoiceID: "SAz9YHcvj6GT2YYXdXww", Name: "River"},
	{VoiceID: "TX3LPaxmHKxFdv7VOQHJ", Name: "Liam"},
	{VoiceID: "XB0fDUnXU5powFXDhCwa", Name: "Charlotte"},
}

// DefaultVoices returns a copy of the built-in voice catalogue.
func DefaultVoices() []models.Voice {
	out := make([]models.Voice, len(defaultVoices))
	copy(out, defaultVoices)
	return out
}
