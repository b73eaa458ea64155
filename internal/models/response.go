package models

type ProjectListResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

type ProjectResponse struct {
	Project *Project `json:"project"`
}

// WizardStateResponse is the full snapshot a client needs to render the wizard.
type WizardStateResponse struct {
	Project        *Project        `json:"project"`
	CurrentStep    string          `json:"current_step"`
	Progress       map[string]bool `json:"progress"`
	ReachableSteps []string        `json:"reachable_steps"`
	User           *User           `json:"user,omitempty"`
	AudioSettings  AudioSettings   `json:"audio_settings"`
	StorageStatus  string          `json:"storage_status"`
}

type ScriptResponse struct {
	Script *Script `json:"script"`
}

type AudioResponse struct {
	Audio *Audio `json:"audio"`
}

type VoicesResponse struct {
	Voices []Voice `json:"voices"`
}

type ModelsResponse struct {
	Models []VoiceModel `json:"models"`
}

type SessionResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
