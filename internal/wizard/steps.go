package wizard

import (
	"errors"
	"fmt"
	"strings"
)

// Step is one stage of the video-creation wizard.
type Step string

const (
	StepNone      Step = ""
	StepTopic     Step = "topic"
	StepScript    Step = "script"
	StepAudio     Step = "audio"
	StepVisuals   Step = "visuals"
	StepAssembly  Step = "assembly"
	StepRendering Step = "rendering"
)

var (
	ErrUnknownStep  = errors.New("unknown step")
	ErrNotReachable = errors.New("step is not reachable")
	ErrNoNextStep   = errors.New("no step after rendering")
)

// Steps lists the wizard stages in order.
var Steps = []Step{StepTopic, StepScript, StepAudio, StepVisuals, StepAssembly, StepRendering}

var labels = map[Step]string{
	StepTopic:     "Topic",
	StepScript:    "Script",
	StepAudio:     "Audio",
	StepVisuals:   "Visuals",
	StepAssembly:  "Assembly",
	StepRendering: "Export",
}

// ParseStep maps a user-supplied name onto a Step.
func ParseStep(name string) (Step, error) {
	s := Step(strings.ToLower(strings.TrimSpace(name)))
	if s.Index() < 0 {
		return StepNone, fmt.Errorf("%w: %q", ErrUnknownStep, name)
	}
	return s, nil
}

// Index returns the position of s in Steps, or -1.
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

func (s Step) Valid() bool {
	return s.Index() >= 0
}

// Next returns the successor of s. StepNone's successor is the first step.
func (s Step) Next() (Step, bool) {
	if s == StepNone {
		return Steps[0], true
	}
	i := s.Index()
	if i < 0 || i == len(Steps)-1 {
		return StepNone, false
	}
	return Steps[i+1], true
}

// Prev returns the predecessor of s.
func (s Step) Prev() (Step, bool) {
	i := s.Index()
	if i <= 0 {
		return StepNone, false
	}
	return Steps[i-1], true
}

func (s Step) Label() string {
	return labels[s]
}

func (s Step) String() string {
	if s == StepNone {
		return "none"
	}
	return string(s)
}
