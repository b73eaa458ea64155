package wizard

import "quick-video-scribe/internal/models"

// Progress records which steps are complete. Every step is always present.
type Progress map[Step]bool

func NewProgress() Progress {
	p := make(Progress, len(Steps))
	for _, s := range Steps {
		p[s] = false
	}
	return p
}

// MarkComplete sets the flag for step. Unknown steps are ignored.
func (p Progress) MarkComplete(step Step, completed bool) {
	if step.Valid() {
		p[step] = completed
	}
}

func (p Progress) Clone() Progress {
	c := make(Progress, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// AllComplete reports whether every step is flagged.
func (p Progress) AllComplete() bool {
	for _, s := range Steps {
		if !p[s] {
			return false
		}
	}
	return true
}

// FirstIncomplete returns the earliest step not yet complete.
func (p Progress) FirstIncomplete() (Step, bool) {
	for _, s := range Steps {
		if !p[s] {
			return s, true
		}
	}
	return StepNone, false
}

// Strings returns the progress keyed by step name.
func (p Progress) Strings() map[string]bool {
	out := make(map[string]bool, len(Steps))
	for _, s := range Steps {
		out[string(s)] = p[s]
	}
	return out
}

// DeriveFromProject computes progress from the fields a project has
// populated. Assembly and rendering have no backing data and are never
// derived as complete.
func DeriveFromProject(project *models.Project) Progress {
	p := NewProgress()
	if project == nil {
		return p
	}
	p[StepTopic] = project.HasTopic()
	p[StepScript] = project.Script != nil
	p[StepAudio] = project.Audio != nil
	p[StepVisuals] = len(project.Visuals) > 0
	return p
}

// IsReachable reports whether the user may navigate to step: it is the
// first step, it is complete, or its predecessor is complete.
func IsReachable(step Step, progress Progress) bool {
	if !step.Valid() {
		return false
	}
	if step == Steps[0] || progress[step] {
		return true
	}
	prev, _ := step.Prev()
	return progress[prev]
}

// ReachableSteps lists every step IsReachable accepts, in order.
func ReachableSteps(progress Progress) []Step {
	var out []Step
	for _, s := range Steps {
		if IsReachable(s, progress) {
			out = append(out, s)
		}
	}
	return out
}

var fieldSteps = map[models.ProjectField]Step{
	models.FieldTopic:   StepTopic,
	models.FieldScript:  StepScript,
	models.FieldAudio:   StepAudio,
	models.FieldVisuals: StepVisuals,
}
