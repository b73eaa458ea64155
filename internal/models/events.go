package models

type ProjectEventKind string

const (
	ProjectCreated ProjectEventKind = "created"
	ProjectUpdated ProjectEventKind = "updated"
	ProjectLoaded  ProjectEventKind = "loaded"
	ProjectDeleted ProjectEventKind = "deleted"
)

// ProjectEvent is published by the project store after each committed change.
type ProjectEvent struct {
	Kind    ProjectEventKind
	Project *Project
	Changed []ProjectField
	// Current is true when the event concerns the current project.
	Current bool
}

// Touched reports whether the update changed the given field.
func (e ProjectEvent) Touched(field ProjectField) bool {
	for _, f := range e.Changed {
		if f == field {
			return true
		}
	}
	return false
}
