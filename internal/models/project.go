package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	Description string    `json:"description,omitempty"`
	Script      *Script   `json:"script,omitempty"`
	Audio       *Audio    `json:"audio,omitempty"`
	Visuals     []Visual  `json:"visuals"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject returns an empty project stamped with now.
func NewProject(now time.Time) *Project {
	return &Project{
		ID:        uuid.NewString(),
		Visuals:   []Visual{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasTopic reports whether the topic holds anything other than whitespace.
func (p *Project) HasTopic() bool {
	return p != nil && strings.TrimSpace(p.Topic) != ""
}

// Clone returns a deep copy so callers can't mutate store-owned state.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	if p.Script != nil {
		s := *p.Script
		c.Script = &s
	}
	if p.Audio != nil {
		a := *p.Audio
		c.Audio = &a
	}
	c.Visuals = make([]Visual, len(p.Visuals))
	copy(c.Visuals, p.Visuals)
	return &c
}

// Summary returns the list view of the project.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:        p.ID,
		Topic:     p.Topic,
		HasScript: p.Script != nil,
		HasAudio:  p.Audio != nil,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type ProjectSummary struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	HasScript bool      `json:"has_script"`
	HasAudio  bool      `json:"has_audio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SortByUpdatedDesc orders summaries most recently edited first. The store
// returns projects in index order; presentation order is up to the caller.
func SortByUpdatedDesc(summaries []ProjectSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
}

// ProjectUpdate is a partial update merged into the current project.
// Nil fields are left untouched.
type ProjectUpdate struct {
	Topic       *string
	Description *string
	Script      *Script
	ClearScript bool
	Audio       *Audio
	ClearAudio  bool
	Visuals     *[]Visual
}

// ProjectField names a data-backed field touched by an update.
type ProjectField string

const (
	FieldTopic       ProjectField = "topic"
	FieldDescription ProjectField = "description"
	FieldScript      ProjectField = "script"
	FieldAudio       ProjectField = "audio"
	FieldVisuals     ProjectField = "visuals"
)

// Apply merges the update into p and returns the fields it touched.
func (u ProjectUpdate) Apply(p *Project) []ProjectField {
	var changed []ProjectField
	if u.Topic != nil {
		p.Topic = *u.Topic
		changed = append(changed, FieldTopic)
	}
	if u.Description != nil {
		p.Description = *u.Description
		changed = append(changed, FieldDescription)
	}
	switch {
	case u.ClearScript:
		p.Script = nil
		changed = append(changed, FieldScript)
	case u.Script != nil:
		s := *u.Script
		s.FullText = s.ComposeFullText()
		p.Script = &s
		changed = append(changed, FieldScript)
	}
	switch {
	case u.ClearAudio:
		p.Audio = nil
		changed = append(changed, FieldAudio)
	case u.Audio != nil:
		a := *u.Audio
		p.Audio = &a
		changed = append(changed, FieldAudio)
	}
	if u.Visuals != nil {
		p.Visuals = make([]Visual, len(*u.Visuals))
		copy(p.Visuals, *u.Visuals)
		changed = append(changed, FieldVisuals)
	}
	return changed
}

// StringPtr is a convenience for building updates.
func StringPtr(s string) *string {
	return &s
}
