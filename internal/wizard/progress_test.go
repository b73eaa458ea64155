package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quick-video-scribe/internal/models"
)

func TestParseStep(t *testing.T) {
	s, err := ParseStep(" Script ")
	require.NoError(t, err)
	assert.Equal(t, StepScript, s)

	_, err = ParseStep("mixing")
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestStepNavigation(t *testing.T) {
	next, ok := StepNone.Next()
	assert.True(t, ok)
	assert.Equal(t, StepTopic, next)

	next, ok = StepAudio.Next()
	assert.True(t, ok)
	assert.Equal(t, StepVisuals, next)

	_, ok = StepRendering.Next()
	assert.False(t, ok)

	prev, ok := StepScript.Prev()
	assert.True(t, ok)
	assert.Equal(t, StepTopic, prev)

	_, ok = StepTopic.Prev()
	assert.False(t, ok)
	assert.Equal(t, "Export", StepRendering.Label())
}

func TestIsReachableExhaustive(t *testing.T) {
	for mask := 0; mask < 1<<len(Steps); mask++ {
		progress := NewProgress()
		for i, s := range Steps {
			progress[s] = mask&(1<<i) != 0
		}
		for i, s := range Steps {
			want := i == 0 || progress[s] || progress[Steps[i-1]]
			assert.Equal(t, want, IsReachable(s, progress), "mask=%06b step=%s", mask, s)
		}
	}
}

func TestIsReachableRejectsUnknown(t *testing.T) {
	assert.False(t, IsReachable(StepNone, NewProgress()))
	assert.False(t, IsReachable(Step("mixing"), NewProgress()))
}

func TestAudioUnreachableWithoutScript(t *testing.T) {
	progress := NewProgress()
	progress[StepTopic] = true
	assert.False(t, IsReachable(StepAudio, progress))
	assert.True(t, IsReachable(StepScript, progress))
}

func TestDeriveFromProject(t *testing.T) {
	p := models.NewProject(time.Now())
	assert.Equal(t, NewProgress(), DeriveFromProject(p))

	p.Topic = "  "
	assert.False(t, DeriveFromProject(p)[StepTopic])

	p.Topic = "Tides"
	p.Script = &models.Script{Title: "T"}
	p.Audio = &models.Audio{Src: "a.mp3", Duration: 3}
	p.Visuals = []models.Visual{{ID: "v"}}

	got := DeriveFromProject(p)
	assert.True(t, got[StepTopic])
	assert.True(t, got[StepScript])
	assert.True(t, got[StepAudio])
	assert.True(t, got[StepVisuals])
	assert.False(t, got[StepAssembly])
	assert.False(t, got[StepRendering])
}

func TestDeriveFromProjectIsIdempotent(t *testing.T) {
	p := models.NewProject(time.Now())
	p.Topic = "Tides"
	p.Script = &models.Script{Title: "T"}

	first := DeriveFromProject(p)
	second := DeriveFromProject(p)
	assert.Equal(t, first, second)
	assert.Equal(t, DeriveFromProject(nil), NewProgress())
}

func TestProgressHelpers(t *testing.T) {
	p := NewProgress()
	first, ok := p.FirstIncomplete()
	assert.True(t, ok)
	assert.Equal(t, StepTopic, first)

	for _, s := range Steps {
		p.MarkComplete(s, true)
	}
	assert.True(t, p.AllComplete())
	_, ok = p.FirstIncomplete()
	assert.False(t, ok)

	p.MarkComplete(Step("bogus"), true)
	assert.Len(t, p, len(Steps))
	assert.Len(t, p.Strings(), len(Steps))
}
