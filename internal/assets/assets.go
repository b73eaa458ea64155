// Package assets defines where generated media is stored and how it is
// addressed afterwards.
package assets

import (
	"context"
	"fmt"
	"time"
)

// Store persists a generated asset and returns the URL it can be fetched from.
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// NarrationPath is the object path for a project's narration rendered at t.
func NarrationPath(projectID string, t time.Time) string {
	return fmt.Sprintf("projects/%s/narration-%d.mp3", projectID, t.UnixMilli())
}
