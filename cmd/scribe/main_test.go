package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t      *testing.T
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "log:\n  level: error\n" +
		"storage:\n  driver: sqlite\n  sqlite_path: " + filepath.Join(dir, "scribe.db") + "\n" +
		"assets:\n  local_dir: " + filepath.Join(dir, "assets") + "\n" +
		"auth:\n  jwt_secret: cli-test-secret\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return &harness{t: t, config: path}
}

// run executes one cold-start invocation of the CLI.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	c := &cli{}
	cmd := newRootCmd(c)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", h.config}, args...))
	err := cmd.Execute()
	require.NoError(h.t, c.close())
	return out.String(), err
}

func TestCLIResumesAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "No project selected")

	out, err = h.run("topic", "Paper", "airplanes", "--description", "for a science class")
	require.NoError(t, err)
	assert.Contains(t, out, `Topic set to "Paper airplanes"`)

	out, err = h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Paper airplanes")
	assert.Contains(t, out, "step 2 (Script)")
	assert.Contains(t, out, "[x] 1. Topic")
	assert.Contains(t, out, "[ ] 3. Audio  (locked)")

	out, err = h.run("edit-script", "--title", "Fold", "--body", "Crease the paper.")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Fold"), out)
	assert.Equal(t, 1, strings.Count(out, "Fold"))
	assert.Contains(t, out, "Crease the paper.")

	out, err = h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "step 3 (Audio)")
}

func TestCLIGatesSteps(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("new")
	require.NoError(t, err)

	_, err = h.run("complete", "visuals")
	assert.ErrorContains(t, err, "not reachable")

	_, err = h.run("complete", "topic")
	require.NoError(t, err)

	_, err = h.run("complete", "nope")
	assert.ErrorContains(t, err, "unknown step")
}

func TestCLICompletesRemainingStepsInOneCall(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("topic", "Bees")
	require.NoError(t, err)
	_, err = h.run("edit-script", "--title", "Bees", "--body", "They dance.")
	require.NoError(t, err)

	out, err := h.run("complete", "audio", "visuals", "assembly", "rendering")
	require.NoError(t, err)
	assert.Equal(t, "Audio completed\nVisuals completed\nAssembly completed\nExport completed\n", out)

	// The flags for these stages are not stored, so a fresh invocation
	// starts again from audio.
	_, err = h.run("complete", "visuals")
	assert.ErrorContains(t, err, "not reachable")

	out, err = h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "step 3 (Audio)")
	assert.Contains(t, out, "[ ] 4. Visuals  (locked)")

	_, err = h.run("complete", "audio", "nope")
	assert.ErrorContains(t, err, "unknown step")
}

func TestCLIProjectsAndReset(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("topic", "Volcanoes")
	require.NoError(t, err)
	out, err := h.run("reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Started project")

	out, err = h.run("projects")
	require.NoError(t, err)
	assert.Contains(t, out, "Volcanoes")
	assert.Contains(t, out, "*")

	_, err = h.run("rm", "does-not-exist")
	assert.ErrorContains(t, err, "not found")
}

func TestCLISession(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login", "--email", "ada@example.com")
	assert.ErrorContains(t, err, "password")

	out, err := h.run("register", "--name", "Ada", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Ada")

	out, err = h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada <ada@example.com>")

	_, err = h.run("logout")
	require.NoError(t, err)

	out, err = h.run("status")
	require.NoError(t, err)
	assert.NotContains(t, out, "ada@example.com")
}

func TestCLIScriptWithoutKey(t *testing.T) {
	h := newHarness(t)
	t.Setenv("OPENAI_API_KEY", "")

	_, err := h.run("topic", "Clouds")
	require.NoError(t, err)

	_, err = h.run("script")
	assert.ErrorContains(t, err, "openai_api_key")
}
