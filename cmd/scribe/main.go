// Command scribe drives the video-creation wizard from the terminal against
// the configured durable store. Every invocation is a cold start: the wizard
// resumes from whatever the previous command persisted.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quick-video-scribe/internal/app"
	"quick-video-scribe/internal/config"
	"quick-video-scribe/internal/logging"
)

var version = "dev"

type cli struct {
	configPath string
	verbose    bool
	core       *app.App
	logger     *zap.Logger
}

func main() {
	c := &cli{}
	err := newRootCmd(c).Execute()
	if closeErr := c.close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scribe",
		Short: "Create narrated explainer videos step by step",
		Long: `scribe walks a project through the wizard steps:
topic, script, audio, visuals, assembly and export.

Examples:
  scribe new
  scribe topic "How honey bees communicate"
  scribe script --length short --tone casual
  scribe audio --voice pNInz6obpgDQGcFmaJgB
  scribe status`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
	}
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./config.yaml if present)")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at info level")

	cmd.AddCommand(
		newStatusCmd(c),
		newNewCmd(c),
		newProjectsCmd(c),
		newOpenCmd(c),
		newRmCmd(c),
		newTopicCmd(c),
		newScriptCmd(c),
		newEditScriptCmd(c),
		newCritiqueCmd(c),
		newVoicesCmd(c),
		newAudioCmd(c),
		newCompleteCmd(c),
		newResetCmd(c),
		newLoginCmd(c),
		newRegisterCmd(c),
		newLogoutCmd(c),
	)
	return cmd
}

func (c *cli) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFile(c.configPath)
	if err != nil {
		return err
	}

	logCfg := cfg.Log
	logCfg.Format = "console"
	if !c.verbose {
		logCfg.Level = "warn"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	core, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	c.core = core
	c.logger = logger
	return nil
}

func (c *cli) close() error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if c.core == nil {
		return nil
	}
	err := c.core.Close()
	c.core = nil
	return err
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
