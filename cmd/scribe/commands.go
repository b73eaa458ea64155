package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/wizard"
)

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current project and wizard progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := c.core.Studio.State()
			out := cmd.OutOrStdout()

			if st.Project == nil {
				printf(out, "No project selected. Run `scribe new` to start one.\n")
			} else {
				printf(out, "Project  %s\n", st.Project.ID)
				printf(out, "Topic    %s\n", orDash(st.Project.Topic))
				if st.Project.Audio != nil {
					printf(out, "Audio    %s (%.1fs)\n", st.Project.Audio.Src, st.Project.Audio.Duration)
				}
			}
			printf(out, "Step     %s\n\n", stepLabel(st.Step))

			reachable := make(map[wizard.Step]bool, len(st.Reachable))
			for _, s := range st.Reachable {
				reachable[s] = true
			}
			for _, s := range wizard.Steps {
				mark := "[ ]"
				if st.Progress[s] {
					mark = "[x]"
				}
				note := ""
				if !reachable[s] {
					note = "  (locked)"
				}
				printf(out, "  %s %d. %s%s\n", mark, s.Index()+1, s.Label(), note)
			}

			printf(out, "\nStorage  %s\n", st.StorageStatus)
			if st.User != nil {
				printf(out, "User     %s <%s>\n", st.User.Name, st.User.Email)
			}
			return nil
		},
	}
}

func newNewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.core.Studio.NewProject(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Created project %s\n", p.ID)
			return nil
		},
	}
}

func newProjectsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List stored projects, most recently edited first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := c.core.Studio.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printf(cmd.OutOrStdout(), "No projects yet.\n")
				return nil
			}

			var currentID string
			if current := c.core.Studio.State().Project; current != nil {
				currentID = current.ID
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tTOPIC\tSCRIPT\tAUDIO\tUPDATED")
			for _, s := range summaries {
				marker := ""
				if s.ID == currentID {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					marker, s.ID, orDash(s.Topic), yesNo(s.HasScript), yesNo(s.HasAudio),
					s.UpdatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

func newOpenCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "open <project-id>",
		Short: "Make a stored project current and resume it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.core.Studio.LoadProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Opened %s, resuming at %s\n", p.ID, stepLabel(c.core.Studio.State().Step))
			return nil
		},
	}
}

func newRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id>",
		Short: "Delete a stored project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.core.Studio.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newTopicCmd(c *cli) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "topic <text>",
		Short: "Set the topic of the current project",
		Long: `Set the topic of the current project. A project is started first if
none is selected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			studio := c.core.Studio
			if studio.State().Project == nil {
				if _, err := studio.NewProject(cmd.Context()); err != nil {
					return err
				}
			}
			if err := studio.GoTo(wizard.StepTopic); err != nil {
				return err
			}

			topic := strings.Join(args, " ")
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}
			p, err := studio.SetTopic(cmd.Context(), &topic, desc)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Topic set to %q\n", p.Topic)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "optional notes about the video")
	return cmd
}

func newScriptCmd(c *cli) *cobra.Command {
	var length, tone string
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Generate a script for the current topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			studio := c.core.Studio
			if err := studio.GoTo(wizard.StepScript); err != nil {
				return err
			}
			script, err := studio.GenerateScript(cmd.Context(), models.ScriptLength(length), models.ScriptTone(tone))
			if err != nil {
				return err
			}
			printScript(cmd, script)
			return nil
		},
	}
	cmd.Flags().StringVar(&length, "length", string(models.LengthMedium), "short, medium or long")
	cmd.Flags().StringVar(&tone, "tone", string(models.ToneProfessional), "casual, professional or enthusiastic")
	return cmd
}

func newEditScriptCmd(c *cli) *cobra.Command {
	var title, introduction, body, conclusion string
	cmd := &cobra.Command{
		Use:   "edit-script",
		Short: "Replace sections of the current script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var edit models.ScriptEdit
			flags := cmd.Flags()
			if flags.Changed("title") {
				edit.Title = &title
			}
			if flags.Changed("introduction") {
				edit.Introduction = &introduction
			}
			if flags.Changed("body") {
				edit.Body = &body
			}
			if flags.Changed("conclusion") {
				edit.Conclusion = &conclusion
			}
			if edit == (models.ScriptEdit{}) {
				return fmt.Errorf("nothing to edit: pass at least one of --title, --introduction, --body, --conclusion")
			}

			studio := c.core.Studio
			if err := studio.GoTo(wizard.StepScript); err != nil {
				return err
			}
			script, err := studio.UpdateScript(cmd.Context(), edit)
			if err != nil {
				return err
			}
			printScript(cmd, script)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "script title")
	cmd.Flags().StringVar(&introduction, "introduction", "", "introduction section")
	cmd.Flags().StringVar(&body, "body", "", "main body")
	cmd.Flags().StringVar(&conclusion, "conclusion", "", "conclusion section")
	return cmd
}

func newCritiqueCmd(c *cli) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "critique",
		Short: "Ask for suggestions on the current script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			studio := c.core.Studio
			if err := studio.GoTo(wizard.StepScript); err != nil {
				return err
			}
			feedback, err := studio.AnalyzeScript(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !feedback.HasSuggestions {
				printf(out, "No suggestions, the script looks good.\n")
				return nil
			}
			for _, s := range feedback.Suggestions {
				printf(out, "- %s\n", s)
			}

			if apply && feedback.ImprovedScript != nil {
				improved := feedback.ImprovedScript
				script, err := studio.UpdateScript(cmd.Context(), models.ScriptEdit{
					Title:        &improved.Title,
					Introduction: &improved.Introduction,
					Body:         &improved.Body,
					Conclusion:   &improved.Conclusion,
				})
				if err != nil {
					return err
				}
				printf(out, "\nApplied the improved script:\n\n")
				printScript(cmd, script)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "replace the script with the suggested improvement")
	return cmd
}

func newVoicesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List narration voices and models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			studio := c.core.Studio
			voices, err := studio.Voices(cmd.Context())
			if err != nil {
				return err
			}
			voiceModels, err := studio.Models()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VOICE ID\tNAME\tCATEGORY")
			for _, v := range voices {
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.VoiceID, v.Name, orDash(v.Category))
			}
			fmt.Fprintln(w, "\nMODEL ID\tNAME\t")
			for _, m := range voiceModels {
				fmt.Fprintf(w, "%s\t%s\t\n", m.ID, m.Name)
			}
			return w.Flush()
		},
	}
}

func newAudioCmd(c *cli) *cobra.Command {
	var settings models.AudioSettings
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Narrate the current script",
		Long: `Narrate the current script. Settings passed as flags are saved and
reused by later runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			studio := c.core.Studio
			if err := studio.GoTo(wizard.StepAudio); err != nil {
				return err
			}

			flags := cmd.Flags()
			if anyChanged(cmd, "voice", "model", "speed", "stability", "clarity") {
				merged := studio.AudioSettings()
				if flags.Changed("voice") {
					merged.Voice = settings.Voice
				}
				if flags.Changed("model") {
					merged.Model = settings.Model
				}
				if flags.Changed("speed") {
					merged.Speed = settings.Speed
				}
				if flags.Changed("stability") {
					merged.Stability = settings.Stability
				}
				if flags.Changed("clarity") {
					merged.Clarity = settings.Clarity
				}
				if _, err := studio.SetAudioSettings(cmd.Context(), merged); err != nil {
					return err
				}
			}

			audio, err := studio.GenerateAudio(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Narration: %s (%.1fs)\n", audio.Src, audio.Duration)
			return nil
		},
	}
	defaults := models.DefaultAudioSettings()
	cmd.Flags().StringVar(&settings.Voice, "voice", defaults.Voice, "voice id (see `scribe voices`)")
	cmd.Flags().StringVar(&settings.Model, "model", defaults.Model, "narration model id")
	cmd.Flags().Float64Var(&settings.Speed, "speed", defaults.Speed, "speaking rate, 0.7 to 1.2")
	cmd.Flags().Float64Var(&settings.Stability, "stability", defaults.Stability, "voice stability, 0 to 1")
	cmd.Flags().Float64Var(&settings.Clarity, "clarity", defaults.Clarity, "clarity and similarity, 0 to 1")
	return cmd
}

func newCompleteCmd(c *cli) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "complete <step>...",
		Short: "Mark steps as done",
		Long: `Mark one or more steps as done, in the order given.

Audio, visuals, assembly and export have no stored result yet, so their
flags only live for this invocation. Finish them together in one call:

  scribe complete audio visuals assembly rendering`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := make([]wizard.Step, 0, len(args))
			for _, arg := range args {
				step, err := wizard.ParseStep(arg)
				if err != nil {
					return err
				}
				steps = append(steps, step)
			}
			verb := "completed"
			if undo {
				verb = "reopened"
			}
			studio := c.core.Studio
			for _, step := range steps {
				if err := studio.GoTo(step); err != nil {
					return err
				}
				if err := studio.CompleteStep(step, !undo); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s %s\n", step.Label(), verb)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "clear the flag instead")
	return cmd
}

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Start over with a fresh project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.core.Studio.ResetToStart(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Started project %s at %s\n", p.ID, stepLabel(wizard.StepTopic))
			return nil
		},
	}
}

func newLoginCmd(c *cli) *cobra.Command {
	var creds models.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.core.Studio.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

func newRegisterCmd(c *cli) *cobra.Command {
	var reg models.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.core.Studio.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Welcome, %s\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "display name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.core.Studio.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("signed out locally, but the provider reported: %w", err)
			}
			printf(cmd.OutOrStdout(), "Signed out\n")
			return nil
		},
	}
}

func printScript(cmd *cobra.Command, script *models.Script) {
	printf(cmd.OutOrStdout(), "%s\n", script.FullText)
}

func stepLabel(step wizard.Step) string {
	if step == wizard.StepNone {
		return "no step selected"
	}
	return fmt.Sprintf("step %d (%s)", step.Index()+1, step.Label())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
