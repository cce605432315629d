package main

import (
	"fmt"
	"time"

	"assessmate.app/casenote/common/id"
	"assessmate.app/casenote/internal/client"
	"assessmate.app/casenote/internal/wizard"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		from     string
		out      string
		delay    time.Duration
		timeout  time.Duration
		childID  string
		date     string
		assessor string
		duration string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walk through the five-stage wizard",
		Long: "Walk through the five-stage wizard interactively, or replay a YAML " +
			"script with --from.",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _ := cmd.Flags().GetString("server")
			if err := id.Init(2); err != nil {
				return fmt.Errorf("initializing id generator: %w", err)
			}

			metadata := wizard.DefaultMetadata(time.Now())
			if childID != "" {
				metadata.ChildID = childID
			}
			if date != "" {
				metadata.SessionDate = date
			}
			metadata.AssessorName = assessor
			metadata.SessionDuration = duration

			var script *Script
			if from != "" {
				s, err := loadScript(from)
				if err != nil {
					return err
				}
				script = s
				if script.Server != "" && !cmd.Flags().Changed("server") {
					server = script.Server
				}
				metadata = script.applyMetadata(metadata)
				if script.Out != "" && !cmd.Flags().Changed("out") {
					out = script.Out
				}
			}

			session := wizard.NewSession(id.NewString(), metadata)
			api := client.New(server, client.WithSessionID(session.ID), client.WithTimeout(timeout))
			m := wizard.New(api, session, wizard.WithCompletionDelay(delay))

			if script != nil {
				return runScript(cmd.Context(), m, script, out, cmd.OutOrStdout())
			}
			return runInteractive(cmd.Context(), m, cmd.InOrStdin(), cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "YAML script to replay instead of prompting")
	cmd.Flags().StringVar(&out, "out", ".", "directory for exported documents")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (0 waits for the server)")
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "how long the success message shows before export")
	cmd.Flags().StringVar(&childID, "child-id", "", "child identifier (default \""+wizard.DefaultChildID+"\")")
	cmd.Flags().StringVar(&date, "session-date", "", "session date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&assessor, "assessor", "", "assessor name")
	cmd.Flags().StringVar(&duration, "duration", "", "session duration, e.g. \"45 minutes\"")

	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server and whether a language model is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _ := cmd.Flags().GetString("server")
			resp, err := client.New(server).Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\nllm configured: %t\ntimestamp: %s\n",
				resp.Status, resp.LLMConfigured, resp.Timestamp.Format(time.RFC3339))
			return nil
		},
	}
}
