package main

import (
	"fmt"
	"log/slog"
	"os"

	"assessmate.app/casenote/common/logger"
	"github.com/spf13/cobra"
)

func main() {
	slog.SetDefault(slog.New(logger.NewTraceHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)))

	root := &cobra.Command{
		Use:           "casenote",
		Short:         "Draft developmental case notes from session observations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("server", envOr("CASENOTE_SERVER", "http://localhost:3001"), "case note server base URL")

	root.AddCommand(newRunCmd(), newHealthCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
