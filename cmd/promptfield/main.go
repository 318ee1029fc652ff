// Command promptfield is the terminal companion of the prompt element: it
// runs generations against a content item, checks element configurations,
// prints their schema and serves the browser build for local development.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/randalmurphal/promptfield/providers"
	"github.com/randalmurphal/promptfield/settings"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "promptfield",
		Short:         "Generate CMS content from prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newServeCmd())
	return root
}

// loadSettings reads path (when set) over the defaults and applies the
// environment.
func loadSettings(path string) (settings.Settings, error) {
	s := settings.Default()
	if path != "" {
		var err error
		if s, err = settings.Load(path); err != nil {
			return s, err
		}
	}
	s.LoadFromEnv()
	return s, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("promptfield failed", slog.Any("error", err))
		os.Exit(1)
	}
}
