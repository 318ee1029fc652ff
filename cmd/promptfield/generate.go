package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		settingsPath string
		req          runRequest
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate text for a prompt and save it into a content item",
		Long: `Sends the prompt to the generation service and writes the answer into
the "content" element of the target language variant.

Credentials and the default target come from the settings file and the
NEXT_PUBLIC_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Prompt == "" {
				return errors.New("--prompt is required")
			}
			s, err := loadSettings(settingsPath)
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return err
			}

			res, err := runOnce(cmd.Context(), s, req, slog.Default(), nil)
			if err != nil {
				return fmt.Errorf("generate (%s): %w", res.Stage, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&settingsPath, "settings", "", "Settings file (.yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&req.Prompt, "prompt", "p", "", "Prompt to send")
	cmd.Flags().StringVar(&req.Item, "item", "", "Target item codename (default from settings)")
	cmd.Flags().StringVar(&req.Language, "language", "", "Target language codename (default from settings)")
	return cmd
}
