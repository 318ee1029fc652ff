package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/promptfield/widget"
)

func variantFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "variant", "instance", "Element variant (instance|environment)")
}

func newValidateCmd() *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check an element configuration JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := widget.ParseVariant(variant)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Clean(args[0]))
			if err != nil {
				return err
			}

			res := widget.ParseConfig(json.RawMessage(data), v)
			if !res.OK() {
				var cfgErr *widget.ConfigError
				if errors.As(res.Err(), &cfgErr) {
					for _, p := range cfgErr.Problems {
						fmt.Fprintln(cmd.ErrOrStderr(), p)
					}
				}
				return res.Err()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	variantFlag(cmd, &variant)
	return cmd
}

func newSchemaCmd() *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the element configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := widget.ParseVariant(variant)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(widget.ConfigSchema(v))
		},
	}
	variantFlag(cmd, &variant)
	return cmd
}
