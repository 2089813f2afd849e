package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okian/screener/internal/adapters/extract"
	"github.com/okian/screener/internal/domain/fairness"
)

func newRedactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redact FILE",
		Short: "Print the redacted text of a resume",
		Long:  "Extracts the text of a resume file, masks protected attributes and prints the result followed by the detected categories.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRedact(cmd, args[0], cmd.OutOrStdout())
		},
	}
}

func runRedact(cmd *cobra.Command, path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := extract.New().Extract(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", path, err)
	}
	res := fairness.New().Redact(text)
	notes := res.Notes()
	if notes == "" {
		notes = "none"
	}
	_, err = fmt.Fprintf(w, "%s\n\nredacted: %s\n", res.Text, notes)
	return err
}
