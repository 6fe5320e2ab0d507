package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/types"
)

var (
	newOutput string
	newName   string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Write a new CV with the default sections",
	Long:  "Writes a CV JSON document containing every section type with default content, ready to edit or import.",
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newOutput, "out", "o", "", "Path to output CV JSON file (required)")
	newCmd.Flags().StringVar(&newName, "name", "", "Document name (defaults to \"My CV\")")

	if err := newCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, _ []string) error {
	cv := types.NewDefaultCV(time.Now())
	if newName != "" {
		cv.Name = newName
	}
	if err := writeJSON(newOutput, cv); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote new CV %s to %s\n", cv.ID, newOutput)
	return nil
}

// writeJSON writes v as indented JSON, creating or truncating path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
