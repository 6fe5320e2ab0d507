package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/ordering"
	"github.com/jonathan/cv-maker/internal/schemas"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a CV JSON file",
	Long:  "Checks a CV document against the CV schema, its structural invariants and the section order density rule.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to CV JSON file (required)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cv, err := schemas.ReadCVFile(validateInput)
	if err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			out := cmd.OutOrStdout()
			for _, fe := range schemaErr.Errors {
				_, _ = fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return err
	}

	if err := ordering.CheckDensity(cv.Sections); err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Warning: %v (orders are renumbered on import)\n", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is a valid CV (%d sections)\n", validateInput, len(cv.Sections))
	return nil
}
