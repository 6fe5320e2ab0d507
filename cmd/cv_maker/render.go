package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/layout"
	"github.com/jonathan/cv-maker/internal/observability"
	"github.com/jonathan/cv-maker/internal/ordering"
	"github.com/jonathan/cv-maker/internal/rendering"
	"github.com/jonathan/cv-maker/internal/schemas"
)

var (
	renderInput  string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV to a standalone HTML page",
	Long:  "Renders the active sections of a CV JSON file into the same A4 HTML page the live preview shows.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to CV JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output HTML file (defaults to stdout)")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cv, err := schemas.ReadCVFile(renderInput)
	if err != nil {
		return err
	}
	cv.Sections = ordering.Normalize(cv.Sections)

	html, err := rendering.HTML(cv)
	if err != nil {
		return fmt.Errorf("failed to render CV: %w", err)
	}

	if renderOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), html)
		return err
	}
	if err := os.WriteFile(renderOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintCV(&cv, ordering.Zone(cv.Sections, true), ordering.Zone(cv.Sections, false))
	if h, ok := cv.Header(); ok {
		printer.PrintHeaderRows(layout.PackContactFields(h.Fields))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", renderOutput)
	return nil
}
