package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/exporter"
	"github.com/jonathan/cv-maker/internal/observability"
	"github.com/jonathan/cv-maker/internal/ordering"
	"github.com/jonathan/cv-maker/internal/printing"
	"github.com/jonathan/cv-maker/internal/schemas"
	"github.com/jonathan/cv-maker/internal/types"
)

var (
	exportInput     string
	exportFormats   []string
	exportDir       string
	exportNoBrowser bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a CV to HTML, PDF and DOCX",
	Long: `Renders a CV into the requested formats and stores them in the configured sink.
Without --in the active saved template is exported.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to CV JSON file (defaults to the active template)")
	exportCmd.Flags().StringSliceVarP(&exportFormats, "format", "f", nil, "Formats to export: html, pdf, docx (default all)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Write to this directory instead of the configured sink")
	exportCmd.Flags().BoolVar(&exportNoBrowser, "no-browser", false, "Skip formats that need a headless browser")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := contextOrBackground(cmd)

	formats, err := exporter.ParseFormats(exportFormats)
	if err != nil {
		return err
	}
	if exportNoBrowser {
		formats = withoutFormat(formats, exporter.FormatPDF)
		if len(formats) == 0 {
			return fmt.Errorf("nothing to export: pdf needs a browser")
		}
	}

	cv, cfgApp, err := exportSource(cmd)
	if err != nil {
		return err
	}
	if cfgApp != nil {
		defer cfgApp.Close()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if exportDir != "" {
		cfg.Export.Sink = "dir"
		cfg.Export.Dir = exportDir
	}

	sink, err := exporter.NewSink(ctx, cfg.Export)
	if err != nil {
		return fmt.Errorf("failed to create export sink: %w", err)
	}
	var printer exporter.PDFPrinter
	if !exportNoBrowser {
		printer = printing.NewPrinter(cfg.Print, observability.Component(logger, "printing"))
	}

	e := exporter.New(sink, printer, exporter.WithLogger(observability.Component(logger, "exporter")))
	keys, err := e.Export(ctx, cv, formats)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintArtifacts(keys)
	return nil
}

// exportSource reads --in, or falls back to the active template. The
// returned app is non-nil when stores were opened and must be closed.
func exportSource(cmd *cobra.Command) (types.CV, *app, error) {
	if exportInput != "" {
		cv, err := schemas.ReadCVFile(exportInput)
		if err != nil {
			return types.CV{}, nil, err
		}
		cv.Sections = ordering.Normalize(cv.Sections)
		return cv, nil, nil
	}

	a, err := openApp(contextOrBackground(cmd))
	if err != nil {
		return types.CV{}, nil, err
	}
	t, ok := a.templates.Active()
	if !ok {
		a.Close()
		return types.CV{}, nil, fmt.Errorf("no --in given and no active template")
	}
	return t.CV, a, nil
}

func withoutFormat(formats []exporter.Format, drop exporter.Format) []exporter.Format {
	var out []exporter.Format
	for _, f := range formats {
		if f != drop {
			out = append(out, f)
		}
	}
	return out
}
