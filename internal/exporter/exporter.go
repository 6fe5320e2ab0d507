// Package exporter renders a CV into downloadable formats and stores the
// results in an artifact sink.
package exporter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-maker/internal/docx"
	"github.com/jonathan/cv-maker/internal/metrics"
	"github.com/jonathan/cv-maker/internal/rendering"
	"github.com/jonathan/cv-maker/internal/types"
)

// Format is an export format.
type Format string

// Supported formats.
const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// AllFormats lists every supported format in output order.
var AllFormats = []Format{FormatHTML, FormatPDF, FormatDOCX}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// ParseFormats parses format names, dropping duplicates. An empty list
// selects every format.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return AllFormats, nil
	}
	seen := make(map[Format]bool)
	var out []Format
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		switch f {
		case FormatHTML, FormatPDF, FormatDOCX:
		default:
			return nil, fmt.Errorf("unsupported export format %q (want html, pdf or docx)", n)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Artifact is one rendered file.
type Artifact struct {
	Format Format
	Name   string
	Data   []byte
}

// PDFPrinter prints an HTML page to PDF.
type PDFPrinter interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// Exporter renders CVs and writes them to a sink.
type Exporter struct {
	sink    Sink
	printer PDFPrinter
	logger  zerolog.Logger
	now     func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(e *Exporter) { e.logger = l } }

// WithClock overrides time.Now for artifact names.
func WithClock(now func() time.Time) Option { return func(e *Exporter) { e.now = now } }

// New creates an exporter. printer may be nil, in which case PDF export fails.
func New(sink Sink, printer PDFPrinter, opts ...Option) *Exporter {
	e := &Exporter{sink: sink, printer: printer, logger: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BaseName returns the artifact name of cv without extension, e.g.
// "Jane_Doe_CV".
func BaseName(cv types.CV) string {
	return strings.TrimSuffix(docx.FileName(cv), ".docx")
}

// Render produces the requested formats concurrently. Results follow the
// order of formats. The first failure cancels the rest.
func (e *Exporter) Render(ctx context.Context, cv types.CV, formats []Format) ([]Artifact, error) {
	base := BaseName(cv)
	out := make([]Artifact, len(formats))

	var page string
	needsHTML := false
	for _, f := range formats {
		if f == FormatHTML || f == FormatPDF {
			needsHTML = true
		}
	}
	if needsHTML {
		html, err := rendering.HTML(cv)
		if err != nil {
			return nil, err
		}
		page = html
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			data, err := e.renderOne(ctx, cv, f, page)
			metrics.ExportDone(string(f), err)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", f, err)
			}
			out[i] = Artifact{Format: f, Name: base + "." + string(f), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Exporter) renderOne(ctx context.Context, cv types.CV, f Format, page string) ([]byte, error) {
	switch f {
	case FormatHTML:
		return []byte(page), nil
	case FormatDOCX:
		return docx.Bytes(cv)
	case FormatPDF:
		if e.printer == nil {
			return nil, fmt.Errorf("pdf export requires a browser printer")
		}
		return e.printer.PrintPDF(ctx, page)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

// Export renders the requested formats and stores each artifact under
// "<name>-<timestamp>.<ext>". It returns the stored keys in format order.
func (e *Exporter) Export(ctx context.Context, cv types.CV, formats []Format) ([]string, error) {
	if e.sink == nil {
		return nil, fmt.Errorf("no artifact sink configured")
	}
	artifacts, err := e.Render(ctx, cv, formats)
	if err != nil {
		return nil, err
	}

	stamp := e.now().UTC().Format("20060102-150405")
	keys := make([]string, len(artifacts))
	g, ctx := errgroup.WithContext(ctx)
	for i, a := range artifacts {
		g.Go(func() error {
			name := strings.TrimSuffix(a.Name, "."+string(a.Format)) + "-" + stamp + "." + string(a.Format)
			key, err := e.sink.Put(ctx, name, a.Data, a.Format.ContentType())
			if err != nil {
				return fmt.Errorf("failed to store %s: %w", name, err)
			}
			keys[i] = key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info().
		Strs("keys", keys).
		Str("cv_id", cv.ID).
		Msg("exported CV")
	return keys, nil
}
