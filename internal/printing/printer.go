// Package printing turns rendered CV pages into PDF with a headless browser
// and checks whether the content fits on one A4 page.
package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/jonathan/cv-maker/internal/config"
)

// A4 geometry used by the overflow check. The usable height is the page
// minus the default 1.5cm top and 1cm bottom margins.
const (
	MaxContentHeightMM = 267.0
	PixelsPerMM        = 3.78
	a4WidthInches      = 8.27
	a4HeightInches     = 11.69
)

// PrintError represents a failure driving the headless browser
type PrintError struct {
	Message string
	Cause   error
}

func (e *PrintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("print error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("print error: %s", e.Message)
}

func (e *PrintError) Unwrap() error {
	return e.Cause
}

// Overflow is the result of measuring a rendered page.
type Overflow struct {
	ContentHeightPx float64 `json:"content_height_px"`
	MaxHeightPx     float64 `json:"max_height_px"`
	MaxHeightMM     float64 `json:"max_height_mm"`
	Overflowing     bool    `json:"overflowing"`
}

// NewOverflow compares a measured content height with the usable height.
func NewOverflow(heightPx, maxHeightMM float64) Overflow {
	maxPx := maxHeightMM * PixelsPerMM
	return Overflow{
		ContentHeightPx: heightPx,
		MaxHeightPx:     maxPx,
		MaxHeightMM:     maxHeightMM,
		Overflowing:     heightPx > maxPx,
	}
}

// Printer drives a headless Chrome. Each call starts its own browser.
type Printer struct {
	chromePath  string
	settleDelay time.Duration
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewPrinter creates a printer from configuration.
func NewPrinter(cfg config.PrintConfig, logger zerolog.Logger) *Printer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Printer{
		chromePath:  cfg.ChromePath,
		settleDelay: cfg.SettleDelay,
		timeout:     timeout,
		logger:      logger,
	}
}

func (p *Printer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(p.chromePath))
	}
	return opts
}

// run loads html into a fresh tab, waits for layout to settle and then
// runs the given actions.
func (p *Printer) run(ctx context.Context, html string, actions ...chromedp.Action) error {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, p.allocatorOptions()...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, p.timeout)
	defer cancel()

	load := []chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
	}
	if p.settleDelay > 0 {
		load = append(load, chromedp.Sleep(p.settleDelay))
	}
	return chromedp.Run(browserCtx, append(load, actions...)...)
}

// PrintPDF renders html to an A4 PDF with backgrounds.
func (p *Printer) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	start := time.Now()
	var pdf []byte
	err := p.run(ctx, html, chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(a4WidthInches).
			WithPaperHeight(a4HeightInches).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPreferCSSPageSize(true).
			Do(ctx)
		if err != nil {
			return err
		}
		pdf = data
		return nil
	}))
	if err != nil {
		return nil, &PrintError{Message: "failed to print PDF", Cause: err}
	}

	p.logger.Debug().
		Int("bytes", len(pdf)).
		Dur("elapsed", time.Since(start)).
		Msg("printed PDF")
	return pdf, nil
}

// measureScript returns the height of the content inside the page
// container, excluding its padding.
const measureScript = `(() => {
	const c = document.querySelector('.cv-container');
	if (!c || !c.firstElementChild) return 0;
	const top = c.firstElementChild.getBoundingClientRect().top;
	const bottom = c.lastElementChild.getBoundingClientRect().bottom;
	return bottom - top;
})()`

// CheckOverflow measures the rendered content against the usable A4 height.
func (p *Printer) CheckOverflow(ctx context.Context, html string) (Overflow, error) {
	var height float64
	if err := p.run(ctx, html, chromedp.Evaluate(measureScript, &height)); err != nil {
		return Overflow{}, &PrintError{Message: "failed to measure page", Cause: err}
	}

	o := NewOverflow(height, MaxContentHeightMM)
	if o.Overflowing {
		p.logger.Info().
			Float64("height_px", o.ContentHeightPx).
			Float64("max_px", o.MaxHeightPx).
			Msg("content exceeds one page")
	}
	return o, nil
}
