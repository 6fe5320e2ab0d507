package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/editor"
	"github.com/jonathan/cv-maker/internal/exporter"
	"github.com/jonathan/cv-maker/internal/metrics"
	"github.com/jonathan/cv-maker/internal/observability"
	"github.com/jonathan/cv-maker/internal/printing"
	"github.com/jonathan/cv-maker/internal/server"
)

var (
	servePort      int
	serveNoBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editing server",
	Long:  `Start an HTTP server that exposes the CV editing API, live preview and exports.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveNoBrowser, "no-browser", false, "Disable PDF export and the overflow check")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != 0 {
		a.cfg.Server.Port = servePort
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	metrics.Register()

	session := editor.NewSession(a.suggestions, a.templates,
		editor.WithLogger(observability.Component(a.logger, "editor")))

	sink, err := exporter.NewSink(ctx, a.cfg.Export)
	if err != nil {
		return fmt.Errorf("failed to create export sink: %w", err)
	}

	deps := server.Deps{
		Session: session,
		Logger:  observability.Component(a.logger, "server"),
	}
	var printer exporter.PDFPrinter
	if !serveNoBrowser {
		p := printing.NewPrinter(a.cfg.Print, observability.Component(a.logger, "printing"))
		printer = p
		deps.Overflow = p
	}
	deps.Exporter = exporter.New(sink, printer,
		exporter.WithLogger(observability.Component(a.logger, "exporter")))

	srv := server.New(a.cfg.Server, deps)
	return srv.Start(ctx)
}

// contextOrBackground keeps commands usable when executed without
// ExecuteContext, as tests do.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
