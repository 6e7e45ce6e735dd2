// Command extract runs the extraction pipeline over local PDFs or case text
// and writes the per-document and combined tables to a directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"legalextract/internal/config"
	"legalextract/internal/csvexport"
	"legalextract/internal/input"
	"legalextract/internal/llm/providers"
	"legalextract/internal/logger"
	"legalextract/internal/pdfcheck"
	"legalextract/internal/service"
	"legalextract/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "extract:", err)
		os.Exit(1)
	}
}

type options struct {
	outDir string
	text   string
	format string
	files  []string
}

func parseArgs(args []string) (*options, error) {
	fs := pflag.NewFlagSet("extract", pflag.ContinueOnError)
	opts := &options{}
	fs.StringVarP(&opts.outDir, "out", "o", ".", "directory the CSV files are written to")
	fs.StringVarP(&opts.text, "text", "t", "", "case text to extract from when no file is given")
	fs.StringVarP(&opts.format, "format", "f", "csv", "output format: csv or xlsx")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: extract [flags] [file.pdf ...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()
	if len(opts.files) == 0 && opts.text == "" {
		fs.Usage()
		return nil, errors.New("no input: pass PDF files or --text")
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	format, err := csvexport.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, closeModel, err := providers.Build(ctx, providers.DefaultRegistry(), &cfg.Model, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize model client: %w", err)
	}
	defer func() {
		if err := closeModel(); err != nil {
			zl.Warn("closing model client", zap.Error(err))
		}
	}()

	sink, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}

	svc, err := service.NewExtractionService(
		model,
		input.NewLoader(cfg.Extraction.MaxFileBytes()),
		pdfcheck.NewInspector(),
		sink,
		cfg,
		zl,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction service: %w", err)
	}

	return extract(ctx, svc, buildRequests(opts.files, opts.text), opts.outDir, format, stdout)
}
