package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"legalextract/internal/config"
	"legalextract/internal/handler"
	"legalextract/internal/input"
	"legalextract/internal/llm/providers"
	"legalextract/internal/logger"
	"legalextract/internal/pdfcheck"
	"legalextract/internal/router"
	"legalextract/internal/service"
	"legalextract/internal/storage"
)

// @title Legal Document Extraction API
// @version 1.0
// @description Extracts case data from legal documents with a language model and returns it as CSV.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
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

	// Initialize model client
	model, closeModel, err := providers.Build(ctx, providers.DefaultRegistry(), &cfg.Model, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize model client: %w", err)
	}
	defer func() {
		if err := closeModel(); err != nil {
			zl.Warn("closing model client", zap.Error(err))
		}
	}()

	// Initialize export sink
	sink, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}

	// Initialize services
	extractionSvc, err := service.NewExtractionService(
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

	// Initialize handlers
	extractionH := handler.NewExtractionHandler(extractionSvc, cfg.Extraction.MaxFileBytes(), cfg.Extraction.MaxDocuments, zl)
	healthH := handler.NewHealthHandler(cfg.Model.ProviderNames())

	// Setup router
	r := router.Setup(zl, cfg.CORS.AllowedOrigins, extractionH, healthH)

	writeTimeout := cfg.EffectiveWriteTimeout()
	if writeTimeout != cfg.Server.WriteTimeout {
		zl.Info("write timeout raised to fit a full batch",
			zap.Duration("configured", cfg.Server.WriteTimeout),
			zap.Duration("effective", writeTimeout),
			zap.Int("max_documents", cfg.Extraction.MaxDocuments))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.Strings("providers", cfg.Model.ProviderNames()),
			zap.String("export_sink", cfg.Export.Sink))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
