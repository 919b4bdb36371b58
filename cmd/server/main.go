package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainRepo "expediente-service/internal/domain/repository"
	"expediente-service/internal/infrastructure/config"
	"expediente-service/internal/interface/api"
	adapters "expediente-service/internal/interface/repository"
	"expediente-service/internal/usecase"
	"expediente-service/pkg/logger"
	"expediente-service/pkg/metrics"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Expediente Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	m := metrics.NewMetrics("expediente")

	// Upstream dossier source
	dossierRepo := adapters.NewHTTPDossierRepository(cfg.APIBaseURL, cfg.APIToken, cfg.RequestTimeout, log)

	// Export sinks
	spreadsheetSink := adapters.NewFileSpreadsheetWriter(cfg.ExportDir, log)
	newRenderer := func() domainRepo.DocumentRenderer {
		return adapters.NewPDFRenderer(cfg.ExportDir)
	}

	// Usecases
	analytics := usecase.AnalyticsConfig{
		CoverageWarnPercent: cfg.CoverageWarnPercent,
		ShortShiftHours:     cfg.ShortShiftHours,
		LongShiftHours:      cfg.LongShiftHours,
		ShiftAlertRatio:     cfg.ShiftAlertRatio,
	}
	streaks := usecase.StreakConfig{
		MinDays:       cfg.StreakMinDays,
		HighlightDays: cfg.StreakHighlightDays,
	}
	processor := usecase.NewExpedienteProcessor(dossierRepo, analytics, streaks, log, m)
	exporter := usecase.NewExporter(spreadsheetSink, log, m)

	handler := api.NewExpedienteHTTP(processor, exporter, newRenderer, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(handler, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("Expediente Service stopped")
}
