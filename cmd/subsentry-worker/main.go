package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/RIxiV1/SubSentry/internal/amqp"
	"github.com/RIxiV1/SubSentry/internal/config"
	"github.com/RIxiV1/SubSentry/internal/log"
	"github.com/RIxiV1/SubSentry/internal/sheets"
	"github.com/RIxiV1/SubSentry/internal/sheets/google"
	"github.com/RIxiV1/SubSentry/internal/sheets/memory"
	"github.com/RIxiV1/SubSentry/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.DefaultConfig().Level,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var exporter sheets.LedgerExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("failed to initialize Google Sheets exporter", log.FieldError, err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("using Google Sheets ledger exporter", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		exporter = memory.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, using in-memory ledger exporter")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	w := worker.NewExportWorker(exporter, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Run(ctx, client)
	}()

	logger.Info("export worker started", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil && ctx.Err() == nil {
			logger.Error("consumer stopped", log.FieldError, err)
			os.Exit(1)
		}
	}

	logger.Info("worker stopped gracefully")
}
