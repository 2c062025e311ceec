package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"contabil/internal/amqp"
	"contabil/internal/backend"
	"contabil/internal/cli"
	apphttp "contabil/internal/http"
	"contabil/internal/session"
	"contabil/internal/sheets"
	gsheet "contabil/internal/sheets/google"
	"contabil/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	result, err := backend.NewFactory(nil).Create(backend.Config{
		Type:         backend.Type(cfg.StoreBackend),
		HistoryFile:  cfg.HistoryFile,
		OptionsFile:  cfg.OptionsFile,
		SettingsFile: cfg.SettingsFile,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	files := store.NewFileStore(cfg.CacheDir, result.Repositories.History)
	sessions := session.NewManager(cfg.SessionTTL)

	// Export wiring: AMQP publisher when configured, otherwise a direct
	// Google Sheets client; without either, export answers "not configured".
	var publisher apphttp.Publisher
	var exporter sheets.TableExporter
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, falling back to synchronous export", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("Initialized AMQP export queue",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	if publisher == nil {
		if client, err := gsheet.NewFromEnv(context.Background()); err != nil {
			logger.Warn("Google Sheets export disabled", "error", err)
		} else {
			exporter = client
			logger.Info("Initialized Google Sheets export")
		}
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      ":" + cfg.Port,
		Files:     files,
		Repos:     result.Repositories,
		Sessions:  sessions,
		KeysFile:  cfg.AccessKeysFile,
		Exporter:  exporter,
		Publisher: publisher,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting contabil server", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
