package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/config"
	"github.com/devxtra-community/xerocare-sub000/internal/infra"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"
	"github.com/devxtra-community/xerocare-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Composition root for the async processing daemon: invoice PDF workers,
// email workers behind the SMTP circuit breaker, and the retry cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	invoiceRepo := repository.NewInvoiceRepository(db)
	mailer := infra.NewMailer(cfg)
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.WorkerHandlers{
		Invoice: worker.NewInvoiceWorker(invoiceRepo, dispatcher, cfg.PDFStoragePath),
		Email:   worker.NewEmailWorker(invoiceRepo, mailer, cb, rdb),
	})
	worker.StartRetryCron(ctx, invoiceRepo, dispatcher, cb)

	log.Info().
		Str("env", cfg.Env).
		Int("pool_size", cfg.WorkerPoolSize).
		Msg("xerocare worker daemon started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, draining workers")
	// BRPOP blocks up to 5s; give in-flight jobs a moment to finish
	time.Sleep(6 * time.Second)
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
	log.Info().Msg("worker daemon stopped")
}
