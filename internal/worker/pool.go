package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WorkerHandlers wires the per-queue processors into the pool.
type WorkerHandlers struct {
	Invoice *InvoiceWorker
	Email   *EmailWorker
}

// StartWorkerPool launches size goroutines per queue, each blocking on BRPOP.
// Workers drain until ctx is cancelled; a job already popped when cancellation
// hits is still processed to completion.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, size int, handlers WorkerHandlers) {
	if size < 1 {
		size = 1
	}
	for i := 0; i < size; i++ {
		go runWorker(ctx, rdb, QueueInvoice, i, handlers)
		go runWorker(ctx, rdb, QueueEmail, i, handlers)
	}
	log.Info().Int("size", size).Msg("worker pool started")
}

func runWorker(ctx context.Context, rdb *redis.Client, queue string, id int, handlers WorkerHandlers) {
	logger := log.With().Str("queue", queue).Int("worker", id).Logger()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopped")
			return
		default:
		}

		res, err := rdb.BRPop(ctx, 5*time.Second, queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			logger.Error().Err(err).Msg("brpop failed")
			time.Sleep(time.Second)
			continue
		}
		// BRPOP returns [key, value]
		if len(res) < 2 {
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			logger.Error().Err(err).Str("payload", res[1]).Msg("malformed job dropped")
			continue
		}
		processJob(ctx, queue, job, handlers, logger)
	}
}

func processJob(ctx context.Context, queue string, job Job, handlers WorkerHandlers, logger zerolog.Logger) {
	start := time.Now()
	var err error
	switch queue {
	case QueueInvoice:
		err = handlers.Invoice.Process(ctx, job)
	case QueueEmail:
		err = handlers.Email.Process(ctx, job)
	default:
		err = errors.New("no handler for queue " + queue)
	}
	if err != nil {
		logger.Error().Err(err).
			Str("job_id", job.ID).
			Str("invoice_id", job.InvoiceID).
			Dur("took", time.Since(start)).
			Msg("job failed")
		return
	}
	logger.Info().
		Str("job_id", job.ID).
		Str("invoice_id", job.InvoiceID).
		Dur("took", time.Since(start)).
		Msg("job done")
}
