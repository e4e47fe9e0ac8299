package worker

import (
	"context"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/infra"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	retryInterval  = 30 * time.Second
	retryBatchSize = 10
)

// invoiceEnqueuer is what the cron needs from the dispatcher.
type invoiceEnqueuer interface {
	EnqueueInvoice(ctx context.Context, invoiceID uuid.UUID) error
}

// StartRetryCron periodically re-enqueues pending invoices whose next_retry_at
// has elapsed. This is the recovery path for invoices whose enqueue was lost
// or whose PDF generation failed transiently. Ticks are skipped while the
// SMTP circuit breaker is open: re-enqueueing then only churns jobs into the
// DLQ. Runs until ctx is cancelled.
func StartRetryCron(ctx context.Context, repo repository.InvoiceRepository, dispatcher *Dispatcher, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryInterval)
		defer ticker.Stop()
		log.Info().Dur("interval", retryInterval).Msg("invoice retry cron started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("invoice retry cron stopped")
				return
			case <-ticker.C:
				runRetryPass(ctx, repo, dispatcher, cb)
			}
		}
	}()
}

func runRetryPass(ctx context.Context, repo repository.InvoiceRepository, dispatcher invoiceEnqueuer, cb *infra.CircuitBreaker) {
	if cb.State() == infra.CBOpen {
		log.Warn().Msg("retry cron: circuit breaker open, skipping tick")
		return
	}

	invoices, err := repo.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry cron: list pending failed")
		return
	}
	for i := range invoices {
		// The breaker can trip mid-batch; stop feeding the queue when it does
		if cb.State() == infra.CBOpen {
			log.Warn().Int("remaining", len(invoices)-i).Msg("retry cron: circuit breaker opened mid-batch, bailing")
			return
		}

		inv := &invoices[i]
		if err := dispatcher.EnqueueInvoice(ctx, inv.ID); err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("retry cron: enqueue failed")
			continue
		}
		// Targeted, status-guarded clear: if a worker already finished this
		// invoice between the list and here, nothing is overwritten.
		if err := repo.ClearRetryMarker(ctx, inv.ID); err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("retry cron: clear retry marker failed")
		}
		log.Info().
			Str("invoice_id", inv.ID.String()).
			Int("retry_count", inv.RetryCount).
			Msg("retry cron: invoice re-enqueued")
	}
}
