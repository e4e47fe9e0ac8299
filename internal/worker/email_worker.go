package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/devxtra-community/xerocare-sub000/internal/infra"
	"github.com/devxtra-community/xerocare-sub000/internal/model"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailWorker delivers issued invoices by email, guarded by the SMTP circuit
// breaker. Failed deliveries go to the dead-letter queue rather than being
// retried in place: the CB already absorbs transient SMTP outages, so a job
// that still fails needs operator attention.
type EmailWorker struct {
	repo   repository.InvoiceRepository
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewEmailWorker(repo repository.InvoiceRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{repo: repo, mailer: mailer, cb: cb, rdb: rdb}
}

func (w *EmailWorker) Process(ctx context.Context, job Job) error {
	id, err := uuid.Parse(job.InvoiceID)
	if err != nil {
		return fmt.Errorf("email worker: bad invoice id %q: %w", job.InvoiceID, err)
	}
	inv, err := w.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("email worker: load invoice: %w", err)
	}

	if inv.Status != model.InvoiceStatusIssued {
		log.Info().Str("invoice_id", job.InvoiceID).Str("status", inv.Status).Msg("skipping non-issued invoice")
		return nil
	}
	if inv.CustomerEmail == nil || *inv.CustomerEmail == "" || inv.PDFPath == nil {
		return nil
	}

	subject := fmt.Sprintf("Invoice #%d from XeroCare", inv.InvoiceNumber)
	body := fmt.Sprintf("Dear %s,\n\nPlease find attached invoice #%d for %s.\n\nRegards,\nXeroCare",
		inv.CustomerName, inv.InvoiceNumber, inv.TotalAmount.StringFixed(2))

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendInvoice(*inv.CustomerEmail, subject, body, *inv.PDFPath)
	})
	if sendErr != nil {
		if errors.Is(sendErr, infra.ErrCircuitOpen) {
			// SMTP is down. Park the job in the DLQ; the operator re-queues
			// once the breaker closes.
			SendToDLQ(ctx, w.rdb, QueueEmail, job, sendErr)
			return nil
		}
		SendToDLQ(ctx, w.rdb, QueueEmail, job, sendErr)
		return fmt.Errorf("email worker: send: %w", sendErr)
	}
	return nil
}
