package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/infra"
	"github.com/devxtra-community/xerocare-sub000/internal/model"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxRetries = 3

// InvoiceWorker generates the PDF for a pending invoice, marks it issued and
// hands it to the email queue. On failure it schedules a retry with
// exponential backoff; the retry cron re-enqueues when next_retry_at elapses.
type InvoiceWorker struct {
	repo       repository.InvoiceRepository
	dispatcher *Dispatcher
	pdfPath    string
}

func NewInvoiceWorker(repo repository.InvoiceRepository, dispatcher *Dispatcher, pdfPath string) *InvoiceWorker {
	return &InvoiceWorker{repo: repo, dispatcher: dispatcher, pdfPath: pdfPath}
}

func (w *InvoiceWorker) Process(ctx context.Context, job Job) error {
	id, err := uuid.Parse(job.InvoiceID)
	if err != nil {
		return fmt.Errorf("invoice worker: bad invoice id %q: %w", job.InvoiceID, err)
	}
	inv, err := w.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("invoice worker: load invoice: %w", err)
	}

	// Cancelled while queued, or a stale retry of an already-issued invoice
	if inv.Status != model.InvoiceStatusPending {
		log.Info().Str("invoice_id", job.InvoiceID).Str("status", inv.Status).Msg("skipping non-pending invoice")
		return nil
	}

	var pdfFile string
	genErr := withRetry(maxRetries, func() error {
		var err error
		pdfFile, err = infra.GenerateInvoicePDF(inv, w.pdfPath)
		return err
	})
	if genErr != nil {
		return w.scheduleRetry(ctx, inv, genErr)
	}

	inv.Status = model.InvoiceStatusIssued
	inv.PDFPath = &pdfFile
	inv.NextRetryAt = nil
	inv.LastError = nil
	if err := w.repo.Update(ctx, inv); err != nil {
		return fmt.Errorf("invoice worker: mark issued: %w", err)
	}

	// Email only when the customer left an address
	if inv.CustomerEmail != nil && *inv.CustomerEmail != "" {
		if err := w.dispatcher.EnqueueEmail(ctx, inv.ID); err != nil {
			log.Warn().Err(err).Str("invoice_id", job.InvoiceID).Msg("email enqueue failed")
		}
	}
	return nil
}

// scheduleRetry bumps the retry counter with exponential backoff, or marks the
// invoice errored once retries are exhausted.
func (w *InvoiceWorker) scheduleRetry(ctx context.Context, inv *model.Invoice, cause error) error {
	inv.RetryCount++
	msg := cause.Error()
	inv.LastError = &msg

	if inv.RetryCount >= maxRetries {
		inv.Status = model.InvoiceStatusError
		inv.NextRetryAt = nil
		if err := w.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("invoice worker: mark errored: %w", err)
		}
		return fmt.Errorf("invoice worker: retries exhausted: %w", cause)
	}

	// 1m, 2m, 4m...
	backoff := time.Duration(1<<(inv.RetryCount-1)) * time.Minute
	next := time.Now().Add(backoff)
	inv.NextRetryAt = &next
	if err := w.repo.Update(ctx, inv); err != nil {
		return fmt.Errorf("invoice worker: schedule retry: %w", err)
	}
	return fmt.Errorf("invoice worker: pdf generation failed, retry %d scheduled: %w", inv.RetryCount, cause)
}

// withRetry runs fn up to attempts times with a short pause between tries.
// Covers transient filesystem errors during PDF writes.
func withRetry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(i+1) * 200 * time.Millisecond)
	}
	return err
}
