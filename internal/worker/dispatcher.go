package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Queue names. Workers BRPOP these; the dispatcher LPUSHes.
const (
	QueueInvoice = "queue:invoice"
	QueueEmail   = "queue:email"
)

// Job is the envelope pushed onto Redis queues.
type Job struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	InvoiceID string `json:"invoice_id"`
	Attempt   int    `json:"attempt"`
}

// Dispatcher enqueues jobs for the worker pool.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueInvoice queues an invoice for PDF generation.
func (d *Dispatcher) EnqueueInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return d.push(ctx, QueueInvoice, Job{
		ID:        uuid.NewString(),
		Type:      "invoice_pdf",
		InvoiceID: invoiceID.String(),
	})
}

// EnqueueEmail queues an issued invoice for email delivery.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, invoiceID uuid.UUID) error {
	return d.push(ctx, QueueEmail, Job{
		ID:        uuid.NewString(),
		Type:      "invoice_email",
		InvoiceID: invoiceID.String(),
	})
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("dispatcher: marshal job: %w", err)
	}
	if err := d.rdb.LPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("dispatcher: push to %s: %w", queue, err)
	}
	log.Debug().Str("queue", queue).Str("job_id", job.ID).Str("invoice_id", job.InvoiceID).Msg("job enqueued")
	return nil
}
