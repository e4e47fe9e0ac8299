package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces dead-letter queues: dlq:queue:invoice, dlq:queue:email.
const DLQPrefix = "dlq:"

// DLQEntry wraps a job that exhausted its retries, with the final error.
type DLQEntry struct {
	Job      Job       `json:"job"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// SendToDLQ moves a permanently failed job to the queue's dead-letter list.
// Entries stay until an operator inspects and re-queues or discards them.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, jobErr error) {
	entry := DLQEntry{Job: job, Error: jobErr.Error(), FailedAt: time.Now().UTC()}
	payload, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("dlq: marshal entry failed")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, payload).Err(); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_id", job.ID).
		Str("invoice_id", job.InvoiceID).
		Str("error", jobErr.Error()).
		Msg("job moved to dead-letter queue")
}

// DLQLength reports the dead-letter depth for a queue, for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
