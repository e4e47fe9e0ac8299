package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice types and statuses.
// Type: "sale" | "rent" | "lease"
// Status: "pending" | "issued" | "cancelled" | "error"
const (
	InvoiceTypeSale  = "sale"
	InvoiceTypeRent  = "rent"
	InvoiceTypeLease = "lease"

	InvoiceStatusPending   = "pending"
	InvoiceStatusIssued    = "issued"
	InvoiceStatusCancelled = "cancelled"
	InvoiceStatusError     = "error"
)

// Invoice is a customer invoice for a sale, rental, or lease. PDF generation
// and email delivery happen asynchronously in the worker pool; the retry
// fields drive the retry cron for invoices stuck in "pending".
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber int64     `gorm:"uniqueIndex;not null"`
	Type          string    `gorm:"type:varchar(10);not null"`
	CustomerName  string    `gorm:"not null"`
	CustomerEmail *string
	// Billing period — rent/lease only
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending'"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath *string `gorm:"column:pdf_path"`
	// Retry fields — used by the retry cron to re-attempt failed processing
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// InvoiceItem is one billed line.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
