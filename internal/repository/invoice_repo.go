package repository

import (
	"context"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	ListPendingRetries(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error)
	// ClearRetryMarker nulls next_retry_at only while the invoice is still
	// pending, so it cannot clobber a state change that raced in between.
	ClearRetryMarker(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Preload("Items").First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).Where("id = ?", id).Update("status", status).Error
}

func (r *invoiceRepo) NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	// Postgres sequence for atomic invoice numbering (created in schema patches)
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('invoices_number_seq')").Scan(&num).Error
	return num, err
}

func (r *invoiceRepo) ClearRetryMarker(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ? AND status = ?", id, model.InvoiceStatusPending).
		Update("next_retry_at", nil).Error
}

func (r *invoiceRepo) ListPendingRetries(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.InvoiceStatusPending, before).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&invoices).Error
	return invoices, err
}
