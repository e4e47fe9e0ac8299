package service

import (
	"context"

	"github.com/devxtra-community/xerocare-sub000/internal/apperror"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceEnqueuer pushes an invoice onto the async processing queue. The
// worker dispatcher satisfies this; services never talk to Redis directly.
type InvoiceEnqueuer interface {
	EnqueueInvoice(ctx context.Context, invoiceID uuid.UUID) error
}

// InvoiceService creates invoices synchronously and hands PDF generation and
// email delivery to the worker pool. A failed enqueue is not fatal: the retry
// cron picks up pending invoices whose next_retry_at has elapsed.
type InvoiceService interface {
	Create(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	repo       repository.InvoiceRepository
	dispatcher InvoiceEnqueuer
}

func NewInvoiceService(repo repository.InvoiceRepository, dispatcher InvoiceEnqueuer) InvoiceService {
	return &invoiceService{repo: repo, dispatcher: dispatcher}
}

func (s *invoiceService) Create(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Type != model.InvoiceTypeSale && (req.PeriodStart == nil || req.PeriodEnd == nil) {
		return nil, apperror.BadRequest("period_start and period_end are required for rent and lease invoices")
	}
	if req.PeriodStart != nil && req.PeriodEnd != nil && req.PeriodEnd.Before(*req.PeriodStart) {
		return nil, apperror.BadRequest("period_end must not be before period_start")
	}

	items := make([]model.InvoiceItem, 0, len(req.Items))
	total := decimal.Zero
	for _, spec := range req.Items {
		lineTotal := spec.UnitPrice.Mul(decimal.NewFromInt(int64(spec.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, model.InvoiceItem{
			Description: spec.Description,
			Quantity:    spec.Quantity,
			UnitPrice:   spec.UnitPrice,
			TotalPrice:  lineTotal,
		})
	}

	var inv model.Invoice
	txErr := runInTx(ctx, s.repo.DB(), nil, func(tx *gorm.DB) error {
		num, err := s.repo.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}
		inv = model.Invoice{
			InvoiceNumber: num,
			Type:          req.Type,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			PeriodStart:   req.PeriodStart,
			PeriodEnd:     req.PeriodEnd,
			TotalAmount:   total,
			Status:        model.InvoiceStatusPending,
			Items:         items,
		}
		return s.repo.Create(ctx, tx, &inv)
	})
	if txErr != nil {
		return nil, txErr
	}

	// The invoice row is committed; the retry cron recovers from enqueue loss.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueInvoice(ctx, inv.ID); err != nil {
			log.Warn().Err(err).
				Str("invoice_id", inv.ID.String()).
				Msg("invoice enqueue failed, retry cron will pick it up")
		}
	}

	return invoiceToResponse(&inv), nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Invoice not found")
	}
	return invoiceToResponse(inv), nil
}

// Cancel marks a pending or issued invoice as cancelled. Workers re-check
// status before processing, so cancelling a queued invoice is safe.
func (s *invoiceService) Cancel(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperror.NotFound("Invoice not found")
	}
	if inv.Status == model.InvoiceStatusCancelled {
		return apperror.BadRequest("Invoice is already cancelled")
	}
	return s.repo.UpdateStatus(ctx, id, model.InvoiceStatusCancelled)
}

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return &dto.InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Type:          inv.Type,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		PeriodStart:   inv.PeriodStart,
		PeriodEnd:     inv.PeriodEnd,
		TotalAmount:   inv.TotalAmount,
		Status:        inv.Status,
		PDFPath:       inv.PDFPath,
		Items:         items,
		CreatedAt:     inv.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
