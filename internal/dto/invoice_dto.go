package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceItemSpec struct {
	Description string          `json:"description" validate:"required,min=1,max=200"`
	Quantity    int             `json:"quantity"    validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"  validate:"required"`
}

type CreateInvoiceRequest struct {
	Type          string            `json:"type"           validate:"required,oneof=sale rent lease"`
	CustomerName  string            `json:"customer_name"  validate:"required,min=2,max=120"`
	CustomerEmail *string           `json:"customer_email" validate:"omitempty,email"`
	PeriodStart   *time.Time        `json:"period_start"`
	PeriodEnd     *time.Time        `json:"period_end"`
	Items         []InvoiceItemSpec `json:"items"          validate:"required,min=1,dive"`
}

type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber int64                 `json:"invoice_number"`
	Type          string                `json:"type"`
	CustomerName  string                `json:"customer_name"`
	CustomerEmail *string               `json:"customer_email,omitempty"`
	PeriodStart   *time.Time            `json:"period_start,omitempty"`
	PeriodEnd     *time.Time            `json:"period_end,omitempty"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	PDFPath       *string               `json:"pdf_path,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
	CreatedAt     string                `json:"created_at"`
}
