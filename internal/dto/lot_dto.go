package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LotItemSpec describes one line of a lot being created. MODEL items must
// reference an existing model; SPARE_PART items reference an existing spare
// part OR carry inline brand+name to create a new master record on the fly.
type LotItemSpec struct {
	ItemType    string          `json:"item_type"     validate:"required,oneof=MODEL SPARE_PART"`
	ModelID     *string         `json:"model_id"      validate:"omitempty,uuid"`
	SparePartID *string         `json:"spare_part_id" validate:"omitempty,uuid"`
	Brand       *string         `json:"brand"         validate:"omitempty,min=1,max=60"`
	Name        *string         `json:"name"          validate:"omitempty,min=1,max=120"`
	Quantity    int             `json:"quantity"      validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"    validate:"required"`
}

// LotCosts is the optional landed-cost breakdown. Missing fields default to 0.
type LotCosts struct {
	Transportation decimal.Decimal `json:"transportation"`
	Documentation  decimal.Decimal `json:"documentation"`
	Shipping       decimal.Decimal `json:"shipping"`
	GroundField    decimal.Decimal `json:"ground_field"`
	Certification  decimal.Decimal `json:"certification"`
	Labour         decimal.Decimal `json:"labour"`
}

// Total sums the six cost fields.
func (c LotCosts) Total() decimal.Decimal {
	return c.Transportation.
		Add(c.Documentation).
		Add(c.Shipping).
		Add(c.GroundField).
		Add(c.Certification).
		Add(c.Labour)
}

type CreateLotRequest struct {
	VendorID     string        `json:"vendor_id"     validate:"required,uuid"`
	LotNumber    string        `json:"lot_number"    validate:"required,min=3,max=40"`
	PurchaseDate time.Time     `json:"purchase_date" validate:"required"`
	BranchID     *string       `json:"branch_id"     validate:"omitempty,uuid"`
	WarehouseID  *string       `json:"warehouse_id"  validate:"omitempty,uuid"`
	Items        []LotItemSpec `json:"items"         validate:"required,min=1,dive"`
	Costs        LotCosts      `json:"costs"`
}

// TrackUsageRequest asks to consume quantity units from a lot. Identifier is
// the model id for MODEL items and the spare part's catalog item code for
// SPARE_PART items.
type TrackUsageRequest struct {
	LotID      string `json:"lot_id"     validate:"required,uuid"`
	ItemType   string `json:"item_type"  validate:"required,oneof=MODEL SPARE_PART"`
	Identifier string `json:"identifier" validate:"required"`
	Quantity   int    `json:"quantity"   validate:"required,gt=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type LotFilter struct {
	VendorID string `form:"vendor_id"`
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"   validate:"min=0"`
	Limit    int    `form:"limit,default=20" validate:"min=0,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LotItemResponse struct {
	ID           string          `json:"id"`
	ItemType     string          `json:"item_type"`
	ModelID      *string         `json:"model_id,omitempty"`
	SparePartID  *string         `json:"spare_part_id,omitempty"`
	Quantity     int             `json:"quantity"`
	UsedQuantity int             `json:"used_quantity"`
	Remaining    int             `json:"remaining"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type LotResponse struct {
	ID           string            `json:"id"`
	LotNumber    string            `json:"lot_number"`
	VendorID     string            `json:"vendor_id"`
	PurchaseDate string            `json:"purchase_date"`
	Status       string            `json:"status"`
	Costs        LotCosts          `json:"costs"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	BranchID     *string           `json:"branch_id,omitempty"`
	WarehouseID  *string           `json:"warehouse_id,omitempty"`
	Items        []LotItemResponse `json:"items"`
	CreatedAt    string            `json:"created_at"`
}

type LotListResponse struct {
	Data  []LotResponse `json:"data"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
