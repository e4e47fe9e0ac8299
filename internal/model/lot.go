package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotStatus values.
const (
	LotStatusPending   = "PENDING"
	LotStatusCompleted = "COMPLETED"
	LotStatusCancelled = "CANCELLED"
)

// LotItemType values. Exactly one of ModelID/SparePartID must be set per
// item — enforced by a DB check constraint (see infra.applySchemaPatches).
const (
	LotItemTypeModel     = "MODEL"
	LotItemTypeSparePart = "SPARE_PART"
)

// Lot is a purchase batch from one vendor, grouping multiple catalog items
// with shared landed costs. TotalAmount is computed at creation time from the
// item totals plus the six cost fields and is not recomputed afterwards; a
// lot is conceptually immutable once items have been partially consumed.
type Lot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LotNumber    string    `gorm:"uniqueIndex;not null"`
	VendorID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PurchaseDate time.Time `gorm:"not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'PENDING'"`

	TransportationCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DocumentationCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingCost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GroundFieldCost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CertificationCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LabourCost         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	BranchID    *uuid.UUID `gorm:"type:uuid;index"`
	WarehouseID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Vendor *Vendor   `gorm:"foreignKey:VendorID"`
	Items  []LotItem `gorm:"foreignKey:LotID;constraint:OnDelete:CASCADE"`
}

// CostTotal sums the six landed-cost fields.
func (l *Lot) CostTotal() decimal.Decimal {
	return l.TransportationCost.
		Add(l.DocumentationCost).
		Add(l.ShippingCost).
		Add(l.GroundFieldCost).
		Add(l.CertificationCost).
		Add(l.LabourCost)
}

// LotItem is one catalog item's allocation within a Lot. UsedQuantity is the
// only mutable field after creation; it is incremented exclusively by
// LotService.ValidateAndTrackUsage under a row lock and never decremented
// (there is no return-to-lot path).
type LotItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LotID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemType     string     `gorm:"type:varchar(20);not null"`
	ModelID      *uuid.UUID `gorm:"type:uuid;index"`
	SparePartID  *uuid.UUID `gorm:"type:uuid;index"`
	Quantity     int        `gorm:"not null"`
	UsedQuantity int        `gorm:"not null;default:0"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Model     *ProductModel `gorm:"foreignKey:ModelID"`
	SparePart *SparePart    `gorm:"foreignKey:SparePartID"`
}

// Remaining is the quantity still available for consumption.
func (li *LotItem) Remaining() int { return li.Quantity - li.UsedQuantity }
