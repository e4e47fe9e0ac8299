package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement types.
const (
	MovementTypeLotIssue         = "lot_issue"
	MovementTypeManualAdjustment = "manual_adjustment"
)

// StockMovement records every spare-part stock change. Created automatically
// when stock is issued from a lot or adjusted manually.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SparePartID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null"`
	Quantity    int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	LotID       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	SparePart *SparePart `gorm:"foreignKey:SparePartID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
