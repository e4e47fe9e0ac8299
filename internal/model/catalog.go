package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel is a finished-product catalog entry (e.g. a printer model).
type ProductModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Brand       string    `gorm:"not null"`
	Name        string    `gorm:"index;not null"`
	ModelCode   string    `gorm:"uniqueIndex;not null"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SparePart is a replacement-part catalog entry, optionally tied to a
// ProductModel. ItemCode is generated at creation and is the identifier lot
// consumption matches on — several catalog entries may trace back to the same
// lot, so LotItems are never matched by their own row id.
type SparePart struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Brand       string     `gorm:"not null"`
	Name        string     `gorm:"index;not null"`
	ItemCode    string     `gorm:"uniqueIndex;not null"`
	BranchID    *uuid.UUID `gorm:"type:uuid;index"`
	ModelID     *uuid.UUID `gorm:"type:uuid;index"`
	StockOnHand int        `gorm:"not null;default:0"`
	Active      bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Model *ProductModel `gorm:"foreignKey:ModelID"`
}
