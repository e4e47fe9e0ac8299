package model

import (
	"time"

	"github.com/google/uuid"
)

// Vendor represents a supplier with commercial data.
type Vendor struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	TaxID        string    `gorm:"column:tax_id;uniqueIndex;not null"`
	Phone        *string
	Email        *string
	Address      *string
	PaymentTerms *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lots []Lot `gorm:"foreignKey:VendorID"`
}
