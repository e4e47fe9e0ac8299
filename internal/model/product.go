package model

import (
	"time"

	"github.com/google/uuid"
)

// Product status values.
const (
	ProductStatusInStock = "IN_STOCK"
	ProductStatusSold    = "SOLD"
	ProductStatusRented  = "RENTED"
	ProductStatusLeased  = "LEASED"
)

// Product is one serialized finished unit, created from a MODEL lot item
// during intake. LotID records which purchase batch it came from.
type Product struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SerialNumber string     `gorm:"uniqueIndex;not null"`
	ModelID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	LotID        *uuid.UUID `gorm:"type:uuid;index"`
	BranchID     *uuid.UUID `gorm:"type:uuid;index"`
	WarehouseID  *uuid.UUID `gorm:"type:uuid"`
	Status       string     `gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Model *ProductModel `gorm:"foreignKey:ModelID"`
	Lot   *Lot          `gorm:"foreignKey:LotID"`
}
