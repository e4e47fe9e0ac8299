package repository

import (
	"context"

	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LotRepository is the data access contract for lots and their items.
// Tx-suffixed methods run inside a caller-owned transaction; services obtain
// one via DB().Transaction. FindItemForUpdate is the locked read that
// serializes concurrent consumers of the same lot item.
type LotRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lot *model.Lot) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lot, error)
	FindByNumberTx(tx *gorm.DB, number string) (*model.Lot, error)
	List(ctx context.Context, filter dto.LotFilter) ([]model.Lot, int64, error)

	// FindItemForUpdate matches a lot item by lot id + item type + identifier
	// (model id for MODEL, spare-part item code for SPARE_PART) and acquires a
	// row-level write lock held until the transaction ends.
	FindItemForUpdate(tx *gorm.DB, lotID uuid.UUID, itemType, identifier string) (*model.LotItem, error)

	// IncrementItemUsedTx adds delta to used_quantity. Callers must hold the
	// row lock from FindItemForUpdate in the same tx.
	IncrementItemUsedTx(tx *gorm.DB, itemID uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type lotRepo struct{ db *gorm.DB }

func NewLotRepository(db *gorm.DB) LotRepository { return &lotRepo{db: db} }

func (r *lotRepo) DB() *gorm.DB { return r.db }

func (r *lotRepo) Create(ctx context.Context, tx *gorm.DB, lot *model.Lot) error {
	// Association create persists the lot and all items in one statement batch.
	return tx.WithContext(ctx).Create(lot).Error
}

func (r *lotRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lot, error) {
	var lot model.Lot
	err := r.db.WithContext(ctx).Preload("Items").First(&lot, id).Error
	return &lot, err
}

func (r *lotRepo) FindByNumberTx(tx *gorm.DB, number string) (*model.Lot, error) {
	var lot model.Lot
	err := tx.Where("lot_number = ?", number).First(&lot).Error
	return &lot, err
}

func (r *lotRepo) List(ctx context.Context, filter dto.LotFilter) ([]model.Lot, int64, error) {
	var lots []model.Lot
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Lot{})
	if filter.VendorID != "" {
		q = q.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&lots).Error
	return lots, total, err
}

func (r *lotRepo) FindItemForUpdate(tx *gorm.DB, lotID uuid.UUID, itemType, identifier string) (*model.LotItem, error) {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lot_id = ? AND item_type = ?", lotID, itemType)

	switch itemType {
	case model.LotItemTypeModel:
		modelID, err := uuid.Parse(identifier)
		if err != nil {
			return nil, gorm.ErrRecordNotFound
		}
		q = q.Where("model_id = ?", modelID)
	case model.LotItemTypeSparePart:
		// Spare-part items are matched by the catalog item code, not the row
		// id. A subquery keeps the FOR UPDATE scoped to lot_items only.
		q = q.Where("spare_part_id IN (SELECT id FROM spare_parts WHERE item_code = ?)", identifier)
	default:
		return nil, gorm.ErrRecordNotFound
	}

	var item model.LotItem
	if err := q.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *lotRepo) IncrementItemUsedTx(tx *gorm.DB, itemID uuid.UUID, delta int) error {
	return tx.Model(&model.LotItem{}).Where("id = ?", itemID).
		Update("used_quantity", gorm.Expr("used_quantity + ?", delta)).Error
}
