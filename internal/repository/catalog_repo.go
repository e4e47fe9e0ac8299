package repository

import (
	"context"

	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository covers both catalog aggregates: product models and spare
// parts. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type CatalogRepository interface {
	// Product models
	CreateModel(ctx context.Context, m *model.ProductModel) error
	FindModelByID(ctx context.Context, id uuid.UUID) (*model.ProductModel, error)
	FindModelByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ProductModel, error)
	ListModels(ctx context.Context, filter dto.CatalogFilter) ([]model.ProductModel, int64, error)
	UpdateModel(ctx context.Context, m *model.ProductModel) error
	DeactivateModel(ctx context.Context, id uuid.UUID) error

	// Spare parts
	CreateSparePartTx(tx *gorm.DB, sp *model.SparePart) error
	FindSparePartByID(ctx context.Context, id uuid.UUID) (*model.SparePart, error)
	FindSparePartByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SparePart, error)
	// FindSparePartForUpdate takes a row-level write lock; stock issuance
	// derives movement before/after values from this read.
	FindSparePartForUpdate(tx *gorm.DB, id uuid.UUID) (*model.SparePart, error)
	FindSparePartByItemCode(ctx context.Context, itemCode string) (*model.SparePart, error)
	ListSpareParts(ctx context.Context, filter dto.CatalogFilter) ([]model.SparePart, int64, error)
	UpdateSparePart(ctx context.Context, sp *model.SparePart) error
	DeactivateSparePart(ctx context.Context, id uuid.UUID) error
	AdjustSparePartStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	DB() *gorm.DB
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) DB() *gorm.DB { return r.db }

// ── Product models ───────────────────────────────────────────────────────────

func (r *catalogRepo) CreateModel(ctx context.Context, m *model.ProductModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *catalogRepo) FindModelByID(ctx context.Context, id uuid.UUID) (*model.ProductModel, error) {
	var m model.ProductModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *catalogRepo) FindModelByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ProductModel, error) {
	var m model.ProductModel
	err := tx.First(&m, id).Error
	return &m, err
}

func (r *catalogRepo) ListModels(ctx context.Context, filter dto.CatalogFilter) ([]model.ProductModel, int64, error) {
	var models []model.ProductModel
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("active = true")
	if filter.Brand != "" {
		q = q.Where("brand = ?", filter.Brand)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Offset(offset).Limit(filter.Limit).Find(&models).Error
	return models, total, err
}

func (r *catalogRepo) UpdateModel(ctx context.Context, m *model.ProductModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *catalogRepo) DeactivateModel(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("id = ?", id).Update("active", false).Error
}

// ── Spare parts ──────────────────────────────────────────────────────────────

func (r *catalogRepo) CreateSparePartTx(tx *gorm.DB, sp *model.SparePart) error {
	return tx.Create(sp).Error
}

func (r *catalogRepo) FindSparePartByID(ctx context.Context, id uuid.UUID) (*model.SparePart, error) {
	var sp model.SparePart
	err := r.db.WithContext(ctx).First(&sp, id).Error
	return &sp, err
}

func (r *catalogRepo) FindSparePartByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SparePart, error) {
	var sp model.SparePart
	err := tx.First(&sp, id).Error
	return &sp, err
}

func (r *catalogRepo) FindSparePartForUpdate(tx *gorm.DB, id uuid.UUID) (*model.SparePart, error) {
	var sp model.SparePart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sp, id).Error
	return &sp, err
}

func (r *catalogRepo) FindSparePartByItemCode(ctx context.Context, itemCode string) (*model.SparePart, error) {
	var sp model.SparePart
	err := r.db.WithContext(ctx).Where("item_code = ?", itemCode).First(&sp).Error
	return &sp, err
}

func (r *catalogRepo) ListSpareParts(ctx context.Context, filter dto.CatalogFilter) ([]model.SparePart, int64, error) {
	var parts []model.SparePart
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SparePart{}).Where("active = true")
	if filter.Brand != "" {
		q = q.Where("brand = ?", filter.Brand)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Offset(offset).Limit(filter.Limit).Find(&parts).Error
	return parts, total, err
}

func (r *catalogRepo) UpdateSparePart(ctx context.Context, sp *model.SparePart) error {
	return r.db.WithContext(ctx).Save(sp).Error
}

func (r *catalogRepo) DeactivateSparePart(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.SparePart{}).Where("id = ?", id).Update("active", false).Error
}

func (r *catalogRepo) AdjustSparePartStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.SparePart{}).Where("id = ?", id).
		Update("stock_on_hand", gorm.Expr("stock_on_hand + ?", delta)).Error
}
