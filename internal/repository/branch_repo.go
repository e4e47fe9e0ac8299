package repository

import (
	"context"

	"github.com/devxtra-community/xerocare-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BranchRepository covers branches and their warehouses. Lot creation uses it
// to validate references and branch scoping of inline spare parts.
type BranchRepository interface {
	CreateBranch(ctx context.Context, b *model.Branch) error
	FindBranchByID(ctx context.Context, id uuid.UUID) (*model.Branch, error)
	ListBranches(ctx context.Context) ([]model.Branch, error)
	CreateWarehouse(ctx context.Context, w *model.Warehouse) error
	FindWarehouseByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
}

type branchRepo struct{ db *gorm.DB }

func NewBranchRepository(db *gorm.DB) BranchRepository { return &branchRepo{db: db} }

func (r *branchRepo) CreateBranch(ctx context.Context, b *model.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *branchRepo) FindBranchByID(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *branchRepo) ListBranches(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.WithContext(ctx).Where("active = true").Preload("Warehouses").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) CreateWarehouse(ctx context.Context, w *model.Warehouse) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *branchRepo) FindWarehouseByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).First(&w, id).Error
	return &w, err
}
