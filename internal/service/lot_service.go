package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devxtra-community/xerocare-sub000/internal/apperror"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LotService owns purchase lots and their consumption tracking.
//
// ValidateAndTrackUsage is the concurrency-sensitive operation: it acquires a
// row-level write lock on the matched lot item so that concurrent consumers
// serialize, guaranteeing the sum of successful consumptions never exceeds
// the purchased quantity. Callers already inside a transaction (product
// intake, stock issuance) pass their tx so the reservation commits or rolls
// back with the rest of their work.
//
// There is no idempotency key: retrying an already-applied request
// double-counts. Callers must de-duplicate upstream.
type LotService interface {
	Create(ctx context.Context, req dto.CreateLotRequest) (*dto.LotResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.LotResponse, error)
	List(ctx context.Context, filter dto.LotFilter) (*dto.LotListResponse, error)
	ValidateAndTrackUsage(ctx context.Context, req dto.TrackUsageRequest, tx *gorm.DB) error
}

type lotService struct {
	repo        repository.LotRepository
	catalogRepo repository.CatalogRepository
	vendorRepo  repository.VendorRepository
	branchRepo  repository.BranchRepository
}

func NewLotService(
	repo repository.LotRepository,
	catalogRepo repository.CatalogRepository,
	vendorRepo repository.VendorRepository,
	branchRepo repository.BranchRepository,
) LotService {
	return &lotService{
		repo:        repo,
		catalogRepo: catalogRepo,
		vendorRepo:  vendorRepo,
		branchRepo:  branchRepo,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// One atomic transaction:
//  1. lot number uniqueness check (unique DB constraint is the backstop)
//  2. per-item resolution — MODEL requires an existing model id; SPARE_PART
//     takes an existing id or inline brand+name (new master record scoped to
//     the submitting branch, with a generated item code)
//  3. total_amount = Σ item totals + Σ cost fields
//  4. any failure rolls everything back — no partial lot may ever exist

func (s *lotService) Create(ctx context.Context, req dto.CreateLotRequest) (*dto.LotResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid vendor_id")
	}
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return nil, apperror.NotFound("Vendor not found")
	}

	var branchID *uuid.UUID
	if req.BranchID != nil {
		id, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, apperror.BadRequest("Invalid branch_id")
		}
		if _, err := s.branchRepo.FindBranchByID(ctx, id); err != nil {
			return nil, apperror.NotFound("Branch not found")
		}
		branchID = &id
	}
	var warehouseID *uuid.UUID
	if req.WarehouseID != nil {
		id, err := uuid.Parse(*req.WarehouseID)
		if err != nil {
			return nil, apperror.BadRequest("Invalid warehouse_id")
		}
		if _, err := s.branchRepo.FindWarehouseByID(ctx, id); err != nil {
			return nil, apperror.NotFound("Warehouse not found")
		}
		warehouseID = &id
	}

	var lot model.Lot
	txErr := runInTx(ctx, s.repo.DB(), nil, func(tx *gorm.DB) error {
		// 1. Uniqueness inside the tx scope
		if _, err := s.repo.FindByNumberTx(tx, req.LotNumber); err == nil {
			return apperror.BadRequest("Lot number already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 2. Resolve items
		items := make([]model.LotItem, 0, len(req.Items))
		itemsTotal := decimal.Zero
		for i, spec := range req.Items {
			item, err := s.resolveItem(tx, spec, branchID, i)
			if err != nil {
				return err
			}
			itemsTotal = itemsTotal.Add(item.TotalPrice)
			items = append(items, *item)
		}

		// 3. Derived total
		lot = model.Lot{
			LotNumber:          req.LotNumber,
			VendorID:           vendorID,
			PurchaseDate:       req.PurchaseDate,
			Status:             model.LotStatusPending,
			TransportationCost: req.Costs.Transportation,
			DocumentationCost:  req.Costs.Documentation,
			ShippingCost:       req.Costs.Shipping,
			GroundFieldCost:    req.Costs.GroundField,
			CertificationCost:  req.Costs.Certification,
			LabourCost:         req.Costs.Labour,
			TotalAmount:        itemsTotal.Add(req.Costs.Total()),
			BranchID:           branchID,
			WarehouseID:        warehouseID,
			Items:              items,
		}

		// 4. Persist lot + items together
		if err := s.repo.Create(ctx, tx, &lot); err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("Lot number already exists")
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return lotToResponse(&lot), nil
}

// resolveItem turns one request spec into a LotItem, creating an inline spare
// part master record when brand+name is given instead of an id.
func (s *lotService) resolveItem(tx *gorm.DB, spec dto.LotItemSpec, branchID *uuid.UUID, idx int) (*model.LotItem, error) {
	item := model.LotItem{
		ItemType:     spec.ItemType,
		Quantity:     spec.Quantity,
		UsedQuantity: 0,
		UnitPrice:    spec.UnitPrice,
		TotalPrice:   spec.UnitPrice.Mul(decimal.NewFromInt(int64(spec.Quantity))),
	}

	switch spec.ItemType {
	case model.LotItemTypeModel:
		if spec.ModelID == nil {
			return nil, apperror.BadRequest(fmt.Sprintf("Item %d: model_id is required for MODEL items", idx+1))
		}
		modelID, err := uuid.Parse(*spec.ModelID)
		if err != nil {
			return nil, apperror.BadRequest(fmt.Sprintf("Item %d: invalid model_id", idx+1))
		}
		if _, err := s.catalogRepo.FindModelByIDTx(tx, modelID); err != nil {
			return nil, apperror.NotFound("Product Model not found")
		}
		item.ModelID = &modelID

	case model.LotItemTypeSparePart:
		switch {
		case spec.SparePartID != nil:
			partID, err := uuid.Parse(*spec.SparePartID)
			if err != nil {
				return nil, apperror.BadRequest(fmt.Sprintf("Item %d: invalid spare_part_id", idx+1))
			}
			if _, err := s.catalogRepo.FindSparePartByIDTx(tx, partID); err != nil {
				return nil, apperror.NotFound("Spare Part not found")
			}
			item.SparePartID = &partID

		case spec.Brand != nil && spec.Name != nil:
			// Inline creation: scoped to the submitting branch, with a
			// generated unique item code.
			if branchID == nil {
				return nil, apperror.BadRequest("branch_id is required when creating a spare part inline")
			}
			sp := &model.SparePart{
				Brand:    *spec.Brand,
				Name:     *spec.Name,
				ItemCode: NewItemCode(),
				BranchID: branchID,
				Active:   true,
			}
			if err := s.catalogRepo.CreateSparePartTx(tx, sp); err != nil {
				return nil, err
			}
			item.SparePartID = &sp.ID

		default:
			return nil, apperror.BadRequest(fmt.Sprintf("Item %d: spare_part_id or brand+name is required for SPARE_PART items", idx+1))
		}
	}

	return &item, nil
}

// ── ValidateAndTrackUsage ─────────────────────────────────────────────────────
// Atomic check-then-increment under a row lock:
//  1. reuse the caller's tx if supplied, else open one
//  2. locked read of the matching lot item (SELECT ... FOR UPDATE)
//  3. no match → 400, nothing locked, nothing written
//  4. requested > remaining → 400 with exact counts; tx rollback releases the lock
//  5. else used_quantity += requested inside the same tx

func (s *lotService) ValidateAndTrackUsage(ctx context.Context, req dto.TrackUsageRequest, tx *gorm.DB) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		return apperror.BadRequest("Invalid lot_id")
	}

	return runInTx(ctx, s.repo.DB(), tx, func(tx *gorm.DB) error {
		item, err := s.repo.FindItemForUpdate(tx, lotID, req.ItemType, req.Identifier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.BadRequest("This lot does not contain this " + itemTypeLabel(req.ItemType))
			}
			return err
		}

		remaining := item.Remaining()
		if req.Quantity > remaining {
			return apperror.BadRequest(fmt.Sprintf(
				"Lot quantity exceeded. Remaining: %d, Requested: %d", remaining, req.Quantity))
		}

		return s.repo.IncrementItemUsedTx(tx, item.ID, req.Quantity)
	})
}

func itemTypeLabel(itemType string) string {
	if itemType == model.LotItemTypeSparePart {
		return "Spare Part"
	}
	return "Product Model"
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *lotService) GetByID(ctx context.Context, id uuid.UUID) (*dto.LotResponse, error) {
	lot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Lot not found")
	}
	return lotToResponse(lot), nil
}

func (s *lotService) List(ctx context.Context, filter dto.LotFilter) (*dto.LotListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	lots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LotResponse, 0, len(lots))
	for i := range lots {
		data = append(data, *lotToResponse(&lots[i]))
	}
	return &dto.LotListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func lotToResponse(l *model.Lot) *dto.LotResponse {
	items := make([]dto.LotItemResponse, 0, len(l.Items))
	for _, item := range l.Items {
		items = append(items, dto.LotItemResponse{
			ID:           item.ID.String(),
			ItemType:     item.ItemType,
			ModelID:      uuidPtrToString(item.ModelID),
			SparePartID:  uuidPtrToString(item.SparePartID),
			Quantity:     item.Quantity,
			UsedQuantity: item.UsedQuantity,
			Remaining:    item.Remaining(),
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
		})
	}
	return &dto.LotResponse{
		ID:           l.ID.String(),
		LotNumber:    l.LotNumber,
		VendorID:     l.VendorID.String(),
		PurchaseDate: l.PurchaseDate.Format("2006-01-02"),
		Status:       l.Status,
		Costs: dto.LotCosts{
			Transportation: l.TransportationCost,
			Documentation:  l.DocumentationCost,
			Shipping:       l.ShippingCost,
			GroundField:    l.GroundFieldCost,
			Certification:  l.CertificationCost,
			Labour:         l.LabourCost,
		},
		TotalAmount: l.TotalAmount,
		BranchID:    uuidPtrToString(l.BranchID),
		WarehouseID: uuidPtrToString(l.WarehouseID),
		Items:       items,
		CreatedAt:   l.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// NewItemCode generates a unique spare-part item code. The uniqueIndex on
// spare_parts.item_code is the backstop against the (negligible) collision.
func NewItemCode() string {
	return "SP-" + strings.ToUpper(uuid.NewString()[:8])
}

// isUniqueViolation detects a Postgres duplicate-key error surfaced through
// GORM without binding to the driver error type.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "SQLSTATE 23505")
}
