package service

import (
	"context"

	"github.com/devxtra-community/xerocare-sub000/internal/apperror"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages the two master-data aggregates (product models and
// spare parts) and the lot-to-stock issuance flow for spare parts.
type CatalogService interface {
	CreateModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error)
	GetModel(ctx context.Context, id uuid.UUID) (*dto.ModelResponse, error)
	ListModels(ctx context.Context, filter dto.CatalogFilter) ([]dto.ModelResponse, int64, error)
	DeactivateModel(ctx context.Context, id uuid.UUID) error

	CreateSparePart(ctx context.Context, req dto.CreateSparePartRequest) (*dto.SparePartResponse, error)
	GetSparePart(ctx context.Context, id uuid.UUID) (*dto.SparePartResponse, error)
	ListSpareParts(ctx context.Context, filter dto.CatalogFilter) ([]dto.SparePartResponse, int64, error)
	DeactivateSparePart(ctx context.Context, id uuid.UUID) error

	IssueFromLot(ctx context.Context, req dto.IssueStockRequest) (*dto.SparePartResponse, error)
	StockHistory(ctx context.Context, sparePartID uuid.UUID, limit int) ([]model.StockMovement, error)
}

type catalogService struct {
	repo         repository.CatalogRepository
	movementRepo repository.StockMovementRepository
	lotService   LotService
}

func NewCatalogService(
	repo repository.CatalogRepository,
	movementRepo repository.StockMovementRepository,
	lotService LotService,
) CatalogService {
	return &catalogService{repo: repo, movementRepo: movementRepo, lotService: lotService}
}

// ── Product models ───────────────────────────────────────────────────────────

func (s *catalogService) CreateModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	m := model.ProductModel{
		Brand:       req.Brand,
		Name:        req.Name,
		ModelCode:   req.ModelCode,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.CreateModel(ctx, &m); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("A model with this code already exists")
		}
		return nil, err
	}
	return modelToResponse(&m), nil
}

func (s *catalogService) GetModel(ctx context.Context, id uuid.UUID) (*dto.ModelResponse, error) {
	m, err := s.repo.FindModelByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Product Model not found")
	}
	return modelToResponse(m), nil
}

func (s *catalogService) ListModels(ctx context.Context, filter dto.CatalogFilter) ([]dto.ModelResponse, int64, error) {
	normalizeCatalogFilter(&filter)
	models, total, err := s.repo.ListModels(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ModelResponse, 0, len(models))
	for i := range models {
		out = append(out, *modelToResponse(&models[i]))
	}
	return out, total, nil
}

func (s *catalogService) DeactivateModel(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindModelByID(ctx, id); err != nil {
		return apperror.NotFound("Product Model not found")
	}
	return s.repo.DeactivateModel(ctx, id)
}

// ── Spare parts ──────────────────────────────────────────────────────────────

func (s *catalogService) CreateSparePart(ctx context.Context, req dto.CreateSparePartRequest) (*dto.SparePartResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	sp := model.SparePart{
		Brand:    req.Brand,
		Name:     req.Name,
		ItemCode: NewItemCode(),
		Active:   true,
	}
	if req.BranchID != nil {
		id, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, apperror.BadRequest("Invalid branch_id")
		}
		sp.BranchID = &id
	}
	if req.ModelID != nil {
		id, err := uuid.Parse(*req.ModelID)
		if err != nil {
			return nil, apperror.BadRequest("Invalid model_id")
		}
		if _, err := s.repo.FindModelByID(ctx, id); err != nil {
			return nil, apperror.NotFound("Product Model not found")
		}
		sp.ModelID = &id
	}
	err := runInTx(ctx, s.repo.DB(), nil, func(tx *gorm.DB) error {
		return s.repo.CreateSparePartTx(tx, &sp)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("A spare part with this item code already exists")
		}
		return nil, err
	}
	return sparePartToResponse(&sp), nil
}

func (s *catalogService) GetSparePart(ctx context.Context, id uuid.UUID) (*dto.SparePartResponse, error) {
	sp, err := s.repo.FindSparePartByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Spare Part not found")
	}
	return sparePartToResponse(sp), nil
}

func (s *catalogService) ListSpareParts(ctx context.Context, filter dto.CatalogFilter) ([]dto.SparePartResponse, int64, error) {
	normalizeCatalogFilter(&filter)
	parts, total, err := s.repo.ListSpareParts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SparePartResponse, 0, len(parts))
	for i := range parts {
		out = append(out, *sparePartToResponse(&parts[i]))
	}
	return out, total, nil
}

func (s *catalogService) DeactivateSparePart(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindSparePartByID(ctx, id); err != nil {
		return apperror.NotFound("Spare Part not found")
	}
	return s.repo.DeactivateSparePart(ctx, id)
}

// ── Lot issuance ─────────────────────────────────────────────────────────────
// One transaction: consume from the lot (row-locked), bump stock_on_hand,
// write the movement row. Any failure rolls all three back.

func (s *catalogService) IssueFromLot(ctx context.Context, req dto.IssueStockRequest) (*dto.SparePartResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	partID, err := uuid.Parse(req.SparePartID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid spare_part_id")
	}

	sp, err := s.repo.FindSparePartByID(ctx, partID)
	if err != nil {
		return nil, apperror.NotFound("Spare Part not found")
	}
	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid lot_id")
	}

	var issued *model.SparePart
	txErr := runInTx(ctx, s.repo.DB(), nil, func(tx *gorm.DB) error {
		// Lot items reference spare parts by catalog item code
		if err := s.lotService.ValidateAndTrackUsage(ctx, dto.TrackUsageRequest{
			LotID:      req.LotID,
			ItemType:   model.LotItemTypeSparePart,
			Identifier: sp.ItemCode,
			Quantity:   req.Quantity,
		}, tx); err != nil {
			return err
		}

		// Locked read inside the tx: concurrent issuances serialize here, so
		// the movement's before/after always matches the actual stock level.
		current, err := s.repo.FindSparePartForUpdate(tx, partID)
		if err != nil {
			return err
		}

		if err := s.repo.AdjustSparePartStockTx(tx, partID, req.Quantity); err != nil {
			return err
		}

		if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
			SparePartID: partID,
			Type:        model.MovementTypeLotIssue,
			Quantity:    req.Quantity,
			StockBefore: current.StockOnHand,
			StockAfter:  current.StockOnHand + req.Quantity,
			Reason:      req.Reason,
			LotID:       &lotID,
		}); err != nil {
			return err
		}

		current.StockOnHand += req.Quantity
		issued = current
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return sparePartToResponse(issued), nil
}

func (s *catalogService) StockHistory(ctx context.Context, sparePartID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if _, err := s.repo.FindSparePartByID(ctx, sparePartID); err != nil {
		return nil, apperror.NotFound("Spare Part not found")
	}
	return s.movementRepo.ListBySparePart(ctx, sparePartID, limit)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func modelToResponse(m *model.ProductModel) *dto.ModelResponse {
	return &dto.ModelResponse{
		ID:          m.ID.String(),
		Brand:       m.Brand,
		Name:        m.Name,
		ModelCode:   m.ModelCode,
		Description: m.Description,
		Active:      m.Active,
	}
}

func sparePartToResponse(sp *model.SparePart) *dto.SparePartResponse {
	return &dto.SparePartResponse{
		ID:          sp.ID.String(),
		Brand:       sp.Brand,
		Name:        sp.Name,
		ItemCode:    sp.ItemCode,
		BranchID:    uuidPtrToString(sp.BranchID),
		ModelID:     uuidPtrToString(sp.ModelID),
		StockOnHand: sp.StockOnHand,
		Active:      sp.Active,
	}
}

func normalizeCatalogFilter(f *dto.CatalogFilter) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
}
