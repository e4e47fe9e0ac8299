package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/devxtra-community/xerocare-sub000/internal/apperror"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService manages serialized product units. CreateFromLot is the
// intake flow: it mints N units for a model and consumes the same amount from
// the lot's MODEL item in one transaction, so units can never outnumber what
// was purchased.
type ProductService interface {
	CreateFromLot(ctx context.Context, req dto.CreateProductsFromLotRequest) ([]dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type productService struct {
	repo       repository.ProductRepository
	lotRepo    repository.LotRepository
	lotService LotService
}

func NewProductService(
	repo repository.ProductRepository,
	lotRepo repository.LotRepository,
	lotService LotService,
) ProductService {
	return &productService{repo: repo, lotRepo: lotRepo, lotService: lotService}
}

func (s *productService) CreateFromLot(ctx context.Context, req dto.CreateProductsFromLotRequest) ([]dto.ProductResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid lot_id")
	}
	modelID, err := uuid.Parse(req.ModelID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid model_id")
	}

	lot, err := s.lotRepo.FindByID(ctx, lotID)
	if err != nil {
		return nil, apperror.NotFound("Lot not found")
	}

	var branchID, warehouseID *uuid.UUID
	if req.BranchID != nil {
		id, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, apperror.BadRequest("Invalid branch_id")
		}
		branchID = &id
	} else {
		branchID = lot.BranchID
	}
	if req.WarehouseID != nil {
		id, err := uuid.Parse(*req.WarehouseID)
		if err != nil {
			return nil, apperror.BadRequest("Invalid warehouse_id")
		}
		warehouseID = &id
	} else {
		warehouseID = lot.WarehouseID
	}

	products := make([]model.Product, req.Quantity)
	txErr := runInTx(ctx, s.repo.DB(), nil, func(tx *gorm.DB) error {
		// Consume from the lot first; the row lock it takes serializes
		// concurrent intakes against the same item.
		if err := s.lotService.ValidateAndTrackUsage(ctx, dto.TrackUsageRequest{
			LotID:      req.LotID,
			ItemType:   model.LotItemTypeModel,
			Identifier: req.ModelID,
			Quantity:   req.Quantity,
		}, tx); err != nil {
			return err
		}

		for i := range products {
			products[i] = model.Product{
				SerialNumber: NewSerialNumber(lot.LotNumber),
				ModelID:      modelID,
				LotID:        &lotID,
				BranchID:     branchID,
				WarehouseID:  warehouseID,
				Status:       model.ProductStatusInStock,
			}
		}
		return s.repo.CreateBatchTx(tx, products)
	})
	if txErr != nil {
		return nil, txErr
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Product not found")
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, total, nil
}

func (s *productService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case model.ProductStatusInStock, model.ProductStatusSold, model.ProductStatusRented, model.ProductStatusLeased:
	default:
		return apperror.BadRequest("Invalid product status: " + status)
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperror.NotFound("Product not found")
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		SerialNumber: p.SerialNumber,
		ModelID:      p.ModelID.String(),
		LotID:        uuidPtrToString(p.LotID),
		BranchID:     uuidPtrToString(p.BranchID),
		WarehouseID:  uuidPtrToString(p.WarehouseID),
		Status:       p.Status,
	}
}

// NewSerialNumber generates a unit serial carrying its lot number for
// traceability. The uniqueIndex on products.serial_number is the backstop.
func NewSerialNumber(lotNumber string) string {
	return fmt.Sprintf("%s-%s", lotNumber, strings.ToUpper(uuid.NewString()[:8]))
}
