package service

import (
	"context"

	"github.com/devxtra-community/xerocare-sub000/internal/apperror"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
)

type VendorService interface {
	Create(ctx context.Context, req dto.CreateVendorRequest) (*dto.VendorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.VendorResponse, error)
	List(ctx context.Context) ([]dto.VendorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateVendorRequest) (*dto.VendorResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type vendorService struct {
	repo repository.VendorRepository
}

func NewVendorService(repo repository.VendorRepository) VendorService {
	return &vendorService{repo: repo}
}

func (s *vendorService) Create(ctx context.Context, req dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	v := model.Vendor{
		Name:         req.Name,
		TaxID:        req.TaxID,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		PaymentTerms: req.PaymentTerms,
		Active:       true,
	}
	if err := s.repo.Create(ctx, &v); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("A vendor with this tax id already exists")
		}
		return nil, err
	}
	return vendorToResponse(&v), nil
}

func (s *vendorService) GetByID(ctx context.Context, id uuid.UUID) (*dto.VendorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Vendor not found")
	}
	return vendorToResponse(v), nil
}

func (s *vendorService) List(ctx context.Context) ([]dto.VendorResponse, error) {
	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorResponse, 0, len(vendors))
	for i := range vendors {
		out = append(out, *vendorToResponse(&vendors[i]))
	}
	return out, nil
}

// Update applies partial changes. TaxID is immutable once registered.
func (s *vendorService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateVendorRequest) (*dto.VendorResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Vendor not found")
	}
	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Phone != nil {
		v.Phone = req.Phone
	}
	if req.Email != nil {
		v.Email = req.Email
	}
	if req.Address != nil {
		v.Address = req.Address
	}
	if req.PaymentTerms != nil {
		v.PaymentTerms = req.PaymentTerms
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return vendorToResponse(v), nil
}

func (s *vendorService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperror.NotFound("Vendor not found")
	}
	return s.repo.SoftDelete(ctx, id)
}

func vendorToResponse(v *model.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:           v.ID.String(),
		Name:         v.Name,
		TaxID:        v.TaxID,
		Phone:        v.Phone,
		Email:        v.Email,
		Address:      v.Address,
		PaymentTerms: v.PaymentTerms,
		Active:       v.Active,
	}
}
