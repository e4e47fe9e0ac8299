package service

import (
	"context"
	"testing"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/apperror"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	*lotFixture
	svc      ProductService
	products *stubProductRepo
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	lf := newLotFixture(t)
	products := newStubProductRepo()
	return &productFixture{
		lotFixture: lf,
		svc:        NewProductService(products, lf.lotRepo, lf.svc),
		products:   products,
	}
}

func TestCreateFromLot_MintsUnitsAndConsumesLot(t *testing.T) {
	f := newProductFixture(t)
	lot := f.createLot(t, "LOT-2026-020", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 10, "900")}, dto.LotCosts{})

	units, err := f.svc.CreateFromLot(context.Background(), dto.CreateProductsFromLotRequest{
		LotID:    lot.ID,
		ModelID:  f.pmodel.ID.String(),
		Quantity: 4,
	})
	require.NoError(t, err)
	require.Len(t, units, 4)

	serials := make(map[string]bool)
	for _, u := range units {
		assert.Equal(t, model.ProductStatusInStock, u.Status)
		assert.Contains(t, u.SerialNumber, "LOT-2026-020-")
		serials[u.SerialNumber] = true
	}
	assert.Len(t, serials, 4, "serial numbers must be unique")

	stored, err := f.lotFixture.svc.GetByID(context.Background(), uuid.MustParse(lot.ID))
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Items[0].UsedQuantity)
}

func TestCreateFromLot_RejectsOverConsumption(t *testing.T) {
	f := newProductFixture(t)
	lot := f.createLot(t, "LOT-2026-021", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 3, "900")}, dto.LotCosts{})

	_, err := f.svc.CreateFromLot(context.Background(), dto.CreateProductsFromLotRequest{
		LotID:    lot.ID,
		ModelID:  f.pmodel.ID.String(),
		Quantity: 5,
	})
	require.Error(t, err)
	assert.Equal(t, "Lot quantity exceeded. Remaining: 3, Requested: 5", err.Error())

	// No units minted on failure
	assert.Empty(t, f.products.products)
	stored, err := f.lotFixture.svc.GetByID(context.Background(), uuid.MustParse(lot.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Items[0].UsedQuantity)
}

func TestCreateFromLot_ModelNotInLot(t *testing.T) {
	f := newProductFixture(t)
	lot := f.createLot(t, "LOT-2026-022", []dto.LotItemSpec{sparePartItem(f.part.ID.String(), 5, "50")}, dto.LotCosts{})

	_, err := f.svc.CreateFromLot(context.Background(), dto.CreateProductsFromLotRequest{
		LotID:    lot.ID,
		ModelID:  f.pmodel.ID.String(),
		Quantity: 1,
	})
	require.Error(t, err)
	assert.Equal(t, "This lot does not contain this Product Model", err.Error())
}

func TestCreateFromLot_InheritsLotLocation(t *testing.T) {
	f := newProductFixture(t)
	branchID := f.branch.ID.String()

	lot, err := f.lotFixture.svc.Create(context.Background(), dto.CreateLotRequest{
		VendorID:     f.vendor.ID.String(),
		LotNumber:    "LOT-2026-023",
		PurchaseDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		BranchID:     &branchID,
		Items:        []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 2, "900")},
	})
	require.NoError(t, err)

	units, err := f.svc.CreateFromLot(context.Background(), dto.CreateProductsFromLotRequest{
		LotID:    lot.ID,
		ModelID:  f.pmodel.ID.String(),
		Quantity: 2,
	})
	require.NoError(t, err)
	for _, u := range units {
		require.NotNil(t, u.BranchID)
		assert.Equal(t, branchID, *u.BranchID)
	}
}

func TestUpdateProductStatus(t *testing.T) {
	f := newProductFixture(t)
	lot := f.createLot(t, "LOT-2026-024", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 1, "900")}, dto.LotCosts{})

	units, err := f.svc.CreateFromLot(context.Background(), dto.CreateProductsFromLotRequest{
		LotID:    lot.ID,
		ModelID:  f.pmodel.ID.String(),
		Quantity: 1,
	})
	require.NoError(t, err)
	id := uuid.MustParse(units[0].ID)

	require.NoError(t, f.svc.UpdateStatus(context.Background(), id, model.ProductStatusSold))
	p, err := f.svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusSold, p.Status)

	err = f.svc.UpdateStatus(context.Background(), id, "DESTROYED")
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
}
