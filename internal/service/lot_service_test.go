package service

import (
	"context"
	"testing"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/apperror"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lotFixture struct {
	svc     LotService
	lotRepo *stubLotRepo
	catalog *stubCatalogRepo
	vendor  *model.Vendor
	branch  *model.Branch
	pmodel  *model.ProductModel
	part    *model.SparePart
}

func newLotFixture(t *testing.T) *lotFixture {
	t.Helper()
	ctx := context.Background()

	vendorRepo := newStubVendorRepo()
	branchRepo := newStubBranchRepo()
	catalog := newStubCatalogRepo()
	lotRepo := newStubLotRepo(catalog)

	vendor := &model.Vendor{Name: "Canon Lanka", TaxID: "LK-1002003", Active: true}
	require.NoError(t, vendorRepo.Create(ctx, vendor))

	branch := &model.Branch{Name: "Colombo", Active: true}
	require.NoError(t, branchRepo.CreateBranch(ctx, branch))

	pmodel := &model.ProductModel{Brand: "Canon", Name: "imageRUNNER 2630i", ModelCode: "IR-2630I", Active: true}
	require.NoError(t, catalog.CreateModel(ctx, pmodel))

	part := &model.SparePart{Brand: "Canon", Name: "Drum Unit", ItemCode: "SP-DRUM0001", Active: true}
	require.NoError(t, catalog.CreateSparePartTx(nil, part))

	return &lotFixture{
		svc:     NewLotService(lotRepo, catalog, vendorRepo, branchRepo),
		lotRepo: lotRepo,
		catalog: catalog,
		vendor:  vendor,
		branch:  branch,
		pmodel:  pmodel,
		part:    part,
	}
}

func (f *lotFixture) createLot(t *testing.T, lotNumber string, items []dto.LotItemSpec, costs dto.LotCosts) *dto.LotResponse {
	t.Helper()
	lot, err := f.svc.Create(context.Background(), dto.CreateLotRequest{
		VendorID:     f.vendor.ID.String(),
		LotNumber:    lotNumber,
		PurchaseDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Items:        items,
		Costs:        costs,
	})
	require.NoError(t, err)
	return lot
}

func modelItem(modelID string, qty int, unitPrice string) dto.LotItemSpec {
	return dto.LotItemSpec{
		ItemType:  model.LotItemTypeModel,
		ModelID:   &modelID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(unitPrice),
	}
}

func sparePartItem(partID string, qty int, unitPrice string) dto.LotItemSpec {
	return dto.LotItemSpec{
		ItemType:    model.LotItemTypeSparePart,
		SparePartID: &partID,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(unitPrice),
	}
}

// ── Creation ─────────────────────────────────────────────────────────────────

func TestCreateLot_TotalIsItemsPlusCosts(t *testing.T) {
	f := newLotFixture(t)

	lot := f.createLot(t, "LOT-2026-001",
		[]dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 3, "500")},
		dto.LotCosts{
			Transportation: decimal.RequireFromString("100"),
			Documentation:  decimal.RequireFromString("40"),
			Labour:         decimal.RequireFromString("100"),
		})

	// 3 x 500 items + 240 costs
	assert.Equal(t, "1740", lot.TotalAmount.String())
	require.Len(t, lot.Items, 1)
	assert.Equal(t, 0, lot.Items[0].UsedQuantity)
	assert.Equal(t, 3, lot.Items[0].Remaining)
	assert.Equal(t, model.LotStatusPending, lot.Status)
}

func TestCreateLot_MixedItems(t *testing.T) {
	f := newLotFixture(t)

	lot := f.createLot(t, "LOT-2026-002",
		[]dto.LotItemSpec{
			modelItem(f.pmodel.ID.String(), 5, "100"),
			sparePartItem(f.part.ID.String(), 3, "50"),
		},
		dto.LotCosts{})

	// 5x100 + 3x50, no costs
	assert.Equal(t, "650", lot.TotalAmount.String())
	require.Len(t, lot.Items, 2)
	assert.Equal(t, "500", lot.Items[0].TotalPrice.String())
	assert.Equal(t, "150", lot.Items[1].TotalPrice.String())
}

func TestCreateLot_DuplicateNumberRejected(t *testing.T) {
	f := newLotFixture(t)
	f.createLot(t, "LOT-2026-003", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 1, "100")}, dto.LotCosts{})

	_, err := f.svc.Create(context.Background(), dto.CreateLotRequest{
		VendorID:     f.vendor.ID.String(),
		LotNumber:    "LOT-2026-003",
		PurchaseDate: time.Now(),
		Items:        []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 2, "200")},
	})
	require.Error(t, err)
	assert.Equal(t, "Lot number already exists", err.Error())
	assert.Equal(t, 400, apperror.StatusOf(err))

	// Nothing new persisted
	assert.Len(t, f.lotRepo.lots, 1)
}

func TestCreateLot_UnknownVendor(t *testing.T) {
	f := newLotFixture(t)

	_, err := f.svc.Create(context.Background(), dto.CreateLotRequest{
		VendorID:     uuid.NewString(),
		LotNumber:    "LOT-2026-004",
		PurchaseDate: time.Now(),
		Items:        []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 1, "100")},
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.StatusOf(err))
}

func TestCreateLot_ModelItemRequiresModelID(t *testing.T) {
	f := newLotFixture(t)

	_, err := f.svc.Create(context.Background(), dto.CreateLotRequest{
		VendorID:     f.vendor.ID.String(),
		LotNumber:    "LOT-2026-005",
		PurchaseDate: time.Now(),
		Items: []dto.LotItemSpec{{
			ItemType:  model.LotItemTypeModel,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("100"),
		}},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
	assert.Contains(t, err.Error(), "model_id is required")
	assert.Empty(t, f.lotRepo.lots)
}

func TestCreateLot_InlineSparePart(t *testing.T) {
	f := newLotFixture(t)
	branchID := f.branch.ID.String()
	brand, name := "Canon", "Fuser Film"

	lot, err := f.svc.Create(context.Background(), dto.CreateLotRequest{
		VendorID:     f.vendor.ID.String(),
		LotNumber:    "LOT-2026-006",
		PurchaseDate: time.Now(),
		BranchID:     &branchID,
		Items: []dto.LotItemSpec{{
			ItemType:  model.LotItemTypeSparePart,
			Brand:     &brand,
			Name:      &name,
			Quantity:  10,
			UnitPrice: decimal.RequireFromString("25"),
		}},
	})
	require.NoError(t, err)
	require.Len(t, lot.Items, 1)
	require.NotNil(t, lot.Items[0].SparePartID)

	// The inline part exists in the catalog with a generated item code
	partID := uuid.MustParse(*lot.Items[0].SparePartID)
	sp, err := f.catalog.FindSparePartByID(context.Background(), partID)
	require.NoError(t, err)
	assert.Equal(t, "Fuser Film", sp.Name)
	assert.Contains(t, sp.ItemCode, "SP-")
	require.NotNil(t, sp.BranchID)
	assert.Equal(t, f.branch.ID, *sp.BranchID)
}

func TestCreateLot_InlineSparePartNeedsBranch(t *testing.T) {
	f := newLotFixture(t)
	brand, name := "Canon", "Fuser Film"

	_, err := f.svc.Create(context.Background(), dto.CreateLotRequest{
		VendorID:     f.vendor.ID.String(),
		LotNumber:    "LOT-2026-007",
		PurchaseDate: time.Now(),
		Items: []dto.LotItemSpec{{
			ItemType:  model.LotItemTypeSparePart,
			Brand:     &brand,
			Name:      &name,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("25"),
		}},
	})
	require.Error(t, err)
	assert.Equal(t, "branch_id is required when creating a spare part inline", err.Error())
}

// ── Usage tracking ───────────────────────────────────────────────────────────

func TestTrackUsage_ConsumesQuantity(t *testing.T) {
	f := newLotFixture(t)
	lot := f.createLot(t, "LOT-2026-010", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 10, "100")}, dto.LotCosts{})

	err := f.svc.ValidateAndTrackUsage(context.Background(), dto.TrackUsageRequest{
		LotID:      lot.ID,
		ItemType:   model.LotItemTypeModel,
		Identifier: f.pmodel.ID.String(),
		Quantity:   6,
	}, nil)
	require.NoError(t, err)

	stored, err := f.svc.GetByID(context.Background(), uuid.MustParse(lot.ID))
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Items[0].UsedQuantity)
	assert.Equal(t, 4, stored.Items[0].Remaining)
}

func TestTrackUsage_ExceededQuantityRejected(t *testing.T) {
	f := newLotFixture(t)
	lot := f.createLot(t, "LOT-2026-011", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 10, "100")}, dto.LotCosts{})

	track := func(qty int) error {
		return f.svc.ValidateAndTrackUsage(context.Background(), dto.TrackUsageRequest{
			LotID:      lot.ID,
			ItemType:   model.LotItemTypeModel,
			Identifier: f.pmodel.ID.String(),
			Quantity:   qty,
		}, nil)
	}

	require.NoError(t, track(6))
	err := track(6)
	require.Error(t, err)
	assert.Equal(t, "Lot quantity exceeded. Remaining: 4, Requested: 6", err.Error())
	assert.Equal(t, 400, apperror.StatusOf(err))

	// The failed request must not move the counter
	stored, err := f.svc.GetByID(context.Background(), uuid.MustParse(lot.ID))
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Items[0].UsedQuantity)

	// Remaining 4 still consumable
	require.NoError(t, track(4))
	stored, err = f.svc.GetByID(context.Background(), uuid.MustParse(lot.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Items[0].Remaining)
}

func TestTrackUsage_UnknownModelInLot(t *testing.T) {
	f := newLotFixture(t)
	lot := f.createLot(t, "LOT-2026-012", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 5, "100")}, dto.LotCosts{})

	err := f.svc.ValidateAndTrackUsage(context.Background(), dto.TrackUsageRequest{
		LotID:      lot.ID,
		ItemType:   model.LotItemTypeModel,
		Identifier: uuid.NewString(),
		Quantity:   1,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, "This lot does not contain this Product Model", err.Error())

	stored, err := f.svc.GetByID(context.Background(), uuid.MustParse(lot.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Items[0].UsedQuantity)
}

func TestTrackUsage_UnknownSparePartInLot(t *testing.T) {
	f := newLotFixture(t)
	lot := f.createLot(t, "LOT-2026-013", []dto.LotItemSpec{sparePartItem(f.part.ID.String(), 5, "50")}, dto.LotCosts{})

	err := f.svc.ValidateAndTrackUsage(context.Background(), dto.TrackUsageRequest{
		LotID:      lot.ID,
		ItemType:   model.LotItemTypeSparePart,
		Identifier: "SP-MISSING1",
		Quantity:   1,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, "This lot does not contain this Spare Part", err.Error())
}

func TestTrackUsage_SparePartByItemCode(t *testing.T) {
	f := newLotFixture(t)
	lot := f.createLot(t, "LOT-2026-014", []dto.LotItemSpec{sparePartItem(f.part.ID.String(), 8, "50")}, dto.LotCosts{})

	err := f.svc.ValidateAndTrackUsage(context.Background(), dto.TrackUsageRequest{
		LotID:      lot.ID,
		ItemType:   model.LotItemTypeSparePart,
		Identifier: f.part.ItemCode,
		Quantity:   3,
	}, nil)
	require.NoError(t, err)

	stored, err := f.svc.GetByID(context.Background(), uuid.MustParse(lot.ID))
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Items[0].UsedQuantity)
}

// Documents the absence of request de-duplication: an identical request sent
// twice consumes twice. Callers that retry must de-duplicate upstream.
func TestTrackUsage_RetriedRequestDoubleCounts(t *testing.T) {
	f := newLotFixture(t)
	lot := f.createLot(t, "LOT-2026-015", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 10, "100")}, dto.LotCosts{})

	req := dto.TrackUsageRequest{
		LotID:      lot.ID,
		ItemType:   model.LotItemTypeModel,
		Identifier: f.pmodel.ID.String(),
		Quantity:   3,
	}
	require.NoError(t, f.svc.ValidateAndTrackUsage(context.Background(), req, nil))
	require.NoError(t, f.svc.ValidateAndTrackUsage(context.Background(), req, nil))

	stored, err := f.svc.GetByID(context.Background(), uuid.MustParse(lot.ID))
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Items[0].UsedQuantity)
}

func TestTrackUsage_ZeroQuantityRejected(t *testing.T) {
	f := newLotFixture(t)
	lot := f.createLot(t, "LOT-2026-016", []dto.LotItemSpec{modelItem(f.pmodel.ID.String(), 5, "100")}, dto.LotCosts{})

	err := f.svc.ValidateAndTrackUsage(context.Background(), dto.TrackUsageRequest{
		LotID:      lot.ID,
		ItemType:   model.LotItemTypeModel,
		Identifier: f.pmodel.ID.String(),
		Quantity:   0,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))
}
