package service

import (
	"context"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/model"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory stubs. DB() returns nil, which puts runInTx into pass-through
// mode, so service logic runs without a database. Not safe for concurrent
// use — unit tests here are sequential.

// ── Vendor ───────────────────────────────────────────────────────────────────

type stubVendorRepo struct {
	vendors map[uuid.UUID]*model.Vendor
}

var _ repository.VendorRepository = (*stubVendorRepo)(nil)

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{vendors: make(map[uuid.UUID]*model.Vendor)}
}

func (s *stubVendorRepo) Create(_ context.Context, v *model.Vendor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	s.vendors[v.ID] = v
	return nil
}

func (s *stubVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendor, error) {
	v, ok := s.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (s *stubVendorRepo) List(_ context.Context) ([]model.Vendor, error) {
	out := make([]model.Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		if v.Active {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *stubVendorRepo) Update(_ context.Context, v *model.Vendor) error {
	s.vendors[v.ID] = v
	return nil
}

func (s *stubVendorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if v, ok := s.vendors[id]; ok {
		v.Active = false
	}
	return nil
}

// ── Branch ───────────────────────────────────────────────────────────────────

type stubBranchRepo struct {
	branches   map[uuid.UUID]*model.Branch
	warehouses map[uuid.UUID]*model.Warehouse
}

var _ repository.BranchRepository = (*stubBranchRepo)(nil)

func newStubBranchRepo() *stubBranchRepo {
	return &stubBranchRepo{
		branches:   make(map[uuid.UUID]*model.Branch),
		warehouses: make(map[uuid.UUID]*model.Warehouse),
	}
}

func (s *stubBranchRepo) CreateBranch(_ context.Context, b *model.Branch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.branches[b.ID] = b
	return nil
}

func (s *stubBranchRepo) FindBranchByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := s.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (s *stubBranchRepo) ListBranches(_ context.Context) ([]model.Branch, error) {
	out := make([]model.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		out = append(out, *b)
	}
	return out, nil
}

func (s *stubBranchRepo) CreateWarehouse(_ context.Context, w *model.Warehouse) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	s.warehouses[w.ID] = w
	return nil
}

func (s *stubBranchRepo) FindWarehouseByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	w, ok := s.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

type stubCatalogRepo struct {
	models map[uuid.UUID]*model.ProductModel
	parts  map[uuid.UUID]*model.SparePart
}

var _ repository.CatalogRepository = (*stubCatalogRepo)(nil)

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		models: make(map[uuid.UUID]*model.ProductModel),
		parts:  make(map[uuid.UUID]*model.SparePart),
	}
}

func (s *stubCatalogRepo) DB() *gorm.DB { return nil }

func (s *stubCatalogRepo) CreateModel(_ context.Context, m *model.ProductModel) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.models[m.ID] = m
	return nil
}

func (s *stubCatalogRepo) FindModelByID(_ context.Context, id uuid.UUID) (*model.ProductModel, error) {
	m, ok := s.models[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (s *stubCatalogRepo) FindModelByIDTx(_ *gorm.DB, id uuid.UUID) (*model.ProductModel, error) {
	return s.FindModelByID(context.Background(), id)
}

func (s *stubCatalogRepo) ListModels(_ context.Context, _ dto.CatalogFilter) ([]model.ProductModel, int64, error) {
	out := make([]model.ProductModel, 0, len(s.models))
	for _, m := range s.models {
		if m.Active {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubCatalogRepo) UpdateModel(_ context.Context, m *model.ProductModel) error {
	s.models[m.ID] = m
	return nil
}

func (s *stubCatalogRepo) DeactivateModel(_ context.Context, id uuid.UUID) error {
	if m, ok := s.models[id]; ok {
		m.Active = false
	}
	return nil
}

func (s *stubCatalogRepo) CreateSparePartTx(_ *gorm.DB, sp *model.SparePart) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	s.parts[sp.ID] = sp
	return nil
}

// Reads return detached copies, as a real DB round trip would. Snapshots kept
// across writes go stale the same way they would against Postgres.
func (s *stubCatalogRepo) FindSparePartByID(_ context.Context, id uuid.UUID) (*model.SparePart, error) {
	sp, ok := s.parts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sp
	return &cp, nil
}

func (s *stubCatalogRepo) FindSparePartByIDTx(_ *gorm.DB, id uuid.UUID) (*model.SparePart, error) {
	return s.FindSparePartByID(context.Background(), id)
}

func (s *stubCatalogRepo) FindSparePartForUpdate(_ *gorm.DB, id uuid.UUID) (*model.SparePart, error) {
	return s.FindSparePartByID(context.Background(), id)
}

func (s *stubCatalogRepo) FindSparePartByItemCode(_ context.Context, itemCode string) (*model.SparePart, error) {
	for _, sp := range s.parts {
		if sp.ItemCode == itemCode {
			return sp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListSpareParts(_ context.Context, _ dto.CatalogFilter) ([]model.SparePart, int64, error) {
	out := make([]model.SparePart, 0, len(s.parts))
	for _, sp := range s.parts {
		if sp.Active {
			out = append(out, *sp)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubCatalogRepo) UpdateSparePart(_ context.Context, sp *model.SparePart) error {
	s.parts[sp.ID] = sp
	return nil
}

func (s *stubCatalogRepo) DeactivateSparePart(_ context.Context, id uuid.UUID) error {
	if sp, ok := s.parts[id]; ok {
		sp.Active = false
	}
	return nil
}

func (s *stubCatalogRepo) AdjustSparePartStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	sp, ok := s.parts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sp.StockOnHand += delta
	return nil
}

// ── Lot ──────────────────────────────────────────────────────────────────────

// stubLotRepo resolves SPARE_PART identifiers through the catalog stub the
// same way the real repo's subquery does.
type stubLotRepo struct {
	lots    map[uuid.UUID]*model.Lot
	catalog *stubCatalogRepo
}

var _ repository.LotRepository = (*stubLotRepo)(nil)

func newStubLotRepo(catalog *stubCatalogRepo) *stubLotRepo {
	return &stubLotRepo{lots: make(map[uuid.UUID]*model.Lot), catalog: catalog}
}

func (s *stubLotRepo) DB() *gorm.DB { return nil }

func (s *stubLotRepo) Create(_ context.Context, _ *gorm.DB, lot *model.Lot) error {
	if lot.ID == uuid.Nil {
		lot.ID = uuid.New()
	}
	lot.CreatedAt = time.Now()
	for i := range lot.Items {
		if lot.Items[i].ID == uuid.Nil {
			lot.Items[i].ID = uuid.New()
		}
		lot.Items[i].LotID = lot.ID
	}
	s.lots[lot.ID] = lot
	return nil
}

func (s *stubLotRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lot, error) {
	lot, ok := s.lots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lot, nil
}

func (s *stubLotRepo) FindByNumberTx(_ *gorm.DB, number string) (*model.Lot, error) {
	for _, lot := range s.lots {
		if lot.LotNumber == number {
			return lot, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLotRepo) List(_ context.Context, _ dto.LotFilter) ([]model.Lot, int64, error) {
	out := make([]model.Lot, 0, len(s.lots))
	for _, lot := range s.lots {
		out = append(out, *lot)
	}
	return out, int64(len(out)), nil
}

func (s *stubLotRepo) FindItemForUpdate(_ *gorm.DB, lotID uuid.UUID, itemType, identifier string) (*model.LotItem, error) {
	lot, ok := s.lots[lotID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range lot.Items {
		item := &lot.Items[i]
		if item.ItemType != itemType {
			continue
		}
		switch itemType {
		case model.LotItemTypeModel:
			modelID, err := uuid.Parse(identifier)
			if err != nil {
				return nil, gorm.ErrRecordNotFound
			}
			if item.ModelID != nil && *item.ModelID == modelID {
				return item, nil
			}
		case model.LotItemTypeSparePart:
			sp, err := s.catalog.FindSparePartByItemCode(context.Background(), identifier)
			if err != nil {
				return nil, gorm.ErrRecordNotFound
			}
			if item.SparePartID != nil && *item.SparePartID == sp.ID {
				return item, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLotRepo) IncrementItemUsedTx(_ *gorm.DB, itemID uuid.UUID, delta int) error {
	for _, lot := range s.lots {
		for i := range lot.Items {
			if lot.Items[i].ID == itemID {
				lot.Items[i].UsedQuantity += delta
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Product ──────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (s *stubProductRepo) DB() *gorm.DB { return nil }

func (s *stubProductRepo) CreateBatchTx(_ *gorm.DB, products []model.Product) error {
	for i := range products {
		if products[i].ID == uuid.Nil {
			products[i].ID = uuid.New()
		}
		p := products[i]
		s.products[p.ID] = &p
	}
	return nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubProductRepo) FindBySerial(_ context.Context, serial string) (*model.Product, error) {
	for _, p := range s.products {
		if p.SerialNumber == serial {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *stubProductRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if p, ok := s.products[id]; ok {
		p.Status = status
	}
	return nil
}

// ── Stock movements ──────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (s *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.movements = append(s.movements, *m)
	return nil
}

func (s *stubMovementRepo) ListBySparePart(_ context.Context, sparePartID uuid.UUID, _ int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range s.movements {
		if m.SparePartID == sparePartID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── Invoice ──────────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	nextNum  int64
}

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (s *stubInvoiceRepo) DB() *gorm.DB { return nil }

func (s *stubInvoiceRepo) Create(_ context.Context, _ *gorm.DB, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	s.invoices[inv.ID] = inv
	return nil
}

func (s *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := s.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (s *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	s.invoices[inv.ID] = inv
	return nil
}

func (s *stubInvoiceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if inv, ok := s.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}

func (s *stubInvoiceRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	s.nextNum++
	return s.nextNum, nil
}

func (s *stubInvoiceRepo) ClearRetryMarker(_ context.Context, id uuid.UUID) error {
	if inv, ok := s.invoices[id]; ok && inv.Status == model.InvoiceStatusPending {
		inv.NextRetryAt = nil
	}
	return nil
}

func (s *stubInvoiceRepo) ListPendingRetries(_ context.Context, before time.Time, limit int) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range s.invoices {
		if inv.Status == model.InvoiceStatusPending && inv.NextRetryAt != nil && !inv.NextRetryAt.After(before) {
			out = append(out, *inv)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}
