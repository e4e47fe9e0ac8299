package infra

import (
	"fmt"

	"github.com/devxtra-community/xerocare-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (check constraints, partial indexes, sequences).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema: AutoMigrate for tables/columns plus the
// SQL patches. Also used by integration tests against a fresh database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Vendor{},
		&model.Branch{},
		&model.Warehouse{},
		&model.ProductModel{},
		&model.SparePart{},
		&model.Lot{},
		&model.LotItem{},
		&model.Product{},
		&model.StockMovement{},
		&model.Invoice{},
		&model.InvoiceItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Exactly one of model_id / spare_part_id per lot item. The service
		// validates this too; the constraint is the backstop.
		{"lot_items item reference check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_lot_items_single_ref') THEN
    ALTER TABLE lot_items ADD CONSTRAINT chk_lot_items_single_ref
      CHECK ((model_id IS NOT NULL)::int + (spare_part_id IS NOT NULL)::int = 1);
  END IF;
END $$`},
		// used_quantity bounds — the reservation invariant, enforced at the
		// lowest level so no code path can commit a violation.
		{"lot_items used_quantity bounds check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_lot_items_used_quantity') THEN
    ALTER TABLE lot_items ADD CONSTRAINT chk_lot_items_used_quantity
      CHECK (used_quantity >= 0 AND used_quantity <= quantity);
  END IF;
END $$`},
		// Sequence for atomic invoice numbering
		{"invoices number sequence", `CREATE SEQUENCE IF NOT EXISTS invoices_number_seq`},
		// Partial index for the invoice retry cron query
		{"invoices pending retry partial index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invoices_pending_retry') THEN
    CREATE INDEX idx_invoices_pending_retry
        ON invoices (next_retry_at)
        WHERE status = 'pending' AND next_retry_at IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
