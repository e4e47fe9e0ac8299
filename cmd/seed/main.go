package main

import (
	"context"
	"os"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/config"
	"github.com/devxtra-community/xerocare-sub000/internal/infra"
	"github.com/devxtra-community/xerocare-sub000/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Seeds demo master data: one branch with a warehouse, two vendors, two
// printer models and two spare parts. Idempotent — upserts on the natural
// keys, safe to re-run.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	ctx := context.Background()
	if err := seed(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("seed data applied")
}

func seed(ctx context.Context, db *gorm.DB) error {
	branch := model.Branch{Name: "Colombo Head Office", City: strPtr("Colombo"), Active: true}
	if err := db.WithContext(ctx).
		Where("name = ?", branch.Name).FirstOrCreate(&branch).Error; err != nil {
		return err
	}

	warehouse := model.Warehouse{BranchID: branch.ID, Name: "Main Warehouse", Active: true}
	if err := db.WithContext(ctx).
		Where("branch_id = ? AND name = ?", branch.ID, warehouse.Name).
		FirstOrCreate(&warehouse).Error; err != nil {
		return err
	}

	vendors := []model.Vendor{
		{Name: "Canon Lanka (Pvt) Ltd", TaxID: "LK-100200300", Active: true},
		{Name: "Xerox Imports Co", TaxID: "LK-400500600", Active: true},
	}
	for i := range vendors {
		if err := db.WithContext(ctx).
			Where("tax_id = ?", vendors[i].TaxID).
			FirstOrCreate(&vendors[i]).Error; err != nil {
			return err
		}
	}

	models := []model.ProductModel{
		{Brand: "Canon", Name: "imageRUNNER 2630i", ModelCode: "IR-2630I", Active: true},
		{Brand: "Xerox", Name: "VersaLink C405", ModelCode: "VL-C405", Active: true},
	}
	for i := range models {
		if err := db.WithContext(ctx).
			Where("model_code = ?", models[i].ModelCode).
			FirstOrCreate(&models[i]).Error; err != nil {
			return err
		}
	}

	parts := []model.SparePart{
		{Brand: "Canon", Name: "Drum Unit C-EXV42", ItemCode: "SP-SEED001", BranchID: &branch.ID, ModelID: &models[0].ID, Active: true},
		{Brand: "Xerox", Name: "Toner Cartridge 106R03584", ItemCode: "SP-SEED002", BranchID: &branch.ID, ModelID: &models[1].ID, Active: true},
	}
	for i := range parts {
		if err := db.WithContext(ctx).
			Where("item_code = ?", parts[i].ItemCode).
			FirstOrCreate(&parts[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
