package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/devxtra-community/xerocare-sub000/internal/config"
	"github.com/devxtra-community/xerocare-sub000/internal/dto"
	"github.com/devxtra-community/xerocare-sub000/internal/importer"
	"github.com/devxtra-community/xerocare-sub000/internal/infra"
	"github.com/devxtra-community/xerocare-sub000/internal/repository"
	"github.com/devxtra-community/xerocare-sub000/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// lotimport creates a lot from a CSV of item rows. The whole lot is one
// transaction: a single bad row aborts the import.
//
//	lotimport -file items.csv -vendor <uuid> -number LOT-2026-001 [-branch <uuid>] [-warehouse <uuid>]
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	var (
		file      = flag.String("file", "", "path to lot items CSV (required)")
		vendor    = flag.String("vendor", "", "vendor uuid (required)")
		number    = flag.String("number", "", "lot number (required)")
		branch    = flag.String("branch", "", "branch uuid")
		warehouse = flag.String("warehouse", "", "warehouse uuid")
		date      = flag.String("date", "", "purchase date YYYY-MM-DD (default today)")
	)
	flag.Parse()

	if *file == "" || *vendor == "" || *number == "" {
		flag.Usage()
		os.Exit(2)
	}

	purchaseDate := time.Now()
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatal().Err(err).Str("date", *date).Msg("invalid purchase date")
		}
		purchaseDate = parsed
	}

	items, err := importer.LoadItems(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("csv load failed")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	lotService := service.NewLotService(
		repository.NewLotRepository(db),
		repository.NewCatalogRepository(db),
		repository.NewVendorRepository(db),
		repository.NewBranchRepository(db),
	)

	req := dto.CreateLotRequest{
		VendorID:     *vendor,
		LotNumber:    *number,
		PurchaseDate: purchaseDate,
		Items:        items,
	}
	if *branch != "" {
		req.BranchID = branch
	}
	if *warehouse != "" {
		req.WarehouseID = warehouse
	}

	lot, err := lotService.Create(context.Background(), req)
	if err != nil {
		log.Fatal().Err(err).Msg("lot creation failed")
	}
	log.Info().
		Str("lot_id", lot.ID).
		Str("lot_number", lot.LotNumber).
		Int("items", len(lot.Items)).
		Str("total_amount", lot.TotalAmount.String()).
		Msg("lot imported")
}
