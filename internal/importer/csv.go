package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/devxtra-community/xerocare-sub000/internal/dto"

	"github.com/shopspring/decimal"
)

// expectedHeader is the required column order for lot item CSV files.
var expectedHeader = []string{
	"item_type", "model_id", "spare_part_id", "brand", "name", "quantity", "unit_price",
}

// LoadItems parses a lot-items CSV into request specs. The file must carry
// the exact header row; optional columns are left empty. Errors name the
// offending row (1-based, header excluded).
func LoadItems(filename string) ([]dto.LotItemSpec, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("importer: open %s: %w", filename, err)
	}
	defer f.Close()
	return parseItems(f)
}

func parseItems(r io.Reader) ([]dto.LotItemSpec, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("importer: read header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var items []dto.LotItemSpec
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("importer: row %d: %w", row, err)
		}

		item, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("importer: row %d: %w", row, err)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("importer: no item rows")
	}
	return items, nil
}

func validateHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("importer: expected %d columns %v, got %d",
			len(expectedHeader), expectedHeader, len(header))
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(col)) != expectedHeader[i] {
			return fmt.Errorf("importer: column %d must be %q, got %q", i+1, expectedHeader[i], col)
		}
	}
	return nil
}

func parseRow(record []string) (dto.LotItemSpec, error) {
	var item dto.LotItemSpec
	if len(record) != len(expectedHeader) {
		return item, fmt.Errorf("expected %d fields, got %d", len(expectedHeader), len(record))
	}

	item.ItemType = strings.ToUpper(strings.TrimSpace(record[0]))
	item.ModelID = optional(record[1])
	item.SparePartID = optional(record[2])
	item.Brand = optional(record[3])
	item.Name = optional(record[4])

	qty, err := strconv.Atoi(strings.TrimSpace(record[5]))
	if err != nil {
		return item, fmt.Errorf("quantity %q is not an integer", record[5])
	}
	if qty <= 0 {
		return item, fmt.Errorf("quantity must be positive, got %d", qty)
	}
	item.Quantity = qty

	price, err := decimal.NewFromString(strings.TrimSpace(record[6]))
	if err != nil {
		return item, fmt.Errorf("unit_price %q is not a number", record[6])
	}
	if price.IsNegative() {
		return item, fmt.Errorf("unit_price must not be negative, got %s", price)
	}
	item.UnitPrice = price

	return item, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
