package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Product sheet columns, after one header row.
const (
	colName = iota
	colDescription
	colPrice
	colStock
	colImageURL
	colDiscountPercent
	minColumns = colPrice + 1
)

// readProductsFromXLSX reads the first sheet. Rows without a name or with
// a non-positive price are skipped, as are repeated names.
func readProductsFromXLSX(filePath string, now time.Time) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for _, row := range rows[1:] {
		product, ok := parseProductRow(row, now)
		if !ok || seen[strings.ToLower(product.Name)] {
			skipped++
			continue
		}
		seen[strings.ToLower(product.Name)] = true
		products = append(products, product)
	}

	fmt.Printf("Sheet %s: %d products, %d rows skipped\n", sheetName, len(products), skipped)
	return products, nil
}

func parseProductRow(row []string, now time.Time) (model.Product, bool) {
	if len(row) < minColumns {
		return model.Product{}, false
	}
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := cell(colName)
	price, err := decimal.NewFromString(strings.ReplaceAll(cell(colPrice), ",", ""))
	if name == "" || err != nil || !price.IsPositive() {
		return model.Product{}, false
	}

	stock, _ := strconv.Atoi(cell(colStock))
	percent, _ := strconv.Atoi(strings.TrimSuffix(cell(colDiscountPercent), "%"))
	if percent > 100 {
		percent = 100
	}

	return model.Product{
		Name:          name,
		Description:   cell(colDescription),
		Price:         price,
		StockQuantity: stock,
		ImageURL:      cell(colImageURL),
		Discount:      saleFor(name, percent, now),
	}, true
}
