package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/catalog"
	"github.com/jhoicas/ventas-api/internal/application/dto"
)

var requiredColumns = []string{"name", "unit_type", "retail_price"}

// record fila válida de la hoja (Row es 1-based, como en Excel).
type record struct {
	Row     int
	Company string
	Product dto.CreateProductRequest
}

// parseSheet convierte las filas en registros; las filas inválidas se reportan y se omiten.
func parseSheet(rows [][]string) ([]record, []error) {
	if len(rows) == 0 {
		return nil, []error{fmt.Errorf("hoja vacía")}
	}
	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, []error{fmt.Errorf("falta la columna %q", c)}
		}
	}

	var (
		out  []record
		errs []error
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if isBlank(row) {
			continue
		}

		r := record{Row: rowNum, Company: cell("company")}
		r.Product.Name = cell("name")
		r.Product.UnitType = strings.ToLower(cell("unit_type"))

		var err error
		if r.Product.RetailPrice, err = parseDecimal(cell("retail_price"), true); err != nil {
			errs = append(errs, fmt.Errorf("fila %d retail_price: %w", rowNum, err))
			continue
		}
		if r.Product.CurrentStock, err = parseDecimal(cell("current_stock"), false); err != nil {
			errs = append(errs, fmt.Errorf("fila %d current_stock: %w", rowNum, err))
			continue
		}
		if r.Product.UnitValue, err = parseOptional(cell("unit_value")); err != nil {
			errs = append(errs, fmt.Errorf("fila %d unit_value: %w", rowNum, err))
			continue
		}
		if r.Product.MinStockLevel, err = parseOptional(cell("min_stock_level")); err != nil {
			errs = append(errs, fmt.Errorf("fila %d min_stock_level: %w", rowNum, err))
			continue
		}
		out = append(out, r)
	}
	return out, errs
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseDecimal acepta separador de miles con coma ("1,250.50").
func parseDecimal(s string, required bool) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		if required {
			return decimal.Zero, fmt.Errorf("vacío")
		}
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseOptional(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := parseDecimal(s, true)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// importer crea compañías y productos a través de los casos de uso del catálogo.
type importer struct {
	companies *catalog.CompanyUseCase
	products  *catalog.ProductUseCase
}

func (im importer) run(ctx context.Context, records []record, onError func(record, error)) (created, failed int) {
	companyIDs := map[string]string{}
	for _, r := range records {
		if r.Company != "" {
			key := strings.ToLower(r.Company)
			id, ok := companyIDs[key]
			if !ok {
				c, err := im.companies.FindOrCreate(ctx, r.Company)
				if err != nil {
					onError(r, err)
					failed++
					continue
				}
				id = c.ID
				companyIDs[key] = id
			}
			r.Product.CompanyID = id
		}
		if _, err := im.products.Create(ctx, r.Product); err != nil {
			onError(r, err)
			failed++
			continue
		}
		created++
	}
	return created, failed
}
