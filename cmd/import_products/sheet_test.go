package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/apptest"
	"github.com/jhoicas/ventas-api/internal/application/catalog"
)

func TestParseSheet_FilasValidasEInvalidas(t *testing.T) {
	rows := [][]string{
		{"Name", "Unit_Type", "unit_value", "retail_price", "current_stock", "min_stock_level", "company"},
		{"Aceite 1L", "Liter", "1", "1,250.50", "40", "", "Dalda"},
		{"", "", "", "", "", "", ""},
		{"Galletas", "pieces", "", "abc", "", "", ""},
		{"Arroz", "kg", "", "300"},
	}

	records, errs := parseSheet(rows)

	require.Len(t, records, 2)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "fila 4")

	first := records[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "Dalda", first.Company)
	assert.Equal(t, "liter", first.Product.UnitType)
	assert.Equal(t, "1250.5", first.Product.RetailPrice.String())
	assert.Equal(t, "40", first.Product.CurrentStock.String())
	require.NotNil(t, first.Product.UnitValue)
	assert.Nil(t, first.Product.MinStockLevel)

	assert.Equal(t, "Arroz", records[1].Product.Name)
	assert.True(t, records[1].Product.CurrentStock.IsZero())
}

func TestParseSheet_FaltaColumnaObligatoria(t *testing.T) {
	_, errs := parseSheet([][]string{{"name", "unit_type"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "retail_price")

	_, errs = parseSheet(nil)
	assert.Len(t, errs, 1)
}

func TestImporter_ReutilizaCompaniaYReportaFallos(t *testing.T) {
	s := apptest.NewStore()
	companyRepo := apptest.CompanyRepo{S: s}
	imp := importer{
		companies: catalog.NewCompanyUseCase(companyRepo),
		products:  catalog.NewProductUseCase(apptest.ProductRepo{S: s}, companyRepo),
	}

	records, errs := parseSheet([][]string{
		{"name", "unit_type", "retail_price", "company"},
		{"Aceite 1L", "liter", "1250", "Dalda"},
		{"Ghee 1kg", "kg", "900", "dalda"},
		{"Sin unidad", "bolsas", "10", ""},
	})
	require.Empty(t, errs)

	var failedRows []int
	created, failed := imp.run(context.Background(), records, func(r record, _ error) {
		failedRows = append(failedRows, r.Row)
	})

	assert.Equal(t, 2, created)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []int{4}, failedRows)
	assert.Len(t, s.Companies, 1)
	for _, p := range s.Products {
		require.NotNil(t, p.CompanyID)
	}
}
