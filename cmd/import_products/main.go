// import_products carga un catálogo de productos desde una hoja .xlsx.
//
// Uso: go run ./cmd/import_products catalogo.xlsx [hoja]
// Por defecto usa la primera hoja. La primera fila es la cabecera con las columnas
// name, unit_type, unit_value, retail_price, current_stock, min_stock_level, company
// (unit_value, current_stock, min_stock_level y company son opcionales).
// Las compañías inexistentes se crean al vuelo.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ventas-api/internal/application/catalog"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: import_products <archivo.xlsx> [hoja]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("import")

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Str("file", os.Args[1]).Msg("abrir xlsx")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if len(os.Args) > 2 {
		sheet = os.Args[2]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		log.Fatal().Err(err).Str("sheet", sheet).Msg("leer hoja")
	}

	records, errs := parseSheet(rows)
	for _, e := range errs {
		log.Warn().Err(e).Msg("fila omitida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name+"-import")
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	imp := importer{
		companies: catalog.NewCompanyUseCase(companyRepo),
		products:  catalog.NewProductUseCase(postgres.NewProductRepository(pool), companyRepo),
	}
	created, failed := imp.run(ctx, records, func(r record, err error) {
		log.Warn().Err(err).Int("row", r.Row).Str("name", r.Product.Name).Msg("no se pudo crear el producto")
	})

	log.Info().
		Int("created", created).
		Int("failed", failed).
		Int("skipped", len(errs)).
		Msg("importación terminada")
	if failed > 0 {
		os.Exit(1)
	}
}
