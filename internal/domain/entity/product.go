package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas (deben coincidir con el CHECK de la tabla products).
const (
	UnitGram    = "gm"
	UnitML      = "ml"
	UnitPieces  = "pieces"
	UnitCartons = "cartons"
	UnitKg      = "kg"
	UnitLiter   = "liter"
)

// DefaultMinStockLevel umbral de stock bajo cuando no se indica uno.
const DefaultMinStockLevel = 10

// ValidUnitType indica si u es una unidad admitida.
func ValidUnitType(u string) bool {
	switch u {
	case UnitGram, UnitML, UnitPieces, UnitCartons, UnitKg, UnitLiter:
		return true
	}
	return false
}

// Product representa un artículo del inventario.
// CurrentStock solo cambia vía ventas, compras o cancelaciones; Version protege esas escrituras.
type Product struct {
	ID            string
	Name          string
	CompanyID     *string // marca; nil si no tiene
	UnitType      string
	UnitValue     *decimal.Decimal // ej. 500 (gm), 1.5 (liter)
	RetailPrice   decimal.Decimal
	CurrentStock  decimal.Decimal
	MinStockLevel decimal.Decimal
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Company *Company // resuelto solo en lecturas que lo requieran
}
