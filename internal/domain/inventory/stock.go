// Package inventory contiene las reglas de dominio sobre niveles de stock.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
)

// ApplyStockDelta devuelve el stock resultante de sumar delta (negativo en ventas).
// Con allowNegative=false una salida que deje el stock bajo cero falla con ErrInsufficientStock.
func ApplyStockDelta(current, delta decimal.Decimal, allowNegative bool) (decimal.Decimal, error) {
	next := current.Add(delta)
	if !allowNegative && delta.IsNegative() && next.IsNegative() {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func IsLowStock(current, minLevel decimal.Decimal) bool {
	return current.LessThanOrEqual(minLevel)
}

// StockValue valor del inventario a precio de venta (precio * stock).
func StockValue(retailPrice, current decimal.Decimal) decimal.Decimal {
	if current.IsNegative() {
		return decimal.Zero
	}
	return retailPrice.Mul(current)
}
