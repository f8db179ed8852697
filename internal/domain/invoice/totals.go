// Package invoice contiene el motor de totales compartido por ventas y compras.
//
// Todas las funciones son puras: sin estado, sin E/S y deterministas.
// Política de redondeo: la línea y el subtotal son exactos (decimal base 10);
// DiscountAmount se redondea half-up a MinorUnitPlaces; NetAmount y
// RemainingBalance son restas exactas de valores ya derivados.
package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
)

// MinorUnitPlaces decimales de la unidad monetaria mínima.
const MinorUnitPlaces = 2

// Status estado derivado de un documento según su saldo.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
)

var hundred = decimal.NewFromInt(100)

// LineItem una línea de documento: cantidad, precio unitario y descuento de línea (%).
type LineItem struct {
	ProductID       string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Totals totales derivados de un documento.
type Totals struct {
	Subtotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	NetAmount        decimal.Decimal
	PaidAmount       decimal.Decimal
	RemainingBalance decimal.Decimal
}

// ComputeLineTotal devuelve q*p - q*p*d/100.
func ComputeLineTotal(quantity, unitPrice, discountPercent decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, fmt.Errorf("cantidad negativa: %w", domain.ErrInvalidInput)
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	if err := checkPercent("descuento de línea", discountPercent); err != nil {
		return decimal.Zero, err
	}
	gross := quantity.Mul(unitPrice)
	return gross.Sub(gross.Mul(discountPercent).Div(hundred)), nil
}

// ComputeDocumentTotals agrega las líneas y aplica el descuento de documento y el abono.
// El saldo puede ser negativo (sobrepago); nunca se recorta a cero.
func ComputeDocumentTotals(items []LineItem, documentDiscountPercent, paidAmount decimal.Decimal) (Totals, error) {
	if err := checkPercent("descuento de documento", documentDiscountPercent); err != nil {
		return Totals{}, err
	}
	if paidAmount.IsNegative() {
		return Totals{}, fmt.Errorf("monto pagado negativo: %w", domain.ErrInvalidInput)
	}

	subtotal := decimal.Zero
	for i, it := range items {
		lt, err := ComputeLineTotal(it.Quantity, it.UnitPrice, it.DiscountPercent)
		if err != nil {
			return Totals{}, fmt.Errorf("línea %d: %w", i+1, err)
		}
		subtotal = subtotal.Add(lt)
	}

	discount := RoundMoney(subtotal.Mul(documentDiscountPercent).Div(hundred))
	net := subtotal.Sub(discount)
	return Totals{
		Subtotal:         subtotal,
		DiscountAmount:   discount,
		NetAmount:        net,
		PaidAmount:       paidAmount,
		RemainingBalance: net.Sub(paidAmount),
	}, nil
}

// DeriveStatus devuelve "paid" solo si el saldo es exactamente cero.
func DeriveStatus(remainingBalance decimal.Decimal) Status {
	if remainingBalance.IsZero() {
		return StatusPaid
	}
	return StatusPending
}

// RoundMoney redondea half-up a la unidad monetaria mínima.
// decimal.Round redondea alejándose de cero en el punto medio, que coincide con half-up para valores >= 0.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

func checkPercent(name string, p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("%s fuera de rango [0,100]: %w", name, domain.ErrInvalidInput)
	}
	return nil
}
