// Package money formatea montos para presentación (PDF, exportaciones, tablero).
// El redondeo contable vive en el dominio; aquí solo se redondea para mostrar.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// símbolos locales usados en las facturas; el resto muestra el código ISO.
var symbols = map[string]string{
	"PKR": "Rs",
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"COP": "$",
}

// Formatter formatea montos en una moneda con separador de miles y hasta 2 decimales.
type Formatter struct {
	code    string
	symbol  string
	printer *message.Printer
}

// NewFormatter valida el código ISO 4217 y construye el formateador.
func NewFormatter(code string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("moneda %q: %w", code, err)
	}
	iso := unit.String()
	sym, ok := symbols[iso]
	if !ok {
		sym = iso
	}
	return &Formatter{code: iso, symbol: sym, printer: message.NewPrinter(language.English)}, nil
}

// Code código ISO de la moneda.
func (f *Formatter) Code() string { return f.code }

// Format devuelve, por ejemplo, "Rs 1,234.5" (0 a 2 decimales, como en el recibo impreso).
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.symbol + " " + f.Number(amount)
}

// Number devuelve solo la cifra con separador de miles, sin símbolo.
func (f *Formatter) Number(amount decimal.Decimal) string {
	v := amount.Round(2).InexactFloat64()
	return f.printer.Sprint(number.Decimal(v, number.MinFractionDigits(0), number.MaxFractionDigits(2)))
}
