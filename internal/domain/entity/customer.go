package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente (tienda) con saldo por cobrar.
type Customer struct {
	ID                 string
	Name               string
	ShopName           string
	Phone              string // E.164 (pkg/phone)
	Address            string
	CreditLimit        decimal.Decimal // informativo; no bloquea ventas
	OutstandingBalance decimal.Decimal
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ExceedsCreditLimit indica si el saldo supera el límite configurado (límite 0 = sin límite).
func (c *Customer) ExceedsCreditLimit() bool {
	if c.CreditLimit.IsZero() {
		return false
	}
	return c.OutstandingBalance.GreaterThan(c.CreditLimit)
}
