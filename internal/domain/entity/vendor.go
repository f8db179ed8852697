package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor representa un proveedor con saldo por pagar.
type Vendor struct {
	ID                     string
	Name                   string
	Phone                  string
	Address                string
	DefaultDiscountPercent decimal.Decimal
	OutstandingBalance     decimal.Decimal
	Version                int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
