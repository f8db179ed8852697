package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de una factura de compra a proveedor.
type Purchase struct {
	ID               string
	VendorID         string
	PurchaseDate     time.Time
	TotalAmount      decimal.Decimal // subtotal
	DiscountPercent  decimal.Decimal
	DiscountAmount   decimal.Decimal
	NetAmount        decimal.Decimal
	PaymentType      string
	PaidAmount       decimal.Decimal
	RemainingBalance decimal.Decimal
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Vendor *Vendor
}

// PurchaseItem línea de una compra. PurchasePrice es el costo unitario efectivo (total / cantidad).
type PurchaseItem struct {
	ID              string
	PurchaseID      string
	ProductID       string
	Quantity        decimal.Decimal
	RetailPrice     decimal.Decimal
	DiscountPercent decimal.Decimal
	PurchasePrice   decimal.Decimal
	TotalAmount     decimal.Decimal
	CreatedAt       time.Time

	Product *Product
}
