package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formas de pago de un documento.
const (
	PaymentTypeCash    = "cash"
	PaymentTypeCredit  = "credit"
	PaymentTypeAdvance = "advance"
)

// ValidPaymentType indica si t es una forma de pago admitida.
func ValidPaymentType(t string) bool {
	return t == PaymentTypeCash || t == PaymentTypeCredit || t == PaymentTypeAdvance
}

// Estados de una venta.
const (
	SaleStatusPending   = "pending"
	SaleStatusDelivered = "delivered"
	SaleStatusPaid      = "paid"
	SaleStatusCancelled = "cancelled"
)

// Sale cabecera de una factura de venta. Los totales guardados son la fuente de verdad;
// nunca se recalculan desde las líneas.
type Sale struct {
	ID               string
	CustomerID       *string // nil = venta de mostrador
	BillNumber       string
	SaleDate         time.Time
	DeliveryDate     *time.Time
	IsAdvanceBooking bool
	TotalAmount      decimal.Decimal // subtotal
	DiscountPercent  decimal.Decimal
	DiscountAmount   decimal.Decimal
	NetAmount        decimal.Decimal
	PaymentType      string
	PaidAmount       decimal.Decimal
	RemainingBalance decimal.Decimal
	Status           string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Customer *Customer
}

// SaleItem línea de una venta.
type SaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	Quantity        decimal.Decimal
	SellingPrice    decimal.Decimal
	DiscountPercent decimal.Decimal
	TotalAmount     decimal.Decimal
	CreatedAt       time.Time

	Product *Product
}
