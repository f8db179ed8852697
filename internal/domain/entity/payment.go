package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago de un abono.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheque       = "cheque"
)

// ValidPaymentMethod indica si m es un medio de pago admitido.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodBankTransfer || m == PaymentMethodCheque
}

// CustomerPayment abono de un cliente, opcionalmente asociado a una venta.
type CustomerPayment struct {
	ID              string
	CustomerID      string
	SaleID          *string
	PaymentDate     time.Time
	Amount          decimal.Decimal
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
	CreatedAt       time.Time
}

// VendorPayment pago a un proveedor, opcionalmente asociado a una compra.
type VendorPayment struct {
	ID              string
	VendorID        string
	PurchaseID      *string
	PaymentDate     time.Time
	Amount          decimal.Decimal
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
	CreatedAt       time.Time
}
