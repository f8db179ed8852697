package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordCustomerPaymentRequest abono de un cliente; SaleID opcional lo imputa a una venta.
type RecordCustomerPaymentRequest struct {
	CustomerID      string          `json:"customer_id" validate:"required,uuid"`
	SaleID          string          `json:"sale_id" validate:"omitempty,uuid"`
	PaymentDate     string          `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=cash bank_transfer cheque"`
	ReferenceNumber string          `json:"reference_number" validate:"max=100"`
	Notes           string          `json:"notes" validate:"max=1000"`
}

// RecordVendorPaymentRequest pago a un proveedor; PurchaseID opcional lo imputa a una compra.
type RecordVendorPaymentRequest struct {
	VendorID        string          `json:"vendor_id" validate:"required,uuid"`
	PurchaseID      string          `json:"purchase_id" validate:"omitempty,uuid"`
	PaymentDate     string          `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=cash bank_transfer cheque"`
	ReferenceNumber string          `json:"reference_number" validate:"max=100"`
	Notes           string          `json:"notes" validate:"max=1000"`
}

// PaymentResponse salida de un abono registrado con el saldo resultante de la contraparte.
type PaymentResponse struct {
	ID                 string          `json:"id"`
	CounterpartyID     string          `json:"counterparty_id"`
	DocumentID         *string         `json:"document_id,omitempty"`
	PaymentDate        string          `json:"payment_date"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentMethod      string          `json:"payment_method"`
	ReferenceNumber    string          `json:"reference_number,omitempty"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	DocumentStatus     string          `json:"document_status,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// BalanceEntry una fila de cuentas por cobrar o por pagar.
type BalanceEntry struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	ShopName           string          `json:"shop_name,omitempty"`
	Phone              string          `json:"phone"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	OverCreditLimit    bool            `json:"over_credit_limit,omitempty"`
}

// BalanceListResponse listado de saldos con el total pendiente.
type BalanceListResponse struct {
	Items []BalanceEntry  `json:"items"`
	Total decimal.Decimal `json:"total"`
	Page  PageResponse    `json:"page"`
}

// DailySalesReport reporte diario de ventas (DSR).
type DailySalesReport struct {
	Date         string          `json:"date"`
	TotalSales   int             `json:"total_sales"`
	CashSales    int             `json:"cash_sales"`
	CreditSales  int             `json:"credit_sales"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CashReceived decimal.Decimal `json:"cash_received"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	Sales        []SaleResponse  `json:"sales"`
}
