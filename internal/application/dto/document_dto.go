package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de venta o compra. UnitPrice nil = precio de lista del producto.
type LineItemRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
}

// TotalsResponse totales derivados de un documento.
type TotalsResponse struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
}

// LinePreview línea con precio resuelto y total calculado.
type LinePreview struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// DocumentPreviewResponse resultado de calcular un documento sin persistirlo.
type DocumentPreviewResponse struct {
	Items  []LinePreview  `json:"items"`
	Totals TotalsResponse `json:"totals"`
}

// CreateSaleRequest entrada para registrar una venta.
type CreateSaleRequest struct {
	CustomerID       string            `json:"customer_id" validate:"omitempty,uuid"`
	SaleDate         string            `json:"sale_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate     string            `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	IsAdvanceBooking bool              `json:"is_advance_booking"`
	PaymentType      string            `json:"payment_type" validate:"required,oneof=cash credit advance"`
	DiscountPercent  decimal.Decimal   `json:"discount_percent"`
	PaidAmount       decimal.Decimal   `json:"paid_amount"`
	Notes            string            `json:"notes" validate:"max=1000"`
	Items            []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse salida de una línea de venta.
type SaleItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// SaleResponse salida de una venta con sus totales.
type SaleResponse struct {
	ID               string             `json:"id"`
	BillNumber       string             `json:"bill_number"`
	CustomerID       *string            `json:"customer_id"`
	CustomerName     string             `json:"customer_name,omitempty"`
	ShopName         string             `json:"shop_name,omitempty"`
	SaleDate         string             `json:"sale_date"`
	DeliveryDate     *string            `json:"delivery_date"`
	IsAdvanceBooking bool               `json:"is_advance_booking"`
	PaymentType      string             `json:"payment_type"`
	DiscountPercent  decimal.Decimal    `json:"discount_percent"`
	Totals           TotalsResponse     `json:"totals"`
	Notes            string             `json:"notes,omitempty"`
	Items            []SaleItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UpdateSaleStatusRequest cambio manual de estado (solo delivered).
type UpdateSaleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=delivered"`
}

// CreatePurchaseRequest entrada para registrar una compra. DiscountPercent nil = descuento del proveedor.
type CreatePurchaseRequest struct {
	VendorID        string            `json:"vendor_id" validate:"required,uuid"`
	PurchaseDate    string            `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentType     string            `json:"payment_type" validate:"required,oneof=cash credit advance"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent"`
	PaidAmount      decimal.Decimal   `json:"paid_amount"`
	Notes           string            `json:"notes" validate:"max=1000"`
	Items           []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseItemResponse salida de una línea de compra.
type PurchaseItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	RetailPrice     decimal.Decimal `json:"retail_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// PurchaseResponse salida de una compra con sus totales.
type PurchaseResponse struct {
	ID              string                 `json:"id"`
	VendorID        string                 `json:"vendor_id"`
	VendorName      string                 `json:"vendor_name,omitempty"`
	PurchaseDate    string                 `json:"purchase_date"`
	PaymentType     string                 `json:"payment_type"`
	DiscountPercent decimal.Decimal        `json:"discount_percent"`
	Totals          TotalsResponse         `json:"totals"`
	Notes           string                 `json:"notes,omitempty"`
	Items           []PurchaseItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
