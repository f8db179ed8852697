package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	ShopName    string          `json:"shop_name" validate:"max=200"`
	Phone       string          `json:"phone" validate:"max=30"`
	Address     string          `json:"address" validate:"max=500"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerRequest entrada para actualizar un cliente (el saldo no se edita).
type UpdateCustomerRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ShopName    *string          `json:"shop_name" validate:"omitempty,max=200"`
	Phone       *string          `json:"phone" validate:"omitempty,max=30"`
	Address     *string          `json:"address" validate:"omitempty,max=500"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	ShopName           string          `json:"shop_name"`
	Phone              string          `json:"phone"`
	Address            string          `json:"address"`
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateVendorRequest entrada para crear un proveedor.
type CreateVendorRequest struct {
	Name                   string          `json:"name" validate:"required,min=1,max=200"`
	Phone                  string          `json:"phone" validate:"max=30"`
	Address                string          `json:"address" validate:"max=500"`
	DefaultDiscountPercent decimal.Decimal `json:"default_discount_percent"`
}

// UpdateVendorRequest entrada para actualizar un proveedor (el saldo no se edita).
type UpdateVendorRequest struct {
	Name                   *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Phone                  *string          `json:"phone" validate:"omitempty,max=30"`
	Address                *string          `json:"address" validate:"omitempty,max=500"`
	DefaultDiscountPercent *decimal.Decimal `json:"default_discount_percent"`
}

// VendorResponse salida de un proveedor.
type VendorResponse struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	Phone                  string          `json:"phone"`
	Address                string          `json:"address"`
	DefaultDiscountPercent decimal.Decimal `json:"default_discount_percent"`
	OutstandingBalance     decimal.Decimal `json:"outstanding_balance"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// VendorListResponse lista paginada de proveedores.
type VendorListResponse struct {
	Items []VendorResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
