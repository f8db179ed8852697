package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,min=1,max=200"`
	CompanyID     string           `json:"company_id" validate:"omitempty,uuid"`
	UnitType      string           `json:"unit_type" validate:"required,oneof=gm ml pieces cartons kg liter"`
	UnitValue     *decimal.Decimal `json:"unit_value"`
	RetailPrice   decimal.Decimal  `json:"retail_price"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía documentos).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CompanyID     *string          `json:"company_id" validate:"omitempty,uuid"`
	UnitType      *string          `json:"unit_type" validate:"omitempty,oneof=gm ml pieces cartons kg liter"`
	UnitValue     *decimal.Decimal `json:"unit_value"`
	RetailPrice   *decimal.Decimal `json:"retail_price"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	CompanyID     *string          `json:"company_id"`
	CompanyName   string           `json:"company_name,omitempty"`
	UnitType      string           `json:"unit_type"`
	UnitValue     *decimal.Decimal `json:"unit_value"`
	RetailPrice   decimal.Decimal  `json:"retail_price"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	LowStock      bool             `json:"low_stock"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos con el valor del inventario listado.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	StockValue decimal.Decimal   `json:"stock_value"`
	Page       PageResponse      `json:"page"`
}
