package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Search       string // coincidencia parcial por nombre
	CompanyID    string
	LowStockOnly bool // current_stock <= min_stock_level
	Limit        int
	Offset       int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock suma delta al stock si la versión coincide (CAS); si no, ErrConflict.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal, expectedVersion int64) error
}
