package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// PurchaseFilter criterios de listado de compras.
type PurchaseFilter struct {
	VendorID string
	Search   string // nombre del proveedor
	Limit    int
	Offset   int
}

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateItem(ctx context.Context, item *entity.PurchaseItem) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error)
	List(ctx context.Context, f PurchaseFilter) ([]*entity.Purchase, int, error)
	// UpdatePayment aplica el pago solo si la compra conserva el pagado de prev; si no, ErrConflict.
	UpdatePayment(ctx context.Context, prev *entity.Purchase, paid, remaining decimal.Decimal) error
}
