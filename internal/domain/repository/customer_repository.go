package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// PartyFilter criterios de listado de clientes y proveedores.
type PartyFilter struct {
	Search      string // nombre, tienda o teléfono
	WithBalance bool   // solo outstanding_balance > 0, ordenado por saldo desc
	Limit       int
	Offset      int
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	List(ctx context.Context, f PartyFilter) ([]*entity.Customer, int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// AdjustBalance suma delta al saldo por cobrar si la versión coincide (CAS); si no, ErrConflict.
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, expectedVersion int64) error
	// TotalOutstanding suma de saldos positivos (cuentas por cobrar).
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
}
