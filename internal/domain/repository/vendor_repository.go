package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// VendorRepository define el puerto de persistencia para Vendor.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Vendor, error)
	List(ctx context.Context, f PartyFilter) ([]*entity.Vendor, int, error)
	Update(ctx context.Context, vendor *entity.Vendor) error
	// AdjustBalance suma delta al saldo por pagar si la versión coincide (CAS); si no, ErrConflict.
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, expectedVersion int64) error
	// TotalOutstanding suma de saldos positivos (cuentas por pagar).
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
}
