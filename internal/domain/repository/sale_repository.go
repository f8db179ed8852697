package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// SaleFilter criterios de listado de ventas.
type SaleFilter struct {
	Search string     // número de factura, nombre del cliente o tienda
	Status string     // vacío = todos
	Date   *time.Time // solo ventas de ese día (sale_date)
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)
	// UpdatePayment aplica el abono solo si la venta conserva el pagado y estado de prev;
	// si cambió entretanto devuelve ErrConflict.
	UpdatePayment(ctx context.Context, prev *entity.Sale, paid, remaining decimal.Decimal, status string) error
	// UpdateStatus pasa la venta de fromStatus a toStatus; ErrConflict si ya no está en fromStatus.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error
}
