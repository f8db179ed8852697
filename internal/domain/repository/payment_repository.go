package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia de abonos de clientes y pagos a proveedores.
type PaymentRepository interface {
	CreateCustomerPayment(ctx context.Context, p *entity.CustomerPayment) error
	CreateVendorPayment(ctx context.Context, p *entity.VendorPayment) error
	ListCustomerPayments(ctx context.Context, customerID string, limit, offset int) ([]*entity.CustomerPayment, error)
	ListVendorPayments(ctx context.Context, vendorID string, limit, offset int) ([]*entity.VendorPayment, error)
}
