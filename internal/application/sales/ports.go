package sales

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos del flujo de ventas.
// Si fn devuelve error se hace rollback de todo.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// Options reglas de negocio configurables de la venta.
type Options struct {
	BillPrefix         string
	AllowNegativeStock bool
}

// BusinessInfo datos del emisor impresos en la factura.
type BusinessInfo struct {
	Name    string
	Address string
	Phone   string
}

// InvoicePDFGenerator puerto de salida para la representación PDF de una venta.
type InvoicePDFGenerator interface {
	GenerateSaleInvoice(ctx context.Context, business BusinessInfo, sale *entity.Sale, items []*entity.SaleItem) ([]byte, error)
}
