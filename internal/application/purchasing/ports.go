package purchasing

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos del flujo de compras.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		vendorRepo repository.VendorRepository,
		purchaseRepo repository.PurchaseRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
