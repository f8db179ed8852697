package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// InvoicePDFUseCase genera la factura de venta en PDF.
type InvoicePDFUseCase struct {
	saleRepo  repository.SaleRepository
	generator InvoicePDFGenerator
	business  BusinessInfo
}

// NewInvoicePDFUseCase construye el caso de uso.
func NewInvoicePDFUseCase(saleRepo repository.SaleRepository, generator InvoicePDFGenerator, business BusinessInfo) *InvoicePDFUseCase {
	return &InvoicePDFUseCase{saleRepo: saleRepo, generator: generator, business: business}
}

// DownloadSalePDF devuelve los bytes del PDF y el nombre de archivo sugerido.
// Las ventas canceladas también se imprimen (el PDF muestra el estado).
func (uc *InvoicePDFUseCase) DownloadSalePDF(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateSaleInvoice(ctx, uc.business, sale, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", sale.BillNumber), nil
}
