package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ventas-api/internal/application/document"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/invoice"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// SaleListQuery filtros de ListSales tal como llegan del handler.
type SaleListQuery struct {
	Search string
	Status string
	Date   string // 2006-01-02, vacío = todas
	Limit  int
	Offset int
}

// GetSale obtiene una venta con sus líneas.
func (uc *CreateSaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, items, err := uc.load(ctx, uc.saleRepo, id)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale, items), nil
}

// ListSales lista ventas (sin líneas), más recientes primero.
func (uc *CreateSaleUseCase) ListSales(ctx context.Context, q SaleListQuery) (*dto.SaleListResponse, error) {
	f := repository.SaleFilter{Search: q.Search, Status: q.Status, Limit: q.Limit, Offset: q.Offset}
	if q.Date != "" {
		d, err := time.Parse(dto.DateLayout, q.Date)
		if err != nil {
			return nil, fmt.Errorf("fecha %q: %w", q.Date, domain.ErrInvalidInput)
		}
		f.Date = &d
	}
	list, total, err := uc.saleRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSaleResponse(s, nil))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// UpdateStatus marca una venta pendiente como entregada.
func (uc *CreateSaleUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateSaleStatusRequest) (*dto.SaleResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusPending {
		return nil, fmt.Errorf("venta en estado %s: %w", sale.Status, domain.ErrConflict)
	}
	if err := uc.saleRepo.UpdateStatus(ctx, id, sale.Status, in.Status); err != nil {
		return nil, err
	}
	sale.Status = in.Status
	return ToSaleResponse(sale, nil), nil
}

// CancelSale anula una venta: devuelve el stock de cada línea, descuenta del saldo del
// cliente el pendiente positivo de la venta y la marca cancelled, todo en una transacción.
func (uc *CreateSaleUseCase) CancelSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	var (
		sale  *entity.Sale
		items []*entity.SaleItem
	)
	err := uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		saleRepo repository.SaleRepository,
		_ repository.PaymentRepository,
	) error {
		var err error
		sale, items, err = uc.load(ctx, saleRepo, id)
		if err != nil {
			return err
		}
		if sale.Status == entity.SaleStatusCancelled {
			return fmt.Errorf("venta %s ya cancelada: %w", sale.BillNumber, domain.ErrConflict)
		}
		for _, it := range items {
			// Una devolución nunca falla por stock negativo.
			if err := adjustStock(ctx, productRepo, it.ProductID, it.Quantity, true); err != nil {
				return err
			}
		}
		if sale.CustomerID != nil && sale.RemainingBalance.IsPositive() {
			if _, err := adjustCustomerBalance(ctx, customerRepo, *sale.CustomerID, sale.RemainingBalance.Neg()); err != nil {
				return err
			}
		}
		if err := saleRepo.UpdateStatus(ctx, sale.ID, sale.Status, entity.SaleStatusCancelled); err != nil {
			return domain.Persistence("cancelar venta", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sale.Status = entity.SaleStatusCancelled
	uc.log.Info().Str("sale_id", sale.ID).Str("bill_number", sale.BillNumber).Msg("venta cancelada")
	return ToSaleResponse(sale, items), nil
}

func (uc *CreateSaleUseCase) load(ctx context.Context, saleRepo repository.SaleRepository, id string) (*entity.Sale, []*entity.SaleItem, error) {
	sale, err := saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	items, err := saleRepo.GetItems(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener líneas de venta: %w", err)
	}
	return sale, items, nil
}

// ToSaleResponse convierte la venta (y sus líneas, si se pasan) al DTO de salida.
func ToSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	resp := &dto.SaleResponse{
		ID:               s.ID,
		BillNumber:       s.BillNumber,
		CustomerID:       s.CustomerID,
		SaleDate:         s.SaleDate.Format(dto.DateLayout),
		IsAdvanceBooking: s.IsAdvanceBooking,
		PaymentType:      s.PaymentType,
		DiscountPercent:  s.DiscountPercent,
		Totals: document.TotalsResponse(invoice.Totals{
			Subtotal:         s.TotalAmount,
			DiscountAmount:   s.DiscountAmount,
			NetAmount:        s.NetAmount,
			PaidAmount:       s.PaidAmount,
			RemainingBalance: s.RemainingBalance,
		}, s.Status),
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}
	if s.Customer != nil {
		resp.CustomerName = s.Customer.Name
		resp.ShopName = s.Customer.ShopName
	}
	if s.DeliveryDate != nil {
		d := s.DeliveryDate.Format(dto.DateLayout)
		resp.DeliveryDate = &d
	}
	if len(items) > 0 {
		resp.Items = make([]dto.SaleItemResponse, 0, len(items))
		for _, it := range items {
			name := ""
			if it.Product != nil {
				name = it.Product.Name
			}
			resp.Items = append(resp.Items, dto.SaleItemResponse{
				ID:              it.ID,
				ProductID:       it.ProductID,
				ProductName:     name,
				Quantity:        it.Quantity,
				SellingPrice:    it.SellingPrice,
				DiscountPercent: it.DiscountPercent,
				TotalAmount:     it.TotalAmount,
			})
		}
	}
	return resp
}
