// Package purchasing registra compras a proveedores: entrada de stock y saldo por pagar.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/document"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/invoice"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// CreatePurchaseUseCase registra compras en una sola transacción.
type CreatePurchaseUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	vendorRepo   repository.VendorRepository
	purchaseRepo repository.PurchaseRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewCreatePurchaseUseCase construye el caso de uso. log nil = sin logs.
func NewCreatePurchaseUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	vendorRepo repository.VendorRepository,
	purchaseRepo repository.PurchaseRepository,
	log *logger.Logger,
) *CreatePurchaseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CreatePurchaseUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		vendorRepo:   vendorRepo,
		purchaseRepo: purchaseRepo,
		log:          log.Component("purchasing"),
		now:          time.Now,
	}
}

// PurchaseListQuery filtros de ListPurchases.
type PurchaseListQuery struct {
	VendorID string
	Search   string
	Limit    int
	Offset   int
}

type prepared struct {
	vendor   *entity.Vendor
	lines    []document.Line
	discount decimal.Decimal
	totals   invoice.Totals
}

func (uc *CreatePurchaseUseCase) prepare(ctx context.Context, in dto.CreatePurchaseRequest) (*prepared, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	vendor, err := uc.vendorRepo.GetByID(ctx, in.VendorID)
	if err != nil {
		return nil, fmt.Errorf("obtener proveedor: %w", err)
	}
	if vendor == nil {
		return nil, fmt.Errorf("proveedor %s: %w", in.VendorID, domain.ErrNotFound)
	}
	// Sin descuento explícito se usa el pactado con el proveedor.
	discount := vendor.DefaultDiscountPercent
	if in.DiscountPercent != nil {
		discount = *in.DiscountPercent
	}
	lines, err := document.ResolveLines(ctx, uc.productRepo, in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := document.Totals(lines, discount, in.PaidAmount)
	if err != nil {
		return nil, err
	}
	return &prepared{vendor: vendor, lines: lines, discount: discount, totals: totals}, nil
}

// Preview calcula los totales de la compra sin persistir.
func (uc *CreatePurchaseUseCase) Preview(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.DocumentPreviewResponse, error) {
	p, err := uc.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	return document.Preview(p.lines, p.totals), nil
}

// CreatePurchase persiste cabecera y líneas, suma la cantidad al stock de cada producto y
// aumenta el saldo por pagar del proveedor con el pendiente positivo.
func (uc *CreatePurchaseUseCase) CreatePurchase(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	p, err := uc.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	date, err := document.ParseDate(in.PurchaseDate, now)
	if err != nil {
		return nil, err
	}

	purchase := &entity.Purchase{
		ID:               uuid.New().String(),
		VendorID:         p.vendor.ID,
		PurchaseDate:     date,
		TotalAmount:      p.totals.Subtotal,
		DiscountPercent:  p.discount,
		DiscountAmount:   p.totals.DiscountAmount,
		NetAmount:        p.totals.NetAmount,
		PaymentType:      in.PaymentType,
		PaidAmount:       p.totals.PaidAmount,
		RemainingBalance: p.totals.RemainingBalance,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
		Vendor:           p.vendor,
	}
	items := make([]*entity.PurchaseItem, 0, len(p.lines))
	for _, l := range p.lines {
		items = append(items, &entity.PurchaseItem{
			ID:              uuid.New().String(),
			PurchaseID:      purchase.ID,
			ProductID:       l.Product.ID,
			Quantity:        l.Item.Quantity,
			RetailPrice:     l.Item.UnitPrice,
			DiscountPercent: l.Item.DiscountPercent,
			PurchasePrice:   UnitCost(l.Total, l.Item.Quantity),
			TotalAmount:     l.Total,
			CreatedAt:       now,
			Product:         l.Product,
		})
	}

	err = uc.txRunner.RunPurchasing(ctx, func(
		productRepo repository.ProductRepository,
		vendorRepo repository.VendorRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.PaymentRepository,
	) error {
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return domain.Persistence("insertar compra", err)
		}
		for i, it := range items {
			if err := purchaseRepo.CreateItem(ctx, it); err != nil {
				return domain.Persistence(fmt.Sprintf("insertar línea %d", i+1), err)
			}
		}
		for _, it := range items {
			prod, err := productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return domain.Persistence("leer stock", err)
			}
			if prod == nil {
				return fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrProductNotFound)
			}
			if err := productRepo.AdjustStock(ctx, prod.ID, it.Quantity, prod.Version); err != nil {
				return domain.Persistence("ajustar stock de "+prod.Name, err)
			}
		}
		if purchase.RemainingBalance.IsPositive() {
			return AdjustVendorBalance(ctx, vendorRepo, purchase.VendorID, purchase.RemainingBalance)
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("purchase_id", purchase.ID).Msg("compra no registrada")
		return nil, err
	}

	uc.log.Info().
		Str("purchase_id", purchase.ID).
		Str("vendor_id", purchase.VendorID).
		Str("net_amount", purchase.NetAmount.String()).
		Str("remaining_balance", purchase.RemainingBalance.String()).
		Msg("compra registrada")
	return ToPurchaseResponse(purchase, items), nil
}

// GetPurchase obtiene una compra con sus líneas.
func (uc *CreatePurchaseUseCase) GetPurchase(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener compra: %w", err)
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.purchaseRepo.GetItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas de compra: %w", err)
	}
	return ToPurchaseResponse(purchase, items), nil
}

// ListPurchases lista compras, más recientes primero.
func (uc *CreatePurchaseUseCase) ListPurchases(ctx context.Context, q PurchaseListQuery) (*dto.PurchaseListResponse, error) {
	list, total, err := uc.purchaseRepo.List(ctx, repository.PurchaseFilter{
		VendorID: q.VendorID, Search: q.Search, Limit: q.Limit, Offset: q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToPurchaseResponse(p, nil))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// UnitCost costo unitario efectivo de una línea de compra: total / cantidad (0 si la cantidad es 0).
func UnitCost(lineTotal, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return lineTotal.DivRound(quantity, 4)
}

// AdjustVendorBalance suma delta al saldo por pagar del proveedor con CAS sobre version.
func AdjustVendorBalance(ctx context.Context, vendorRepo repository.VendorRepository, vendorID string, delta decimal.Decimal) error {
	v, err := vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return domain.Persistence("leer saldo del proveedor", err)
	}
	if v == nil {
		return fmt.Errorf("proveedor %s: %w", vendorID, domain.ErrNotFound)
	}
	if err := vendorRepo.AdjustBalance(ctx, v.ID, delta, v.Version); err != nil {
		return domain.Persistence("ajustar saldo del proveedor", err)
	}
	return nil
}

// ToPurchaseResponse convierte la compra (y sus líneas, si se pasan) al DTO.
func ToPurchaseResponse(p *entity.Purchase, items []*entity.PurchaseItem) *dto.PurchaseResponse {
	if p == nil {
		return nil
	}
	resp := &dto.PurchaseResponse{
		ID:              p.ID,
		VendorID:        p.VendorID,
		PurchaseDate:    p.PurchaseDate.Format(dto.DateLayout),
		PaymentType:     p.PaymentType,
		DiscountPercent: p.DiscountPercent,
		Totals: document.TotalsResponse(invoice.Totals{
			Subtotal:         p.TotalAmount,
			DiscountAmount:   p.DiscountAmount,
			NetAmount:        p.NetAmount,
			PaidAmount:       p.PaidAmount,
			RemainingBalance: p.RemainingBalance,
		}, string(invoice.DeriveStatus(p.RemainingBalance))),
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
	if p.Vendor != nil {
		resp.VendorName = p.Vendor.Name
	}
	if len(items) > 0 {
		resp.Items = make([]dto.PurchaseItemResponse, 0, len(items))
		for _, it := range items {
			name := ""
			if it.Product != nil {
				name = it.Product.Name
			}
			resp.Items = append(resp.Items, dto.PurchaseItemResponse{
				ID:              it.ID,
				ProductID:       it.ProductID,
				ProductName:     name,
				Quantity:        it.Quantity,
				RetailPrice:     it.RetailPrice,
				DiscountPercent: it.DiscountPercent,
				PurchasePrice:   it.PurchasePrice,
				TotalAmount:     it.TotalAmount,
			})
		}
	}
	return resp
}
