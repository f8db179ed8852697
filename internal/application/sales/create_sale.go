package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/document"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/inventory"
	"github.com/jhoicas/ventas-api/internal/domain/invoice"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// billNumberAttempts reintentos ante colisión del número de factura aleatorio.
const billNumberAttempts = 3

// CreateSaleUseCase registra ventas: totales, líneas, stock y saldo del cliente en una sola transacción.
type CreateSaleUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	opts         Options
	log          *logger.Logger
	now          func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso. log nil = sin logs.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	opts Options,
	log *logger.Logger,
) *CreateSaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CreateSaleUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		opts:         opts,
		log:          log.Component("sales"),
		now:          time.Now,
	}
}

// Preview calcula los totales de la venta sin persistir nada.
func (uc *CreateSaleUseCase) Preview(ctx context.Context, in dto.CreateSaleRequest) (*dto.DocumentPreviewResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	lines, err := document.ResolveLines(ctx, uc.productRepo, in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := document.Totals(lines, in.DiscountPercent, in.PaidAmount)
	if err != nil {
		return nil, err
	}
	return document.Preview(lines, totals), nil
}

// CreateSale valida la venta y la persiste en una transacción:
// cabecera -> líneas -> stock (-cantidad) -> saldo del cliente (+pendiente si es positivo).
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	// Validaciones de solo lectura, fuera de la tx
	var customer *entity.Customer
	if in.CustomerID != "" {
		c, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("obtener cliente: %w", err)
		}
		if c == nil {
			return nil, fmt.Errorf("cliente %s: %w", in.CustomerID, domain.ErrNotFound)
		}
		customer = c
	}
	lines, err := document.ResolveLines(ctx, uc.productRepo, in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := document.Totals(lines, in.DiscountPercent, in.PaidAmount)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	saleDate, err := document.ParseDate(in.SaleDate, now)
	if err != nil {
		return nil, err
	}
	var deliveryDate *time.Time
	if in.DeliveryDate != "" {
		d, err := document.ParseDate(in.DeliveryDate, now)
		if err != nil {
			return nil, err
		}
		deliveryDate = &d
	}

	sale := &entity.Sale{
		ID:               uuid.New().String(),
		SaleDate:         saleDate,
		DeliveryDate:     deliveryDate,
		IsAdvanceBooking: in.IsAdvanceBooking,
		TotalAmount:      totals.Subtotal,
		DiscountPercent:  in.DiscountPercent,
		DiscountAmount:   totals.DiscountAmount,
		NetAmount:        totals.NetAmount,
		PaymentType:      in.PaymentType,
		PaidAmount:       totals.PaidAmount,
		RemainingBalance: totals.RemainingBalance,
		Status:           string(invoice.DeriveStatus(totals.RemainingBalance)),
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
		Customer:         customer,
	}
	if customer != nil {
		sale.CustomerID = &customer.ID
	}
	items := make([]*entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, &entity.SaleItem{
			ID:              uuid.New().String(),
			SaleID:          sale.ID,
			ProductID:       l.Product.ID,
			Quantity:        l.Item.Quantity,
			SellingPrice:    l.Item.UnitPrice,
			DiscountPercent: l.Item.DiscountPercent,
			TotalAmount:     l.Total,
			CreatedAt:       now,
			Product:         l.Product,
		})
	}

	for attempt := 1; ; attempt++ {
		sale.BillNumber = invoice.GenerateBillNumber(uc.opts.BillPrefix, now, nil)
		err = uc.persist(ctx, sale, items)
		if err == nil || !errors.Is(err, domain.ErrDuplicate) || attempt == billNumberAttempts {
			break
		}
		uc.log.Warn().Str("bill_number", sale.BillNumber).Int("attempt", attempt).Msg("número de factura repetido, reintentando")
	}
	if err != nil {
		uc.log.Error().Err(err).Str("sale_id", sale.ID).Msg("venta no registrada")
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("bill_number", sale.BillNumber).
		Str("net_amount", sale.NetAmount.String()).
		Str("remaining_balance", sale.RemainingBalance.String()).
		Str("status", sale.Status).
		Msg("venta registrada")
	return ToSaleResponse(sale, items), nil
}

func (uc *CreateSaleUseCase) persist(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) error {
	return uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		saleRepo repository.SaleRepository,
		_ repository.PaymentRepository,
	) error {
		if err := saleRepo.Create(ctx, sale); err != nil {
			return domain.Persistence("insertar venta", err)
		}
		for i, it := range items {
			if err := saleRepo.CreateItem(ctx, it); err != nil {
				return domain.Persistence(fmt.Sprintf("insertar línea %d", i+1), err)
			}
		}
		for _, it := range items {
			if err := adjustStock(ctx, productRepo, it.ProductID, it.Quantity.Neg(), uc.opts.AllowNegativeStock); err != nil {
				return err
			}
		}
		if sale.CustomerID != nil && sale.RemainingBalance.IsPositive() {
			c, err := adjustCustomerBalance(ctx, customerRepo, *sale.CustomerID, sale.RemainingBalance)
			if err != nil {
				return err
			}
			if c.ExceedsCreditLimit() {
				uc.log.Warn().
					Str("customer_id", c.ID).
					Str("outstanding_balance", c.OutstandingBalance.String()).
					Str("credit_limit", c.CreditLimit.String()).
					Msg("cliente supera su límite de crédito")
			}
		}
		return nil
	})
}

// adjustStock relee el producto dentro de la tx y aplica delta con CAS sobre version.
func adjustStock(ctx context.Context, productRepo repository.ProductRepository, productID string, delta decimal.Decimal, allowNegative bool) error {
	p, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return domain.Persistence("leer stock", err)
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrProductNotFound)
	}
	if _, err := inventory.ApplyStockDelta(p.CurrentStock, delta, allowNegative); err != nil {
		return fmt.Errorf("producto %s (stock %s): %w", p.Name, p.CurrentStock.String(), err)
	}
	if err := productRepo.AdjustStock(ctx, p.ID, delta, p.Version); err != nil {
		return domain.Persistence("ajustar stock de "+p.Name, err)
	}
	return nil
}

// adjustCustomerBalance suma delta al saldo del cliente con CAS y devuelve el cliente con el saldo nuevo.
func adjustCustomerBalance(ctx context.Context, customerRepo repository.CustomerRepository, customerID string, delta decimal.Decimal) (*entity.Customer, error) {
	c, err := customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, domain.Persistence("leer saldo del cliente", err)
	}
	if c == nil {
		return nil, fmt.Errorf("cliente %s: %w", customerID, domain.ErrNotFound)
	}
	if err := customerRepo.AdjustBalance(ctx, c.ID, delta, c.Version); err != nil {
		return nil, domain.Persistence("ajustar saldo del cliente", err)
	}
	c.OutstandingBalance = c.OutstandingBalance.Add(delta)
	c.Version++
	return c, nil
}
