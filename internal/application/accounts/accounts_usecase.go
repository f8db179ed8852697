// Package accounts maneja cuentas por cobrar y por pagar: saldos, abonos y el reporte diario de ventas.
package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/document"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/invoice"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// dsrMaxSales tope de ventas listadas en el reporte diario.
const dsrMaxSales = 1000

// AccountsUseCase casos de uso de saldos, abonos y DSR.
type AccountsUseCase struct {
	txRunner      TxRunner
	customerRepo  repository.CustomerRepository
	vendorRepo    repository.VendorRepository
	saleRepo      repository.SaleRepository
	analyticsRepo repository.AnalyticsRepository
	exporter      DSRExporter
	log           *logger.Logger
	now           func() time.Time
}

// NewAccountsUseCase construye el caso de uso. exporter nil deshabilita la exportación.
func NewAccountsUseCase(
	txRunner TxRunner,
	customerRepo repository.CustomerRepository,
	vendorRepo repository.VendorRepository,
	saleRepo repository.SaleRepository,
	analyticsRepo repository.AnalyticsRepository,
	exporter DSRExporter,
	log *logger.Logger,
) *AccountsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AccountsUseCase{
		txRunner:      txRunner,
		customerRepo:  customerRepo,
		vendorRepo:    vendorRepo,
		saleRepo:      saleRepo,
		analyticsRepo: analyticsRepo,
		exporter:      exporter,
		log:           log.Component("accounts"),
		now:           time.Now,
	}
}

// ── Saldos ────────────────────────────────────────────────────────────────────

// Receivables clientes con saldo por cobrar, mayor saldo primero.
func (uc *AccountsUseCase) Receivables(ctx context.Context, search string, limit, offset int) (*dto.BalanceListResponse, error) {
	list, count, err := uc.customerRepo.List(ctx, repository.PartyFilter{Search: search, WithBalance: true, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	total, err := uc.customerRepo.TotalOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BalanceEntry, 0, len(list))
	for _, c := range list {
		items = append(items, dto.BalanceEntry{
			ID:                 c.ID,
			Name:               c.Name,
			ShopName:           c.ShopName,
			Phone:              c.Phone,
			OutstandingBalance: c.OutstandingBalance,
			OverCreditLimit:    c.ExceedsCreditLimit(),
		})
	}
	return &dto.BalanceListResponse{Items: items, Total: total, Page: dto.PageResponse{Limit: limit, Offset: offset, Total: count}}, nil
}

// Payables proveedores con saldo por pagar, mayor saldo primero.
func (uc *AccountsUseCase) Payables(ctx context.Context, search string, limit, offset int) (*dto.BalanceListResponse, error) {
	list, count, err := uc.vendorRepo.List(ctx, repository.PartyFilter{Search: search, WithBalance: true, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	total, err := uc.vendorRepo.TotalOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BalanceEntry, 0, len(list))
	for _, v := range list {
		items = append(items, dto.BalanceEntry{
			ID:                 v.ID,
			Name:               v.Name,
			Phone:              v.Phone,
			OutstandingBalance: v.OutstandingBalance,
		})
	}
	return &dto.BalanceListResponse{Items: items, Total: total, Page: dto.PageResponse{Limit: limit, Offset: offset, Total: count}}, nil
}

// ── DSR ───────────────────────────────────────────────────────────────────────

// DailySalesReport agregados y ventas (no canceladas) del día indicado; vacío = hoy.
func (uc *AccountsUseCase) DailySalesReport(ctx context.Context, date string) (*dto.DailySalesReport, error) {
	day, err := document.ParseDate(date, uc.now())
	if err != nil {
		return nil, err
	}

	agg, err := uc.analyticsRepo.GetDailySales(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("dsr: agregados: %w", err)
	}
	list, _, err := uc.saleRepo.List(ctx, repository.SaleFilter{Date: &day, Limit: dsrMaxSales})
	if err != nil {
		return nil, fmt.Errorf("dsr: ventas: %w", err)
	}

	report := &dto.DailySalesReport{
		Date:         day.Format(dto.DateLayout),
		TotalSales:   agg.TotalSales,
		CashSales:    agg.CashSales,
		CreditSales:  agg.CreditSales,
		TotalAmount:  agg.TotalAmount,
		CashReceived: agg.CashReceived,
		TotalCredit:  agg.TotalCredit,
		Sales:        make([]dto.SaleResponse, 0, len(list)),
	}
	for _, s := range list {
		if s.Status == entity.SaleStatusCancelled {
			continue
		}
		report.Sales = append(report.Sales, *sales.ToSaleResponse(s, nil))
	}
	return report, nil
}

// ExportDailySalesReport genera el DSR del día en el formato del exportador configurado.
func (uc *AccountsUseCase) ExportDailySalesReport(ctx context.Context, date string) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("dsr: exportación no configurada")
	}
	report, err := uc.DailySalesReport(ctx, date)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.ExportDailySales(report)
	if err != nil {
		return nil, "", fmt.Errorf("dsr: exportar: %w", err)
	}
	return data, fmt.Sprintf("dsr_%s.xlsx", report.Date), nil
}

// ── Abonos ────────────────────────────────────────────────────────────────────

// RecordCustomerPayment registra el abono, descuenta el saldo del cliente (CAS) y, si se
// imputa a una venta, recalcula su pagado/pendiente desde el neto guardado y su estado.
func (uc *AccountsUseCase) RecordCustomerPayment(ctx context.Context, in dto.RecordCustomerPaymentRequest) (*dto.PaymentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("el monto debe ser mayor a cero: %w", domain.ErrInvalidInput)
	}
	now := uc.now()
	date, err := document.ParseDate(in.PaymentDate, now)
	if err != nil {
		return nil, err
	}

	payment := &entity.CustomerPayment{
		ID:              uuid.New().String(),
		CustomerID:      in.CustomerID,
		PaymentDate:     date,
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedAt:       now,
	}
	if in.SaleID != "" {
		payment.SaleID = &in.SaleID
	}

	var (
		balance   decimal.Decimal
		docStatus string
	)
	err = uc.txRunner.RunSales(ctx, func(
		_ repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		c, err := customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return domain.Persistence("leer cliente", err)
		}
		if c == nil {
			return fmt.Errorf("cliente %s: %w", in.CustomerID, domain.ErrNotFound)
		}

		if payment.SaleID != nil {
			s, err := saleRepo.GetByID(ctx, *payment.SaleID)
			if err != nil {
				return domain.Persistence("leer venta", err)
			}
			if s == nil {
				return fmt.Errorf("venta %s: %w", *payment.SaleID, domain.ErrNotFound)
			}
			if s.CustomerID == nil || *s.CustomerID != c.ID {
				return fmt.Errorf("la venta %s no es del cliente: %w", s.BillNumber, domain.ErrInvalidInput)
			}
			if s.Status == entity.SaleStatusCancelled {
				return fmt.Errorf("venta %s cancelada: %w", s.BillNumber, domain.ErrConflict)
			}
			paid := s.PaidAmount.Add(in.Amount)
			remaining := s.NetAmount.Sub(paid)
			docStatus = nextSaleStatus(s.Status, remaining)
			if err := saleRepo.UpdatePayment(ctx, s, paid, remaining, docStatus); err != nil {
				return domain.Persistence("actualizar pago de la venta", err)
			}
		}

		if err := paymentRepo.CreateCustomerPayment(ctx, payment); err != nil {
			return domain.Persistence("insertar abono", err)
		}
		if err := customerRepo.AdjustBalance(ctx, c.ID, in.Amount.Neg(), c.Version); err != nil {
			return domain.Persistence("ajustar saldo del cliente", err)
		}
		balance = c.OutstandingBalance.Sub(in.Amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("customer_id", in.CustomerID).
		Str("amount", in.Amount.String()).
		Str("outstanding_balance", balance.String()).
		Msg("abono de cliente registrado")
	return &dto.PaymentResponse{
		ID:                 payment.ID,
		CounterpartyID:     payment.CustomerID,
		DocumentID:         payment.SaleID,
		PaymentDate:        payment.PaymentDate.Format(dto.DateLayout),
		Amount:             payment.Amount,
		PaymentMethod:      payment.PaymentMethod,
		ReferenceNumber:    payment.ReferenceNumber,
		OutstandingBalance: balance,
		DocumentStatus:     docStatus,
		CreatedAt:          payment.CreatedAt,
	}, nil
}

// RecordVendorPayment registra el pago, descuenta el saldo del proveedor (CAS) y, si se
// imputa a una compra, recalcula su pagado/pendiente desde el neto guardado.
func (uc *AccountsUseCase) RecordVendorPayment(ctx context.Context, in dto.RecordVendorPaymentRequest) (*dto.PaymentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("el monto debe ser mayor a cero: %w", domain.ErrInvalidInput)
	}
	now := uc.now()
	date, err := document.ParseDate(in.PaymentDate, now)
	if err != nil {
		return nil, err
	}

	payment := &entity.VendorPayment{
		ID:              uuid.New().String(),
		VendorID:        in.VendorID,
		PaymentDate:     date,
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedAt:       now,
	}
	if in.PurchaseID != "" {
		payment.PurchaseID = &in.PurchaseID
	}

	var (
		balance   decimal.Decimal
		docStatus string
	)
	err = uc.txRunner.RunPurchasing(ctx, func(
		_ repository.ProductRepository,
		vendorRepo repository.VendorRepository,
		purchaseRepo repository.PurchaseRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		v, err := vendorRepo.GetByID(ctx, in.VendorID)
		if err != nil {
			return domain.Persistence("leer proveedor", err)
		}
		if v == nil {
			return fmt.Errorf("proveedor %s: %w", in.VendorID, domain.ErrNotFound)
		}

		if payment.PurchaseID != nil {
			p, err := purchaseRepo.GetByID(ctx, *payment.PurchaseID)
			if err != nil {
				return domain.Persistence("leer compra", err)
			}
			if p == nil {
				return fmt.Errorf("compra %s: %w", *payment.PurchaseID, domain.ErrNotFound)
			}
			if p.VendorID != v.ID {
				return fmt.Errorf("la compra no es del proveedor: %w", domain.ErrInvalidInput)
			}
			paid := p.PaidAmount.Add(in.Amount)
			remaining := p.NetAmount.Sub(paid)
			docStatus = string(invoice.DeriveStatus(remaining))
			if err := purchaseRepo.UpdatePayment(ctx, p, paid, remaining); err != nil {
				return domain.Persistence("actualizar pago de la compra", err)
			}
		}

		if err := paymentRepo.CreateVendorPayment(ctx, payment); err != nil {
			return domain.Persistence("insertar pago", err)
		}
		if err := vendorRepo.AdjustBalance(ctx, v.ID, in.Amount.Neg(), v.Version); err != nil {
			return domain.Persistence("ajustar saldo del proveedor", err)
		}
		balance = v.OutstandingBalance.Sub(in.Amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("vendor_id", in.VendorID).
		Str("amount", in.Amount.String()).
		Str("outstanding_balance", balance.String()).
		Msg("pago a proveedor registrado")
	return &dto.PaymentResponse{
		ID:                 payment.ID,
		CounterpartyID:     payment.VendorID,
		DocumentID:         payment.PurchaseID,
		PaymentDate:        payment.PaymentDate.Format(dto.DateLayout),
		Amount:             payment.Amount,
		PaymentMethod:      payment.PaymentMethod,
		ReferenceNumber:    payment.ReferenceNumber,
		OutstandingBalance: balance,
		DocumentStatus:     docStatus,
		CreatedAt:          payment.CreatedAt,
	}, nil
}

// nextSaleStatus estado tras un abono: saldo cero -> paid; una venta paid que vuelve a
// deber pasa a pending; delivered/pending se conservan.
func nextSaleStatus(current string, remaining decimal.Decimal) string {
	if invoice.DeriveStatus(remaining) == invoice.StatusPaid {
		return entity.SaleStatusPaid
	}
	if current == entity.SaleStatusPaid {
		return entity.SaleStatusPending
	}
	return current
}
