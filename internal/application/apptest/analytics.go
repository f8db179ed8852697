package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/inventory"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// AnalyticsRepo consultas de tablero y DSR calculadas sobre el Store.
type AnalyticsRepo struct{ S *Store }

var _ repository.AnalyticsRepository = AnalyticsRepo{}

func (r AnalyticsRepo) GetDashboardCounts(_ context.Context) (*repository.DashboardCounts, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := &repository.DashboardCounts{
		TotalProducts:  len(r.S.Products),
		TotalCustomers: len(r.S.Customers),
		TotalVendors:   len(r.S.Vendors),
	}
	for _, p := range r.S.Products {
		if inventory.IsLowStock(p.CurrentStock, p.MinStockLevel) {
			out.LowStockProducts++
		}
		out.StockValue = out.StockValue.Add(inventory.StockValue(p.RetailPrice, p.CurrentStock))
	}
	for _, c := range r.S.Customers {
		if c.OutstandingBalance.IsPositive() {
			out.TotalReceivables = out.TotalReceivables.Add(c.OutstandingBalance)
		}
	}
	for _, v := range r.S.Vendors {
		if v.OutstandingBalance.IsPositive() {
			out.TotalPayables = out.TotalPayables.Add(v.OutstandingBalance)
		}
	}
	for _, s := range r.S.Sales {
		if s.Status == entity.SaleStatusPending {
			out.PendingSales++
		}
	}
	return out, nil
}

func (r AnalyticsRepo) GetSalesTotal(_ context.Context, start, end time.Time) (decimal.Decimal, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	total := decimal.Zero
	for _, s := range r.S.Sales {
		if s.Status == entity.SaleStatusCancelled || s.SaleDate.Before(start) || !s.SaleDate.Before(end) {
			continue
		}
		total = total.Add(s.NetAmount)
	}
	return total, nil
}

func (r AnalyticsRepo) GetDailySales(_ context.Context, day time.Time) (*repository.DailySalesResult, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := &repository.DailySalesResult{}
	key := day.Format("2006-01-02")
	for _, s := range r.S.Sales {
		if s.Status == entity.SaleStatusCancelled || s.SaleDate.Format("2006-01-02") != key {
			continue
		}
		out.TotalSales++
		switch s.PaymentType {
		case entity.PaymentTypeCash:
			out.CashSales++
		case entity.PaymentTypeCredit:
			out.CreditSales++
		}
		out.TotalAmount = out.TotalAmount.Add(s.NetAmount)
		out.CashReceived = out.CashReceived.Add(s.PaidAmount)
		out.TotalCredit = out.TotalCredit.Add(s.RemainingBalance)
	}
	return out, nil
}

func (r AnalyticsRepo) GetRecentSales(_ context.Context, limit int) ([]*entity.Sale, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := make([]*entity.Sale, 0, len(r.S.Sales))
	for _, s := range r.S.Sales {
		out = append(out, SaleRepo{r.S}.resolve(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, 0), nil
}
