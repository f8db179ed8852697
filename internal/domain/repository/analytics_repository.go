package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// DashboardCounts conteos y sumas del tablero.
type DashboardCounts struct {
	TotalProducts    int
	LowStockProducts int
	TotalCustomers   int
	TotalVendors     int
	PendingSales     int
	TotalReceivables decimal.Decimal
	TotalPayables    decimal.Decimal
	StockValue       decimal.Decimal
}

// DailySalesResult agregados del reporte diario de ventas (DSR).
type DailySalesResult struct {
	TotalSales   int
	CashSales    int
	CreditSales  int
	TotalAmount  decimal.Decimal // suma de net_amount
	CashReceived decimal.Decimal // suma de paid_amount
	TotalCredit  decimal.Decimal // suma de remaining_balance
}

// AnalyticsRepository define las consultas de lectura del tablero y reportes.
// Las implementaciones son read-only (no modifican datos). Las ventas canceladas no cuentan.
type AnalyticsRepository interface {
	// GetDashboardCounts conteos globales (productos, stock bajo, clientes, proveedores, saldos).
	GetDashboardCounts(ctx context.Context) (*DashboardCounts, error)

	// GetSalesTotal suma de net_amount de las ventas con sale_date en [start, end).
	GetSalesTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)

	// GetDailySales agregados del DSR para el día dado.
	GetDailySales(ctx context.Context, day time.Time) (*DailySalesResult, error)

	// GetRecentSales últimas `limit` ventas con el cliente resuelto.
	GetRecentSales(ctx context.Context, limit int) ([]*entity.Sale, error)
}
