package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero y el reporte diario de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetDashboardCounts resuelve todos los conteos del tablero en una sola consulta.
func (r *AnalyticsRepo) GetDashboardCounts(ctx context.Context) (*repository.DashboardCounts, error) {
	const query = `
	SELECT
	    (SELECT count(*) FROM products)                                                   AS total_products,
	    (SELECT count(*) FROM products WHERE current_stock <= min_stock_level)            AS low_stock,
	    (SELECT count(*) FROM customers)                                                  AS total_customers,
	    (SELECT count(*) FROM vendors)                                                    AS total_vendors,
	    (SELECT count(*) FROM sales WHERE status = 'pending')                             AS pending_sales,
	    (SELECT COALESCE(SUM(outstanding_balance), 0) FROM customers WHERE outstanding_balance > 0) AS receivables,
	    (SELECT COALESCE(SUM(outstanding_balance), 0) FROM vendors   WHERE outstanding_balance > 0) AS payables,
	    (SELECT COALESCE(SUM(retail_price * GREATEST(current_stock, 0)), 0) FROM products) AS stock_value`

	var c repository.DashboardCounts
	err := r.q.QueryRow(ctx, query).Scan(
		&c.TotalProducts,
		&c.LowStockProducts,
		&c.TotalCustomers,
		&c.TotalVendors,
		&c.PendingSales,
		&c.TotalReceivables,
		&c.TotalPayables,
		&c.StockValue,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDashboardCounts: %w", err)
	}
	return &c, nil
}

// GetSalesTotal suma net_amount de las ventas no canceladas con sale_date en [start, end).
func (r *AnalyticsRepo) GetSalesTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(net_amount), 0)
	FROM sales
	WHERE sale_date >= $1::date AND sale_date < $2::date
	  AND status <> 'cancelled'`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, start.Format("2006-01-02"), end.Format("2006-01-02")).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetSalesTotal: %w", err)
	}
	return total, nil
}

// GetDailySales agregados del DSR: las ventas a crédito son las de payment_type 'credit'.
func (r *AnalyticsRepo) GetDailySales(ctx context.Context, day time.Time) (*repository.DailySalesResult, error) {
	const query = `
	SELECT
	    count(*)                                                  AS total_sales,
	    count(*) FILTER (WHERE payment_type = 'cash')             AS cash_sales,
	    count(*) FILTER (WHERE payment_type = 'credit')           AS credit_sales,
	    COALESCE(SUM(net_amount), 0)                              AS total_amount,
	    COALESCE(SUM(paid_amount), 0)                             AS cash_received,
	    COALESCE(SUM(remaining_balance), 0)                       AS total_credit
	FROM sales
	WHERE sale_date = $1::date
	  AND status <> 'cancelled'`

	var res repository.DailySalesResult
	err := r.q.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(
		&res.TotalSales,
		&res.CashSales,
		&res.CreditSales,
		&res.TotalAmount,
		&res.CashReceived,
		&res.TotalCredit,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDailySales: %w", err)
	}
	return &res, nil
}

// GetRecentSales últimas ventas registradas con el cliente resuelto.
func (r *AnalyticsRepo) GetRecentSales(ctx context.Context, limit int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales s LEFT JOIN customers c ON c.id = s.customer_id
		ORDER BY s.created_at DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetRecentSales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("analytics.GetRecentSales: scan: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
