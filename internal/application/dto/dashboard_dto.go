package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts    int             `json:"total_products"`
	LowStockProducts int             `json:"low_stock_products"`
	TotalCustomers   int             `json:"total_customers"`
	TotalVendors     int             `json:"total_vendors"`
	TodaySales       decimal.Decimal `json:"today_sales"` // suma de net_amount de hoy
	PendingSales     int             `json:"pending_sales"`
	TotalReceivables decimal.Decimal `json:"total_receivables"`
	TotalPayables    decimal.Decimal `json:"total_payables"`
	StockValue       decimal.Decimal `json:"stock_value"`
	RecentSales      []SaleResponse  `json:"recent_sales"`
	DateLabel        string          `json:"date_label"` // ej: "16 Oct 2026"
}
