package accounts

import (
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/purchasing"
	"github.com/jhoicas/ventas-api/internal/application/sales"
)

// TxRunner necesita ambos flujos: abonos de clientes (ventas) y pagos a proveedores (compras).
type TxRunner interface {
	sales.TxRunner
	purchasing.TxRunner
}

// DSRExporter puerto de salida que serializa el reporte diario de ventas (ej. xlsx).
type DSRExporter interface {
	ExportDailySales(report *dto.DailySalesReport) ([]byte, error)
}
