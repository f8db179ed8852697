// Package excel exporta reportes a xlsx con excelize.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ventas-api/internal/application/accounts"
	"github.com/jhoicas/ventas-api/internal/application/dto"
)

var _ accounts.DSRExporter = (*DSRExporter)(nil)

const (
	dsrSheet     = "DSR"
	dsrHeaderRow = 9
)

var dsrHeaders = []interface{}{
	"Factura", "Fecha", "Cliente", "Tienda", "Forma de pago", "Estado",
	"Subtotal", "Descuento", "Neto", "Pagado", "Saldo",
}

// DSRExporter genera el reporte diario de ventas en una sola hoja:
// resumen en las filas 1-7 y detalle de facturas desde la fila 9.
type DSRExporter struct{}

func NewDSRExporter() *DSRExporter { return &DSRExporter{} }

// ExportDailySales devuelve el libro serializado.
func (e *DSRExporter) ExportDailySales(report *dto.DailySalesReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("excel: reporte nil")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", dsrSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Reporte diario de ventas", report.Date},
		{"Ventas", report.TotalSales},
		{"Contado", report.CashSales},
		{"Crédito", report.CreditSales},
		{"Monto total", report.TotalAmount.InexactFloat64()},
		{"Efectivo recibido", report.CashReceived.InexactFloat64()},
		{"Total a crédito", report.TotalCredit.InexactFloat64()},
	}
	for i, row := range summary {
		if err := setRow(f, i+1, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(dsrSheet, "A1", "A7", bold); err != nil {
		return nil, err
	}

	if err := setRow(f, dsrHeaderRow, dsrHeaders); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(dsrHeaders), dsrHeaderRow)
	if err := f.SetCellStyle(dsrSheet, fmt.Sprintf("A%d", dsrHeaderRow), last, bold); err != nil {
		return nil, err
	}

	for i, s := range report.Sales {
		customer := s.CustomerName
		if s.CustomerID == nil {
			customer = "Mostrador"
		}
		row := []interface{}{
			s.BillNumber,
			s.SaleDate,
			customer,
			s.ShopName,
			s.PaymentType,
			s.Totals.Status,
			s.Totals.Subtotal.InexactFloat64(),
			s.Totals.DiscountAmount.InexactFloat64(),
			s.Totals.NetAmount.InexactFloat64(),
			s.Totals.PaidAmount.InexactFloat64(),
			s.Totals.RemainingBalance.InexactFloat64(),
		}
		if err := setRow(f, dsrHeaderRow+1+i, row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(dsrSheet, "A", "A", 22)
	_ = f.SetColWidth(dsrSheet, "B", "K", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(dsrSheet, cell, &values)
}
