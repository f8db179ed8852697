// Package pdf implementa la factura de venta imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio + contacto   │  N° Factura + Fecha + Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Tienda / Tel  (o "Venta de mostrador")    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Desc% | Total             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Neto / Pagado / Saldo       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del número de factura + leyenda                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/pkg/money"
	"github.com/jhoicas/ventas-api/pkg/phone"
)

var _ sales.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa sales.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	money  *money.Formatter
	region string
}

// NewMarotoPDFGenerator construye el generador. region se usa para mostrar teléfonos en formato nacional.
func NewMarotoPDFGenerator(f *money.Formatter, region string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{money: f, region: region}
}

// GenerateSaleInvoice genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSaleInvoice(
	_ context.Context,
	business sales.BusinessInfo,
	sale *entity.Sale,
	items []*entity.SaleItem,
) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("pdf: venta nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+sale.BillNumber, true).
		WithAuthor(business.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(business, sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.customerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableDetailRows(items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: negocio (izq) y número de factura, fechas y estado (der).
func (g *MarotoPDFGenerator) headerRow(business sales.BusinessInfo, sale *entity.Sale) core.Row {
	contact := strings.Join(nonEmptyParts(business.Address, g.displayPhone(business.Phone)), "   |   ")
	dates := "Fecha: " + sale.SaleDate.Format("02/01/2006")
	if sale.DeliveryDate != nil {
		dates += "   Entrega: " + sale.DeliveryDate.Format("02/01/2006")
	}

	statusColor := colorGray
	if sale.Status == entity.SaleStatusCancelled {
		statusColor = colorAlert
	}

	return row.New(22).Add(
		col.New(7).Add(
			text.New(business.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(contact, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(documentTitle(sale), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(sale.BillNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New(dates, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New(strings.ToUpper(statusLabel(sale.Status)), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 18, Color: statusColor,
			}),
		),
	)
}

// customerRow: datos del cliente; las ventas sin cliente son de mostrador.
func (g *MarotoPDFGenerator) customerRow(sale *entity.Sale) core.Row {
	c := sale.Customer
	if c == nil {
		return row.New(10).Add(col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Venta de mostrador", props.Text{Size: 10, Top: 5}),
		))
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tienda: %s   |   Tel: %s   |   Forma de pago: %s",
				nonEmpty(c.ShopName, "-"),
				nonEmpty(g.displayPhone(c.Phone), "-"),
				paymentLabel(sale.PaymentType),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.%", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea de la venta.
func (g *MarotoPDFGenerator) tableDetailRows(items []*entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductID
		if it.Product != nil {
			name = it.Product.Name
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				g.money.Format(it.SellingPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				percent(it.DiscountPercent),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				g.money.Format(it.TotalAmount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoPDFGenerator) totalsRow(sale *entity.Sale) core.Row {
	type entry struct {
		label, value string
		grand        bool
	}
	entries := []entry{
		{"Subtotal:", g.money.Format(sale.TotalAmount), false},
		{"Descuento (" + percent(sale.DiscountPercent) + "):", "-" + g.money.Format(sale.DiscountAmount), false},
		{"TOTAL NETO:", g.money.Format(sale.NetAmount), true},
		{"Pagado:", g.money.Format(sale.PaidAmount), false},
		{"Saldo pendiente:", g.money.Format(sale.RemainingBalance), true},
	}

	labels := make([]core.Component, 0, len(entries))
	values := make([]core.Component, 0, len(entries))
	for i, e := range entries {
		top := float64(i * 5)
		labelProps := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}
		valueProps := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if e.grand {
			labelProps.Color, labelProps.Size = colorPrimary, 10
			valueProps.Color, valueProps.Size, valueProps.Style = colorPrimary, 10, fontstyle.Bold
		}
		labels = append(labels, text.New(e.label, labelProps))
		values = append(values, text.New(e.value, valueProps))
	}

	return row.New(28).Add(
		col.New(3), // espacio izquierdo
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
		col.New(3), // espacio derecho
	)
}

// footerRows: QR con el número de factura y leyenda.
func footerRows(sale *entity.Sale) []core.Row {
	rows := []core.Row{row.New(3)}

	legend := "Gracias por su compra."
	if sale.IsAdvanceBooking {
		legend = "Reserva anticipada: la mercancía se entrega en la fecha indicada."
	}
	if sale.Notes != "" {
		legend += "\nNotas: " + sale.Notes
	}

	rows = append(rows, row.New(40).Add(
		col.New(3).Add(code.NewQr(sale.BillNumber, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Presente este código para consultar o abonar la factura.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(legend, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) displayPhone(e164 string) string {
	if e164 == "" {
		return ""
	}
	return phone.Display(e164, g.region)
}

func documentTitle(sale *entity.Sale) string {
	if sale.IsAdvanceBooking {
		return "RESERVA ANTICIPADA"
	}
	return "FACTURA DE VENTA"
}

func statusLabel(s string) string {
	switch s {
	case entity.SaleStatusPending:
		return "Pendiente"
	case entity.SaleStatusDelivered:
		return "Entregada"
	case entity.SaleStatusPaid:
		return "Pagada"
	case entity.SaleStatusCancelled:
		return "Anulada"
	}
	return s
}

func paymentLabel(t string) string {
	switch t {
	case entity.PaymentTypeCash:
		return "Contado"
	case entity.PaymentTypeCredit:
		return "Crédito"
	case entity.PaymentTypeAdvance:
		return "Anticipo"
	}
	return t
}

func percent(d decimal.Decimal) string {
	return d.String() + "%"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonEmptyParts(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
