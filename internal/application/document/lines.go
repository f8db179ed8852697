// Package document reúne la resolución de líneas compartida por ventas y compras:
// producto por línea, precio por defecto y totales vía el motor de facturación.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/invoice"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// Line línea resuelta: producto cargado, precio efectivo y total calculado.
type Line struct {
	Product *entity.Product
	Item    invoice.LineItem
	Total   decimal.Decimal
}

// ProductReader lectura mínima de productos que necesita la resolución de líneas.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

var _ ProductReader = (repository.ProductRepository)(nil)

// ResolveLines carga el producto de cada línea y calcula su total.
// Precio nil = precio de lista del producto. Un producto inexistente falla con ErrProductNotFound.
func ResolveLines(ctx context.Context, products ProductReader, in []dto.LineItemRequest) ([]Line, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("el documento no tiene líneas: %w", domain.ErrInvalidInput)
	}
	cache := make(map[string]*entity.Product, len(in))
	out := make([]Line, 0, len(in))
	for i, it := range in {
		p, ok := cache[it.ProductID]
		if !ok {
			var err error
			p, err = products.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, fmt.Errorf("línea %d: obtener producto: %w", i+1, err)
			}
			if p == nil {
				return nil, fmt.Errorf("línea %d (%s): %w", i+1, it.ProductID, domain.ErrProductNotFound)
			}
			cache[it.ProductID] = p
		}
		price := p.RetailPrice
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		li := invoice.LineItem{
			ProductID:       p.ID,
			Quantity:        it.Quantity,
			UnitPrice:       price,
			DiscountPercent: it.DiscountPercent,
		}
		total, err := invoice.ComputeLineTotal(li.Quantity, li.UnitPrice, li.DiscountPercent)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		out = append(out, Line{Product: p, Item: li, Total: total})
	}
	return out, nil
}

// Totals aplica el motor de totales sobre las líneas resueltas.
func Totals(lines []Line, discountPercent, paid decimal.Decimal) (invoice.Totals, error) {
	items := make([]invoice.LineItem, len(lines))
	for i, l := range lines {
		items[i] = l.Item
	}
	return invoice.ComputeDocumentTotals(items, discountPercent, paid)
}

// Preview arma la respuesta de previsualización (sin persistir nada).
func Preview(lines []Line, t invoice.Totals) *dto.DocumentPreviewResponse {
	out := &dto.DocumentPreviewResponse{
		Items:  make([]dto.LinePreview, 0, len(lines)),
		Totals: TotalsResponse(t, string(invoice.DeriveStatus(t.RemainingBalance))),
	}
	for _, l := range lines {
		out.Items = append(out.Items, dto.LinePreview{
			ProductID:       l.Product.ID,
			ProductName:     l.Product.Name,
			Quantity:        l.Item.Quantity,
			UnitPrice:       l.Item.UnitPrice,
			DiscountPercent: l.Item.DiscountPercent,
			LineTotal:       l.Total,
		})
	}
	return out
}

// TotalsResponse convierte totales del motor al DTO.
func TotalsResponse(t invoice.Totals, status string) dto.TotalsResponse {
	return dto.TotalsResponse{
		Subtotal:         t.Subtotal,
		DiscountAmount:   t.DiscountAmount,
		NetAmount:        t.NetAmount,
		PaidAmount:       t.PaidAmount,
		RemainingBalance: t.RemainingBalance,
		Status:           status,
	}
}

// ParseDate interpreta una fecha de negocio (2006-01-02); vacío = fecha de now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
	}
	return d, nil
}
