package invoice_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/invoice"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(q, p, disc string) invoice.LineItem {
	return invoice.LineItem{ProductID: "p", Quantity: d(q), UnitPrice: d(p), DiscountPercent: d(disc)}
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeLineTotal
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeLineTotal_Formula(t *testing.T) {
	got, err := invoice.ComputeLineTotal(d("2"), d("100"), d("10"))
	require.NoError(t, err)
	assert.True(t, d("180").Equal(got), "2*100 - 10%% = 180, obtenido %s", got)

	got, err = invoice.ComputeLineTotal(d("0.333"), d("1.5"), d("0"))
	require.NoError(t, err)
	assert.True(t, d("0.4995").Equal(got), "sin redondeo implícito, obtenido %s", got)
}

func TestComputeLineTotal_IgualAFormulaFactorizada(t *testing.T) {
	cases := [][3]string{{"3", "19.99", "7.5"}, {"1", "1000", "100"}, {"12.5", "4.2", "0"}, {"0", "99", "50"}}
	for _, c := range cases {
		q, p, disc := d(c[0]), d(c[1]), d(c[2])
		got, err := invoice.ComputeLineTotal(q, p, disc)
		require.NoError(t, err)
		want := q.Mul(p).Mul(decimal.NewFromInt(1).Sub(disc.Div(decimal.NewFromInt(100))))
		assert.True(t, want.Equal(got), "q=%s p=%s d=%s: esperado %s, obtenido %s", c[0], c[1], c[2], want, got)
	}
}

func TestComputeLineTotal_NoCreceConElDescuento(t *testing.T) {
	prev, err := invoice.ComputeLineTotal(d("4"), d("250"), d("0"))
	require.NoError(t, err)
	for disc := 1; disc <= 100; disc++ {
		cur, err := invoice.ComputeLineTotal(d("4"), d("250"), decimal.NewFromInt(int64(disc)))
		require.NoError(t, err)
		assert.True(t, cur.LessThanOrEqual(prev), "descuento %d aumentó el total", disc)
		prev = cur
	}
	assert.True(t, prev.IsZero(), "100%% de descuento debe dejar la línea en cero")
}

func TestComputeLineTotal_RechazaFueraDeRango(t *testing.T) {
	cases := []struct {
		name    string
		q, p, d string
	}{
		{"cantidad negativa", "-1", "10", "0"},
		{"precio negativo", "1", "-10", "0"},
		{"descuento negativo", "1", "10", "-1"},
		{"descuento mayor a 100", "1", "10", "100.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invoice.ComputeLineTotal(d(tc.q), d(tc.p), d(tc.d))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeDocumentTotals
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeDocumentTotals_EscenarioConSaldoPendiente(t *testing.T) {
	items := []invoice.LineItem{item("2", "100", "10"), item("1", "50", "0")}

	got, err := invoice.ComputeDocumentTotals(items, d("5"), d("200"))
	require.NoError(t, err)

	assert.Equal(t, "230", got.Subtotal.String())
	assert.Equal(t, "11.5", got.DiscountAmount.String())
	assert.Equal(t, "218.5", got.NetAmount.String())
	assert.Equal(t, "200", got.PaidAmount.String())
	assert.Equal(t, "18.5", got.RemainingBalance.String())
	assert.Equal(t, invoice.StatusPending, invoice.DeriveStatus(got.RemainingBalance))
}

func TestComputeDocumentTotals_PagoCompleto(t *testing.T) {
	got, err := invoice.ComputeDocumentTotals([]invoice.LineItem{item("1", "1000", "0")}, d("0"), d("1000"))
	require.NoError(t, err)

	assert.True(t, d("1000").Equal(got.NetAmount))
	assert.True(t, got.RemainingBalance.IsZero())
	assert.Equal(t, invoice.StatusPaid, invoice.DeriveStatus(got.RemainingBalance))
}

func TestComputeDocumentTotals_SinLineas(t *testing.T) {
	got, err := invoice.ComputeDocumentTotals(nil, d("10"), d("75"))
	require.NoError(t, err)

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.NetAmount.IsZero())
	assert.True(t, d("-75").Equal(got.RemainingBalance), "saldo = -pagado, obtenido %s", got.RemainingBalance)
	assert.Equal(t, invoice.StatusPending, invoice.DeriveStatus(got.RemainingBalance))
}

func TestComputeDocumentTotals_SobrepagoNoSeRecorta(t *testing.T) {
	got, err := invoice.ComputeDocumentTotals([]invoice.LineItem{item("1", "100", "0")}, d("0"), d("150"))
	require.NoError(t, err)
	assert.True(t, d("-50").Equal(got.RemainingBalance))
	assert.Equal(t, invoice.StatusPending, invoice.DeriveStatus(got.RemainingBalance))
}

func TestComputeDocumentTotals_DescuentoRedondeadoHalfUp(t *testing.T) {
	// 0.5% de 1.01 = 0.00505 -> 0.01
	got, err := invoice.ComputeDocumentTotals([]invoice.LineItem{item("1", "1.01", "0")}, d("0.5"), d("0"))
	require.NoError(t, err)
	assert.Equal(t, "0.01", got.DiscountAmount.StringFixed(2))
	assert.True(t, d("1").Equal(got.NetAmount))

	// 2.5% de 0.9 = 0.0225 -> 0.02
	got, err = invoice.ComputeDocumentTotals([]invoice.LineItem{item("1", "0.9", "0")}, d("2.5"), d("0"))
	require.NoError(t, err)
	assert.Equal(t, "0.02", got.DiscountAmount.StringFixed(2))
}

func TestComputeDocumentTotals_SubtotalAditivo(t *testing.T) {
	a := []invoice.LineItem{item("2", "100", "10"), item("3.5", "12.25", "3")}
	b := []invoice.LineItem{item("1", "50", "0"), item("7", "0.99", "12.5")}

	ta, err := invoice.ComputeDocumentTotals(a, d("0"), d("0"))
	require.NoError(t, err)
	tb, err := invoice.ComputeDocumentTotals(b, d("0"), d("0"))
	require.NoError(t, err)
	tab, err := invoice.ComputeDocumentTotals(append(append([]invoice.LineItem{}, a...), b...), d("0"), d("0"))
	require.NoError(t, err)

	assert.True(t, ta.Subtotal.Add(tb.Subtotal).Equal(tab.Subtotal))
}

func TestComputeDocumentTotals_Idempotente(t *testing.T) {
	items := []invoice.LineItem{item("2", "100", "10"), item("1", "50", "0")}
	first, err := invoice.ComputeDocumentTotals(items, d("5"), d("200"))
	require.NoError(t, err)
	second, err := invoice.ComputeDocumentTotals(items, d("5"), d("200"))
	require.NoError(t, err)
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	assert.True(t, first.NetAmount.Equal(second.NetAmount))
	assert.True(t, first.RemainingBalance.Equal(second.RemainingBalance))
}

func TestComputeDocumentTotals_IdentidadSaldo(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		n := rnd.Intn(5)
		items := make([]invoice.LineItem, n)
		for j := range items {
			items[j] = invoice.LineItem{
				Quantity:        decimal.NewFromInt(int64(rnd.Intn(20))),
				UnitPrice:       decimal.New(int64(rnd.Intn(100000)), -2),
				DiscountPercent: decimal.NewFromInt(int64(rnd.Intn(101))),
			}
		}
		disc := decimal.NewFromInt(int64(rnd.Intn(101)))
		paid := decimal.New(int64(rnd.Intn(500000)), -2)

		got, err := invoice.ComputeDocumentTotals(items, disc, paid)
		require.NoError(t, err)
		assert.True(t, got.RemainingBalance.Equal(got.NetAmount.Sub(got.PaidAmount)))
		assert.True(t, got.NetAmount.Equal(got.Subtotal.Sub(got.DiscountAmount)))
	}
}

func TestComputeDocumentTotals_RechazaEntradasInvalidas(t *testing.T) {
	_, err := invoice.ComputeDocumentTotals(nil, d("101"), d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = invoice.ComputeDocumentTotals(nil, d("0"), d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = invoice.ComputeDocumentTotals([]invoice.LineItem{item("1", "10", "0"), item("-2", "10", "0")}, d("0"), d("0"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 2")
}

// ──────────────────────────────────────────────────────────────────────────────
// DeriveStatus y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveStatus_SoloCeroExactoEsPagado(t *testing.T) {
	assert.Equal(t, invoice.StatusPaid, invoice.DeriveStatus(decimal.Zero))
	assert.Equal(t, invoice.StatusPaid, invoice.DeriveStatus(d("0.00")))
	assert.Equal(t, invoice.StatusPending, invoice.DeriveStatus(d("0.01")))
	assert.Equal(t, invoice.StatusPending, invoice.DeriveStatus(d("-0.01")))
}

func TestGenerateBillNumber_Formato(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	got := invoice.GenerateBillNumber("", now, rand.New(rand.NewSource(1)))

	assert.Len(t, got, 12)
	assert.Equal(t, "WT261016", got[:8])
	assert.Regexp(t, `^WT261016\d{4}$`, got)

	assert.Regexp(t, `^SL261016\d{4}$`, invoice.GenerateBillNumber("SL", now, nil))
}
