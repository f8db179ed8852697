package purchasing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/apptest"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/purchasing"
	"github.com/jhoicas/ventas-api/internal/domain"
)

var d = apptest.D

func newUseCase(s *apptest.Store) *purchasing.CreatePurchaseUseCase {
	return purchasing.NewCreatePurchaseUseCase(
		apptest.TxRunner{S: s},
		apptest.ProductRepo{S: s},
		apptest.VendorRepo{S: s},
		apptest.PurchaseRepo{S: s},
		nil,
	)
}

func line(productID, qty, price, disc string) dto.LineItemRequest {
	p := d(price)
	return dto.LineItemRequest{ProductID: productID, Quantity: d(qty), UnitPrice: &p, DiscountPercent: d(disc)}
}

func TestCreatePurchase_DescuentoDelProveedorPorDefecto(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "5")
	v := s.SeedVendor("Mehran Foods", "0", "10")
	uc := newUseCase(s)

	resp, err := uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		VendorID:    v.ID,
		PaymentType: "credit",
		PaidAmount:  d("500"),
		Items:       []dto.LineItemRequest{line(p.ID, "12", "100", "0")},
	})
	require.NoError(t, err)

	assert.True(t, resp.DiscountPercent.Equal(d("10")))
	assert.True(t, resp.Totals.Subtotal.Equal(d("1200")))
	assert.True(t, resp.Totals.DiscountAmount.Equal(d("120")))
	assert.True(t, resp.Totals.NetAmount.Equal(d("1080")))
	assert.True(t, resp.Totals.RemainingBalance.Equal(d("580")))
	assert.Equal(t, "Mehran Foods", resp.VendorName)

	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("17")))
	assert.True(t, s.Vendor(v.ID).OutstandingBalance.Equal(d("580")))
}

func TestCreatePurchase_DescuentoExplicitoYCostoUnitario(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Chips", "50", "0")
	v := s.SeedVendor("Lays", "0", "10")
	uc := newUseCase(s)

	zero := d("0")
	resp, err := uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		VendorID:        v.ID,
		PaymentType:     "cash",
		DiscountPercent: &zero,
		PaidAmount:      d("120"),
		Items:           []dto.LineItemRequest{line(p.ID, "3", "50", "20")},
	})
	require.NoError(t, err)
	assert.True(t, resp.Totals.NetAmount.Equal(d("120")))
	assert.Equal(t, "paid", resp.Totals.Status)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].PurchasePrice.Equal(d("40")))
	assert.True(t, s.Vendor(v.ID).OutstandingBalance.IsZero())
}

func TestUnitCost_CantidadCero(t *testing.T) {
	assert.True(t, purchasing.UnitCost(d("0"), d("0")).IsZero())
	assert.True(t, purchasing.UnitCost(d("100"), d("3")).Equal(d("33.3333")))
}

func TestCreatePurchase_ProveedorInexistente(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Chips", "50", "0")
	uc := newUseCase(s)

	_, err := uc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		VendorID:    "7f1d1c2e-3a4b-4c5d-8e9f-0a1b2c3d4e5f",
		PaymentType: "cash",
		Items:       []dto.LineItemRequest{line(p.ID, "1", "50", "0")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePurchase_FalloRevierte(t *testing.T) {
	for _, op := range []string{"purchase.Create", "purchase.CreateItem", "product.AdjustStock", "vendor.AdjustBalance"} {
		t.Run(op, func(t *testing.T) {
			s := apptest.NewStore()
			p := s.SeedProduct("Chips", "50", "2")
			v := s.SeedVendor("Lays", "0", "0")
			s.FailOn(op, errors.New("conexión perdida"))

			_, err := newUseCase(s).CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
				VendorID:    v.ID,
				PaymentType: "credit",
				Items:       []dto.LineItemRequest{line(p.ID, "4", "50", "0")},
			})
			assert.ErrorIs(t, err, domain.ErrPersistence)
			assert.Empty(t, s.Purchases)
			assert.Empty(t, s.PurchaseItems)
			assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("2")))
			assert.True(t, s.Vendor(v.ID).OutstandingBalance.IsZero())
		})
	}
}

func TestPreviewYConsultas(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Chips", "50", "2")
	v := s.SeedVendor("Lays", "0", "5")
	uc := newUseCase(s)
	in := dto.CreatePurchaseRequest{
		VendorID:    v.ID,
		PaymentType: "credit",
		Items:       []dto.LineItemRequest{{ProductID: p.ID, Quantity: d("2")}},
	}

	prev, err := uc.Preview(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, prev.Totals.NetAmount.Equal(d("95")))
	assert.Empty(t, s.Purchases)

	created, err := uc.CreatePurchase(context.Background(), in)
	require.NoError(t, err)

	got, err := uc.GetPurchase(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Chips", got.Items[0].ProductName)

	list, err := uc.ListPurchases(context.Background(), purchasing.PurchaseListQuery{VendorID: v.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)

	_, err = uc.GetPurchase(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
