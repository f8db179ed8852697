package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/apptest"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

var d = apptest.D

func newUseCase(s *apptest.Store, opts sales.Options) *sales.CreateSaleUseCase {
	return sales.NewCreateSaleUseCase(
		apptest.TxRunner{S: s},
		apptest.ProductRepo{S: s},
		apptest.CustomerRepo{S: s},
		apptest.SaleRepo{S: s},
		opts,
		nil,
	)
}

func line(productID, qty, price, disc string) dto.LineItemRequest {
	p := d(price)
	return dto.LineItemRequest{ProductID: productID, Quantity: d(qty), UnitPrice: &p, DiscountPercent: d(disc)}
}

// ── CreateSale ────────────────────────────────────────────────────────────────

func TestCreateSale_EscenarioCredito(t *testing.T) {
	s := apptest.NewStore()
	a := s.SeedProduct("Biscuit", "100", "20")
	b := s.SeedProduct("Chips", "50", "5")
	c := s.SeedCustomer("Ali", "100", "0")
	uc := newUseCase(s, sales.Options{BillPrefix: "WT", AllowNegativeStock: true})

	resp, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID:      c.ID,
		SaleDate:        "2026-10-16",
		PaymentType:     entity.PaymentTypeCredit,
		DiscountPercent: d("5"),
		PaidAmount:      d("200"),
		Items:           []dto.LineItemRequest{line(a.ID, "2", "100", "10"), line(b.ID, "1", "50", "0")},
	})
	require.NoError(t, err)

	assert.True(t, resp.Totals.Subtotal.Equal(d("230")))
	assert.True(t, resp.Totals.DiscountAmount.Equal(d("11.5")))
	assert.True(t, resp.Totals.NetAmount.Equal(d("218.5")))
	assert.True(t, resp.Totals.RemainingBalance.Equal(d("18.5")))
	assert.Equal(t, "pending", resp.Totals.Status)
	assert.Regexp(t, `^WT\d{10}$`, resp.BillNumber)
	assert.Equal(t, "Ali", resp.CustomerName)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].TotalAmount.Equal(d("180")))

	assert.True(t, s.Product(a.ID).CurrentStock.Equal(d("18")))
	assert.True(t, s.Product(b.ID).CurrentStock.Equal(d("4")))
	assert.True(t, s.Customer(c.ID).OutstandingBalance.Equal(d("118.5")))
	assert.Equal(t, int64(1), s.Customer(c.ID).Version)
	assert.Equal(t, 1, s.Commits)
}

func TestCreateSale_ContadoPagadaNoTocaSaldo(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Aceite", "1000", "3")
	c := s.SeedCustomer("Sara", "0", "0")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	resp, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID:  c.ID,
		PaymentType: entity.PaymentTypeCash,
		PaidAmount:  d("1000"),
		Items:       []dto.LineItemRequest{line(p.ID, "1", "1000", "0")},
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Totals.Status)
	assert.True(t, resp.Totals.RemainingBalance.IsZero())
	assert.True(t, s.Customer(c.ID).OutstandingBalance.IsZero())
	assert.Equal(t, int64(0), s.Customer(c.ID).Version)
}

func TestCreateSale_SobrepagoNoReduceSaldo(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Te", "100", "3")
	c := s.SeedCustomer("Omar", "40", "0")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	resp, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID:  c.ID,
		PaymentType: entity.PaymentTypeCash,
		PaidAmount:  d("150"),
		Items:       []dto.LineItemRequest{line(p.ID, "1", "100", "0")},
	})
	require.NoError(t, err)
	assert.True(t, resp.Totals.RemainingBalance.Equal(d("-50")))
	assert.Equal(t, "pending", resp.Totals.Status)
	assert.True(t, s.Customer(c.ID).OutstandingBalance.Equal(d("40")))
}

func TestCreateSale_MostradorUsaPrecioDeLista(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Jabón", "75.50", "10")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	resp, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentType: entity.PaymentTypeCash,
		Items:       []dto.LineItemRequest{{ProductID: p.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.CustomerID)
	assert.True(t, resp.Items[0].SellingPrice.Equal(d("75.50")))
	assert.True(t, resp.Totals.NetAmount.Equal(d("151")))
	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("8")))
}

func TestCreateSale_ProductoInexistente(t *testing.T) {
	s := apptest.NewStore()
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentType: entity.PaymentTypeCash,
		Items:       []dto.LineItemRequest{line("7f1d1c2e-3a4b-4c5d-8e9f-0a1b2c3d4e5f", "1", "10", "0")},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, s.Sales)
}

func TestCreateSale_EntradaInvalida(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Arroz", "10", "10")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	cases := map[string]dto.CreateSaleRequest{
		"descuento > 100": {PaymentType: "cash", DiscountPercent: d("101"), Items: []dto.LineItemRequest{line(p.ID, "1", "10", "0")}},
		"cantidad < 0":    {PaymentType: "cash", Items: []dto.LineItemRequest{line(p.ID, "-1", "10", "0")}},
		"pagado < 0":      {PaymentType: "cash", PaidAmount: d("-1"), Items: []dto.LineItemRequest{line(p.ID, "1", "10", "0")}},
		"sin líneas":      {PaymentType: "cash"},
		"forma de pago":   {PaymentType: "trueque", Items: []dto.LineItemRequest{line(p.ID, "1", "10", "0")}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateSale(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, s.Commits)
	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("10")))
}

func TestCreateSale_StockInsuficienteConPoliticaEstricta(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Leche", "10", "1")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: false})

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentType: "cash",
		Items:       []dto.LineItemRequest{line(p.ID, "2", "10", "0")},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, s.Sales)
	assert.Empty(t, s.SaleItems)
	assert.Equal(t, 1, s.Rollbacks)
}

func TestCreateSale_StockNegativoPermitido(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Leche", "10", "1")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentType: "cash",
		Items:       []dto.LineItemRequest{line(p.ID, "3", "10", "0")},
	})
	require.NoError(t, err)
	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("-2")))
}

func TestCreateSale_MismoProductoEnDosLineas(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Azúcar", "10", "10")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentType: "cash",
		Items:       []dto.LineItemRequest{line(p.ID, "2", "10", "0"), line(p.ID, "3", "9", "0")},
	})
	require.NoError(t, err)
	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("5")))
	assert.Equal(t, int64(2), s.Product(p.ID).Version)
}

// ── Atomicidad ────────────────────────────────────────────────────────────────

func TestCreateSale_FalloDePersistenciaRevierteTodo(t *testing.T) {
	steps := []string{"sale.Create", "sale.CreateItem", "product.AdjustStock", "customer.AdjustBalance"}
	for _, op := range steps {
		t.Run(op, func(t *testing.T) {
			s := apptest.NewStore()
			p := s.SeedProduct("Harina", "100", "10")
			c := s.SeedCustomer("Bilal", "0", "0")
			s.FailOn(op, errors.New("conexión perdida"))
			uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

			_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
				CustomerID:  c.ID,
				PaymentType: "credit",
				Items:       []dto.LineItemRequest{line(p.ID, "1", "100", "0")},
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrPersistence)

			var perr *domain.PersistenceError
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Op)

			assert.Empty(t, s.Sales)
			assert.Empty(t, s.SaleItems)
			assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("10")))
			assert.True(t, s.Customer(c.ID).OutstandingBalance.IsZero())
		})
	}
}

func TestCreateSale_CASPerdidoEsConflicto(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Sal", "5", "10")
	s.FailOn("product.AdjustStock", domain.ErrConflict)
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentType: "cash",
		Items:       []dto.LineItemRequest{line(p.ID, "1", "5", "0")},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, s.Sales)
}

// ── Preview ───────────────────────────────────────────────────────────────────

func TestPreview_NoPersiste(t *testing.T) {
	s := apptest.NewStore()
	a := s.SeedProduct("Biscuit", "100", "20")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})

	resp, err := uc.Preview(context.Background(), dto.CreateSaleRequest{
		PaymentType:     "cash",
		DiscountPercent: d("5"),
		PaidAmount:      d("200"),
		Items:           []dto.LineItemRequest{line(a.ID, "2", "100", "10")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Biscuit", resp.Items[0].ProductName)
	assert.True(t, resp.Items[0].LineTotal.Equal(d("180")))
	assert.True(t, resp.Totals.NetAmount.Equal(d("171")))
	assert.True(t, resp.Totals.RemainingBalance.Equal(d("-29")))
	assert.Empty(t, s.Sales)
	assert.Zero(t, s.Commits)
}

func TestCreateSale_NumeroRepetidoReintentaYRevierte(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Ghee", "25", "10")
	c := s.SeedCustomer("Zara", "5", "0")
	uc := newUseCase(s, sales.Options{BillPrefix: "WT", AllowNegativeStock: true})
	s.FailOn("sale.Create", domain.ErrDuplicate)

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID:  c.ID,
		PaymentType: "credit",
		Items:       []dto.LineItemRequest{line(p.ID, "2", "25", "0")},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 3, s.Calls("sale.Create"))
	assert.Equal(t, 3, s.Rollbacks)
	assert.Zero(t, s.Commits)
	assert.Empty(t, s.Sales)
	assert.Empty(t, s.SaleItems)
	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("10")))
	assert.True(t, s.Customer(c.ID).OutstandingBalance.Equal(d("5")))
}

// ── Estado y cancelación ──────────────────────────────────────────────────────

func createCreditSale(t *testing.T, s *apptest.Store, uc *sales.CreateSaleUseCase, customerID, productID string) *dto.SaleResponse {
	t.Helper()
	resp, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID:  customerID,
		PaymentType: "credit",
		PaidAmount:  d("30"),
		Items:       []dto.LineItemRequest{line(productID, "4", "25", "0")},
	})
	require.NoError(t, err)
	return resp
}

func TestUpdateStatus_Entregada(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Ghee", "25", "10")
	c := s.SeedCustomer("Zara", "0", "0")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})
	sale := createCreditSale(t, s, uc, c.ID, p.ID)

	resp, err := uc.UpdateStatus(context.Background(), sale.ID, dto.UpdateSaleStatusRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Totals.Status)

	_, err = uc.UpdateStatus(context.Background(), sale.ID, dto.UpdateSaleStatusRequest{Status: "delivered"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.UpdateStatus(context.Background(), sale.ID, dto.UpdateSaleStatusRequest{Status: "paid"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelSale_RevierteStockYSaldo(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Ghee", "25", "10")
	c := s.SeedCustomer("Zara", "10", "0")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})
	sale := createCreditSale(t, s, uc, c.ID, p.ID)
	require.True(t, s.Customer(c.ID).OutstandingBalance.Equal(d("80")))

	resp, err := uc.CancelSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Totals.Status)
	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("10")))
	assert.True(t, s.Customer(c.ID).OutstandingBalance.Equal(d("10")))
	assert.Equal(t, entity.SaleStatusCancelled, s.Sale(sale.ID).Status)

	_, err = uc.CancelSale(context.Background(), sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancelSale_FalloRevierte(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Ghee", "25", "10")
	c := s.SeedCustomer("Zara", "0", "0")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})
	sale := createCreditSale(t, s, uc, c.ID, p.ID)
	s.FailOn("sale.UpdateStatus", errors.New("timeout"))

	_, err := uc.CancelSale(context.Background(), sale.ID)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("6")))
	assert.True(t, s.Customer(c.ID).OutstandingBalance.Equal(d("70")))
}

// cancelAfterRead anula la venta justo después de que el caso de uso la lee,
// como si otra petición la cancelara entre la lectura y la escritura.
type cancelAfterRead struct {
	apptest.SaleRepo
	cancel func()
}

func (r cancelAfterRead) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := r.SaleRepo.GetByID(ctx, id)
	if r.cancel != nil {
		r.cancel()
	}
	return sale, err
}

func TestUpdateStatus_NoPisaCancelacionConcurrente(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Ghee", "25", "10")
	c := s.SeedCustomer("Zara", "0", "0")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})
	sale := createCreditSale(t, s, uc, c.ID, p.ID)

	racing := sales.NewCreateSaleUseCase(
		apptest.TxRunner{S: s},
		apptest.ProductRepo{S: s},
		apptest.CustomerRepo{S: s},
		cancelAfterRead{SaleRepo: apptest.SaleRepo{S: s}, cancel: func() {
			_, err := uc.CancelSale(context.Background(), sale.ID)
			require.NoError(t, err)
		}},
		sales.Options{AllowNegativeStock: true},
		nil,
	)

	_, err := racing.UpdateStatus(context.Background(), sale.ID, dto.UpdateSaleStatusRequest{Status: "delivered"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.SaleStatusCancelled, s.Sale(sale.ID).Status)
	assert.True(t, s.Product(p.ID).CurrentStock.Equal(d("10")))
	assert.True(t, s.Customer(c.ID).OutstandingBalance.IsZero())
}

func TestSaleRepoUpdateStatus_EstadoPrevioDistintoEsConflicto(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Ghee", "25", "10")
	c := s.SeedCustomer("Zara", "0", "0")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})
	sale := createCreditSale(t, s, uc, c.ID, p.ID)

	err := apptest.SaleRepo{S: s}.UpdateStatus(context.Background(), sale.ID, entity.SaleStatusCancelled, entity.SaleStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.SaleStatusPending, s.Sale(sale.ID).Status)
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func TestGetSaleYListSales(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Ghee", "25", "10")
	c := s.SeedCustomer("Zara", "0", "0")
	uc := newUseCase(s, sales.Options{AllowNegativeStock: true})
	sale := createCreditSale(t, s, uc, c.ID, p.ID)

	got, err := uc.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.BillNumber, got.BillNumber)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Ghee", got.Items[0].ProductName)

	_, err = uc.GetSale(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.ListSales(context.Background(), sales.SaleListQuery{Search: "zara", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)

	today := time.Now().Format(dto.DateLayout)
	list, err = uc.ListSales(context.Background(), sales.SaleListQuery{Date: today, Status: "pending", Limit: 20})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = uc.ListSales(context.Background(), sales.SaleListQuery{Date: "16-10-2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
