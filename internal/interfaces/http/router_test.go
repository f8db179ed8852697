package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/accounts"
	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/apptest"
	"github.com/jhoicas/ventas-api/internal/application/catalog"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/parties"
	"github.com/jhoicas/ventas-api/internal/application/purchasing"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/excel"
	apphttp "github.com/jhoicas/ventas-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct{}

func (fakePDF) GenerateSaleInvoice(_ context.Context, _ sales.BusinessInfo, s *entity.Sale, _ []*entity.SaleItem) ([]byte, error) {
	return []byte("%PDF-" + s.BillNumber), nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]*dto.DashboardSummaryDTO
}

func (c *mapCache) GetSummary(_ context.Context, key string) (*dto.DashboardSummaryDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *mapCache) SetSummary(_ context.Context, key string, s *dto.DashboardSummaryDTO) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = s
	return nil
}

func (c *mapCache) DeleteSummary(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// buildTestApp arma la API completa sobre el store en memoria, sin caché del tablero.
func buildTestApp(s *apptest.Store, logOut io.Writer) *fiber.App {
	return buildTestAppWithCache(s, logOut, nil)
}

func buildTestAppWithCache(s *apptest.Store, logOut io.Writer, cache analytics.DashboardCache) *fiber.App {
	tx := apptest.TxRunner{S: s}
	productRepo := apptest.ProductRepo{S: s}
	customerRepo := apptest.CustomerRepo{S: s}
	vendorRepo := apptest.VendorRepo{S: s}
	saleRepo := apptest.SaleRepo{S: s}
	analyticsRepo := apptest.AnalyticsRepo{S: s}

	app := fiber.New()
	app.Use(requestid.New())
	log := logger.Nop()
	if logOut != nil {
		log = logger.New(logger.Config{Env: "test", Level: "info", Output: logOut})
	}
	app.Use(apphttp.RequestLogger(log))

	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:  catalog.NewCompanyUseCase(apptest.CompanyRepo{S: s}),
		ProductUC:  catalog.NewProductUseCase(productRepo, apptest.CompanyRepo{S: s}),
		CustomerUC: parties.NewCustomerUseCase(customerRepo, "PK"),
		VendorUC:   parties.NewVendorUseCase(vendorRepo, "PK"),
		SaleUC: sales.NewCreateSaleUseCase(tx, productRepo, customerRepo, saleRepo,
			sales.Options{BillPrefix: "WT", AllowNegativeStock: true}, nil),
		InvoicePDF:  sales.NewInvoicePDFUseCase(saleRepo, fakePDF{}, sales.BusinessInfo{Name: "Mi Negocio"}),
		PurchaseUC:  purchasing.NewCreatePurchaseUseCase(tx, productRepo, vendorRepo, apptest.PurchaseRepo{S: s}, nil),
		AccountsUC:  accounts.NewAccountsUseCase(tx, customerRepo, vendorRepo, saleRepo, analyticsRepo, excel.NewDSRExporter(), nil),
		DashboardUC: analytics.NewDashboardUseCase(analyticsRepo, cache, nil),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			r = bytes.NewBufferString(raw)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func saleBody(customerID, productID string) fiber.Map {
	return fiber.Map{
		"customer_id":      customerID,
		"sale_date":        "2026-10-16",
		"payment_type":     "credit",
		"discount_percent": 5,
		"paid_amount":      200,
		"items": []fiber.Map{
			{"product_id": productID, "quantity": 2, "unit_price": 100, "discount_percent": 10},
			{"product_id": productID, "quantity": 1, "unit_price": 50},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_201ConTotales(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "20")
	c := s.SeedCustomer("Ali", "0", "0")
	app := buildTestApp(s, nil)

	resp := do(t, app, http.MethodPost, "/api/sales", saleBody(c.ID, p.ID))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	out := decode[dto.SaleResponse](t, resp)
	assert.Equal(t, "230", out.Totals.Subtotal.String())
	assert.Equal(t, "11.5", out.Totals.DiscountAmount.String())
	assert.Equal(t, "218.5", out.Totals.NetAmount.String())
	assert.Equal(t, "18.5", out.Totals.RemainingBalance.String())
	assert.Equal(t, "pending", out.Totals.Status)
	assert.Regexp(t, `^WT\d{10}$`, out.BillNumber)

	assert.Equal(t, "17", s.Product(p.ID).CurrentStock.String())
	assert.Equal(t, "18.5", s.Customer(c.ID).OutstandingBalance.String())
}

func TestPreviewSale_NoPersiste(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "20")
	app := buildTestApp(s, nil)

	body := saleBody("", p.ID)
	body["payment_type"] = "cash"
	resp := do(t, app, http.MethodPost, "/api/sales/preview", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode[dto.DocumentPreviewResponse](t, resp)
	assert.Equal(t, "218.5", out.Totals.NetAmount.String())
	assert.Empty(t, s.Sales)
	assert.Equal(t, "20", s.Product(p.ID).CurrentStock.String())
}

func TestCreateSale_ProductoInexistente404(t *testing.T) {
	s := apptest.NewStore()
	app := buildTestApp(s, nil)

	resp := do(t, app, http.MethodPost, "/api/sales", saleBody("", "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f"))
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PRODUCT_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCreateSale_ValidacionDevuelveCampos(t *testing.T) {
	s := apptest.NewStore()
	app := buildTestApp(s, nil)

	resp := do(t, app, http.MethodPost, "/api/sales", fiber.Map{
		"items": []fiber.Map{{"product_id": "no-es-uuid", "quantity": 1}},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Equal(t, "required", out.Fields["payment_type"])
	assert.Equal(t, "uuid", out.Fields["items[0].product_id"])
}

func TestCreateSale_CuerpoInvalido(t *testing.T) {
	app := buildTestApp(apptest.NewStore(), nil)

	resp := do(t, app, http.MethodPost, "/api/sales", "{no json")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCreateSale_FalloDePersistenciaRevierte(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "20")
	c := s.SeedCustomer("Ali", "0", "0")
	s.FailOn("sale.CreateItem", errors.New("disco lleno"))
	app := buildTestApp(s, nil)

	resp := do(t, app, http.MethodPost, "/api/sales", saleBody(c.ID, p.ID))
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "PERSISTENCE_FAILURE", decode[dto.ErrorResponse](t, resp).Code)

	assert.Empty(t, s.Sales)
	assert.Equal(t, "20", s.Product(p.ID).CurrentStock.String())
	assert.True(t, s.Customer(c.ID).OutstandingBalance.IsZero())
}

func TestSale_EntregaCancelaYPDF(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "20")
	c := s.SeedCustomer("Ali", "0", "0")
	app := buildTestApp(s, nil)

	created := decode[dto.SaleResponse](t, do(t, app, http.MethodPost, "/api/sales", saleBody(c.ID, p.ID)))

	resp := do(t, app, http.MethodPatch, "/api/sales/"+created.ID+"/status", fiber.Map{"status": "delivered"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "delivered", decode[dto.SaleResponse](t, resp).Totals.Status)

	resp = do(t, app, http.MethodGet, "/api/sales/"+created.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "factura_"+created.BillNumber+".pdf")

	resp = do(t, app, http.MethodPost, "/api/sales/"+created.ID+"/cancel", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", decode[dto.SaleResponse](t, resp).Totals.Status)
	assert.Equal(t, "20", s.Product(p.ID).CurrentStock.String())
	assert.True(t, s.Customer(c.ID).OutstandingBalance.IsZero())

	resp = do(t, app, http.MethodPost, "/api/sales/"+created.ID+"/cancel", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetSale_404(t *testing.T) {
	app := buildTestApp(apptest.NewStore(), nil)

	resp := do(t, app, http.MethodGet, "/api/sales/6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes, compras y cuentas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCustomer_TelefonoDuplicado409(t *testing.T) {
	app := buildTestApp(apptest.NewStore(), nil)

	resp := do(t, app, http.MethodPost, "/api/customers", fiber.Map{"name": "Ali", "phone": "0301 2345678"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEqual(t, "+923012345678", decode[dto.CustomerResponse](t, resp).Phone)

	resp = do(t, app, http.MethodPost, "/api/customers", fiber.Map{"name": "Otro", "phone": "+92 301 2345678"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCreatePurchase_SumaStockYSaldoProveedor(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "5")
	v := s.SeedVendor("Mill", "0", "0")
	app := buildTestApp(s, nil)

	resp := do(t, app, http.MethodPost, "/api/purchases", fiber.Map{
		"vendor_id":    v.ID,
		"payment_type": "credit",
		"items":        []fiber.Map{{"product_id": p.ID, "quantity": 10, "unit_price": 80}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	assert.Equal(t, "15", s.Product(p.ID).CurrentStock.String())
	assert.Equal(t, "800", s.Vendor(v.ID).OutstandingBalance.String())
}

func TestCustomerPayment_ActualizaVentaYSaldo(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "20")
	c := s.SeedCustomer("Ali", "0", "0")
	app := buildTestApp(s, nil)

	sale := decode[dto.SaleResponse](t, do(t, app, http.MethodPost, "/api/sales", saleBody(c.ID, p.ID)))

	resp := do(t, app, http.MethodPost, "/api/accounts/customer-payments", fiber.Map{
		"customer_id":    c.ID,
		"sale_id":        sale.ID,
		"amount":         "18.5",
		"payment_method": "cash",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	out := decode[dto.PaymentResponse](t, resp)
	assert.True(t, out.OutstandingBalance.IsZero())
	assert.Equal(t, "paid", out.DocumentStatus)
	assert.Equal(t, entity.SaleStatusPaid, s.Sale(sale.ID).Status)

	resp = do(t, app, http.MethodGet, "/api/accounts/receivables", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.BalanceListResponse](t, resp).Items)
}

func TestExportDSR_Xlsx(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "20")
	app := buildTestApp(s, nil)

	body := saleBody("", p.ID)
	body["payment_type"] = "cash"
	require.Equal(t, fiber.StatusCreated, do(t, app, http.MethodPost, "/api/sales", body).StatusCode)

	resp := do(t, app, http.MethodGet, "/api/accounts/dsr/export?date=2026-10-16", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "dsr_2026-10-16.xlsx")

	resp = do(t, app, http.MethodGet, "/api/accounts/dsr?date=16-10-2026", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDashboardSummary_200(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("Biscuit", "100", "3")
	s.SeedCustomer("Ali", "50", "0")
	app := buildTestApp(s, nil)

	resp := do(t, app, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 1, out.TotalProducts)
	assert.Equal(t, 1, out.LowStockProducts)
	assert.Equal(t, 1, out.TotalCustomers)
}

func TestDashboardSummary_EscrituraInvalidaCache(t *testing.T) {
	s := apptest.NewStore()
	p := s.SeedProduct("Biscuit", "100", "20")
	c := s.SeedCustomer("Ali", "0", "0")
	app := buildTestAppWithCache(s, nil, &mapCache{data: map[string]*dto.DashboardSummaryDTO{}})

	before := decode[dto.DashboardSummaryDTO](t, do(t, app, http.MethodGet, "/api/dashboard/summary", nil))
	assert.Zero(t, before.PendingSales)

	resp := do(t, app, http.MethodPost, "/api/sales", saleBody(c.ID, p.ID))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	after := decode[dto.DashboardSummaryDTO](t, do(t, app, http.MethodGet, "/api/dashboard/summary", nil))
	assert.Equal(t, 1, after.PendingSales)
	assert.True(t, after.TotalReceivables.Equal(apptest.D("18.5")))
}

func TestDashboardSummary_EscrituraFallidaConservaCache(t *testing.T) {
	s := apptest.NewStore()
	s.SeedProduct("Biscuit", "100", "20")
	cache := &mapCache{data: map[string]*dto.DashboardSummaryDTO{}}
	app := buildTestAppWithCache(s, nil, cache)

	resp := do(t, app, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, cache.data, 1)

	resp = do(t, app, http.MethodPost, "/api/sales", "{")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, cache.data, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Middleware
// ──────────────────────────────────────────────────────────────────────────────

func TestRequestLogger_RegistraStatusYRequestID(t *testing.T) {
	var buf bytes.Buffer
	app := buildTestApp(apptest.NewStore(), &buf)

	resp := do(t, app, http.MethodGet, "/api/products/6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "http", entry["component"])
	assert.Equal(t, "/api/products/6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f", entry["path"])
	assert.EqualValues(t, 404, entry["status"])
	assert.Equal(t, resp.Header.Get(fiber.HeaderXRequestID), entry["request_id"])
}
