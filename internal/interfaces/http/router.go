package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/accounts"
	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/catalog"
	"github.com/jhoicas/ventas-api/internal/application/parties"
	"github.com/jhoicas/ventas-api/internal/application/purchasing"
	"github.com/jhoicas/ventas-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *catalog.CompanyUseCase
	ProductUC   *catalog.ProductUseCase
	CustomerUC  *parties.CustomerUseCase
	VendorUC    *parties.VendorUseCase
	SaleUC      *sales.CreateSaleUseCase
	InvoicePDF  *sales.InvoicePDFUseCase
	PurchaseUC  *purchasing.CreatePurchaseUseCase
	AccountsUC  *accounts.AccountsUseCase
	DashboardUC *analytics.DashboardUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.DashboardUC != nil {
		api.Use(InvalidateDashboard(deps.DashboardUC))
	}

	// Companies (marcas)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Vendors
	vendors := api.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendors.Post("/", vendorHandler.Create)
	vendors.Get("/", vendorHandler.List)
	vendors.Get("/:id", vendorHandler.GetByID)
	vendors.Put("/:id", vendorHandler.Update)

	// Sales
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.InvoicePDF)
	salesGroup.Post("/preview", saleHandler.Preview)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/pdf", saleHandler.DownloadPDF)
	salesGroup.Patch("/:id/status", saleHandler.UpdateStatus)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)

	// Purchases
	purchases := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/preview", purchaseHandler.Preview)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)

	// Accounts (cuentas por cobrar/pagar, abonos, DSR)
	acc := api.Group("/accounts")
	accountsHandler := NewAccountsHandler(deps.AccountsUC)
	acc.Get("/receivables", accountsHandler.Receivables)
	acc.Get("/payables", accountsHandler.Payables)
	acc.Get("/dsr", accountsHandler.DailySales)
	acc.Get("/dsr/export", accountsHandler.ExportDailySales)
	acc.Post("/customer-payments", accountsHandler.RecordCustomerPayment)
	acc.Post("/vendor-payments", accountsHandler.RecordVendorPayment)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
