package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/ventas-api/internal/application/accounts"
	appanalytics "github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/catalog"
	"github.com/jhoicas/ventas-api/internal/application/parties"
	"github.com/jhoicas/ventas-api/internal/application/purchasing"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	infracache "github.com/jhoicas/ventas-api/internal/infrastructure/cache"
	infraexcel "github.com/jhoicas/ventas-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ventas-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
	"github.com/jhoicas/ventas-api/pkg/money"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if len(applied) > 0 {
			log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
		}
	}

	formatter, err := money.NewFormatter(cfg.Business.CurrencyCode)
	if err != nil {
		log.Fatal().Err(err).Msg("moneda")
	}

	// Caché del tablero: opcional, sin Redis el resumen se calcula en cada petición.
	var dashboardCache appanalytics.DashboardCache
	if cfg.Redis.Enabled() {
		rdb, err := infracache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, tablero sin caché")
		} else {
			defer rdb.Close()
			dashboardCache = infracache.NewRedisDashboardCache(rdb, cfg.Redis.DashboardCacheTTL)
		}
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	business := sales.BusinessInfo{
		Name:    cfg.Business.Name,
		Address: cfg.Business.Address,
		Phone:   cfg.Business.Phone,
	}

	companyUC := catalog.NewCompanyUseCase(companyRepo)
	productUC := catalog.NewProductUseCase(productRepo, companyRepo)
	customerUC := parties.NewCustomerUseCase(customerRepo, cfg.Business.PhoneRegion)
	vendorUC := parties.NewVendorUseCase(vendorRepo, cfg.Business.PhoneRegion)
	saleUC := sales.NewCreateSaleUseCase(txRunner, productRepo, customerRepo, saleRepo, sales.Options{
		BillPrefix:         cfg.Business.BillPrefix,
		AllowNegativeStock: cfg.Business.AllowNegativeStock,
	}, log)
	purchaseUC := purchasing.NewCreatePurchaseUseCase(txRunner, productRepo, vendorRepo, purchaseRepo, log)
	accountsUC := accounts.NewAccountsUseCase(
		txRunner, customerRepo, vendorRepo, saleRepo, analyticsRepo,
		infraexcel.NewDSRExporter(), log,
	)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, dashboardCache, log)

	// PDF: factura de venta imprimible
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(formatter, cfg.Business.PhoneRegion)
	invoicePDFUC := sales.NewInvoicePDFUseCase(saleRepo, pdfGenerator, business)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		VendorUC:    vendorUC,
		SaleUC:      saleUC,
		InvoicePDF:  invoicePDFUC,
		PurchaseUC:  purchaseUC,
		AccountsUC:  accountsUC,
		DashboardUC: dashboardUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
