// Package analytics contiene los casos de uso del tablero de resumen del negocio.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

const dashboardRecentSales = 5 // ventas recientes en el widget del tablero

// DashboardCache puerto de caché del resumen (ej. Redis). Un miss devuelve (nil, nil).
type DashboardCache interface {
	GetSummary(ctx context.Context, key string) (*dto.DashboardSummaryDTO, error)
	SetSummary(ctx context.Context, key string, summary *dto.DashboardSummaryDTO) error
	DeleteSummary(ctx context.Context, key string) error
}

// DashboardUseCase genera el resumen del tablero.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// Si hay caché configurada, el resumen se sirve desde ella hasta que expire o hasta
// que una escritura llame a InvalidateSummary.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         DashboardCache
	log           *logger.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, cache DashboardCache, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		cache:         cache,
		log:           log.Component("dashboard"),
		now:           time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO del día.
//
// Tres llamadas en paralelo:
//  1. GetDashboardCounts      → conteos, saldos y valor del stock
//  2. GetSalesTotal(hoy)      → TodaySales
//  3. GetRecentSales(top 5)   → RecentSales
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	todayStart := dayStart(now)
	todayEnd := todayStart.AddDate(0, 0, 1)
	key := summaryKey(todayStart)

	if uc.cache != nil {
		cached, err := uc.cache.GetSummary(ctx, key)
		if err != nil {
			// La caché es opcional: un fallo se registra y se consulta la base.
			uc.log.Warn().Err(err).Msg("caché del tablero no disponible")
		} else if cached != nil {
			return cached, nil
		}
	}

	// ── Goroutines para paralelizar las 3 consultas DB ────────────────────────
	type countsResult struct {
		counts *repository.DashboardCounts
		err    error
	}
	type totalResult struct {
		total decimal.Decimal
		err   error
	}
	type recentResult struct {
		sales []*entity.Sale
		err   error
	}

	countsCh := make(chan countsResult, 1)
	todayCh := make(chan totalResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		c, err := uc.analyticsRepo.GetDashboardCounts(ctx)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetSalesTotal(ctx, todayStart, todayEnd)
		todayCh <- totalResult{t, err}
	}()
	go func() {
		s, err := uc.analyticsRepo.GetRecentSales(ctx, dashboardRecentSales)
		recentCh <- recentResult{s, err}
	}()

	counts := <-countsCh
	today := <-todayCh
	recent := <-recentCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: conteos: %w", counts.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: ventas recientes: %w", recent.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	c := counts.counts
	summary := &dto.DashboardSummaryDTO{
		TotalProducts:    c.TotalProducts,
		LowStockProducts: c.LowStockProducts,
		TotalCustomers:   c.TotalCustomers,
		TotalVendors:     c.TotalVendors,
		TodaySales:       today.total,
		PendingSales:     c.PendingSales,
		TotalReceivables: c.TotalReceivables,
		TotalPayables:    c.TotalPayables,
		StockValue:       c.StockValue,
		RecentSales:      make([]dto.SaleResponse, 0, len(recent.sales)),
		DateLabel:        dayLabel(now),
	}
	for _, s := range recent.sales {
		summary.RecentSales = append(summary.RecentSales, *sales.ToSaleResponse(s, nil))
	}

	if uc.cache != nil {
		if err := uc.cache.SetSummary(ctx, key, summary); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar el tablero en caché")
		}
	}
	return summary, nil
}

// InvalidateSummary descarta el resumen del día en caché. Sin caché no hace nada.
func (uc *DashboardUseCase) InvalidateSummary(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteSummary(ctx, summaryKey(dayStart(uc.now()))); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar el tablero en caché")
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func summaryKey(day time.Time) string {
	return "dashboard:summary:" + day.Format("20060102")
}

// dayLabel devuelve una etiqueta legible del día, ej: "16 Oct 2026".
func dayLabel(t time.Time) string {
	return t.Format("02 Jan 2006")
}
