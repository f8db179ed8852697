package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/apptest"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
)

var d = apptest.D

type memCache struct {
	data   map[string]*dto.DashboardSummaryDTO
	gets   int
	getErr error
}

func (c *memCache) GetSummary(_ context.Context, key string) (*dto.DashboardSummaryDTO, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *memCache) SetSummary(_ context.Context, key string, s *dto.DashboardSummaryDTO) error {
	c.data[key] = s
	return nil
}

func (c *memCache) DeleteSummary(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func seed(t *testing.T, s *apptest.Store) {
	t.Helper()
	p := s.SeedProduct("Ghee", "100", "12")
	s.SeedProduct("Arroz", "10", "3")
	c := s.SeedCustomer("Zara", "0", "0")
	s.SeedVendor("Lays", "250", "0")
	uc := sales.NewCreateSaleUseCase(apptest.TxRunner{S: s}, apptest.ProductRepo{S: s}, apptest.CustomerRepo{S: s},
		apptest.SaleRepo{S: s}, sales.Options{AllowNegativeStock: true}, nil)
	for i := 0; i < 6; i++ {
		_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
			CustomerID:  c.ID,
			PaymentType: "credit",
			PaidAmount:  d("50"),
			Items:       []dto.LineItemRequest{{ProductID: p.ID, Quantity: d("1")}},
		})
		require.NoError(t, err)
	}
}

func TestGetSummary(t *testing.T) {
	s := apptest.NewStore()
	seed(t, s)
	uc := analytics.NewDashboardUseCase(apptest.AnalyticsRepo{S: s}, nil, nil)

	sum, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalProducts)
	assert.Equal(t, 2, sum.LowStockProducts) // Ghee quedó en 6, Arroz en 3
	assert.Equal(t, 1, sum.TotalCustomers)
	assert.Equal(t, 1, sum.TotalVendors)
	assert.Equal(t, 6, sum.PendingSales)
	assert.True(t, sum.TodaySales.Equal(d("600")))
	assert.True(t, sum.TotalReceivables.Equal(d("300")))
	assert.True(t, sum.TotalPayables.Equal(d("250")))
	assert.True(t, sum.StockValue.Equal(d("630")))
	assert.Len(t, sum.RecentSales, 5)
	assert.NotEmpty(t, sum.DateLabel)
}

func TestGetSummary_UsaCache(t *testing.T) {
	s := apptest.NewStore()
	seed(t, s)
	cache := &memCache{data: map[string]*dto.DashboardSummaryDTO{}}
	uc := analytics.NewDashboardUseCase(apptest.AnalyticsRepo{S: s}, cache, nil)

	first, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	s.SeedProduct("Nuevo", "1", "100")
	second, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalProducts, second.TotalProducts)
	assert.Equal(t, 2, cache.gets)
}

func TestGetSummary_CacheCaidaNoRompe(t *testing.T) {
	s := apptest.NewStore()
	seed(t, s)
	cache := &memCache{data: map[string]*dto.DashboardSummaryDTO{}, getErr: errors.New("redis: connection refused")}
	uc := analytics.NewDashboardUseCase(apptest.AnalyticsRepo{S: s}, cache, nil)

	sum, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalProducts)
}

func TestInvalidateSummary_RecalculaTrasEscritura(t *testing.T) {
	s := apptest.NewStore()
	seed(t, s)
	cache := &memCache{data: map[string]*dto.DashboardSummaryDTO{}}
	uc := analytics.NewDashboardUseCase(apptest.AnalyticsRepo{S: s}, cache, nil)

	_, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	s.SeedProduct("Nuevo", "1", "100")
	uc.InvalidateSummary(context.Background())
	assert.Empty(t, cache.data)

	sum, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalProducts)
}

func TestInvalidateSummary_SinCacheNoHaceNada(t *testing.T) {
	uc := analytics.NewDashboardUseCase(apptest.AnalyticsRepo{S: apptest.NewStore()}, nil, nil)
	assert.NotPanics(t, func() { uc.InvalidateSummary(context.Background()) })
}
