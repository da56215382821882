package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progarden/garden-crm/internal/shared"
)

type memoryStore struct {
	summary     FinancialSummary
	customers   CustomerStats
	monthly     MonthlyComparison
	monthlyFrom time.Time
	trend       []TrendPoint
	trendFrom   time.Time
	trendTo     time.Time
	breakdown   []ExpenseSlice
	failStats   bool
}

func (m *memoryStore) FinancialSummary(ctx context.Context) (FinancialSummary, error) {
	if m.failStats {
		return FinancialSummary{}, errors.New("store offline")
	}
	return m.summary, nil
}

func (m *memoryStore) CustomerStats(ctx context.Context) (CustomerStats, error) {
	return m.customers, nil
}

func (m *memoryStore) MonthlyComparison(ctx context.Context, from time.Time) (MonthlyComparison, error) {
	m.monthlyFrom = from
	return m.monthly, nil
}

func (m *memoryStore) SalesTrend(ctx context.Context, from, to time.Time) ([]TrendPoint, error) {
	m.trendFrom = from
	m.trendTo = to
	return m.trend, nil
}

func (m *memoryStore) ExpenseBreakdown(ctx context.Context) ([]ExpenseSlice, error) {
	return m.breakdown, nil
}

func newTestService(store *memoryStore) *Service {
	svc := NewService(store)
	svc.WithNow(func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	})
	return svc
}

func TestStatsMergesAggregates(t *testing.T) {
	store := &memoryStore{
		summary:   FinancialSummary{TotalSales: 120000, TotalExpenses: 45000},
		customers: CustomerStats{TotalCustomers: 42, RepeatCustomers: 11},
		monthly:   MonthlyComparison{Income: 30000, Expenses: 8000},
	}
	svc := newTestService(store)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 120000.0, stats.TotalSales)
	assert.Equal(t, 45000.0, stats.TotalExpenses)
	assert.Equal(t, 75000.0, stats.NetProfit)
	assert.Equal(t, int64(42), stats.TotalCustomers)
	assert.Equal(t, int64(11), stats.RepeatCustomers)
	assert.Equal(t, 30000.0, stats.MonthlyIncome)
	assert.Equal(t, 8000.0, stats.MonthlyExpenses)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), store.monthlyFrom)
}

func TestStatsPropagatesStoreFailure(t *testing.T) {
	svc := newTestService(&memoryStore{failStats: true})

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}

func TestSalesTrendWindow(t *testing.T) {
	store := &memoryStore{trend: []TrendPoint{
		{Date: shared.DateOf(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)), Total: 4500},
	}}
	svc := newTestService(store)

	points, err := svc.SalesTrend(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), store.trendFrom)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), store.trendTo)
}

func TestSalesTrendDefaultsToThirtyDays(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store)

	_, err := svc.SalesTrend(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), store.trendFrom)
}
