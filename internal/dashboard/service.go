package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Store abstracts the aggregate queries for the service.
type Store interface {
	FinancialSummary(ctx context.Context) (FinancialSummary, error)
	CustomerStats(ctx context.Context) (CustomerStats, error)
	MonthlyComparison(ctx context.Context, from time.Time) (MonthlyComparison, error)
	SalesTrend(ctx context.Context, from, to time.Time) ([]TrendPoint, error)
	ExpenseBreakdown(ctx context.Context) ([]ExpenseSlice, error)
}

// Service assembles dashboard responses.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Stats loads the three dashboard aggregates concurrently and merges them.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		summary  FinancialSummary
		cust     CustomerStats
		monthly  MonthlyComparison
		firstDay = firstOfMonth(s.now())
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.store.FinancialSummary(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		cust, err = s.store.CustomerStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = s.store.MonthlyComparison(ctx, firstDay)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalSales:      summary.TotalSales,
		TotalExpenses:   summary.TotalExpenses,
		NetProfit:       summary.TotalSales - summary.TotalExpenses,
		TotalCustomers:  cust.TotalCustomers,
		RepeatCustomers: cust.RepeatCustomers,
		MonthlyIncome:   monthly.Income,
		MonthlyExpenses: monthly.Expenses,
	}, nil
}

// SalesTrend returns daily income sums over the trailing window.
func (s *Service) SalesTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	to := truncateDay(s.now())
	from := to.AddDate(0, 0, -days)
	return s.store.SalesTrend(ctx, from, to)
}

// ExpenseBreakdown returns expense totals per category.
func (s *Service) ExpenseBreakdown(ctx context.Context) ([]ExpenseSlice, error) {
	return s.store.ExpenseBreakdown(ctx)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
