package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/progarden/garden-crm/internal/shared"
)

// Repository aggregates dashboard figures straight from PostgreSQL. The
// queries run at call time; nothing is cached.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) FinancialSummary(ctx context.Context) (FinancialSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Expense'), 0)
		FROM financial_records`

	var s FinancialSummary
	if err := r.pool.QueryRow(ctx, query).Scan(&s.TotalSales, &s.TotalExpenses); err != nil {
		return FinancialSummary{}, err
	}
	return s, nil
}

func (r *Repository) CustomerStats(ctx context.Context) (CustomerStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE customer_type IN ('Repeat', 'Returning'))
		FROM customers`

	var s CustomerStats
	if err := r.pool.QueryRow(ctx, query).Scan(&s.TotalCustomers, &s.RepeatCustomers); err != nil {
		return CustomerStats{}, err
	}
	return s, nil
}

func (r *Repository) MonthlyComparison(ctx context.Context, from time.Time) (MonthlyComparison, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Expense'), 0)
		FROM financial_records
		WHERE date >= $1`

	var c MonthlyComparison
	if err := r.pool.QueryRow(ctx, query, from).Scan(&c.Income, &c.Expenses); err != nil {
		return MonthlyComparison{}, err
	}
	return c, nil
}

func (r *Repository) SalesTrend(ctx context.Context, from, to time.Time) ([]TrendPoint, error) {
	query := `
		SELECT date, COALESCE(SUM(amount), 0)
		FROM financial_records
		WHERE transaction_type = 'Income' AND date BETWEEN $1 AND $2
		GROUP BY date
		ORDER BY date`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrendPoint
	for rows.Next() {
		var p TrendPoint
		var date pgtype.Date
		if err := rows.Scan(&date, &p.Total); err != nil {
			return nil, err
		}
		p.Date = shared.DateOf(date.Time)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) ExpenseBreakdown(ctx context.Context) ([]ExpenseSlice, error) {
	query := `
		SELECT COALESCE(NULLIF(category, ''), 'Other'), SUM(amount)
		FROM financial_records
		WHERE transaction_type = 'Expense'
		GROUP BY 1
		ORDER BY 2 DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseSlice
	for rows.Next() {
		var s ExpenseSlice
		if err := rows.Scan(&s.Category, &s.Total); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
