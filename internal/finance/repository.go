package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/progarden/garden-crm/internal/platform/httpx"
	"github.com/progarden/garden-crm/internal/shared"
)

// pgForeignKeyViolation is the PostgreSQL error code raised when a record
// points at a customer that does not exist.
const pgForeignKeyViolation = "23503"

// Repository provides PostgreSQL backed persistence for financial records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recordColumns = `
	r.id, r.date, r.transaction_type, r.description, r.category, r.amount,
	r.payment_method, r.status, r.notes, r.customer_id,
	COALESCE(c.customer_name, '')`

const recordFrom = `
	FROM financial_records r
	LEFT JOIN customers c ON c.id = r.customer_id`

// Get returns a single record, enriched with the linked customer's name.
func (r *Repository) Get(ctx context.Context, id int64) (*Record, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE r.id = $1", recordColumns, recordFrom)
	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List returns all records ordered by date descending.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY r.date DESC, r.id DESC", recordColumns, recordFrom)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Create inserts a record. A reference to a missing customer is rejected as a
// validation failure so the weak-reference invariant holds.
func (r *Repository) Create(ctx context.Context, rec Record) (int64, error) {
	query := `
		INSERT INTO financial_records (
			date, transaction_type, description, category, amount,
			payment_method, status, notes, customer_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		rec.Date.Time,
		rec.TransactionType,
		rec.Description,
		rec.Category,
		rec.Amount,
		rec.PaymentMethod,
		rec.Status,
		rec.Notes,
		customerIDParam(rec.CustomerID),
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

// Update applies the given column updates.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	argPos := 1
	for column, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE financial_records SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argPos)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes a record permanently.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM financial_records WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Summary computes income and expense totals over the whole ledger.
func (r *Repository) Summary(ctx context.Context) (*Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'Expense'), 0)
		FROM financial_records`

	var s Summary
	if err := r.pool.QueryRow(ctx, query).Scan(&s.TotalIncome, &s.TotalExpense); err != nil {
		return nil, err
	}
	s.NetProfit = s.TotalIncome - s.TotalExpense
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var date pgtype.Date
	var customerID pgtype.Int8
	if err := row.Scan(
		&rec.ID, &date, &rec.TransactionType, &rec.Description, &rec.Category,
		&rec.Amount, &rec.PaymentMethod, &rec.Status, &rec.Notes,
		&customerID, &rec.CustomerName,
	); err != nil {
		return nil, err
	}
	rec.Date = shared.DateOf(date.Time)
	if customerID.Valid {
		rec.CustomerID = &customerID.Int64
	}
	return &rec, nil
}

func customerIDParam(id *int64) pgtype.Int8 {
	if id == nil || *id == 0 {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *id, Valid: true}
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: customer does not exist", httpx.ErrValidation)
	}
	return err
}
