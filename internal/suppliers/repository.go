package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/progarden/garden-crm/internal/platform/httpx"
	"github.com/progarden/garden-crm/internal/shared"
)

// Repository provides PostgreSQL backed persistence for suppliers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const supplierColumns = `
	id, supplier_name, product_supplied, contact, payment_terms,
	last_purchase, amount_paid, balance, notes`

func (r *Repository) Get(ctx context.Context, id int64) (*Supplier, error) {
	query := fmt.Sprintf("SELECT %s FROM suppliers WHERE id = $1", supplierColumns)
	s, err := scanSupplier(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *Repository) List(ctx context.Context) ([]Supplier, error) {
	query := fmt.Sprintf("SELECT %s FROM suppliers ORDER BY id", supplierColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, s Supplier) (int64, error) {
	query := `
		INSERT INTO suppliers (
			supplier_name, product_supplied, contact, payment_terms,
			last_purchase, amount_paid, balance, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		s.SupplierName, s.ProductSupplied, s.Contact, s.PaymentTerms,
		dateParam(s.LastPurchase), s.AmountPaid, s.Balance, s.Notes,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

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

	query := fmt.Sprintf("UPDATE suppliers SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argPos)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSupplier(row rowScanner) (*Supplier, error) {
	var s Supplier
	var lastPurchase pgtype.Date
	if err := row.Scan(
		&s.ID, &s.SupplierName, &s.ProductSupplied, &s.Contact,
		&s.PaymentTerms, &lastPurchase, &s.AmountPaid, &s.Balance, &s.Notes,
	); err != nil {
		return nil, err
	}
	if lastPurchase.Valid {
		d := shared.DateOf(lastPurchase.Time)
		s.LastPurchase = &d
	}
	return &s, nil
}

func dateParam(d *shared.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}
