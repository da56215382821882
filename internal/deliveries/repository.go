package deliveries

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

// Repository provides PostgreSQL backed persistence for delivery logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const deliveryColumns = `
	id, date, customer_name, location, item_delivered,
	quantity, delivery_person, delivery_cost, notes`

func (r *Repository) Get(ctx context.Context, id int64) (*Delivery, error) {
	query := fmt.Sprintf("SELECT %s FROM delivery_logs WHERE id = $1", deliveryColumns)
	d, err := scanDelivery(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *Repository) List(ctx context.Context) ([]Delivery, error) {
	query := fmt.Sprintf("SELECT %s FROM delivery_logs ORDER BY date DESC, id DESC", deliveryColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, d Delivery) (int64, error) {
	query := `
		INSERT INTO delivery_logs (
			date, customer_name, location, item_delivered,
			quantity, delivery_person, delivery_cost, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		d.Date.Time, d.CustomerName, d.Location, d.ItemDelivered,
		d.Quantity, d.DeliveryPerson, d.DeliveryCost, d.Notes,
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

	query := fmt.Sprintf("UPDATE delivery_logs SET %s WHERE id = $%d",
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
	tag, err := r.pool.Exec(ctx, "DELETE FROM delivery_logs WHERE id = $1", id)
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

func scanDelivery(row rowScanner) (*Delivery, error) {
	var d Delivery
	var date pgtype.Date
	if err := row.Scan(
		&d.ID, &date, &d.CustomerName, &d.Location, &d.ItemDelivered,
		&d.Quantity, &d.DeliveryPerson, &d.DeliveryCost, &d.Notes,
	); err != nil {
		return nil, err
	}
	d.Date = shared.DateOf(date.Time)
	return &d, nil
}
