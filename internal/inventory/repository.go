package inventory

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

// Repository provides PostgreSQL backed persistence for inventory items.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = `
	id, item_name, category, quantity_in_stock, unit, cost_price,
	selling_price, supplier, restock_level, status, date_added`

// Get returns a single item.
func (r *Repository) Get(ctx context.Context, id int64) (*Item, error) {
	query := fmt.Sprintf("SELECT %s FROM inventory WHERE id = $1", itemColumns)
	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// List returns all items.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	query := fmt.Sprintf("SELECT %s FROM inventory ORDER BY id", itemColumns)
	return r.queryItems(ctx, query)
}

// ListLowStock returns items at or below their restock level.
func (r *Repository) ListLowStock(ctx context.Context) ([]Item, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM inventory WHERE quantity_in_stock <= restock_level ORDER BY quantity_in_stock",
		itemColumns)
	return r.queryItems(ctx, query)
}

func (r *Repository) queryItems(ctx context.Context, query string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Create inserts an item.
func (r *Repository) Create(ctx context.Context, item Item) (int64, error) {
	query := `
		INSERT INTO inventory (
			item_name, category, quantity_in_stock, unit, cost_price,
			selling_price, supplier, restock_level, status, date_added
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		item.ItemName,
		item.Category,
		item.QuantityInStock,
		item.Unit,
		item.CostPrice,
		item.SellingPrice,
		item.Supplier,
		item.RestockLevel,
		item.Status,
		item.DateAdded.Time,
	).Scan(&id)
	if err != nil {
		return 0, err
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

	query := fmt.Sprintf("UPDATE inventory SET %s WHERE id = $%d",
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

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM inventory WHERE id = $1", id)
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

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var dateAdded pgtype.Date
	if err := row.Scan(
		&item.ID, &item.ItemName, &item.Category, &item.QuantityInStock,
		&item.Unit, &item.CostPrice, &item.SellingPrice, &item.Supplier,
		&item.RestockLevel, &item.Status, &dateAdded,
	); err != nil {
		return nil, err
	}
	item.DateAdded = shared.DateOf(dateAdded.Time)
	return &item, nil
}
