package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/progarden/garden-crm/internal/platform/db"
	"github.com/progarden/garden-crm/internal/platform/httpx"
	"github.com/progarden/garden-crm/internal/shared"
)

// Repository persists customers together with their derived ledger entries.
// The ledger methods operate on the financial_records table but only on the
// fields the customer sync owns.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Customer, error)
	GetForUpdate(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Create(ctx context.Context, customer Customer) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	LinkedEntries(ctx context.Context, customerID int64) ([]LedgerEntry, error)
	CreateEntry(ctx context.Context, customerID int64, entry LedgerEntry) (int64, error)
	UpdateEntry(ctx context.Context, entryID int64, entry LedgerEntry) error
	UnlinkEntries(ctx context.Context, customerID int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		repoTx := &repository{db: tx, pool: r.pool}
		return fn(ctx, repoTx)
	})
}

const customerColumns = `
	id, customer_name, phone_number, address, product_purchased, quantity,
	total_amount, purchase_date, payment_status, payment_method,
	delivery_status, notes, customer_type, channel, preferred_product,
	follow_up_date`

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers WHERE id = $1", customerColumns)
	return r.scanOne(ctx, query, id)
}

// GetForUpdate locks the customer row for the duration of the surrounding
// transaction, serializing concurrent mutations of the same customer.
func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers WHERE id = $1 FOR UPDATE", customerColumns)
	return r.scanOne(ctx, query, id)
}

func (r *repository) scanOne(ctx context.Context, query string, id int64) (*Customer, error) {
	var c Customer
	var purchaseDate, followUpDate pgtype.Date
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CustomerName, &c.PhoneNumber, &c.Address, &c.ProductPurchased,
		&c.Quantity, &c.TotalAmount, &purchaseDate, &c.PaymentStatus,
		&c.PaymentMethod, &c.DeliveryStatus, &c.Notes, &c.CustomerType,
		&c.Channel, &c.PreferredProduct, &followUpDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	c.PurchaseDate = dateOrNil(purchaseDate)
	c.FollowUpDate = dateOrNil(followUpDate)
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers ORDER BY id", customerColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		var purchaseDate, followUpDate pgtype.Date
		if err := rows.Scan(
			&c.ID, &c.CustomerName, &c.PhoneNumber, &c.Address, &c.ProductPurchased,
			&c.Quantity, &c.TotalAmount, &purchaseDate, &c.PaymentStatus,
			&c.PaymentMethod, &c.DeliveryStatus, &c.Notes, &c.CustomerType,
			&c.Channel, &c.PreferredProduct, &followUpDate,
		); err != nil {
			return nil, err
		}
		c.PurchaseDate = dateOrNil(purchaseDate)
		c.FollowUpDate = dateOrNil(followUpDate)
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) (int64, error) {
	query := `
		INSERT INTO customers (
			customer_name, phone_number, address, product_purchased, quantity,
			total_amount, purchase_date, payment_status, payment_method,
			delivery_status, notes, customer_type, channel, preferred_product,
			follow_up_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		customer.CustomerName,
		customer.PhoneNumber,
		customer.Address,
		customer.ProductPurchased,
		customer.Quantity,
		customer.TotalAmount,
		dateParam(customer.PurchaseDate),
		customer.PaymentStatus,
		customer.PaymentMethod,
		customer.DeliveryStatus,
		customer.Notes,
		customer.CustomerType,
		customer.Channel,
		customer.PreferredProduct,
		dateParam(customer.FollowUpDate),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
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

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argPos)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// LinkedEntries returns ledger entries referencing the customer, ordered by
// id ascending so the last element is the most recently created.
func (r *repository) LinkedEntries(ctx context.Context, customerID int64) ([]LedgerEntry, error) {
	query := `
		SELECT id, date, description, amount, payment_method, status, notes
		FROM financial_records
		WHERE customer_id = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &e.Amount,
			&e.PaymentMethod, &e.Status, &e.Notes); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) CreateEntry(ctx context.Context, customerID int64, entry LedgerEntry) (int64, error) {
	query := `
		INSERT INTO financial_records (
			date, transaction_type, description, category, amount,
			payment_method, status, notes, customer_id
		) VALUES ($1, 'Income', $2, 'Sales', $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		entry.Date,
		entry.Description,
		entry.Amount,
		entry.PaymentMethod,
		entry.Status,
		entry.Notes,
		customerID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateEntry(ctx context.Context, entryID int64, entry LedgerEntry) error {
	query := `
		UPDATE financial_records
		SET date = $2, description = $3, amount = $4, payment_method = $5,
		    status = $6, notes = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		entryID,
		entry.Date,
		entry.Description,
		entry.Amount,
		entry.PaymentMethod,
		entry.Status,
		entry.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) UnlinkEntries(ctx context.Context, customerID int64) error {
	_, err := r.db.Exec(ctx,
		"UPDATE financial_records SET customer_id = NULL WHERE customer_id = $1",
		customerID)
	return err
}

func dateOrNil(d pgtype.Date) *shared.Date {
	if !d.Valid {
		return nil
	}
	date := shared.DateOf(d.Time)
	return &date
}

func dateParam(d *shared.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}
