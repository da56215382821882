package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/progarden/garden-crm/internal/customers"
	"github.com/progarden/garden-crm/internal/shared"
)

// Store abstracts record persistence for the service.
type Store interface {
	Get(ctx context.Context, id int64) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, rec Record) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context) (*Summary, error)
}

// CustomerSource resolves customers for on-demand record derivation.
type CustomerSource interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// Service wraps financial record business rules.
type Service struct {
	store     Store
	customers CustomerSource
	now       func() time.Time
}

// NewService constructs a Service.
func NewService(store Store, customerSource CustomerSource) *Service {
	return &Service{store: store, customers: customerSource, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Get returns a single record.
func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.store.Get(ctx, id)
}

// List returns all records, newest first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}

// Create stores a new record.
func (s *Service) Create(ctx context.Context, req CreateRecordRequest) (*Record, error) {
	rec := Record{
		Date:            req.Date,
		TransactionType: req.TransactionType,
		Description:     req.Description,
		Category:        req.Category,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		Status:          defaultString(req.Status, "Pending"),
		Notes:           req.Notes,
		CustomerID:      req.CustomerID,
	}
	id, err := s.store.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	rec.ID = id
	return &rec, nil
}

// CreateFromCustomer derives an income record from a customer's purchase data
// on demand, the same mapping the automatic sync uses.
func (s *Service) CreateFromCustomer(ctx context.Context, customerID int64) (*Record, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	date := shared.DateOf(s.now().UTC())
	if customer.PurchaseDate != nil {
		date = *customer.PurchaseDate
	}
	product := customer.ProductPurchased
	if product == "" {
		product = "Product"
	}

	rec := Record{
		Date:            date,
		TransactionType: TypeIncome,
		Description:     fmt.Sprintf("Sale to %s - %s", customer.CustomerName, product),
		Category:        "Sales",
		Amount:          customer.TotalAmount,
		PaymentMethod:   customer.PaymentMethod,
		Status:          defaultString(customer.PaymentStatus, "Pending"),
		Notes:           customer.Notes,
		CustomerID:      &customer.ID,
	}
	id, err := s.store.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	rec.ID = id
	rec.CustomerName = customer.CustomerName
	return &rec, nil
}

// Update applies a partial patch to a record.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRecordRequest) (*Record, error) {
	updates := make(map[string]interface{})
	if req.Date != nil {
		updates["date"] = req.Date.Time
	}
	if req.TransactionType != nil {
		updates["transaction_type"] = *req.TransactionType
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.PaymentMethod != nil {
		updates["payment_method"] = *req.PaymentMethod
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.CustomerID != nil {
		updates["customer_id"] = customerIDParam(req.CustomerID)
	}

	if err := s.store.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Summary reports income and expense totals.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.store.Summary(ctx)
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
