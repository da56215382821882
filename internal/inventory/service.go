package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/progarden/garden-crm/internal/shared"
)

const defaultRestockLevel = 5

// Store abstracts item persistence for the service.
type Store interface {
	Get(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	ListLowStock(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, item Item) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// Service wraps inventory business rules. The stock status is never accepted
// from callers; it is derived from quantity against the restock level.
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

// Get returns a single item.
func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	return s.store.Get(ctx, id)
}

// List returns all items.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.store.List(ctx)
}

// ListLowStock returns items needing restock.
func (s *Service) ListLowStock(ctx context.Context) ([]Item, error) {
	return s.store.ListLowStock(ctx)
}

// Create stores a new item with its derived status.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*Item, error) {
	restockLevel := defaultRestockLevel
	if req.RestockLevel != nil {
		restockLevel = *req.RestockLevel
	}

	item := Item{
		ItemName:        req.ItemName,
		Category:        req.Category,
		QuantityInStock: req.QuantityInStock,
		Unit:            req.Unit,
		CostPrice:       req.CostPrice,
		SellingPrice:    req.SellingPrice,
		Supplier:        req.Supplier,
		RestockLevel:    restockLevel,
		Status:          DeriveStatus(req.QuantityInStock, restockLevel),
		DateAdded:       shared.DateOf(s.now().UTC()),
	}

	id, err := s.store.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	item.ID = id
	return &item, nil
}

// Update applies a partial patch, rederiving the status whenever quantity or
// restock level change.
func (s *Service) Update(ctx context.Context, id int64, req UpdateItemRequest) (*Item, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	updates := make(map[string]interface{})
	if req.ItemName != nil {
		updates["item_name"] = *req.ItemName
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.SellingPrice != nil {
		updates["selling_price"] = *req.SellingPrice
	}
	if req.Supplier != nil {
		updates["supplier"] = *req.Supplier
	}

	quantity := current.QuantityInStock
	restockLevel := current.RestockLevel
	if req.QuantityInStock != nil {
		quantity = *req.QuantityInStock
		updates["quantity_in_stock"] = quantity
	}
	if req.RestockLevel != nil {
		restockLevel = *req.RestockLevel
		updates["restock_level"] = restockLevel
	}
	if req.QuantityInStock != nil || req.RestockLevel != nil {
		updates["status"] = DeriveStatus(quantity, restockLevel)
	}

	if err := s.store.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.store.Get(ctx, id)
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
