package customers

import (
	"context"
	"fmt"
	"time"
)

// Service implements customer CRUD and keeps each customer's derived income
// record in step with the customer's own monetary fields. Financial history
// is never deleted: removing a customer only clears the back references.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Get returns a single customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

// Create stores a new customer and, when the purchase amount is positive,
// derives a linked income record in the same transaction.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	customer := Customer{
		CustomerName:     req.CustomerName,
		PhoneNumber:      req.PhoneNumber,
		Address:          req.Address,
		ProductPurchased: req.ProductPurchased,
		Quantity:         req.Quantity,
		TotalAmount:      req.TotalAmount,
		PurchaseDate:     req.PurchaseDate,
		PaymentStatus:    defaultString(req.PaymentStatus, "Pending"),
		PaymentMethod:    req.PaymentMethod,
		DeliveryStatus:   defaultString(req.DeliveryStatus, "Pending"),
		Notes:            req.Notes,
		CustomerType:     defaultString(req.CustomerType, "New"),
		Channel:          req.Channel,
		PreferredProduct: req.PreferredProduct,
		FollowUpDate:     req.FollowUpDate,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, customer)
		if err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		customer.ID = id

		if customer.TotalAmount > 0 {
			if _, err := repo.CreateEntry(ctx, id, s.deriveEntry(&customer)); err != nil {
				return fmt.Errorf("derive income record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update applies a partial patch to the customer and synchronizes the linked
// income record. When several records reference the customer the one with the
// highest id is treated as authoritative; the rest are left untouched.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	var updated *Customer
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get customer: %w", err)
		}

		updates := buildUpdates(current, req)
		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				return fmt.Errorf("update customer: %w", err)
			}
		}

		entries, err := repo.LinkedEntries(ctx, id)
		if err != nil {
			return fmt.Errorf("load linked records: %w", err)
		}

		switch {
		case len(entries) > 0:
			last := entries[len(entries)-1]
			derived := s.deriveEntry(current)
			if err := repo.UpdateEntry(ctx, last.ID, derived); err != nil {
				return fmt.Errorf("sync income record: %w", err)
			}
		case current.TotalAmount > 0:
			if _, err := repo.CreateEntry(ctx, id, s.deriveEntry(current)); err != nil {
				return fmt.Errorf("derive income record: %w", err)
			}
		}

		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete unlinks every financial record referencing the customer and then
// removes the customer row, all in one transaction. The records themselves
// survive as customer-less financial history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.GetForUpdate(ctx, id); err != nil {
			return fmt.Errorf("get customer: %w", err)
		}
		if err := repo.UnlinkEntries(ctx, id); err != nil {
			return fmt.Errorf("unlink records: %w", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return nil
	})
}

// deriveEntry maps customer fields onto the derived income record.
func (s *Service) deriveEntry(c *Customer) LedgerEntry {
	date := s.now().UTC().Truncate(24 * time.Hour)
	if c.PurchaseDate != nil {
		date = c.PurchaseDate.Time
	}
	product := c.ProductPurchased
	if product == "" {
		product = "Product"
	}
	return LedgerEntry{
		Date:          date,
		Description:   fmt.Sprintf("Sale to %s - %s", c.CustomerName, product),
		Amount:        c.TotalAmount,
		PaymentMethod: c.PaymentMethod,
		Status:        defaultString(c.PaymentStatus, "Pending"),
		Notes:         c.Notes,
	}
}

// buildUpdates collects the columns named by the patch and mirrors them onto
// the in-memory customer so the ledger sync sees post-update values.
func buildUpdates(current *Customer, req UpdateCustomerRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
		current.CustomerName = *req.CustomerName
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
		current.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		updates["address"] = *req.Address
		current.Address = *req.Address
	}
	if req.ProductPurchased != nil {
		updates["product_purchased"] = *req.ProductPurchased
		current.ProductPurchased = *req.ProductPurchased
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
		current.Quantity = *req.Quantity
	}
	if req.TotalAmount != nil {
		updates["total_amount"] = *req.TotalAmount
		current.TotalAmount = *req.TotalAmount
	}
	if req.PurchaseDate != nil {
		updates["purchase_date"] = req.PurchaseDate.Time
		current.PurchaseDate = req.PurchaseDate
	}
	if req.PaymentStatus != nil {
		updates["payment_status"] = *req.PaymentStatus
		current.PaymentStatus = *req.PaymentStatus
	}
	if req.PaymentMethod != nil {
		updates["payment_method"] = *req.PaymentMethod
		current.PaymentMethod = *req.PaymentMethod
	}
	if req.DeliveryStatus != nil {
		updates["delivery_status"] = *req.DeliveryStatus
		current.DeliveryStatus = *req.DeliveryStatus
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
		current.Notes = *req.Notes
	}
	if req.CustomerType != nil {
		updates["customer_type"] = *req.CustomerType
		current.CustomerType = *req.CustomerType
	}
	if req.Channel != nil {
		updates["channel"] = *req.Channel
		current.Channel = *req.Channel
	}
	if req.PreferredProduct != nil {
		updates["preferred_product"] = *req.PreferredProduct
		current.PreferredProduct = *req.PreferredProduct
	}
	if req.FollowUpDate != nil {
		updates["follow_up_date"] = req.FollowUpDate.Time
		current.FollowUpDate = req.FollowUpDate
	}
	return updates
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
