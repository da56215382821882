package suppliers

import "github.com/progarden/garden-crm/internal/shared"

// Supplier represents a goods supplier and the running balance owed to them.
type Supplier struct {
	ID              int64        `json:"id"`
	SupplierName    string       `json:"supplier_name"`
	ProductSupplied string       `json:"product_supplied,omitempty"`
	Contact         string       `json:"contact,omitempty"`
	PaymentTerms    string       `json:"payment_terms,omitempty"`
	LastPurchase    *shared.Date `json:"last_purchase,omitempty"`
	AmountPaid      float64      `json:"amount_paid"`
	Balance         float64      `json:"balance"`
	Notes           string       `json:"notes,omitempty"`
}

// CreateSupplierRequest carries a new supplier payload.
type CreateSupplierRequest struct {
	SupplierName    string       `json:"supplier_name" validate:"required"`
	ProductSupplied string       `json:"product_supplied"`
	Contact         string       `json:"contact"`
	PaymentTerms    string       `json:"payment_terms"`
	LastPurchase    *shared.Date `json:"last_purchase"`
	AmountPaid      float64      `json:"amount_paid" validate:"gte=0"`
	Balance         float64      `json:"balance" validate:"gte=0"`
	Notes           string       `json:"notes"`
}

// UpdateSupplierRequest is a partial patch. Nil fields are left unchanged.
type UpdateSupplierRequest struct {
	SupplierName    *string      `json:"supplier_name" validate:"omitempty,min=1"`
	ProductSupplied *string      `json:"product_supplied"`
	Contact         *string      `json:"contact"`
	PaymentTerms    *string      `json:"payment_terms"`
	LastPurchase    *shared.Date `json:"last_purchase"`
	AmountPaid      *float64     `json:"amount_paid" validate:"omitempty,gte=0"`
	Balance         *float64     `json:"balance" validate:"omitempty,gte=0"`
	Notes           *string      `json:"notes"`
}
