package customers

import (
	"time"

	"github.com/progarden/garden-crm/internal/shared"
)

// Customer represents a customer and their most recent purchase.
type Customer struct {
	ID               int64        `json:"id"`
	CustomerName     string       `json:"customer_name"`
	PhoneNumber      string       `json:"phone_number"`
	Address          string       `json:"address,omitempty"`
	ProductPurchased string       `json:"product_purchased,omitempty"`
	Quantity         int          `json:"quantity"`
	TotalAmount      float64      `json:"total_amount"`
	PurchaseDate     *shared.Date `json:"purchase_date,omitempty"`
	PaymentStatus    string       `json:"payment_status,omitempty"`
	PaymentMethod    string       `json:"payment_method,omitempty"`
	DeliveryStatus   string       `json:"delivery_status,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	CustomerType     string       `json:"customer_type,omitempty"`
	Channel          string       `json:"channel,omitempty"`
	PreferredProduct string       `json:"preferred_product,omitempty"`
	FollowUpDate     *shared.Date `json:"follow_up_date,omitempty"`
}

// LedgerEntry is the slice of a financial record the customer sync owns.
// transaction_type, category and customer_id are never touched through it.
type LedgerEntry struct {
	ID            int64
	Date          time.Time
	Description   string
	Amount        float64
	PaymentMethod string
	Status        string
	Notes         string
}

// CreateCustomerRequest carries a new customer payload.
type CreateCustomerRequest struct {
	CustomerName     string       `json:"customer_name" validate:"required"`
	PhoneNumber      string       `json:"phone_number" validate:"required"`
	Address          string       `json:"address"`
	ProductPurchased string       `json:"product_purchased"`
	Quantity         int          `json:"quantity" validate:"gte=0"`
	TotalAmount      float64      `json:"total_amount" validate:"gte=0"`
	PurchaseDate     *shared.Date `json:"purchase_date"`
	PaymentStatus    string       `json:"payment_status"`
	PaymentMethod    string       `json:"payment_method"`
	DeliveryStatus   string       `json:"delivery_status"`
	Notes            string       `json:"notes"`
	CustomerType     string       `json:"customer_type"`
	Channel          string       `json:"channel"`
	PreferredProduct string       `json:"preferred_product"`
	FollowUpDate     *shared.Date `json:"follow_up_date"`
}

// UpdateCustomerRequest is a partial patch. Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	CustomerName     *string      `json:"customer_name" validate:"omitempty,min=1"`
	PhoneNumber      *string      `json:"phone_number" validate:"omitempty,min=1"`
	Address          *string      `json:"address"`
	ProductPurchased *string      `json:"product_purchased"`
	Quantity         *int         `json:"quantity" validate:"omitempty,gte=0"`
	TotalAmount      *float64     `json:"total_amount" validate:"omitempty,gte=0"`
	PurchaseDate     *shared.Date `json:"purchase_date"`
	PaymentStatus    *string      `json:"payment_status"`
	PaymentMethod    *string      `json:"payment_method"`
	DeliveryStatus   *string      `json:"delivery_status"`
	Notes            *string      `json:"notes"`
	CustomerType     *string      `json:"customer_type"`
	Channel          *string      `json:"channel"`
	PreferredProduct *string      `json:"preferred_product"`
	FollowUpDate     *shared.Date `json:"follow_up_date"`
}
