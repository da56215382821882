package deliveries

import "github.com/progarden/garden-crm/internal/shared"

// Delivery records a single customer delivery run.
type Delivery struct {
	ID             int64       `json:"id"`
	Date           shared.Date `json:"date"`
	CustomerName   string      `json:"customer_name"`
	Location       string      `json:"location,omitempty"`
	ItemDelivered  string      `json:"item_delivered,omitempty"`
	Quantity       int         `json:"quantity"`
	DeliveryPerson string      `json:"delivery_person,omitempty"`
	DeliveryCost   float64     `json:"delivery_cost"`
	Notes          string      `json:"notes,omitempty"`
}

// CreateDeliveryRequest carries a new delivery payload.
type CreateDeliveryRequest struct {
	Date           *shared.Date `json:"date"`
	CustomerName   string       `json:"customer_name" validate:"required"`
	Location       string       `json:"location"`
	ItemDelivered  string       `json:"item_delivered"`
	Quantity       int          `json:"quantity" validate:"gte=0"`
	DeliveryPerson string       `json:"delivery_person"`
	DeliveryCost   float64      `json:"delivery_cost" validate:"gte=0"`
	Notes          string       `json:"notes"`
}

// UpdateDeliveryRequest is a partial patch. Nil fields are left unchanged.
type UpdateDeliveryRequest struct {
	Date           *shared.Date `json:"date"`
	CustomerName   *string      `json:"customer_name" validate:"omitempty,min=1"`
	Location       *string      `json:"location"`
	ItemDelivered  *string      `json:"item_delivered"`
	Quantity       *int         `json:"quantity" validate:"omitempty,gte=0"`
	DeliveryPerson *string      `json:"delivery_person"`
	DeliveryCost   *float64     `json:"delivery_cost" validate:"omitempty,gte=0"`
	Notes          *string      `json:"notes"`
}
