package inventory

import "github.com/progarden/garden-crm/internal/shared"

// Stock statuses derived from quantity against the restock level.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// Item represents a stocked product.
type Item struct {
	ID              int64       `json:"id"`
	ItemName        string      `json:"item_name"`
	Category        string      `json:"category,omitempty"`
	QuantityInStock int         `json:"quantity_in_stock"`
	Unit            string      `json:"unit,omitempty"`
	CostPrice       float64     `json:"cost_price"`
	SellingPrice    float64     `json:"selling_price"`
	Supplier        string      `json:"supplier,omitempty"`
	RestockLevel    int         `json:"restock_level"`
	Status          string      `json:"status"`
	DateAdded       shared.Date `json:"date_added"`
}

// NeedsRestock reports whether the item sits at or below its restock level.
func (i Item) NeedsRestock() bool {
	return i.QuantityInStock <= i.RestockLevel
}

// DeriveStatus computes the stock status from current quantity.
func DeriveStatus(quantity, restockLevel int) string {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= restockLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// CreateItemRequest carries a new inventory item payload.
type CreateItemRequest struct {
	ItemName        string  `json:"item_name" validate:"required"`
	Category        string  `json:"category"`
	QuantityInStock int     `json:"quantity_in_stock" validate:"gte=0"`
	Unit            string  `json:"unit"`
	CostPrice       float64 `json:"cost_price" validate:"gte=0"`
	SellingPrice    float64 `json:"selling_price" validate:"gte=0"`
	Supplier        string  `json:"supplier"`
	RestockLevel    *int    `json:"restock_level" validate:"omitempty,gte=0"`
}

// UpdateItemRequest is a partial patch. Nil fields are left unchanged.
type UpdateItemRequest struct {
	ItemName        *string  `json:"item_name" validate:"omitempty,min=1"`
	Category        *string  `json:"category"`
	QuantityInStock *int     `json:"quantity_in_stock" validate:"omitempty,gte=0"`
	Unit            *string  `json:"unit"`
	CostPrice       *float64 `json:"cost_price" validate:"omitempty,gte=0"`
	SellingPrice    *float64 `json:"selling_price" validate:"omitempty,gte=0"`
	Supplier        *string  `json:"supplier"`
	RestockLevel    *int     `json:"restock_level" validate:"omitempty,gte=0"`
}
