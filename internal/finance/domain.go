package finance

import "github.com/progarden/garden-crm/internal/shared"

// Transaction types form a closed set.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// Record represents a financial ledger entry. CustomerID is a weak reference:
// it may be empty, and deleting a customer clears it instead of cascading.
type Record struct {
	ID              int64       `json:"id"`
	Date            shared.Date `json:"date"`
	TransactionType string      `json:"transaction_type"`
	Description     string      `json:"description,omitempty"`
	Category        string      `json:"category,omitempty"`
	Amount          float64     `json:"amount"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	Status          string      `json:"status,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	CustomerID      *int64      `json:"customer_id,omitempty"`
	CustomerName    string      `json:"customer_name,omitempty"`
}

// Summary aggregates income against expenses.
type Summary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	NetProfit    float64 `json:"net_profit"`
}

// CreateRecordRequest carries a new financial record payload.
type CreateRecordRequest struct {
	Date            shared.Date `json:"date" validate:"required"`
	TransactionType string      `json:"transaction_type" validate:"required,oneof=Income Expense"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	Amount          float64     `json:"amount" validate:"gte=0"`
	PaymentMethod   string      `json:"payment_method"`
	Status          string      `json:"status"`
	Notes           string      `json:"notes"`
	CustomerID      *int64      `json:"customer_id"`
}

// UpdateRecordRequest is a partial patch. Nil fields are left unchanged;
// a customer_id of 0 clears the link.
type UpdateRecordRequest struct {
	Date            *shared.Date `json:"date"`
	TransactionType *string      `json:"transaction_type" validate:"omitempty,oneof=Income Expense"`
	Description     *string      `json:"description"`
	Category        *string      `json:"category"`
	Amount          *float64     `json:"amount" validate:"omitempty,gte=0"`
	PaymentMethod   *string      `json:"payment_method"`
	Status          *string      `json:"status"`
	Notes           *string      `json:"notes"`
	CustomerID      *int64       `json:"customer_id"`
}
