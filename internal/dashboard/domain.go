package dashboard

import "github.com/progarden/garden-crm/internal/shared"

// Stats is the merged dashboard payload.
type Stats struct {
	TotalSales      float64 `json:"total_sales"`
	TotalExpenses   float64 `json:"total_expenses"`
	NetProfit       float64 `json:"net_profit"`
	TotalCustomers  int64   `json:"total_customers"`
	RepeatCustomers int64   `json:"repeat_customers"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
}

// FinancialSummary holds all-time income and expense totals.
type FinancialSummary struct {
	TotalSales    float64 `json:"total_sales"`
	TotalExpenses float64 `json:"total_expenses"`
}

// CustomerStats counts the customer base and its repeat segment.
type CustomerStats struct {
	TotalCustomers  int64 `json:"total_customers"`
	RepeatCustomers int64 `json:"repeat_customers"`
}

// MonthlyComparison holds income and expenses since the first of the month.
type MonthlyComparison struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// TrendPoint is one day of income on the sales trend.
type TrendPoint struct {
	Date  shared.Date `json:"date"`
	Total float64     `json:"total"`
}

// ExpenseSlice is one category on the expense breakdown.
type ExpenseSlice struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}
