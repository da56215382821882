package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/progarden/garden-crm/internal/customers"
	"github.com/progarden/garden-crm/internal/platform/httpx"
	"github.com/progarden/garden-crm/internal/shared"
)

type memoryStore struct {
	records map[int64]*Record
	nextID  int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[int64]*Record)}
}

func (s *memoryStore) Get(ctx context.Context, id int64) (*Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *memoryStore) List(ctx context.Context) ([]Record, error) {
	var out []Record
	for id := s.nextID; id >= 1; id-- {
		if rec, ok := s.records[id]; ok {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (s *memoryStore) Create(ctx context.Context, rec Record) (int64, error) {
	s.nextID++
	rec.ID = s.nextID
	s.records[rec.ID] = &rec
	return rec.ID, nil
}

func (s *memoryStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	rec, ok := s.records[id]
	if !ok {
		return httpx.ErrNotFound
	}
	if amount, ok := updates["amount"].(float64); ok {
		rec.Amount = amount
	}
	if status, ok := updates["status"].(string); ok {
		rec.Status = status
	}
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.records[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *memoryStore) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	for _, rec := range s.records {
		switch rec.TransactionType {
		case TypeIncome:
			sum.TotalIncome += rec.Amount
		case TypeExpense:
			sum.TotalExpense += rec.Amount
		}
	}
	sum.NetProfit = sum.TotalIncome - sum.TotalExpense
	return &sum, nil
}

type stubCustomers struct {
	customer *customers.Customer
}

func (s *stubCustomers) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	if s.customer == nil || s.customer.ID != id {
		return nil, httpx.ErrNotFound
	}
	return s.customer, nil
}

func TestCreateRecordDefaultsStatus(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, &stubCustomers{})

	date, err := shared.ParseDate("2024-02-10")
	require.NoError(t, err)

	rec, err := svc.Create(context.Background(), CreateRecordRequest{
		Date:            date,
		TransactionType: TypeExpense,
		Category:        "Fertilizer",
		Amount:          800,
	})
	require.NoError(t, err)
	require.Equal(t, "Pending", rec.Status)
	require.NotZero(t, rec.ID)
}

func TestCreateFromCustomer(t *testing.T) {
	store := newMemoryStore()
	purchase, err := shared.ParseDate("2024-01-20")
	require.NoError(t, err)
	source := &stubCustomers{customer: &customers.Customer{
		ID:               3,
		CustomerName:     "Hana",
		ProductPurchased: "Lavender",
		TotalAmount:      2500,
		PurchaseDate:     &purchase,
		PaymentMethod:    "Transfer",
		PaymentStatus:    "Paid",
	}}
	svc := NewService(store, source)

	rec, err := svc.CreateFromCustomer(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, TypeIncome, rec.TransactionType)
	require.Equal(t, "Sales", rec.Category)
	require.Equal(t, "Sale to Hana - Lavender", rec.Description)
	require.Equal(t, 2500.0, rec.Amount)
	require.Equal(t, "2024-01-20", rec.Date.String())
	require.Equal(t, "Paid", rec.Status)
	require.NotNil(t, rec.CustomerID)
	require.Equal(t, int64(3), *rec.CustomerID)
}

func TestCreateFromCustomerUnknown(t *testing.T) {
	svc := NewService(newMemoryStore(), &stubCustomers{})

	_, err := svc.CreateFromCustomer(context.Background(), 9)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCreateFromCustomerWithoutDateUsesToday(t *testing.T) {
	store := newMemoryStore()
	source := &stubCustomers{customer: &customers.Customer{
		ID:           4,
		CustomerName: "Hana",
		TotalAmount:  100,
	}}
	svc := NewService(store, source)
	svc.WithNow(func() time.Time {
		return time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	})

	rec, err := svc.CreateFromCustomer(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, "2024-05-02", rec.Date.String())
	require.Equal(t, "Sale to Hana - Product", rec.Description)
}

func TestSummaryNetProfit(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, &stubCustomers{})
	ctx := context.Background()

	date := shared.DateOf(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	for _, rec := range []CreateRecordRequest{
		{Date: date, TransactionType: TypeIncome, Amount: 1000},
		{Date: date, TransactionType: TypeIncome, Amount: 250},
		{Date: date, TransactionType: TypeExpense, Amount: 400},
	} {
		_, err := svc.Create(ctx, rec)
		require.NoError(t, err)
	}

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 1250.0, sum.TotalIncome)
	require.Equal(t, 400.0, sum.TotalExpense)
	require.Equal(t, 850.0, sum.NetProfit)
}

func TestUpdateUnknownRecord(t *testing.T) {
	svc := NewService(newMemoryStore(), &stubCustomers{})

	_, err := svc.Update(context.Background(), 5, UpdateRecordRequest{})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
