package customers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/progarden/garden-crm/internal/platform/httpx"
	"github.com/progarden/garden-crm/internal/shared"
)

type fakeRecord struct {
	entry           LedgerEntry
	customerID      *int64
	transactionType string
	category        string
}

type memoryRepo struct {
	customers    map[int64]*Customer
	records      map[int64]*fakeRecord
	nextCustomer int64
	nextRecord   int64
	failUnlink   bool
	deleted      []int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		customers: make(map[int64]*Customer),
		records:   make(map[int64]*fakeRecord),
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memoryRepo) GetForUpdate(ctx context.Context, id int64) (*Customer, error) {
	return r.Get(ctx, id)
}

func (r *memoryRepo) List(ctx context.Context) ([]Customer, error) {
	var out []Customer
	for id := int64(1); id <= r.nextCustomer; id++ {
		if c, ok := r.customers[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memoryRepo) Create(ctx context.Context, customer Customer) (int64, error) {
	r.nextCustomer++
	customer.ID = r.nextCustomer
	r.customers[customer.ID] = &customer
	return customer.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if _, ok := r.customers[id]; !ok {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.customers[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.customers, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memoryRepo) LinkedEntries(ctx context.Context, customerID int64) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	for id := int64(1); id <= r.nextRecord; id++ {
		rec, ok := r.records[id]
		if !ok || rec.customerID == nil || *rec.customerID != customerID {
			continue
		}
		entries = append(entries, rec.entry)
	}
	return entries, nil
}

func (r *memoryRepo) CreateEntry(ctx context.Context, customerID int64, entry LedgerEntry) (int64, error) {
	r.nextRecord++
	entry.ID = r.nextRecord
	linked := customerID
	r.records[entry.ID] = &fakeRecord{
		entry:           entry,
		customerID:      &linked,
		transactionType: "Income",
		category:        "Sales",
	}
	return entry.ID, nil
}

func (r *memoryRepo) UpdateEntry(ctx context.Context, entryID int64, entry LedgerEntry) error {
	rec, ok := r.records[entryID]
	if !ok {
		return httpx.ErrNotFound
	}
	entry.ID = entryID
	rec.entry = entry
	return nil
}

func (r *memoryRepo) UnlinkEntries(ctx context.Context, customerID int64) error {
	if r.failUnlink {
		return context.DeadlineExceeded
	}
	for _, rec := range r.records {
		if rec.customerID != nil && *rec.customerID == customerID {
			rec.customerID = nil
		}
	}
	return nil
}

func (r *memoryRepo) linkedTo(customerID int64) []*fakeRecord {
	var out []*fakeRecord
	for id := int64(1); id <= r.nextRecord; id++ {
		if rec, ok := r.records[id]; ok && rec.customerID != nil && *rec.customerID == customerID {
			out = append(out, rec)
		}
	}
	return out
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.WithNow(func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	})
	return svc
}

func strPtr(s string) *string { return &s }

func amountPtr(f float64) *float64 { return &f }

func TestCreateDerivesIncomeRecord(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	purchase, err := shared.ParseDate("2024-01-01")
	require.NoError(t, err)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName:     "Abebe",
		PhoneNumber:      "0911000000",
		ProductPurchased: "Rose Seedlings",
		TotalAmount:      45000,
		PurchaseDate:     &purchase,
		PaymentMethod:    "Cash",
	})
	require.NoError(t, err)
	require.NotZero(t, customer.ID)

	linked := repo.linkedTo(customer.ID)
	require.Len(t, linked, 1)
	rec := linked[0]
	require.Equal(t, "Income", rec.transactionType)
	require.Equal(t, "Sales", rec.category)
	require.Equal(t, 45000.0, rec.entry.Amount)
	require.Equal(t, "Sale to Abebe - Rose Seedlings", rec.entry.Description)
	require.Equal(t, "2024-01-01", rec.entry.Date.Format("2006-01-02"))
	require.Equal(t, "Pending", rec.entry.Status)
}

func TestCreateZeroAmountSkipsRecord(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName: "Abebe",
		PhoneNumber:  "0911000000",
	})
	require.NoError(t, err)
	require.Empty(t, repo.linkedTo(customer.ID))
}

func TestCreateWithoutPurchaseDateUsesToday(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName: "Abebe",
		PhoneNumber:  "0911000000",
		TotalAmount:  1200,
	})
	require.NoError(t, err)

	linked := repo.linkedTo(customer.ID)
	require.Len(t, linked, 1)
	require.Equal(t, "2024-03-15", linked[0].entry.Date.Format("2006-01-02"))
	// product label falls back when nothing was purchased by name
	require.Equal(t, "Sale to Abebe - Product", linked[0].entry.Description)
}

func TestUpdateSyncsExistingRecord(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName: "Abebe",
		PhoneNumber:  "0911000000",
		TotalAmount:  45000,
	})
	require.NoError(t, err)
	require.Len(t, repo.linkedTo(customer.ID), 1)

	_, err = svc.Update(context.Background(), customer.ID, UpdateCustomerRequest{
		TotalAmount: amountPtr(50000),
	})
	require.NoError(t, err)

	linked := repo.linkedTo(customer.ID)
	require.Len(t, linked, 1, "no new record should be created")
	require.Equal(t, 50000.0, linked[0].entry.Amount)
}

func TestUpdateWithoutLinkCreatesRecord(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName: "Abebe",
		PhoneNumber:  "0911000000",
	})
	require.NoError(t, err)
	require.Empty(t, repo.linkedTo(customer.ID))

	_, err = svc.Update(context.Background(), customer.ID, UpdateCustomerRequest{
		TotalAmount: amountPtr(3000),
	})
	require.NoError(t, err)

	linked := repo.linkedTo(customer.ID)
	require.Len(t, linked, 1)
	require.Equal(t, 3000.0, linked[0].entry.Amount)
}

func TestUpdateWithoutLinkAndZeroAmountDoesNothing(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName: "Abebe",
		PhoneNumber:  "0911000000",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), customer.ID, UpdateCustomerRequest{
		Notes: strPtr("called back"),
	})
	require.NoError(t, err)
	require.Empty(t, repo.linkedTo(customer.ID))
}

func TestUpdatePicksHighestIDAmongDuplicates(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName: "Abebe",
		PhoneNumber:  "0911000000",
		TotalAmount:  100,
	})
	require.NoError(t, err)

	// a duplicate link, e.g. created directly through the financial endpoint
	dupID, err := repo.CreateEntry(context.Background(), customer.ID, LedgerEntry{Amount: 999})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), customer.ID, UpdateCustomerRequest{
		TotalAmount: amountPtr(250),
	})
	require.NoError(t, err)

	linked := repo.linkedTo(customer.ID)
	require.Len(t, linked, 2, "duplicates are never merged or deleted")
	require.Equal(t, 100.0, linked[0].entry.Amount, "older record untouched")
	require.Equal(t, dupID, linked[1].entry.ID)
	require.Equal(t, 250.0, linked[1].entry.Amount, "highest id wins the tie-break")
}

func TestDeletePreservesHistory(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName: "Abebe",
		PhoneNumber:  "0911000000",
		TotalAmount:  45000,
	})
	require.NoError(t, err)
	recordID := repo.linkedTo(customer.ID)[0].entry.ID

	require.NoError(t, svc.Delete(context.Background(), customer.ID))

	_, err = svc.Get(context.Background(), customer.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	rec, ok := repo.records[recordID]
	require.True(t, ok, "financial record must survive the customer")
	require.Nil(t, rec.customerID, "back reference cleared")
	require.Equal(t, 45000.0, rec.entry.Amount)
}

func TestDeleteUnknownCustomer(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), 42)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteFailureLeavesCustomer(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{
		CustomerName: "Abebe",
		PhoneNumber:  "0911000000",
		TotalAmount:  45000,
	})
	require.NoError(t, err)

	repo.failUnlink = true
	require.Error(t, svc.Delete(context.Background(), customer.ID))
	require.Empty(t, repo.deleted, "customer row must not be removed when unlinking fails")
}

func TestScenarioCreateUpdateDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	purchase, err := shared.ParseDate("2024-01-01")
	require.NoError(t, err)

	customer, err := svc.Create(ctx, CreateCustomerRequest{
		CustomerName: "A",
		PhoneNumber:  "0911000000",
		TotalAmount:  45000,
		PurchaseDate: &purchase,
	})
	require.NoError(t, err)

	linked := repo.linkedTo(customer.ID)
	require.Len(t, linked, 1)
	require.Equal(t, 45000.0, linked[0].entry.Amount)
	require.Equal(t, "Income", linked[0].transactionType)

	_, err = svc.Update(ctx, customer.ID, UpdateCustomerRequest{TotalAmount: amountPtr(50000)})
	require.NoError(t, err)

	linked = repo.linkedTo(customer.ID)
	require.Len(t, linked, 1)
	require.Equal(t, 50000.0, linked[0].entry.Amount)
	recordID := linked[0].entry.ID

	require.NoError(t, svc.Delete(ctx, customer.ID))

	rec := repo.records[recordID]
	require.NotNil(t, rec)
	require.Nil(t, rec.customerID)

	_, err = svc.Get(ctx, customer.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
