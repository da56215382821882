package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/progarden/garden-crm/internal/platform/httpx"
)

type memoryStore struct {
	items  map[int64]*Item
	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: make(map[int64]*Item)}
}

func (s *memoryStore) Get(ctx context.Context, id int64) (*Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *memoryStore) List(ctx context.Context) ([]Item, error) {
	var out []Item
	for id := int64(1); id <= s.nextID; id++ {
		if item, ok := s.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *memoryStore) ListLowStock(ctx context.Context) ([]Item, error) {
	var out []Item
	for id := int64(1); id <= s.nextID; id++ {
		if item, ok := s.items[id]; ok && item.NeedsRestock() {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *memoryStore) Create(ctx context.Context, item Item) (int64, error) {
	s.nextID++
	item.ID = s.nextID
	s.items[item.ID] = &item
	return item.ID, nil
}

func (s *memoryStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	item, ok := s.items[id]
	if !ok {
		return httpx.ErrNotFound
	}
	if qty, ok := updates["quantity_in_stock"].(int); ok {
		item.QuantityInStock = qty
	}
	if level, ok := updates["restock_level"].(int); ok {
		item.RestockLevel = level
	}
	if status, ok := updates["status"].(string); ok {
		item.Status = status
	}
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func newTestService(store Store) *Service {
	svc := NewService(store)
	svc.WithNow(func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	})
	return svc
}

func intPtr(i int) *int { return &i }

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		level    int
		want     string
	}{
		{"zero quantity", 0, 5, StatusOutOfStock},
		{"negative quantity", -1, 5, StatusOutOfStock},
		{"at restock level", 5, 5, StatusLowStock},
		{"below restock level", 3, 5, StatusLowStock},
		{"healthy stock", 20, 5, StatusInStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveStatus(tt.quantity, tt.level))
		})
	}
}

func TestCreateDerivesStatusAndDefaults(t *testing.T) {
	svc := newTestService(newMemoryStore())

	item, err := svc.Create(context.Background(), CreateItemRequest{
		ItemName:        "Tomato Seeds",
		QuantityInStock: 3,
	})
	require.NoError(t, err)
	require.Equal(t, defaultRestockLevel, item.RestockLevel)
	require.Equal(t, StatusLowStock, item.Status)
	require.Equal(t, "2024-03-15", item.DateAdded.String())
}

func TestUpdateRederivesStatus(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	item, err := svc.Create(context.Background(), CreateItemRequest{
		ItemName:        "Shovel",
		QuantityInStock: 50,
	})
	require.NoError(t, err)
	require.Equal(t, StatusInStock, item.Status)

	updated, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{
		QuantityInStock: intPtr(0),
	})
	require.NoError(t, err)
	require.Equal(t, StatusOutOfStock, updated.Status)

	// raising the restock level can push an untouched quantity into low stock
	updated, err = svc.Update(context.Background(), item.ID, UpdateItemRequest{
		QuantityInStock: intPtr(10),
		RestockLevel:    intPtr(15),
	})
	require.NoError(t, err)
	require.Equal(t, StatusLowStock, updated.Status)
}

func TestUpdateWithoutStockFieldsKeepsStatus(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	item, err := svc.Create(context.Background(), CreateItemRequest{
		ItemName:        "Watering Can",
		QuantityInStock: 2,
	})
	require.NoError(t, err)
	require.Equal(t, StatusLowStock, item.Status)

	name := "Watering Can XL"
	updated, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{ItemName: &name})
	require.NoError(t, err)
	require.Equal(t, StatusLowStock, updated.Status)
}

func TestListLowStock(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateItemRequest{ItemName: "Rake", QuantityInStock: 40})
	require.NoError(t, err)
	low, err := svc.Create(ctx, CreateItemRequest{ItemName: "Gloves", QuantityInStock: 1})
	require.NoError(t, err)

	items, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, low.ID, items[0].ID)
}
