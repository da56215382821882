package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/progarden/garden-crm/internal/platform/httpx"
)

type memoryStore struct {
	nextID int64
	users  map[int64]User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[int64]User)}
}

func (m *memoryStore) Get(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &u, nil
}

func (m *memoryStore) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryStore) Create(ctx context.Context, u User) (int64, error) {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return 0, httpx.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memoryStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	if v, ok := updates["username"]; ok {
		u.Username = v.(string)
	}
	if v, ok := updates["email"]; ok {
		u.Email = v.(string)
	}
	if v, ok := updates["password_hash"]; ok {
		u.PasswordHash = v.(string)
	}
	if v, ok := updates["is_admin"]; ok {
		u.IsAdmin = v.(bool)
	}
	m.users[id] = u
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func TestCreateHashesPassword(t *testing.T) {
	svc := NewService(newMemoryStore())

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "gardener",
		Email:    "gardener@progarden.test",
		Password: "longenoughpass",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "longenoughpass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenoughpass")))
}

func TestCreateDuplicateUsername(t *testing.T) {
	svc := NewService(newMemoryStore())

	_, err := svc.Create(context.Background(), CreateUserRequest{Username: "gardener", Password: "longenoughpass"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserRequest{Username: "gardener", Password: "otherpassword"})
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestUpdateRehashesChangedPassword(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)

	created, err := svc.Create(context.Background(), CreateUserRequest{Username: "gardener", Password: "longenoughpass"})
	require.NoError(t, err)

	newPass := "freshpassword1"
	updated, err := svc.Update(context.Background(), created.ID, UpdateUserRequest{Password: &newPass})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPass)))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("longenoughpass")))
}

func TestUpdateUnknownUser(t *testing.T) {
	svc := NewService(newMemoryStore())

	admin := true
	_, err := svc.Update(context.Background(), 99, UpdateUserRequest{IsAdmin: &admin})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
