package shared_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/progarden/garden-crm/internal/shared"
)

func newTokenManager(t *testing.T) (*shared.TokenManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewTokenManager(client, time.Hour), mr
}

func TestTokenIssueAndResolve(t *testing.T) {
	tm, _ := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, shared.Identity{UserID: 7, Username: "amina", IsAdmin: true})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := tm.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(7), id.UserID)
	require.Equal(t, "amina", id.Username)
	require.True(t, id.IsAdmin)
}

func TestTokenResolveMissing(t *testing.T) {
	tm, _ := newTokenManager(t)

	_, err := tm.Resolve(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrTokenMissing)

	_, err = tm.Resolve(context.Background(), "unknown")
	require.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestTokenExpires(t *testing.T) {
	tm, mr := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, shared.Identity{UserID: 1, Username: "amina"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = tm.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestTokenRevoke(t *testing.T) {
	tm, _ := newTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, shared.Identity{UserID: 1, Username: "amina"})
	require.NoError(t, err)
	require.NoError(t, tm.Revoke(ctx, token))

	_, err = tm.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrTokenExpired)
}
