package admin_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenproject/warden/internal/admin"
	"github.com/wardenproject/warden/internal/storage"
)

func TestFreezeStateInitiallyUnfrozen(t *testing.T) {
	ctx := context.Background()
	fz := admin.NewFreezeState(storage.NewMemStore())

	frozen, err := fz.Frozen(ctx)
	require.NoError(t, err)
	assert.False(t, frozen)

	frozen, frozenAt, err := fz.Status(ctx)
	require.NoError(t, err)
	assert.False(t, frozen)
	assert.Empty(t, frozenAt)

	assert.NoError(t, fz.Guard(ctx))
}

func TestFreezeStateTransitions(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	fz := admin.NewFreezeState(store)

	frozenAt, err := fz.Freeze(ctx)
	require.NoError(t, err)
	parsed, err := time.Parse(time.RFC3339, frozenAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)

	frozen, statusAt, err := fz.Status(ctx)
	require.NoError(t, err)
	assert.True(t, frozen)
	assert.Equal(t, frozenAt, statusAt)

	assert.ErrorIs(t, fz.Guard(ctx), admin.ErrFrozen)

	require.NoError(t, fz.Unfreeze(ctx))

	frozen, statusAt, err = fz.Status(ctx)
	require.NoError(t, err)
	assert.False(t, frozen)
	assert.Empty(t, statusAt)
	assert.NoError(t, fz.Guard(ctx))

	// Unfreeze deletes the reserved keys instead of writing false.
	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFreezeStateCoercesUnreadableFlag(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	require.NoError(t, store.Put(ctx, "__warden_frozen", json.RawMessage(`"not-a-bool"`)))

	fz := admin.NewFreezeState(store)
	frozen, err := fz.Frozen(ctx)
	require.NoError(t, err)
	assert.False(t, frozen)
}

func TestIsReservedKey(t *testing.T) {
	assert.True(t, admin.IsReservedKey("__warden_frozen"))
	assert.True(t, admin.IsReservedKey("__warden_anything"))
	assert.False(t, admin.IsReservedKey("warden"))
	assert.False(t, admin.IsReservedKey("user-key"))
}
