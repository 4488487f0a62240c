package admin

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/wardenproject/warden/internal/storage"
)

// Reserved keys holding the freeze record inside the instance's own store.
// Absence is the canonical "not frozen" representation.
const (
	frozenKey   = "__warden_frozen"
	frozenAtKey = "__warden_frozen_at"

	// reservedPrefix namespaces bookkeeping keys away from user data. User
	// writes to this namespace are rejected and reads never expose it.
	reservedPrefix = "__warden_"
)

// ErrFrozen is returned by mutating operations while an instance is frozen.
// The message is surfaced verbatim to admin callers.
var ErrFrozen = errors.New("Instance is frozen. Unfreeze before making changes.")

// IsReservedKey reports whether key belongs to the admin bookkeeping
// namespace.
func IsReservedKey(key string) bool {
	return strings.HasPrefix(key, reservedPrefix)
}

// FreezeState tracks the frozen flag persisted under reserved keys. Writes
// to the reserved keys go straight to the store, bypassing the mutation
// guard, so an instance can always be thawed.
type FreezeState struct {
	store storage.Store
}

// NewFreezeState wraps a store with freeze bookkeeping.
func NewFreezeState(store storage.Store) *FreezeState {
	return &FreezeState{store: store}
}

// Frozen reports the current flag, coercing an absent or unreadable record
// to false.
func (f *FreezeState) Frozen(ctx context.Context) (bool, error) {
	raw, err := f.store.Get(ctx, frozenKey)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}

	var frozen bool
	if err := json.Unmarshal(raw, &frozen); err != nil {
		return false, nil
	}

	return frozen, nil
}

// Guard returns ErrFrozen when the instance is frozen. Mutating operations
// call it strictly before touching the store.
func (f *FreezeState) Guard(ctx context.Context) error {
	frozen, err := f.Frozen(ctx)
	if err != nil {
		return err
	}
	if frozen {
		return ErrFrozen
	}

	return nil
}

// Freeze transitions to frozen and returns the captured timestamp. The
// timestamp is taken once and both fields are written from it.
func (f *FreezeState) Freeze(ctx context.Context) (string, error) {
	frozenAt := time.Now().UTC().Format(time.RFC3339)

	flag, _ := json.Marshal(true)
	if err := f.store.Put(ctx, frozenKey, flag); err != nil {
		return "", err
	}
	at, _ := json.Marshal(frozenAt)
	if err := f.store.Put(ctx, frozenAtKey, at); err != nil {
		return "", err
	}

	return frozenAt, nil
}

// Unfreeze deletes both reserved keys rather than writing false, keeping
// absence as the canonical unfrozen state.
func (f *FreezeState) Unfreeze(ctx context.Context) error {
	if err := f.store.Delete(ctx, frozenKey); err != nil {
		return err
	}

	return f.store.Delete(ctx, frozenAtKey)
}

// Status reports the flag and, only while frozen, the capture timestamp.
func (f *FreezeState) Status(ctx context.Context) (frozen bool, frozenAt string, err error) {
	frozen, err = f.Frozen(ctx)
	if err != nil || !frozen {
		return false, "", err
	}

	raw, err := f.store.Get(ctx, frozenAtKey)
	if err != nil {
		return false, "", err
	}
	if raw != nil {
		_ = json.Unmarshal(raw, &frozenAt)
	}

	return true, frozenAt, nil
}
