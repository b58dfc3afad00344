package cart

import (
	"context"

	"github.com/google/uuid"
)

// Store is the identity-scoped remote cart tier. It is authoritative for
// authenticated shoppers whenever it is reachable.
//
// Failure contract: Get returns shared.ErrNotFound when the user has no
// persisted cart, shared.ErrUnauthenticated when the caller carries no
// recognized identity, and shared.ErrUnavailable on outage. Put replaces the
// cart's line items wholesale and returns the stored state.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Put(ctx context.Context, userID uuid.UUID, items []LineItem) (*Cart, error)
}

// SessionStore is the guest/offline cart tier, keyed by an opaque session
// identifier. It is best-effort by contract: implementations absorb write
// failures and return an empty item list rather than an error on read
// failure, so callers can always fall back to it. Loss of a session cart
// (expired TTL, cleared storage) is acceptable.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) ([]LineItem, error)
	Put(ctx context.Context, sessionID string, items []LineItem) error
	Delete(ctx context.Context, sessionID string) error
}
