package cartsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/shared"
)

// SourceOfTruth names the storage tier a cart session is pinned to
type SourceOfTruth string

const (
	// SourceRemote is the identity-scoped server store
	SourceRemote SourceOfTruth = "remote"
	// SourceLocal is the session-scoped fallback store
	SourceLocal SourceOfTruth = "local"
)

type sessionState int

const (
	stateUninitialized sessionState = iota
	stateLoading
	stateReady
)

// DefaultRemoteTimeout bounds every call against the remote tier
const DefaultRemoteTimeout = 5 * time.Second

// Service presents one logical cart across two storage tiers. The initial
// Load pins the session to whichever tier answered, and the session never
// swaps tiers afterward; a remote write failure falls back to the session
// tier for that single call only.
//
// One Service instance serves one cart session. Callers must serialize
// concurrent mutations per product ID themselves; the service guards its own
// state but does not resolve interleaved increments across sessions.
type Service struct {
	mu      sync.Mutex
	state   sessionState
	source  SourceOfTruth
	current *cart.Cart

	remote    cart.Store
	local     cart.SessionStore
	userID    *uuid.UUID // nil for anonymous sessions
	sessionID string
	policy    cart.PricingPolicy
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService creates a cart sync service for one session. userID is nil for
// anonymous sessions; sessionID keys the fallback tier.
func NewService(
	remote cart.Store,
	local cart.SessionStore,
	userID *uuid.UUID,
	sessionID string,
	policy cart.PricingPolicy,
	timeout time.Duration,
	logger *zap.Logger,
) *Service {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &Service{
		state:     stateUninitialized,
		remote:    remote,
		local:     local,
		userID:    userID,
		sessionID: sessionID,
		policy:    policy,
		timeout:   timeout,
		logger:    logger,
	}
}

// Source returns the tier the session is pinned to. Only meaningful after
// Load has completed.
func (s *Service) Source() SourceOfTruth {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Load hydrates the session cart and pins the source of truth. A remote
// answer pins the remote tier; an unauthenticated response falls back to the
// session tier silently; any other remote failure falls back too but flags
// the result as degraded. Load is idempotent: once Ready it returns the
// cached cart without touching either store.
func (s *Service) Load(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateReady {
		return s.result(false), nil
	}
	s.state = stateLoading

	uid := uuid.Nil
	if s.userID != nil {
		uid = *s.userID
	}

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	remoteCart, err := s.remote.Get(rctx, uid)
	cancel()

	degraded := false
	switch {
	case err == nil:
		remoteCart.SetPolicy(s.policy)
		s.current = remoteCart
		s.source = SourceRemote
	case errors.Is(err, shared.ErrNotFound):
		// Recognized identity without a stored cart starts empty on the
		// remote tier.
		s.current = cart.NewCart(s.userID, s.policy)
		s.source = SourceRemote
	case errors.Is(err, shared.ErrUnauthenticated):
		s.loadLocal(ctx)
	default:
		s.logger.Warn("remote cart load failed, serving session tier",
			zap.String("session_id", s.sessionID),
			zap.Error(err))
		s.loadLocal(ctx)
		degraded = true
	}

	s.state = stateReady
	return s.result(degraded), nil
}

func (s *Service) loadLocal(ctx context.Context) {
	items, err := s.local.Get(ctx, s.sessionID)
	if err != nil {
		// The session tier is best effort; an unreadable entry means an
		// empty cart, not a failed load.
		s.logger.Debug("session cart unreadable, starting empty",
			zap.String("session_id", s.sessionID),
			zap.Error(err))
		items = nil
	}
	s.current = cart.Rehydrate(s.userID, items, s.policy)
	s.source = SourceLocal
}

// AddItem adds quantity of a product to the cart, merging into an existing
// line for the same product. Quantity defaults to 1.
func (s *Service) AddItem(ctx context.Context, input AddItemInput) (*SyncResult, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return s.mutate(ctx, func(c *cart.Cart) error {
		if err := c.AddItem(input.ProductID, input.Name, input.UnitPrice, quantity); err != nil {
			return err
		}
		if line := c.Item(input.ProductID); line != nil {
			line.AvailableStock = input.AvailableStock
			if input.ComparePrice != nil {
				compare, err := cart.ParsePrice(*input.ComparePrice)
				if err != nil {
					return err
				}
				line.ComparePrice = &compare
			}
		}
		return nil
	})
}

// UpdateQuantity sets a line's quantity to an absolute value. Zero or
// negative removes the line; an unknown product succeeds without effect.
func (s *Service) UpdateQuantity(ctx context.Context, input UpdateQuantityInput) (*SyncResult, error) {
	return s.mutate(ctx, func(c *cart.Cart) error {
		c.UpdateItemQuantity(input.ProductID, input.Quantity)
		return nil
	})
}

// RemoveItem removes a line; no-op for an unknown product
func (s *Service) RemoveItem(ctx context.Context, productID string) (*SyncResult, error) {
	return s.mutate(ctx, func(c *cart.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// Clear empties the cart in the pinned tier
func (s *Service) Clear(ctx context.Context) (*SyncResult, error) {
	return s.mutate(ctx, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// mutate applies fn to the session cart and writes the result through to the
// pinned tier. If fn rejects the change, or the write fails in both tiers,
// the in-memory cart is restored to its pre-call snapshot and the error
// surfaces unchanged.
func (s *Service) mutate(ctx context.Context, fn func(c *cart.Cart) error) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateReady {
		return nil, shared.NewDomainError("CART_NOT_LOADED", "Cart session must be loaded before mutating")
	}

	snapshot := s.current.Snapshot()

	if err := fn(s.current); err != nil {
		s.current.Restore(snapshot)
		return nil, err
	}

	degraded, err := s.writeThrough(ctx)
	if err != nil {
		s.current.Restore(snapshot)
		return nil, err
	}

	return s.result(degraded), nil
}

// writeThrough persists the current items to the pinned tier. A remote-tier
// failure is retried once against the session tier for this call only; the
// session stays pinned to the remote tier.
func (s *Service) writeThrough(ctx context.Context) (bool, error) {
	items := s.current.Snapshot()

	if s.source == SourceRemote {
		uid := uuid.Nil
		if s.userID != nil {
			uid = *s.userID
		}

		wctx, cancel := context.WithTimeout(ctx, s.timeout)
		_, err := s.remote.Put(wctx, uid, items)
		cancel()
		if err == nil {
			return false, nil
		}

		s.logger.Warn("remote cart write failed, falling back to session tier",
			zap.String("session_id", s.sessionID),
			zap.Error(err))

		if lerr := s.local.Put(ctx, s.sessionID, items); lerr != nil {
			return false, shared.NewDomainErrorWithCause("UNAVAILABLE", "Cart write failed in both tiers", errors.Join(err, lerr))
		}
		return true, nil
	}

	if err := s.local.Put(ctx, s.sessionID, items); err != nil {
		return false, shared.NewDomainErrorWithCause("UNAVAILABLE", "Cart write failed", err)
	}
	return false, nil
}

func (s *Service) result(degraded bool) *SyncResult {
	return &SyncResult{
		Cart:     ToCartView(s.current),
		Source:   s.source,
		Degraded: degraded,
	}
}
