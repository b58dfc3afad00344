package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/shared"
)

// GormCartStore implements cart.Store, the identity-scoped remote tier.
// Line items are the only authoritative state: stored totals are recomputed
// on every read and rewritten on every put.
type GormCartStore struct {
	db     *gorm.DB
	policy cart.PricingPolicy
}

// NewGormCartStore creates a new GormCartStore priced under the given policy
func NewGormCartStore(db *gorm.DB, policy cart.PricingPolicy) *GormCartStore {
	return &GormCartStore{db: db, policy: policy}
}

// Get retrieves the user's cart. An empty user ID means the caller carries
// no identity and gets ErrUnauthenticated; infrastructure failures surface
// as ErrUnavailable so callers can distinguish outage from absence.
func (s *GormCartStore) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthenticated
	}

	var stored cart.Cart
	if err := s.db.WithContext(ctx).
		Preload("Items").
		First(&stored, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewDomainErrorWithCause("UNAVAILABLE", "Cart store read failed", err)
	}

	return cart.Rehydrate(&userID, stored.Items, s.policy), nil
}

// Put replaces the user's cart items and returns the recomputed cart.
// The replace is transactional: the stale item set and the new one never
// coexist.
func (s *GormCartStore) Put(ctx context.Context, userID uuid.UUID, items []cart.LineItem) (*cart.Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthenticated
	}

	fresh := cart.Rehydrate(&userID, items, s.policy)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored cart.Cart
		err := tx.First(&stored, "user_id = ?", userID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			stored = *fresh
		case err != nil:
			return err
		default:
			stored.Subtotal = fresh.Subtotal
			stored.Tax = fresh.Tax
			stored.Shipping = fresh.Shipping
			stored.Total = fresh.Total
			stored.UpdatedAt = fresh.UpdatedAt
		}

		if err := tx.Where("cart_id = ?", stored.ID).Delete(&cart.LineItem{}).Error; err != nil {
			return err
		}

		rows := make([]cart.LineItem, len(items))
		copy(rows, items)
		for idx := range rows {
			if rows[idx].ID == uuid.Nil {
				rows[idx].ID = uuid.New()
			}
			rows[idx].CartID = stored.ID
		}
		stored.Items = nil

		if err := tx.Omit("Items").Save(&stored).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("UNAVAILABLE", "Cart store write failed", err)
	}

	return fresh, nil
}
