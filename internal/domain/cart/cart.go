package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendora/backend/internal/domain/shared"
)

// LineItem represents a single product line in a cart.
// ProductID is unique within one cart: adding an existing product increments
// the line's quantity instead of appending a duplicate.
type LineItem struct {
	ID             uuid.UUID
	CartID         uuid.UUID
	ProductID      string
	Name           string
	UnitPrice      decimal.Decimal
	Quantity       int
	AvailableStock *int             // informational, not enforced here
	ComparePrice   *decimal.Decimal // strike-through price, optional
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (LineItem) TableName() string {
	return "cart_items"
}

// NewLineItem creates a validated cart line item
func NewLineItem(cartID uuid.UUID, productID, name string, unitPrice decimal.Decimal, quantity int) (*LineItem, error) {
	if productID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Amount returns the line total (unitPrice * quantity)
func (i *LineItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ParsePrice parses a decimal price string, rejecting malformed and
// negative values
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, shared.NewDomainError("INVALID_PRICE", "Price must be a decimal number")
	}
	if d.IsNegative() {
		return decimal.Decimal{}, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return d, nil
}

// Cart represents a shopper's cart aggregate root.
// The four monetary fields are derived from Items and recomputed on every
// mutation; they are never authoritative on their own.
type Cart struct {
	shared.BaseAggregateRoot
	UserID   *uuid.UUID // nil for guest carts held in the session tier
	Items    []LineItem
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal

	policy PricingPolicy `gorm:"-"`
}

// TableName specifies the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart priced under the given policy
func NewCart(userID *uuid.UUID, policy PricingPolicy) *Cart {
	c := &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]LineItem, 0),
		policy:            policy,
	}
	c.recalculateTotals()
	return c
}

// Rehydrate rebuilds a cart from persisted line items, recomputing totals
// under the given policy. Persisted totals are discarded: items are the only
// source of truth.
func Rehydrate(userID *uuid.UUID, items []LineItem, policy PricingPolicy) *Cart {
	c := NewCart(userID, policy)
	c.Items = append(c.Items, items...)
	c.recalculateTotals()
	return c
}

// SetPolicy replaces the pricing policy and recomputes totals
func (c *Cart) SetPolicy(policy PricingPolicy) {
	c.policy = policy
	c.recalculateTotals()
}

// Policy returns the pricing policy the cart is computed under
func (c *Cart) Policy() PricingPolicy {
	return c.policy
}

// AddItem adds quantity of a product to the cart. If a line for the product
// already exists its quantity is incremented by quantity; otherwise a new
// line is appended.
func (c *Cart) AddItem(productID, name string, unitPrice decimal.Decimal, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity += quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.recalculateTotals()
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	item, err := NewLineItem(c.ID, productID, name, unitPrice, quantity)
	if err != nil {
		return err
	}

	c.Items = append(c.Items, *item)
	c.recalculateTotals()
	c.UpdatedAt = time.Now()

	return nil
}

// UpdateItemQuantity sets the quantity of a line to an absolute value.
// A quantity of zero or less removes the line. An unknown product is a
// successful no-op, so retrying an update for an already-removed line
// never surfaces an error.
func (c *Cart) UpdateItemQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity = quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.recalculateTotals()
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// RemoveItem removes the line for a product; no-op when absent
func (c *Cart) RemoveItem(productID string) {
	for idx, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.recalculateTotals()
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// Clear removes all lines from the cart
func (c *Cart) Clear() {
	c.Items = make([]LineItem, 0)
	c.recalculateTotals()
	c.UpdatedAt = time.Now()
}

// Item returns the line for a product, or nil when absent
func (c *Cart) Item(productID string) *LineItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of distinct lines
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Snapshot returns a copy of the cart's line items, detached from the
// aggregate. Used by callers that need a pre-mutation snapshot to roll
// back to when a write fails.
func (c *Cart) Snapshot() []LineItem {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// Restore replaces the cart's lines with a previously taken snapshot
func (c *Cart) Restore(items []LineItem) {
	c.Items = make([]LineItem, len(items))
	copy(c.Items, items)
	c.recalculateTotals()
}

func (c *Cart) recalculateTotals() {
	totals := ComputeTotals(c.Items, c.policy)
	c.Subtotal = totals.Subtotal
	c.Tax = totals.Tax
	c.Shipping = totals.Shipping
	c.Total = totals.Total
}
