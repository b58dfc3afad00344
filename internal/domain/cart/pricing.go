package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Default pricing policy values. Each is independently overridable through
// the [cart] configuration section.
const (
	DefaultTaxRate               = "0.10"
	DefaultFreeShippingThreshold = "100"
	DefaultFlatShippingFee       = "10"
)

// PricingPolicy holds the cart-level pricing rules applied when totals are
// computed: a flat tax rate and a free-shipping threshold with a flat fee
// below it.
type PricingPolicy struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// NewPricingPolicy builds a policy from decimal strings. It rejects values
// that do not parse or are negative.
func NewPricingPolicy(taxRate, freeShippingThreshold, flatShippingFee string) (PricingPolicy, error) {
	var policy PricingPolicy
	var err error

	for _, field := range []struct {
		dst  *decimal.Decimal
		name string
		raw  string
	}{
		{&policy.TaxRate, "tax rate", taxRate},
		{&policy.FreeShippingThreshold, "free shipping threshold", freeShippingThreshold},
		{&policy.FlatShippingFee, "flat shipping fee", flatShippingFee},
	} {
		*field.dst, err = decimal.NewFromString(field.raw)
		if err != nil {
			return PricingPolicy{}, fmt.Errorf("invalid %s %q: %w", field.name, field.raw, err)
		}
		if field.dst.IsNegative() {
			return PricingPolicy{}, fmt.Errorf("%s cannot be negative", field.name)
		}
	}
	return policy, nil
}

// DefaultPricingPolicy returns the built-in pricing policy
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:               decimal.RequireFromString(DefaultTaxRate),
		FreeShippingThreshold: decimal.RequireFromString(DefaultFreeShippingThreshold),
		FlatShippingFee:       decimal.RequireFromString(DefaultFlatShippingFee),
	}
}

// Totals holds the derived monetary fields of a cart. Values are kept at
// full decimal precision; rounding to two places happens only at the
// presentation boundary.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals computes cart totals for a list of line items under the
// given policy. It is a pure function: no validation, no side effects.
// Callers are responsible for ensuring quantity >= 1 and unitPrice >= 0.
//
// Shipping is free strictly above the threshold: a subtotal equal to the
// threshold still pays the flat fee. An empty item list yields all zeros.
func ComputeTotals(items []LineItem, policy PricingPolicy) Totals {
	if len(items) == 0 {
		return Totals{
			Subtotal: decimal.Zero,
			Tax:      decimal.Zero,
			Shipping: decimal.Zero,
			Total:    decimal.Zero,
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	tax := subtotal.Mul(policy.TaxRate)

	shipping := policy.FlatShippingFee
	if subtotal.GreaterThan(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
