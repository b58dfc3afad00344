package cartsync

import (
	"github.com/shopspring/decimal"

	"github.com/vendora/backend/internal/domain/cart"
)

// LineItemView is the presentation shape of a cart line.
// Monetary fields are rendered to two decimal places here and nowhere
// earlier; internal arithmetic stays on full-precision decimals.
type LineItemView struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	UnitPrice      string  `json:"unit_price"`
	Quantity       int     `json:"quantity"`
	Amount         string  `json:"amount"`
	AvailableStock *int    `json:"available_stock,omitempty"`
	ComparePrice   *string `json:"compare_price,omitempty"`
}

// CartView is the presentation shape of a cart with derived totals
type CartView struct {
	Items    []LineItemView `json:"items"`
	Subtotal string         `json:"subtotal"`
	Tax      string         `json:"tax"`
	Shipping string         `json:"shipping"`
	Total    string         `json:"total"`
}

// SyncResult carries the recomputed cart after a sync operation, the tier
// that served it, and whether the pinned tier had to be bypassed for this
// call.
type SyncResult struct {
	Cart     CartView      `json:"cart"`
	Source   SourceOfTruth `json:"source"`
	Degraded bool          `json:"degraded"`
}

// AddItemInput is the request to add a product to the cart
type AddItemInput struct {
	ProductID      string          `json:"product_id" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity       int             `json:"quantity"`
	AvailableStock *int            `json:"available_stock,omitempty"`
	ComparePrice   *string         `json:"compare_price,omitempty"`
}

// UpdateQuantityInput is the request to set a line's quantity
type UpdateQuantityInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// ToCartView maps a cart aggregate to its presentation shape
func ToCartView(c *cart.Cart) CartView {
	items := make([]LineItemView, 0, len(c.Items))
	for idx := range c.Items {
		items = append(items, toLineItemView(&c.Items[idx]))
	}
	return CartView{
		Items:    items,
		Subtotal: c.Subtotal.StringFixed(2),
		Tax:      c.Tax.StringFixed(2),
		Shipping: c.Shipping.StringFixed(2),
		Total:    c.Total.StringFixed(2),
	}
}

func toLineItemView(item *cart.LineItem) LineItemView {
	view := LineItemView{
		ProductID:      item.ProductID,
		Name:           item.Name,
		UnitPrice:      item.UnitPrice.StringFixed(2),
		Quantity:       item.Quantity,
		Amount:         item.Amount().StringFixed(2),
		AvailableStock: item.AvailableStock,
	}
	if item.ComparePrice != nil {
		formatted := item.ComparePrice.StringFixed(2)
		view.ComparePrice = &formatted
	}
	return view
}
