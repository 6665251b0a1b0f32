package domain

import (
	"math"
	"time"
)

// MaxQuantity matches the INT column backing cart_items.quantity.
const MaxQuantity = math.MaxInt32

// Cart is the per-user basket, keyed by the owner's email.
type Cart struct {
	ID        string     `json:"_id"`
	Email     string     `json:"email"`
	Version   int64      `json:"-"`
	Items     []CartItem `json:"cartItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem references a catalog product. Product is populated on reads.
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
}

// IndexOf returns the position of productID in the cart or -1.
func (c *Cart) IndexOf(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Total sums cost*quantity over all line items. It returns ErrTotalOverflow
// instead of wrapping past math.MaxInt64.
func (c *Cart) Total() (int64, error) {
	var total int64
	for _, item := range c.Items {
		cost, qty := item.Product.Cost, int64(item.Quantity)
		if cost < 0 || qty < 0 {
			return 0, ErrTotalOverflow
		}
		if qty != 0 && cost > math.MaxInt64/qty {
			return 0, ErrTotalOverflow
		}
		line := cost * qty
		if total > math.MaxInt64-line {
			return 0, ErrTotalOverflow
		}
		total += line
	}
	return total, nil
}

// Settlement describes the checkout transition applied in one transaction.
type Settlement struct {
	UserID      string
	CartID      string
	CartVersion int64
	Amount      int64
}
