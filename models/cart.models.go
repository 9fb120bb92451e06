package models

import (
	"fmt"
)

// CartUpdate is the body of POST /api/cart/update
type CartUpdate struct {
	CartData CartItems `json:"cartData"`
}

// Normalize drops zero quantities and rejects negative ones.
func (c CartItems) Normalize() (CartItems, error) {
	out := make(CartItems, len(c))
	for id, qty := range c {
		if qty < 0 {
			return nil, fmt.Errorf("negative quantity %d for product %s", qty, id)
		}
		if qty > 0 {
			out[id] = qty
		}
	}
	return out, nil
}
