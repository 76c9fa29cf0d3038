package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxCartQuantity caps the quantity of a single movie in the cart
const MaxCartQuantity = 100

// Cart maps movie IDs to requested quantities. It lives in the user's session
// and is never persisted.
type Cart map[int]int

// CartLine is one priced line of the cart view
type CartLine struct {
	Movie    *Movie `json:"movie"`
	Quantity int    `json:"quantity"`
	Subtotal int    `json:"subtotal"`
}

// CartView represents the priced cart
type CartView struct {
	Lines   []*CartLine `json:"lines"`
	Total   int         `json:"total"`
	Missing []int       `json:"missing,omitempty"`
}

// NewCart returns an empty cart
func NewCart() Cart {
	return Cart{}
}

// ParseCart converts the session representation (movie id text -> quantity text)
// into a typed cart. Any malformed entry rejects the whole cart.
func ParseCart(raw map[string]string) (Cart, error) {
	cart := make(Cart, len(raw))
	for key, value := range raw {
		movieID, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || movieID <= 0 {
			return nil, fmt.Errorf("invalid movie id %q in cart", key)
		}

		quantity, err := ParseQuantity(value)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for movie %d: %w", movieID, err)
		}

		cart[movieID] = quantity
	}
	return cart, nil
}

// ParseQuantity parses a requested quantity, which must be a whole number of at least 1
func ParseQuantity(value string) (int, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, newValidationError("quantity must be a whole number")
	}
	if err := validateQuantity(quantity); err != nil {
		return 0, err
	}
	return quantity, nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return newValidationError("quantity must be at least 1")
	}
	if quantity > MaxCartQuantity {
		return newValidationError(fmt.Sprintf("quantity cannot exceed %d", MaxCartQuantity))
	}
	return nil
}

// Encode converts the cart into its session representation
func (c Cart) Encode() map[string]string {
	raw := make(map[string]string, len(c))
	for movieID, quantity := range c {
		raw[strconv.Itoa(movieID)] = strconv.Itoa(quantity)
	}
	return raw
}

// Set sets (overwrites) the quantity for a movie
func (c Cart) Set(movieID, quantity int) error {
	if movieID <= 0 {
		return newValidationError("invalid movie id")
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	c[movieID] = quantity
	return nil
}

// Remove drops a movie from the cart
func (c Cart) Remove(movieIDs ...int) {
	for _, id := range movieIDs {
		delete(c, id)
	}
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// MovieIDs returns the movie IDs in ascending order
func (c Cart) MovieIDs() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TotalDisplay returns the cart total formatted in the main currency unit
func (v *CartView) TotalDisplay() string {
	return FormatAmount(v.Total)
}
