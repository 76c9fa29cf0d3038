package models

import (
	"strings"
	"time"
)

// Order represents a completed purchase. Orders are immutable once created.
type Order struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Total     int       `json:"total" db:"total"` // smallest currency unit
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Country   string    `json:"country" db:"country"`
	Latitude  *float64  `json:"latitude" db:"latitude"`
	Longitude *float64  `json:"longitude" db:"longitude"`
	Items     []*Item   `json:"items,omitempty"`
}

// Item is one line of an order. Price is a snapshot of the movie price at purchase time.
type Item struct {
	ID        int    `json:"id" db:"id"`
	OrderID   int    `json:"order_id" db:"order_id"`
	MovieID   int    `json:"movie_id" db:"movie_id"`
	MovieName string `json:"movie_name,omitempty"`
	Price     int    `json:"price" db:"price"`
	Quantity  int    `json:"quantity" db:"quantity"`
}

// ShippingAddress holds the free-text shipping fields from checkout
type ShippingAddress struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// OrderCreateRequest represents the data needed to create an order and its items
type OrderCreateRequest struct {
	UserID    int                 `json:"user_id"`
	Shipping  ShippingAddress     `json:"shipping"`
	Latitude  *float64            `json:"latitude"`
	Longitude *float64            `json:"longitude"`
	Items     []ItemCreateRequest `json:"items"`
}

// ItemCreateRequest represents one order line to create
type ItemCreateRequest struct {
	MovieID  int `json:"movie_id"`
	Price    int `json:"price"`
	Quantity int `json:"quantity"`
}

// Normalize trims the shipping fields
func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		Country: strings.TrimSpace(a.Country),
	}
}

// String joins the non-empty fields with ", " so that missing fields leave no stray separator
func (a ShippingAddress) String() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{a.City, a.State, a.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// Validate validates order creation data
func (req *OrderCreateRequest) Validate() error {
	if req.UserID <= 0 {
		return newValidationError("order requires a user")
	}

	if len(req.Items) == 0 {
		return newValidationError("order requires at least one item")
	}

	seen := make(map[int]bool, len(req.Items))
	for _, item := range req.Items {
		if item.MovieID <= 0 {
			return newValidationError("order item requires a movie")
		}
		if seen[item.MovieID] {
			return newValidationError("order cannot contain the same movie twice")
		}
		seen[item.MovieID] = true

		if item.Price < 0 {
			return newValidationError("item price cannot be negative")
		}
		if item.Quantity < 1 {
			return newValidationError("item quantity must be at least 1")
		}
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return newValidationError("latitude and longitude must be set together")
	}

	for _, field := range []string{req.Shipping.City, req.Shipping.State, req.Shipping.Country} {
		if len(field) > 255 {
			return newValidationError("shipping fields must be less than 255 characters")
		}
	}

	return nil
}

// Subtotal returns price * quantity for the item
func (i *Item) Subtotal() int {
	return i.Price * i.Quantity
}

// ItemsTotal sums price * quantity over the order's items
func (o *Order) ItemsTotal() int {
	total := 0
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// HasCoordinates returns true if the order was geocoded
func (o *Order) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// TotalDisplay returns the total formatted in the main currency unit
func (o *Order) TotalDisplay() string {
	return FormatAmount(o.Total)
}
