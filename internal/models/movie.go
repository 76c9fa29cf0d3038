package models

import "strings"

// Movie represents a movie in the catalog. Prices are in the smallest currency unit.
type Movie struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Price       int    `json:"price" db:"price"`
	Description string `json:"description" db:"description"`
	Image       string `json:"image" db:"image"`
}

// MovieCreateRequest represents the data needed to add a movie to the catalog
type MovieCreateRequest struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MovieWithReviews is the movie detail view
type MovieWithReviews struct {
	*Movie
	Reviews []*Review `json:"reviews"`
}

// Validate validates movie creation data
func (req *MovieCreateRequest) Validate() error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return newValidationError("movie name is required")
	}

	if len(name) > 255 {
		return newValidationError("movie name must be less than 255 characters")
	}

	if req.Price < 0 {
		return newValidationError("movie price cannot be negative")
	}

	return nil
}

// PriceDisplay returns the price formatted in the main currency unit
func (m *Movie) PriceDisplay() string {
	return FormatAmount(m.Price)
}
