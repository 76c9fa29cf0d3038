package models

import (
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a user's review of a movie. A user reviews a movie at most once.
type Review struct {
	ID        int       `json:"id" db:"id"`
	Comment   string    `json:"comment" db:"comment"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	MovieID   int       `json:"movie_id" db:"movie_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Username  string    `json:"username,omitempty"`
}

// ReviewRequest carries the editable review fields
type ReviewRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// Validate validates review data. A zero rating falls back to the minimum.
func (req *ReviewRequest) Validate() error {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return newValidationError("comment is required")
	}

	if len(comment) > 255 {
		return newValidationError("comment must be less than 255 characters")
	}

	if req.Rating == 0 {
		req.Rating = MinRating
	}

	if req.Rating < MinRating || req.Rating > MaxRating {
		return newValidationError("rating must be between 1 and 5")
	}

	req.Comment = comment
	return nil
}
