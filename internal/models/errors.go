package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrPetitionNotFound   = errors.New("petition not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrUnknownMovies      = errors.New("cart references movies that are no longer available")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("the username or password is incorrect")
	ErrWrongAnswer        = errors.New("the security answer is incorrect")
	ErrTooManyAttempts    = errors.New("too many attempts, please try again later")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrGeocodingFailed    = errors.New("geocoding service failed")
)

// ValidationError is a user-facing validation message. It matches ErrInvalidInput
// under errors.Is so callers can branch on the category without losing the text.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

// UnknownMoviesError reports cart entries whose movies are no longer in the catalog.
// It matches ErrUnknownMovies under errors.Is.
type UnknownMoviesError struct {
	MovieIDs []int
}

func (e *UnknownMoviesError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnknownMovies.Error(), e.MovieIDs)
}

func (e *UnknownMoviesError) Is(target error) bool {
	return target == ErrUnknownMovies
}
