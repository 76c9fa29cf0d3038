package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviestore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &models.ValidationError{Message: "comment is required"}, http.StatusBadRequest, "comment is required"},
		{"wrapped invalid input", fmt.Errorf("%w: this account has no security question", models.ErrInvalidInput), http.StatusBadRequest, "invalid input: this account has no security question"},
		{"wrapped not found", fmt.Errorf("failed to get petition: %w", models.ErrPetitionNotFound), http.StatusNotFound, "petition not found"},
		{"duplicate", fmt.Errorf("failed to create review: %w", models.ErrDuplicateEntry), http.StatusConflict, "duplicate entry"},
		{"unknown movies", &models.UnknownMoviesError{MovieIDs: []int{3}}, http.StatusConflict, models.ErrUnknownMovies.Error()},
		{"unauthorized", models.ErrUnauthorized, http.StatusUnauthorized, "authentication required"},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "the username or password is incorrect"},
		{"wrong answer", models.ErrWrongAnswer, http.StatusUnprocessableEntity, "the security answer is incorrect"},
		{"empty cart", models.ErrEmptyCart, http.StatusUnprocessableEntity, "cart is empty"},
		{"throttled", models.ErrTooManyAttempts, http.StatusTooManyRequests, "too many attempts, please try again later"},
		{"geocoder", models.ErrGeocodingFailed, http.StatusBadGateway, "geocoding service failed"},
		{"unexpected", fmt.Errorf("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, newRequest(http.MethodGet, "/", "", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestReadFields(t *testing.T) {
	t.Run("json strings numbers and missing keys", func(t *testing.T) {
		req := newRequest(http.MethodPost, "/", `{"quantity":4,"vote":"yes","extra":true}`, nil)

		fields, err := readFields(req, "quantity", "vote", "city")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"quantity": "4", "vote": "yes"}, fields)
	})

	t.Run("form", func(t *testing.T) {
		req := newRequest(http.MethodPost, "/", "city=Paris&country=France", nil)

		fields, err := readFields(req, "city", "state", "country")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"city": "Paris", "state": "", "country": "France"}, fields)
	})

	t.Run("broken json", func(t *testing.T) {
		req := newRequest(http.MethodPost, "/", `{"quantity":`, nil)

		_, err := readFields(req, "quantity")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}
