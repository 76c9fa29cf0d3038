package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"moviestore/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error    string `json:"error"`
	MovieIDs []int  `json:"movie_ids,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps domain errors onto status codes. Anything unrecognised is
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *models.UnknownMoviesError
	var validation *models.ValidationError

	switch {
	case errors.As(err, &unknown):
		writeJSON(w, http.StatusConflict, errorResponse{Error: models.ErrUnknownMovies.Error(), MovieIDs: unknown.MovieIDs})
	case errors.As(err, &validation):
		writeMessage(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, models.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrMovieNotFound),
		errors.Is(err, models.ErrPetitionNotFound),
		errors.Is(err, models.ErrReviewNotFound),
		errors.Is(err, models.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, rootMessage(err))
	case errors.Is(err, models.ErrDuplicateEntry):
		writeMessage(w, http.StatusConflict, models.ErrDuplicateEntry.Error())
	case errors.Is(err, models.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
	case errors.Is(err, models.ErrWrongAnswer):
		writeMessage(w, http.StatusUnprocessableEntity, models.ErrWrongAnswer.Error())
	case errors.Is(err, models.ErrEmptyCart):
		writeMessage(w, http.StatusUnprocessableEntity, models.ErrEmptyCart.Error())
	case errors.Is(err, models.ErrTooManyAttempts):
		writeMessage(w, http.StatusTooManyRequests, models.ErrTooManyAttempts.Error())
	case errors.Is(err, models.ErrGeocodingFailed):
		writeMessage(w, http.StatusBadGateway, models.ErrGeocodingFailed.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// rootMessage returns the message of the innermost wrapped error
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// urlID parses a numeric path parameter
func urlID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// decodeBody reads a JSON body into v
func decodeBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return &models.ValidationError{Message: "invalid request body"}
	}
	return nil
}

// readFields returns the named fields from a JSON object or a form body. JSON
// numbers and booleans come back as their literal text.
func readFields(r *http.Request, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))

	if isJSON(r) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, &models.ValidationError{Message: "invalid request body"}
		}
		for _, key := range keys {
			raw, ok := body[key]
			if !ok {
				continue
			}
			var text string
			if err := json.Unmarshal(raw, &text); err == nil {
				values[key] = text
			} else {
				values[key] = string(raw)
			}
		}
		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, &models.ValidationError{Message: "invalid form data"}
	}
	for _, key := range keys {
		values[key] = r.FormValue(key)
	}
	return values, nil
}
