package handlers

import (
	"net/http"

	"moviestore/internal/middleware"
	"moviestore/internal/models"
	"moviestore/internal/services"
)

// MovieHandler serves the catalog and its reviews
type MovieHandler struct {
	catalog services.CatalogServiceInterface
	reviews services.ReviewServiceInterface
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(catalog services.CatalogServiceInterface, reviews services.ReviewServiceInterface) *MovieHandler {
	return &MovieHandler{
		catalog: catalog,
		reviews: reviews,
	}
}

// List returns all movies, optionally filtered by ?search=
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.ListMovies(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if movies == nil {
		movies = []*models.Movie{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"movies": movies})
}

// Get returns one movie with its reviews
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	movieID, ok := urlID(r, "id")
	if !ok {
		writeError(w, r, models.ErrMovieNotFound)
		return
	}

	movie, err := h.catalog.GetMovie(r.Context(), movieID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

// CreateReview adds the current user's review of a movie
func (h *MovieHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	movieID, ok := urlID(r, "id")
	if !ok {
		writeError(w, r, models.ErrMovieNotFound)
		return
	}

	var req models.ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), user.ID, movieID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// UpdateReview edits a review owned by the current user
func (h *MovieHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	movieID, ok := urlID(r, "id")
	if !ok {
		writeError(w, r, models.ErrMovieNotFound)
		return
	}
	reviewID, ok := urlID(r, "reviewID")
	if !ok {
		writeError(w, r, models.ErrReviewNotFound)
		return
	}

	var req models.ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	review, err := h.reviews.UpdateReview(r.Context(), user.ID, movieID, reviewID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

// DeleteReview removes a review owned by the current user
func (h *MovieHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	movieID, ok := urlID(r, "id")
	if !ok {
		writeError(w, r, models.ErrMovieNotFound)
		return
	}
	reviewID, ok := urlID(r, "reviewID")
	if !ok {
		writeError(w, r, models.ErrReviewNotFound)
		return
	}

	if err := h.reviews.DeleteReview(r.Context(), user.ID, movieID, reviewID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
