package services

import (
	"context"
	"fmt"

	"moviestore/internal/models"
)

// CatalogService handles movie catalog lookups
type CatalogService struct {
	movieRepo  MovieRepository
	reviewRepo ReviewRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(movieRepo MovieRepository, reviewRepo ReviewRepository) *CatalogService {
	return &CatalogService{
		movieRepo:  movieRepo,
		reviewRepo: reviewRepo,
	}
}

// ListMovies returns the catalog, optionally filtered by a name search
func (s *CatalogService) ListMovies(ctx context.Context, search string) ([]*models.Movie, error) {
	return s.movieRepo.List(ctx, search)
}

// GetMovie returns a movie with its reviews
func (s *CatalogService) GetMovie(ctx context.Context, id int) (*models.MovieWithReviews, error) {
	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.GetByMovie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	return &models.MovieWithReviews{Movie: movie, Reviews: reviews}, nil
}

// GetMoviesByIDs resolves movie ids to catalog records. Unknown ids are omitted.
func (s *CatalogService) GetMoviesByIDs(ctx context.Context, ids []int) ([]*models.Movie, error) {
	return s.movieRepo.GetByIDs(ctx, ids)
}

// CreateMovie adds a movie to the catalog
func (s *CatalogService) CreateMovie(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error) {
	return s.movieRepo.Create(ctx, req)
}
