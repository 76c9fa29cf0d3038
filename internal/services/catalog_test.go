package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviestore/internal/models"
)

func TestCatalogService_GetMovie(t *testing.T) {
	ctx := context.Background()
	movieRepo := new(MockMovieRepository)
	reviewRepo := new(MockReviewRepository)
	movieRepo.On("GetByID", ctx, 5).Return(&models.Movie{ID: 5, Name: "Dune"}, nil)
	movieRepo.On("GetByID", ctx, 404).Return(nil, models.ErrMovieNotFound)
	reviewRepo.On("GetByMovie", ctx, 5).Return([]*models.Review{{ID: 1, Comment: "Great"}}, nil)

	service := NewCatalogService(movieRepo, reviewRepo)

	movie, err := service.GetMovie(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Dune", movie.Name)
	assert.Len(t, movie.Reviews, 1)

	_, err = service.GetMovie(ctx, 404)
	assert.ErrorIs(t, err, models.ErrMovieNotFound)
}
