package services

import (
	"context"

	"moviestore/internal/models"
)

// ReviewService handles movie reviews
type ReviewService struct {
	reviewRepo ReviewRepository
	movieRepo  MovieRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo ReviewRepository, movieRepo MovieRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		movieRepo:  movieRepo,
	}
}

// CreateReview adds the user's review of a movie
func (s *ReviewService) CreateReview(ctx context.Context, userID, movieID int, req *models.ReviewRequest) (*models.Review, error) {
	if userID <= 0 {
		return nil, models.ErrUnauthorized
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		return nil, err
	}

	return s.reviewRepo.Create(ctx, userID, movieID, req)
}

// UpdateReview edits a review. Reviews of other users, or of another movie, are not found.
func (s *ReviewService) UpdateReview(ctx context.Context, userID, movieID, reviewID int, req *models.ReviewRequest) (*models.Review, error) {
	if err := s.checkOwnership(ctx, userID, movieID, reviewID); err != nil {
		return nil, err
	}

	return s.reviewRepo.Update(ctx, reviewID, userID, req)
}

// DeleteReview removes a review owned by the user
func (s *ReviewService) DeleteReview(ctx context.Context, userID, movieID, reviewID int) error {
	if err := s.checkOwnership(ctx, userID, movieID, reviewID); err != nil {
		return err
	}

	return s.reviewRepo.Delete(ctx, reviewID, userID)
}

func (s *ReviewService) checkOwnership(ctx context.Context, userID, movieID, reviewID int) error {
	if userID <= 0 {
		return models.ErrUnauthorized
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.MovieID != movieID || review.UserID != userID {
		return models.ErrReviewNotFound
	}

	return nil
}
