package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moviestore/internal/database"
	"moviestore/internal/models"
)

// ReviewRepository handles review data operations
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create adds a user's review of a movie. A second review of the same movie by
// the same user fails with ErrDuplicateEntry.
func (r *ReviewRepository) Create(ctx context.Context, userID, movieID int, req *models.ReviewRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	review := &models.Review{
		Comment: req.Comment,
		Rating:  req.Rating,
		MovieID: movieID,
		UserID:  userID,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (comment, rating, movie_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		review.Comment, review.Rating, movieID, userID,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return nil, fmt.Errorf("you have already reviewed this movie: %w", models.ErrDuplicateEntry)
		case database.IsForeignKeyViolation(err):
			return nil, models.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return review, nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id int) (*models.Review, error) {
	review := &models.Review{}
	err := r.db.QueryRowContext(ctx, `
		SELECT rv.id, rv.comment, rv.rating, rv.created_at, rv.movie_id, rv.user_id, u.username
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.id = $1`, id,
	).Scan(&review.ID, &review.Comment, &review.Rating, &review.CreatedAt, &review.MovieID, &review.UserID, &review.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// GetByMovie returns a movie's reviews, newest first
func (r *ReviewRepository) GetByMovie(ctx context.Context, movieID int) ([]*models.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rv.id, rv.comment, rv.rating, rv.created_at, rv.movie_id, rv.user_id, u.username
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.movie_id = $1
		ORDER BY rv.created_at DESC, rv.id DESC`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(&review.ID, &review.Comment, &review.Rating, &review.CreatedAt,
			&review.MovieID, &review.UserID, &review.Username); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// Update changes a review owned by userID. Reviews owned by someone else are
// reported as not found.
func (r *ReviewRepository) Update(ctx context.Context, reviewID, userID int, req *models.ReviewRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	review := &models.Review{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE reviews SET comment = $1, rating = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, comment, rating, created_at, movie_id, user_id`,
		req.Comment, req.Rating, reviewID, userID,
	).Scan(&review.ID, &review.Comment, &review.Rating, &review.CreatedAt, &review.MovieID, &review.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

// Delete removes a review owned by userID
func (r *ReviewRepository) Delete(ctx context.Context, reviewID, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrReviewNotFound
	}

	return nil
}
