package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"moviestore/internal/database"
	"moviestore/internal/models"
)

// UserRepository handles user and profile data operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a user together with its profile. Hashing happens before this call.
func (r *UserRepository) Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	if strings.TrimSpace(req.Username) == "" || req.PasswordHash == "" {
		return nil, fmt.Errorf("validation failed: %w", models.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: req.PasswordHash,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		user.Username, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("a user with that username already exists: %w", models.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, security_question, security_answer_hash)
		VALUES ($1, $2, $3)`,
		user.ID, string(req.SecurityQuestion), req.SecurityAnswerHash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user creation: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username (for authentication and recovery)
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`, strings.TrimSpace(username))
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetProfile retrieves a user's profile. Users without a stored profile get an
// empty one.
func (r *UserRepository) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	profile := &models.Profile{UserID: userID}
	var question string

	err := r.db.QueryRowContext(ctx, `
		SELECT first_name, last_name, favorite_movie, security_question, security_answer_hash
		FROM profiles
		WHERE user_id = $1`, userID,
	).Scan(&profile.FirstName, &profile.LastName, &profile.FavoriteMovie, &question, &profile.SecurityAnswerHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profile, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	profile.SecurityQuestion = models.SecurityQuestion(question)

	return profile, nil
}

// UpdateProfile stores the profile. An empty SecurityAnswerHash keeps the stored answer.
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, first_name, last_name, favorite_movie, security_question, security_answer_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			favorite_movie = EXCLUDED.favorite_movie,
			security_question = EXCLUDED.security_question,
			security_answer_hash = COALESCE(NULLIF(EXCLUDED.security_answer_hash, ''), profiles.security_answer_hash)`,
		profile.UserID,
		strings.TrimSpace(profile.FirstName),
		strings.TrimSpace(profile.LastName),
		strings.TrimSpace(profile.FavoriteMovie),
		string(profile.SecurityQuestion),
		profile.SecurityAnswerHash,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.ErrUserNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}
