package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"moviestore/internal/models"
)

// PetitionRepository handles petition and vote data operations
type PetitionRepository struct {
	db *sql.DB
}

// NewPetitionRepository creates a new petition repository
func NewPetitionRepository(db *sql.DB) *PetitionRepository {
	return &PetitionRepository{db: db}
}

// Create creates a new petition
func (r *PetitionRepository) Create(ctx context.Context, req *models.PetitionCreateRequest) (*models.Petition, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	petition := &models.Petition{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   req.CreatedBy,
	}

	var description sql.NullString
	if petition.Description != "" {
		description = sql.NullString{String: petition.Description, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO petitions (title, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		petition.Title, description, petition.CreatedBy,
	).Scan(&petition.ID, &petition.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create petition: %w", err)
	}

	return petition, nil
}

// GetByID retrieves a petition with its creator's username
func (r *PetitionRepository) GetByID(ctx context.Context, id int) (*models.Petition, error) {
	petition := &models.Petition{}
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.title, p.description, p.created_by, u.username, p.created_at
		FROM petitions p
		JOIN users u ON u.id = p.created_by
		WHERE p.id = $1`, id,
	).Scan(&petition.ID, &petition.Title, &description, &petition.CreatedBy, &petition.CreatorUsername, &petition.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPetitionNotFound
		}
		return nil, fmt.Errorf("failed to get petition: %w", err)
	}
	petition.Description = description.String

	return petition, nil
}

// List returns all petitions, newest first, with their vote counts
func (r *PetitionRepository) List(ctx context.Context) ([]*models.PetitionWithTally, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.description, p.created_by, u.username, p.created_at,
			COUNT(v.user_id) FILTER (WHERE v.vote = 'yes') AS yes_votes,
			COUNT(v.user_id) FILTER (WHERE v.vote = 'no') AS no_votes
		FROM petitions p
		JOIN users u ON u.id = p.created_by
		LEFT JOIN petition_votes v ON v.petition_id = p.id
		GROUP BY p.id, u.username
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list petitions: %w", err)
	}
	defer rows.Close()

	petitions := []*models.PetitionWithTally{}
	for rows.Next() {
		p := &models.PetitionWithTally{Petition: &models.Petition{}}
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &description, &p.CreatedBy, &p.CreatorUsername, &p.CreatedAt,
			&p.Tally.Yes, &p.Tally.No); err != nil {
			return nil, fmt.Errorf("failed to scan petition: %w", err)
		}
		p.Description = description.String
		petitions = append(petitions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating petitions: %w", err)
	}

	return petitions, nil
}

// UpsertVote records a user's vote in a single statement, replacing any earlier
// vote by the same user. created is true when no earlier vote existed.
func (r *PetitionRepository) UpsertVote(ctx context.Context, petitionID, userID int, vote models.VoteValue) (bool, error) {
	var created bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO petition_votes (petition_id, user_id, vote)
		VALUES ($1, $2, $3)
		ON CONFLICT (petition_id, user_id) DO UPDATE SET vote = EXCLUDED.vote
		RETURNING (xmax = 0) AS created`,
		petitionID, userID, string(vote),
	).Scan(&created)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			if strings.Contains(pqErr.Constraint, "petition_id") {
				return false, models.ErrPetitionNotFound
			}
			return false, models.ErrUserNotFound
		}
		return false, fmt.Errorf("failed to record vote: %w", err)
	}

	return created, nil
}

// Tally counts the yes and no votes of a petition
func (r *PetitionRepository) Tally(ctx context.Context, petitionID int) (models.Tally, error) {
	var tally models.Tally
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE vote = 'yes'),
			COUNT(*) FILTER (WHERE vote = 'no')
		FROM petition_votes
		WHERE petition_id = $1`, petitionID,
	).Scan(&tally.Yes, &tally.No)
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to tally votes: %w", err)
	}

	return tally, nil
}

// GetUserVote returns the user's current vote, or VoteNone if they have not voted
func (r *PetitionRepository) GetUserVote(ctx context.Context, petitionID, userID int) (models.VoteValue, error) {
	var vote string
	err := r.db.QueryRowContext(ctx, `
		SELECT vote FROM petition_votes
		WHERE petition_id = $1 AND user_id = $2`,
		petitionID, userID,
	).Scan(&vote)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VoteNone, nil
		}
		return "", fmt.Errorf("failed to get user vote: %w", err)
	}

	return models.VoteValue(vote), nil
}
