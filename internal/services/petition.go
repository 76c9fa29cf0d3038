package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"moviestore/internal/models"
)

// PetitionService handles petitions and voting
type PetitionService struct {
	petitionRepo PetitionRepository
	logger       zerolog.Logger
}

// NewPetitionService creates a new petition service
func NewPetitionService(petitionRepo PetitionRepository, logger zerolog.Logger) *PetitionService {
	return &PetitionService{
		petitionRepo: petitionRepo,
		logger:       logger.With().Str("component", "petitions").Logger(),
	}
}

// CreatePetition creates a petition owned by req.CreatedBy
func (s *PetitionService) CreatePetition(ctx context.Context, req *models.PetitionCreateRequest) (*models.Petition, error) {
	return s.petitionRepo.Create(ctx, req)
}

// ListPetitions returns all petitions, newest first, with tallies
func (s *PetitionService) ListPetitions(ctx context.Context) ([]*models.PetitionWithTally, error) {
	return s.petitionRepo.List(ctx)
}

// GetPetition returns a petition with its tally. A positive userID includes that
// user's own vote.
func (s *PetitionService) GetPetition(ctx context.Context, petitionID, userID int) (*models.PetitionWithTally, error) {
	petition, err := s.petitionRepo.GetByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}

	tally, err := s.tally(ctx, petitionID, userID)
	if err != nil {
		return nil, err
	}

	return &models.PetitionWithTally{Petition: petition, Tally: tally}, nil
}

// Vote records a yes/no vote, replacing the user's earlier vote on the same
// petition. Values other than yes or no are ignored: nothing is stored and
// Recorded is false.
func (s *PetitionService) Vote(ctx context.Context, petitionID, userID int, value string) (*models.VoteResult, error) {
	if userID <= 0 {
		return nil, models.ErrUnauthorized
	}

	if _, err := s.petitionRepo.GetByID(ctx, petitionID); err != nil {
		return nil, err
	}

	vote, ok := models.ParseVoteValue(value)
	if !ok {
		s.logger.Debug().Int("petition_id", petitionID).Int("user_id", userID).Str("value", value).Msg("ignoring invalid vote")
		return &models.VoteResult{Recorded: false}, nil
	}

	created, err := s.petitionRepo.UpsertVote(ctx, petitionID, userID, vote)
	if err != nil {
		return nil, err
	}

	return &models.VoteResult{Recorded: true, Created: created, Vote: vote}, nil
}

// Tally returns the yes/no counts of a petition. A positive userID includes that
// user's vote, or "none".
func (s *PetitionService) Tally(ctx context.Context, petitionID, userID int) (models.Tally, error) {
	if _, err := s.petitionRepo.GetByID(ctx, petitionID); err != nil {
		return models.Tally{}, err
	}
	return s.tally(ctx, petitionID, userID)
}

func (s *PetitionService) tally(ctx context.Context, petitionID, userID int) (models.Tally, error) {
	tally, err := s.petitionRepo.Tally(ctx, petitionID)
	if err != nil {
		return models.Tally{}, err
	}

	if userID > 0 {
		vote, err := s.petitionRepo.GetUserVote(ctx, petitionID, userID)
		if err != nil {
			return models.Tally{}, fmt.Errorf("failed to get user vote: %w", err)
		}
		tally.UserVote = vote
	}

	return tally, nil
}
