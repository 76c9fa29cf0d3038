package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"moviestore/internal/models"
	"moviestore/internal/utils"
)

// RecoveryChallenge is returned by the first recovery step
type RecoveryChallenge struct {
	Username     string                  `json:"username"`
	Question     models.SecurityQuestion `json:"question"`
	QuestionText string                  `json:"question_text"`
}

// RecoveryService implements the two-step security question login. No state is
// kept between the steps; the username is carried by the caller.
type RecoveryService struct {
	userRepo UserRepository
	limiter  AttemptLimiter
	logger   zerolog.Logger
}

// NewRecoveryService creates a new recovery service
func NewRecoveryService(userRepo UserRepository, limiter AttemptLimiter, logger zerolog.Logger) *RecoveryService {
	return &RecoveryService{
		userRepo: userRepo,
		limiter:  limiter,
		logger:   logger.With().Str("component", "recovery").Logger(),
	}
}

// Start checks that the user exists and returns their security question
func (s *RecoveryService) Start(ctx context.Context, username string) (*RecoveryChallenge, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.ErrUserNotFound
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if !profile.HasRecovery() {
		return nil, fmt.Errorf("%w: this account has no security question", models.ErrInvalidInput)
	}

	return &RecoveryChallenge{
		Username:     user.Username,
		Question:     profile.SecurityQuestion,
		QuestionText: profile.SecurityQuestion.Text(),
	}, nil
}

// Verify checks the submitted answer (trimmed, case-insensitive) and returns the
// user on success. Attempts are throttled per username.
func (s *RecoveryService) Verify(ctx context.Context, username, answer string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.ErrUserNotFound
	}

	key := "recovery:" + strings.ToLower(username)
	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check recovery attempts: %w", err)
	}
	if !allowed {
		s.logger.Warn().Str("username", username).Msg("recovery attempts throttled")
		return nil, models.ErrTooManyAttempts
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if !profile.HasRecovery() {
		return nil, models.ErrWrongAnswer
	}

	ok, err := utils.VerifySecurityAnswer(answer, profile.SecurityAnswerHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify security answer: %w", err)
	}
	if !ok {
		s.logger.Info().Int("user_id", user.ID).Msg("wrong security answer")
		return nil, models.ErrWrongAnswer
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to reset recovery attempts")
	}

	s.logger.Info().Int("user_id", user.ID).Msg("account recovered with security question")
	return user, nil
}
