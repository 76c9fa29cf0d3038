package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"moviestore/internal/models"
	"moviestore/internal/utils"
)

// AccountService handles signup, login, profiles and order history
type AccountService struct {
	userRepo  UserRepository
	orderRepo OrderRepository
	logger    zerolog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(userRepo UserRepository, orderRepo OrderRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		logger:    logger.With().Str("component", "accounts").Logger(),
	}
}

// Signup creates an account. The password and the normalized security answer
// are stored as Argon2id hashes.
func (s *AccountService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	answerHash, err := utils.HashSecurityAnswer(req.SecurityAnswer)
	if err != nil {
		return nil, fmt.Errorf("failed to hash security answer: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &models.UserCreateRequest{
		Username:           req.Username,
		PasswordHash:       passwordHash,
		SecurityQuestion:   req.SecurityQuestion,
		SecurityAnswerHash: answerHash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("account created")
	return user, nil
}

// Login checks credentials. Unknown users and wrong passwords both return
// models.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser returns a user by ID
func (s *AccountService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Orders returns the user's orders, newest first
func (s *AccountService) Orders(ctx context.Context, userID int) ([]*models.Order, error) {
	if userID <= 0 {
		return nil, models.ErrUnauthorized
	}
	return s.orderRepo.GetByUser(ctx, userID)
}

// GetProfile returns the user's profile
func (s *AccountService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	if userID <= 0 {
		return nil, models.ErrUnauthorized
	}
	return s.userRepo.GetProfile(ctx, userID)
}

// UpdateProfile stores the editable profile fields. A blank security answer
// keeps the current one, which is only allowed while the question stays the same.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int, req *models.ProfileUpdateRequest) (*models.Profile, error) {
	if userID <= 0 {
		return nil, models.ErrUnauthorized
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserID:           userID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		FavoriteMovie:    req.FavoriteMovie,
		SecurityQuestion: req.SecurityQuestion,
	}

	if models.NormalizeSecurityAnswer(req.SecurityAnswer) != "" {
		hash, err := utils.HashSecurityAnswer(req.SecurityAnswer)
		if err != nil {
			return nil, fmt.Errorf("failed to hash security answer: %w", err)
		}
		profile.SecurityAnswerHash = hash
	} else {
		current, err := s.userRepo.GetProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		if current.SecurityQuestion != req.SecurityQuestion || current.SecurityAnswerHash == "" {
			return nil, &models.ValidationError{Message: "enter an answer for the new security question"}
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	return s.userRepo.GetProfile(ctx, userID)
}
