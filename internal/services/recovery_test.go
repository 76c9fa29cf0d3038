package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviestore/internal/logger"
	"moviestore/internal/models"
	"moviestore/internal/utils"
)

func newRecoveryFixture(t *testing.T, limiter *countingLimiter) (*RecoveryService, *MockUserRepository) {
	t.Helper()

	answerHash, err := utils.HashSecurityAnswer("blue")
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("GetByUsername", context.Background(), "moviefan").Return(&models.User{ID: 7, Username: "moviefan"}, nil)
	userRepo.On("GetByUsername", context.Background(), "ghost").Return(nil, models.ErrUserNotFound)
	userRepo.On("GetProfile", context.Background(), 7).Return(&models.Profile{
		UserID:             7,
		SecurityQuestion:   models.QuestionFavoriteColor,
		SecurityAnswerHash: answerHash,
	}, nil)

	return NewRecoveryService(userRepo, limiter, logger.Nop()), userRepo
}

func TestRecoveryService_Start(t *testing.T) {
	service, _ := newRecoveryFixture(t, newCountingLimiter(5))

	challenge, err := service.Start(context.Background(), " moviefan ")
	require.NoError(t, err)
	assert.Equal(t, "moviefan", challenge.Username)
	assert.Equal(t, "What is your favorite color?", challenge.QuestionText)

	_, err = service.Start(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestRecoveryService_Verify(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		wantErr error
	}{
		{"trimmed and case folded", " Blue ", nil},
		{"exact", "blue", nil},
		{"wrong answer", "Red", models.ErrWrongAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newRecoveryFixture(t, newCountingLimiter(5))

			user, err := service.Verify(context.Background(), "moviefan", tt.answer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, user.ID)
		})
	}
}

func TestRecoveryService_Verify_Throttled(t *testing.T) {
	limiter := newCountingLimiter(2)
	service, _ := newRecoveryFixture(t, limiter)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := service.Verify(ctx, "moviefan", "Red")
		assert.ErrorIs(t, err, models.ErrWrongAnswer)
	}

	_, err := service.Verify(ctx, "moviefan", "blue")
	assert.ErrorIs(t, err, models.ErrTooManyAttempts, "even the right answer is refused once throttled")
}

func TestRecoveryService_Verify_SuccessResetsAttempts(t *testing.T) {
	limiter := newCountingLimiter(3)
	service, _ := newRecoveryFixture(t, limiter)
	ctx := context.Background()

	_, err := service.Verify(ctx, "moviefan", "Red")
	assert.ErrorIs(t, err, models.ErrWrongAnswer)

	_, err = service.Verify(ctx, "moviefan", "blue")
	require.NoError(t, err)
	assert.Zero(t, limiter.attempts["recovery:moviefan"])
}

func TestRecoveryService_Verify_UnknownUser(t *testing.T) {
	service, _ := newRecoveryFixture(t, newCountingLimiter(5))

	_, err := service.Verify(context.Background(), "ghost", "blue")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
