package services

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"moviestore/internal/models"
)

// MockMovieRepository is a mock implementation of MovieRepository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByIDs(ctx context.Context, ids []int) ([]*models.Movie, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) List(ctx context.Context, search string) ([]*models.Movie, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, userID, movieID int, req *models.ReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, userID, movieID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id int) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByMovie(ctx context.Context, movieID int) ([]*models.Review, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, reviewID, userID int, req *models.ReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, reviewID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, reviewID, userID int) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository and TrendsRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, *models.OrderCreateRequest) *models.Order); ok {
		return fn(ctx, req), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) RegionalTrends(ctx context.Context, limit int) ([]*models.RegionalTrend, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RegionalTrend), args.Error(1)
}

func (m *MockOrderRepository) EachRegionalTrend(ctx context.Context, limit int, fn func(*models.RegionalTrend) error) error {
	args := m.Called(ctx, limit, fn)
	return args.Error(0)
}

// MockPetitionRepository is a mock implementation of PetitionRepository
type MockPetitionRepository struct {
	mock.Mock
}

func (m *MockPetitionRepository) Create(ctx context.Context, req *models.PetitionCreateRequest) (*models.Petition, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Petition), args.Error(1)
}

func (m *MockPetitionRepository) GetByID(ctx context.Context, id int) (*models.Petition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Petition), args.Error(1)
}

func (m *MockPetitionRepository) List(ctx context.Context) ([]*models.PetitionWithTally, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PetitionWithTally), args.Error(1)
}

func (m *MockPetitionRepository) UpsertVote(ctx context.Context, petitionID, userID int, vote models.VoteValue) (bool, error) {
	args := m.Called(ctx, petitionID, userID, vote)
	return args.Bool(0), args.Error(1)
}

func (m *MockPetitionRepository) Tally(ctx context.Context, petitionID int) (models.Tally, error) {
	args := m.Called(ctx, petitionID)
	return args.Get(0).(models.Tally), args.Error(1)
}

func (m *MockPetitionRepository) GetUserVote(ctx context.Context, petitionID, userID int) (models.VoteValue, error) {
	args := m.Called(ctx, petitionID, userID)
	return args.Get(0).(models.VoteValue), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// memoryCartStore keeps a cart in memory in place of the session
type memoryCartStore struct {
	cart    models.Cart
	saves   int
	saveErr error
}

func newMemoryCartStore(cart models.Cart) *memoryCartStore {
	if cart == nil {
		cart = models.NewCart()
	}
	return &memoryCartStore{cart: cart}
}

func (s *memoryCartStore) Load() (models.Cart, error) {
	cart := models.NewCart()
	for id, qty := range s.cart {
		cart[id] = qty
	}
	return cart, nil
}

func (s *memoryCartStore) Save(cart models.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.cart = cart
	return nil
}

// stubGeocoder returns a fixed result and records the addresses it was asked for
type stubGeocoder struct {
	result    *GeocodeResult
	err       error
	block     bool
	addresses []string
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	g.addresses = append(g.addresses, address)
	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return g.result, g.err
}

// countingLimiter allows max attempts per key
type countingLimiter struct {
	max      int
	attempts map[string]int
	err      error
}

func newCountingLimiter(max int) *countingLimiter {
	return &countingLimiter{max: max, attempts: map[string]int{}}
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.attempts[key]++
	return l.attempts[key] <= l.max, nil
}

func (l *countingLimiter) Reset(_ context.Context, key string) error {
	delete(l.attempts, key)
	return nil
}

var errDatabase = errors.New("database is down")
