package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"moviestore/internal/middleware"
	"moviestore/internal/models"
	"moviestore/internal/services"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListMovies(ctx context.Context, search string) ([]*models.Movie, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Movie), args.Error(1)
}

func (m *MockCatalogService) GetMovie(ctx context.Context, id int) (*models.MovieWithReviews, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovieWithReviews), args.Error(1)
}

func (m *MockCatalogService) GetMoviesByIDs(ctx context.Context, ids []int) ([]*models.Movie, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Movie), args.Error(1)
}

func (m *MockCatalogService) CreateMovie(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, userID, movieID int, req *models.ReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, userID, movieID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, userID, movieID, reviewID int, req *models.ReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, userID, movieID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, userID, movieID, reviewID int) error {
	args := m.Called(ctx, userID, movieID, reviewID)
	return args.Error(0)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, req *services.CheckoutRequest) (*services.CheckoutResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CheckoutResult), args.Error(1)
}

type MockTrendsService struct {
	mock.Mock
}

func (m *MockTrendsService) RegionalTrends(ctx context.Context, limit int) ([]*models.RegionalTrend, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RegionalTrend), args.Error(1)
}

func (m *MockTrendsService) EachRegionalTrend(ctx context.Context, limit int, fn func(*models.RegionalTrend) error) error {
	args := m.Called(ctx, limit, fn)
	if trends, ok := args.Get(0).([]*models.RegionalTrend); ok {
		for _, trend := range trends {
			if err := fn(trend); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

type MockPetitionService struct {
	mock.Mock
}

func (m *MockPetitionService) CreatePetition(ctx context.Context, req *models.PetitionCreateRequest) (*models.Petition, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Petition), args.Error(1)
}

func (m *MockPetitionService) ListPetitions(ctx context.Context) ([]*models.PetitionWithTally, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PetitionWithTally), args.Error(1)
}

func (m *MockPetitionService) GetPetition(ctx context.Context, petitionID, userID int) (*models.PetitionWithTally, error) {
	args := m.Called(ctx, petitionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PetitionWithTally), args.Error(1)
}

func (m *MockPetitionService) Vote(ctx context.Context, petitionID, userID int, value string) (*models.VoteResult, error) {
	args := m.Called(ctx, petitionID, userID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteResult), args.Error(1)
}

func (m *MockPetitionService) Tally(ctx context.Context, petitionID, userID int) (models.Tally, error) {
	args := m.Called(ctx, petitionID, userID)
	return args.Get(0).(models.Tally), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) Orders(ctx context.Context, userID int) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockAccountService) GetProfile(ctx context.Context, userID int) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, userID int, req *models.ProfileUpdateRequest) (*models.Profile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type MockRecoveryService struct {
	mock.Mock
}

func (m *MockRecoveryService) Start(ctx context.Context, username string) (*services.RecoveryChallenge, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RecoveryChallenge), args.Error(1)
}

func (m *MockRecoveryService) Verify(ctx context.Context, username, answer string) (*models.User, error) {
	args := m.Called(ctx, username, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// fakeMovieRepo is an in-memory services.MovieRepository for driving the real cart service
type fakeMovieRepo struct {
	movies map[int]*models.Movie
}

func newFakeMovieRepo(movies ...*models.Movie) *fakeMovieRepo {
	repo := &fakeMovieRepo{movies: map[int]*models.Movie{}}
	for _, movie := range movies {
		repo.movies[movie.ID] = movie
	}
	return repo
}

func (f *fakeMovieRepo) Create(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error) {
	movie := &models.Movie{ID: len(f.movies) + 1, Name: req.Name, Price: req.Price}
	f.movies[movie.ID] = movie
	return movie, nil
}

func (f *fakeMovieRepo) GetByID(ctx context.Context, id int) (*models.Movie, error) {
	movie, ok := f.movies[id]
	if !ok {
		return nil, models.ErrMovieNotFound
	}
	return movie, nil
}

func (f *fakeMovieRepo) GetByIDs(ctx context.Context, ids []int) ([]*models.Movie, error) {
	var movies []*models.Movie
	for _, id := range ids {
		if movie, ok := f.movies[id]; ok {
			movies = append(movies, movie)
		}
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].ID < movies[j].ID })
	return movies, nil
}

func (f *fakeMovieRepo) List(ctx context.Context, search string) ([]*models.Movie, error) {
	return f.GetByIDs(ctx, nil)
}

func (f *fakeMovieRepo) Count(ctx context.Context) (int, error) {
	return len(f.movies), nil
}

var testUser = &models.User{ID: 7, Username: "alice"}

func newTestStore() sessions.Store {
	return sessions.NewCookieStore([]byte("handler-test-secret-key-32-bytes"))
}

// newRequest builds a request, optionally authenticated as user, with a
// request-scoped logger in its context
func newRequest(method, target, body string, user *models.User) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		if strings.HasPrefix(body, "{") {
			req.Header.Set("Content-Type", "application/json")
		} else {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}

	ctx := zerolog.Nop().WithContext(req.Context())
	if user != nil {
		ctx = middleware.SetUserContext(ctx, user)
	}
	return req.WithContext(ctx)
}

// carryCookies copies cookies set on a previous response onto req
func carryCookies(req *http.Request, prev *httptest.ResponseRecorder) *http.Request {
	for _, c := range prev.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func serve(t *testing.T, handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
