package services

import (
	"context"

	"moviestore/internal/models"
)

// MovieRepository interface for catalog data operations
type MovieRepository interface {
	Create(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error)
	GetByID(ctx context.Context, id int) (*models.Movie, error)
	GetByIDs(ctx context.Context, ids []int) ([]*models.Movie, error)
	List(ctx context.Context, search string) ([]*models.Movie, error)
	Count(ctx context.Context) (int, error)
}

// ReviewRepository interface for review data operations
type ReviewRepository interface {
	Create(ctx context.Context, userID, movieID int, req *models.ReviewRequest) (*models.Review, error)
	GetByID(ctx context.Context, id int) (*models.Review, error)
	GetByMovie(ctx context.Context, movieID int) ([]*models.Review, error)
	Update(ctx context.Context, reviewID, userID int, req *models.ReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, reviewID, userID int) error
}

// OrderRepository interface for order data operations
type OrderRepository interface {
	CreateWithItems(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error)
	GetByUser(ctx context.Context, userID int) ([]*models.Order, error)
}

// TrendsRepository interface for the regional purchase aggregation
type TrendsRepository interface {
	RegionalTrends(ctx context.Context, limit int) ([]*models.RegionalTrend, error)
	EachRegionalTrend(ctx context.Context, limit int, fn func(*models.RegionalTrend) error) error
}

// PetitionRepository interface for petition data operations
type PetitionRepository interface {
	Create(ctx context.Context, req *models.PetitionCreateRequest) (*models.Petition, error)
	GetByID(ctx context.Context, id int) (*models.Petition, error)
	List(ctx context.Context) ([]*models.PetitionWithTally, error)
	UpsertVote(ctx context.Context, petitionID, userID int, vote models.VoteValue) (bool, error)
	Tally(ctx context.Context, petitionID int) (models.Tally, error)
	GetUserVote(ctx context.Context, petitionID, userID int) (models.VoteValue, error)
}

// UserRepository interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}

// CartStore loads and saves the cart of one browsing session
type CartStore interface {
	Load() (models.Cart, error)
	Save(cart models.Cart) error
}

// AttemptLimiter counts attempts per key within a window. Allow records an
// attempt and reports whether it is within the limit.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// CatalogServiceInterface defines the interface for catalog services
type CatalogServiceInterface interface {
	ListMovies(ctx context.Context, search string) ([]*models.Movie, error)
	GetMovie(ctx context.Context, id int) (*models.MovieWithReviews, error)
	GetMoviesByIDs(ctx context.Context, ids []int) ([]*models.Movie, error)
	CreateMovie(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error)
}

// CartServiceInterface defines the interface for cart services
type CartServiceInterface interface {
	View(ctx context.Context, store CartStore) (*models.CartView, error)
	Add(ctx context.Context, store CartStore, movieID int, quantity string) (models.Cart, error)
	Remove(store CartStore, movieID int) (models.Cart, error)
	Clear(store CartStore) error
}

// CheckoutServiceInterface defines the interface for checkout
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error)
}

// TrendsServiceInterface defines the interface for regional trends
type TrendsServiceInterface interface {
	RegionalTrends(ctx context.Context, limit int) ([]*models.RegionalTrend, error)
	EachRegionalTrend(ctx context.Context, limit int, fn func(*models.RegionalTrend) error) error
}

// PetitionServiceInterface defines the interface for petition services
type PetitionServiceInterface interface {
	CreatePetition(ctx context.Context, req *models.PetitionCreateRequest) (*models.Petition, error)
	ListPetitions(ctx context.Context) ([]*models.PetitionWithTally, error)
	GetPetition(ctx context.Context, petitionID, userID int) (*models.PetitionWithTally, error)
	Vote(ctx context.Context, petitionID, userID int, value string) (*models.VoteResult, error)
	Tally(ctx context.Context, petitionID, userID int) (models.Tally, error)
}

// ReviewServiceInterface defines the interface for review services
type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, userID, movieID int, req *models.ReviewRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, userID, movieID, reviewID int, req *models.ReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, userID, movieID, reviewID int) error
}

// AccountServiceInterface defines the interface for account services
type AccountServiceInterface interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetUser(ctx context.Context, userID int) (*models.User, error)
	Orders(ctx context.Context, userID int) ([]*models.Order, error)
	GetProfile(ctx context.Context, userID int) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int, req *models.ProfileUpdateRequest) (*models.Profile, error)
}

// RecoveryServiceInterface defines the interface for security question recovery
type RecoveryServiceInterface interface {
	Start(ctx context.Context, username string) (*RecoveryChallenge, error)
	Verify(ctx context.Context, username, answer string) (*models.User, error)
}
