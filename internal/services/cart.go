package services

import (
	"context"
	"fmt"

	"moviestore/internal/models"
)

// CalculateCartTotal sums price * quantity for every movie that appears in the cart.
// Cart entries without a matching movie contribute nothing.
func CalculateCartTotal(cart models.Cart, movies []*models.Movie) int {
	total := 0
	for _, movie := range movies {
		total += movie.Price * cart[movie.ID]
	}
	return total
}

// PriceCart builds the priced cart view. Movies missing from the catalog are
// left out of the lines and reported in Missing.
func PriceCart(cart models.Cart, movies []*models.Movie) *models.CartView {
	byID := make(map[int]*models.Movie, len(movies))
	for _, movie := range movies {
		byID[movie.ID] = movie
	}

	view := &models.CartView{Lines: []*models.CartLine{}}
	for _, id := range cart.MovieIDs() {
		movie, ok := byID[id]
		if !ok {
			view.Missing = append(view.Missing, id)
			continue
		}
		quantity := cart[id]
		view.Lines = append(view.Lines, &models.CartLine{
			Movie:    movie,
			Quantity: quantity,
			Subtotal: movie.Price * quantity,
		})
	}
	view.Total = CalculateCartTotal(cart, movies)

	return view
}

// CartService handles session cart operations
type CartService struct {
	movieRepo MovieRepository
}

// NewCartService creates a new cart service
func NewCartService(movieRepo MovieRepository) *CartService {
	return &CartService{movieRepo: movieRepo}
}

// View prices the cart held in the store
func (s *CartService) View(ctx context.Context, store CartStore) (*models.CartView, error) {
	cart, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if cart.IsEmpty() {
		return &models.CartView{Lines: []*models.CartLine{}}, nil
	}

	movies, err := s.movieRepo.GetByIDs(ctx, cart.MovieIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart movies: %w", err)
	}

	return PriceCart(cart, movies), nil
}

// Add sets the quantity of a movie in the cart. The movie must exist.
func (s *CartService) Add(ctx context.Context, store CartStore, movieID int, quantity string) (models.Cart, error) {
	qty, err := models.ParseQuantity(quantity)
	if err != nil {
		return nil, err
	}

	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		return nil, err
	}

	cart, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if err := cart.Set(movieID, qty); err != nil {
		return nil, err
	}

	if err := store.Save(cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// Remove drops a movie from the cart
func (s *CartService) Remove(store CartStore, movieID int) (models.Cart, error) {
	cart, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart.Remove(movieID)

	if err := store.Save(cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}

// Clear empties the cart
func (s *CartService) Clear(store CartStore) error {
	if err := store.Save(models.NewCart()); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
