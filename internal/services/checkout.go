package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"moviestore/internal/models"
)

// DefaultGeocodeTimeout bounds the geocoding call made during checkout
const DefaultGeocodeTimeout = 5 * time.Second

// CheckoutRequest carries everything one checkout needs
type CheckoutRequest struct {
	UserID   int
	Cart     CartStore
	Shipping models.ShippingAddress
}

// CheckoutResult is the confirmation returned after a successful checkout
type CheckoutResult struct {
	OrderID          int           `json:"order_id"`
	Total            int           `json:"total"`
	TotalDisplay     string        `json:"total_display"`
	Latitude         *float64      `json:"latitude"`
	Longitude        *float64      `json:"longitude"`
	FormattedAddress *string       `json:"formatted_address"`
	Order            *models.Order `json:"order"`
}

// CheckoutOptions tunes geocoding behaviour during checkout
type CheckoutOptions struct {
	GeocodeTimeout time.Duration
	// StrictGeocoding aborts checkout when the geocoder call fails outright.
	// Zero results and timeouts never abort.
	StrictGeocoding bool
}

// CheckoutService turns a session cart into a persisted order
type CheckoutService struct {
	movieRepo MovieRepository
	orderRepo OrderRepository
	geocoder  Geocoder
	options   CheckoutOptions
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	movieRepo MovieRepository,
	orderRepo OrderRepository,
	geocoder Geocoder,
	options CheckoutOptions,
	logger zerolog.Logger,
) *CheckoutService {
	if geocoder == nil {
		geocoder = NoopGeocoder{}
	}
	if options.GeocodeTimeout <= 0 {
		options.GeocodeTimeout = DefaultGeocodeTimeout
	}
	return &CheckoutService{
		movieRepo: movieRepo,
		orderRepo: orderRepo,
		geocoder:  geocoder,
		options:   options,
		logger:    logger.With().Str("component", "checkout").Logger(),
	}
}

// Checkout prices the cart, geocodes the shipping address, stores the order with
// its items and empties the cart. An empty cart returns models.ErrEmptyCart and
// changes nothing. Cart entries for movies no longer in the catalog reject the
// checkout with a *models.UnknownMoviesError and stay in the cart until the
// customer removes them.
func (s *CheckoutService) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	if req.UserID <= 0 {
		return nil, models.ErrUnauthorized
	}

	cart, err := req.Cart.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, models.ErrEmptyCart
	}

	movies, err := s.movieRepo.GetByIDs(ctx, cart.MovieIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart movies: %w", err)
	}

	view := PriceCart(cart, movies)
	if len(view.Missing) > 0 {
		return nil, &models.UnknownMoviesError{MovieIDs: view.Missing}
	}

	shipping := req.Shipping.Normalize()
	geo, err := s.geocode(ctx, shipping.String())
	if err != nil {
		return nil, err
	}

	orderReq := &models.OrderCreateRequest{
		UserID:   req.UserID,
		Shipping: shipping,
		Items:    make([]models.ItemCreateRequest, 0, len(view.Lines)),
	}
	for _, line := range view.Lines {
		orderReq.Items = append(orderReq.Items, models.ItemCreateRequest{
			MovieID:  line.Movie.ID,
			Price:    line.Movie.Price,
			Quantity: line.Quantity,
		})
	}
	if geo != nil {
		orderReq.Latitude = &geo.Latitude
		orderReq.Longitude = &geo.Longitude
	}

	order, err := s.orderRepo.CreateWithItems(ctx, orderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order exists at this point, so a failed cart reset is only logged.
	if err := req.Cart.Save(models.NewCart()); err != nil {
		s.logger.Error().Err(err).Int("order_id", order.ID).Msg("failed to clear cart after checkout")
	}

	s.logger.Info().
		Int("order_id", order.ID).
		Int("user_id", order.UserID).
		Int("total", order.Total).
		Int("items", len(order.Items)).
		Bool("geocoded", order.HasCoordinates()).
		Msg("order created")

	result := &CheckoutResult{
		OrderID:      order.ID,
		Total:        order.Total,
		TotalDisplay: order.TotalDisplay(),
		Latitude:     order.Latitude,
		Longitude:    order.Longitude,
		Order:        order,
	}
	if geo != nil && geo.FormattedAddress != "" {
		formatted := geo.FormattedAddress
		result.FormattedAddress = &formatted
	}

	return result, nil
}

// geocode resolves the shipping address. Zero results and timeouts degrade to
// no coordinates; other failures degrade too unless strict geocoding is on.
func (s *CheckoutService) geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	if address == "" {
		return nil, nil
	}

	geoCtx, cancel := context.WithTimeout(ctx, s.options.GeocodeTimeout)
	defer cancel()

	geo, err := s.geocoder.Geocode(geoCtx, address)
	if err == nil {
		if geo == nil {
			s.logger.Warn().Str("address", address).Msg("geocoding returned no results")
		}
		return geo, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if errors.Is(err, context.DeadlineExceeded) || geoCtx.Err() != nil {
		s.logger.Warn().Err(err).Str("address", address).Dur("timeout", s.options.GeocodeTimeout).
			Msg("geocoding timed out, continuing without coordinates")
		return nil, nil
	}

	if s.options.StrictGeocoding {
		return nil, fmt.Errorf("%w: %v", models.ErrGeocodingFailed, err)
	}

	s.logger.Warn().Err(err).Str("address", address).Msg("geocoding failed, continuing without coordinates")
	return nil, nil
}
