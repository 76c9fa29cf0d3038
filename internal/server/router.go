package server

import (
	"net/http"
	"time"

	"moviestore/internal/handlers"
	"moviestore/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by NewRouter
type Handlers struct {
	Movies    *handlers.MovieHandler
	Cart      *handlers.CartHandler
	Trends    *handlers.TrendsHandler
	Petitions *handlers.PetitionHandler
	Accounts  *handlers.AccountHandler
	Health    *handlers.HealthHandler
}

// Options configures the middleware stack
type Options struct {
	Logger         zerolog.Logger
	Auth           *middleware.AuthMiddleware
	LoginLimiter   middleware.Limiter // nil disables login throttling
	CORSOrigins    []string
	TrustedProxies *middleware.TrustedProxies // nil ignores forwarding headers
	RequestTimeout time.Duration
}

// NewRouter wires the routes and the middleware stack
func NewRouter(h Handlers, opts Options) *chi.Mux {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RealIPMiddleware(opts.TrustedProxies))
	r.Use(middleware.ErrorHandlingMiddleware(opts.Logger))
	r.Use(middleware.SecurityHeadersMiddleware)
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(opts.CORSOrigins)))
	}
	r.Use(opts.Auth.LoadUser)
	r.Use(middleware.LoggingMiddleware(opts.Logger))
	r.Use(chimiddleware.CleanPath)
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Get("/healthz", h.Health.Check)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", h.Movies.List)
		r.Get("/{id:[0-9]+}", h.Movies.Get)

		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.RequireAuth)
			r.Post("/{id:[0-9]+}/reviews", h.Movies.CreateReview)
			r.Put("/{id:[0-9]+}/reviews/{reviewID:[0-9]+}", h.Movies.UpdateReview)
			r.Delete("/{id:[0-9]+}/reviews/{reviewID:[0-9]+}", h.Movies.DeleteReview)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Cart.View)
		r.Post("/clear", h.Cart.Clear)
		r.Post("/{id:[0-9]+}", h.Cart.Add)
		r.Delete("/{id:[0-9]+}", h.Cart.Remove)
		r.With(opts.Auth.RequireAuth).Post("/purchase", h.Cart.Purchase)
	})

	r.Get("/maps/trends", h.Trends.RegionalTrends)

	r.Route("/petitions", func(r chi.Router) {
		r.Get("/", h.Petitions.List)
		r.Get("/{id:[0-9]+}", h.Petitions.Get)

		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.RequireAuth)
			r.Post("/", h.Petitions.Create)
			r.Post("/{id:[0-9]+}/vote", h.Petitions.Vote)
		})
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/signup", h.Accounts.Signup)
		if opts.LoginLimiter != nil {
			r.With(middleware.LoginRateLimit(opts.LoginLimiter, opts.Logger)).Post("/login", h.Accounts.Login)
		} else {
			r.Post("/login", h.Accounts.Login)
		}
		r.Post("/logout", h.Accounts.Logout)
		r.Post("/forgot-password", h.Accounts.ForgotPassword)
		r.Post("/verify-security", h.Accounts.VerifySecurity)

		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.RequireAuth)
			r.Get("/orders", h.Accounts.Orders)
			r.Get("/profile", h.Accounts.GetProfile)
			r.Put("/profile", h.Accounts.UpdateProfile)
		})
	})

	return r
}

// NewHTTPServer returns an http.Server with conservative timeouts
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
