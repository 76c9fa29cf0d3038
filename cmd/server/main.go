package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviestore/internal/config"
	"moviestore/internal/database"
	"moviestore/internal/handlers"
	"moviestore/internal/logger"
	"moviestore/internal/middleware"
	"moviestore/internal/repositories"
	"moviestore/internal/server"
	"moviestore/internal/services"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := database.NewConnection(ctx, database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, log); err != nil {
		return err
	}

	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	// Repositories
	movieRepo := repositories.NewMovieRepository(db.DB)
	reviewRepo := repositories.NewReviewRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)
	petitionRepo := repositories.NewPetitionRepository(db.DB)
	userRepo := repositories.NewUserRepository(db.DB)

	var geocoder services.Geocoder = services.NoopGeocoder{}
	if cfg.Geocoding.APIKey != "" {
		google, err := services.NewGoogleGeocoder(cfg.Geocoding.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create geocoder: %w", err)
		}
		geocoder = google
	} else {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set, orders will be stored without coordinates")
	}

	recoveryLimiter, loginLimiter, closeLimiters, err := newLimiters(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiters()

	// Services
	catalogService := services.NewCatalogService(movieRepo, reviewRepo)
	reviewService := services.NewReviewService(reviewRepo, movieRepo)
	cartService := services.NewCartService(movieRepo)
	checkoutService := services.NewCheckoutService(movieRepo, orderRepo, geocoder, services.CheckoutOptions{
		GeocodeTimeout:  cfg.Geocoding.Timeout,
		StrictGeocoding: cfg.Geocoding.Strict,
	}, log)
	trendsService := services.NewTrendsService(orderRepo)
	petitionService := services.NewPetitionService(petitionRepo, log)
	accountService := services.NewAccountService(userRepo, orderRepo, log)
	recoveryService := services.NewRecoveryService(userRepo, recoveryLimiter, log)

	auth := middleware.NewAuthMiddleware(accountService, store, log)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Handlers{
		Movies:    handlers.NewMovieHandler(catalogService, reviewService),
		Cart:      handlers.NewCartHandler(cartService, checkoutService, store),
		Trends:    handlers.NewTrendsHandler(trendsService),
		Petitions: handlers.NewPetitionHandler(petitionService),
		Accounts:  handlers.NewAccountHandler(accountService, recoveryService, auth),
		Health:    handlers.NewHealthHandler(db),
	}, server.Options{
		Logger:         log,
		Auth:           auth,
		LoginLimiter:   loginLimiter,
		CORSOrigins:    cfg.Server.CORSOrigins,
		TrustedProxies: trustedProxies,
	})

	srv := server.NewHTTPServer(cfg.Addr(), router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Info().Msg("server exited")
		return nil
	})

	return g.Wait()
}

// newLimiters backs the recovery and login throttles with Redis when REDIS_ADDR
// is set so that limits hold across instances, and with in-process windows
// otherwise.
func newLimiters(ctx context.Context, cfg *config.Config, log zerolog.Logger) (services.AttemptLimiter, middleware.Limiter, func(), error) {
	if cfg.Redis.Addr == "" {
		recovery := middleware.NewMemoryLimiter(cfg.Recovery.MaxAttempts, cfg.Recovery.Window)
		login := middleware.NewMemoryLimiter(cfg.Login.MaxAttempts, cfg.Login.Window)
		return recovery, login, func() {
			recovery.Close()
			login.Close()
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis for attempt limits")

	recovery := middleware.NewRedisLimiter(client, cfg.Recovery.MaxAttempts, cfg.Recovery.Window)
	login := middleware.NewRedisLimiter(client, cfg.Login.MaxAttempts, cfg.Login.Window)
	return recovery, login, func() { client.Close() }, nil
}
