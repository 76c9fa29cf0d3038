package main

import (
	"context"
	"fmt"
	"os"

	"moviestore/internal/config"
	"moviestore/internal/database"
	"moviestore/internal/logger"
	"moviestore/internal/models"
	"moviestore/internal/repositories"
	"moviestore/internal/services"
)

var catalog = []models.MovieCreateRequest{
	{Name: "Inception", Price: 1200, Description: "A thief who steals corporate secrets through dream-sharing technology.", Image: "movie_images/inception.jpg"},
	{Name: "Avatar", Price: 1500, Description: "A paraplegic marine dispatched to the moon Pandora.", Image: "movie_images/avatar.jpg"},
	{Name: "Titanic", Price: 900, Description: "A seventeen-year-old aristocrat falls in love aboard the ill-fated ship.", Image: "movie_images/titanic.jpg"},
	{Name: "The Matrix", Price: 1000, Description: "A hacker learns the true nature of his reality.", Image: "movie_images/matrix.jpg"},
	{Name: "Amelie", Price: 800, Description: "A shy waitress decides to change the lives of those around her.", Image: "movie_images/amelie.jpg"},
	{Name: "Spirited Away", Price: 1100, Description: "A girl wanders into a world ruled by gods and witches.", Image: "movie_images/spirited_away.jpg"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.IsDevelopment())
	ctx := context.Background()

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
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	movieRepo := repositories.NewMovieRepository(db.DB)
	count, err := movieRepo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count movies")
	}
	if count > 0 {
		log.Info().Int("movies", count).Msg("catalog already seeded, skipping")
		return
	}

	catalogService := services.NewCatalogService(movieRepo, repositories.NewReviewRepository(db.DB))
	for i := range catalog {
		movie, err := catalogService.CreateMovie(ctx, &catalog[i])
		if err != nil {
			log.Fatal().Err(err).Str("name", catalog[i].Name).Msg("failed to create movie")
		}
		log.Info().Int("id", movie.ID).Str("name", movie.Name).Str("price", movie.PriceDisplay()).Msg("movie created")
	}

	log.Info().Int("movies", len(catalog)).Msg("catalog seeded")
}
