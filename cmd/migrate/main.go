package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"moviestore/internal/config"
	"moviestore/internal/database"
	"moviestore/internal/logger"
)

func main() {
	var (
		statusFlag = flag.Bool("status", false, "Show the applied schema version")
		upFlag     = flag.Bool("up", false, "Run pending migrations")
		downFlag   = flag.Bool("down", false, "Roll back the most recent migration")
	)
	flag.Parse()

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

	migrator := database.NewMigrator(db, log)

	switch {
	case *statusFlag:
		version, dirty, err := migrator.Version(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get migration status")
		}
		if version == 0 {
			fmt.Println("No migrations applied")
			return
		}
		fmt.Printf("Schema version: %d (dirty: %t)\n", version, dirty)
	case *upFlag:
		if err := migrator.Up(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	case *downFlag:
		if err := migrator.Down(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to roll back migration")
		}
	default:
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/migrate -status   # Show the applied schema version")
		fmt.Println("  go run ./cmd/migrate -up       # Run pending migrations")
		fmt.Println("  go run ./cmd/migrate -down     # Roll back the most recent migration")
		os.Exit(1)
	}
}
