package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"moviestore/internal/models"
)

// MovieRepository handles catalog data operations
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `id, name, price, description, image`

// Create inserts a movie into the catalog
func (r *MovieRepository) Create(ctx context.Context, req *models.MovieCreateRequest) (*models.Movie, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO movies (name, price, description, image)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + movieColumns

	movie := &models.Movie{}
	err := r.db.QueryRowContext(ctx, query,
		strings.TrimSpace(req.Name),
		req.Price,
		req.Description,
		req.Image,
	).Scan(&movie.ID, &movie.Name, &movie.Price, &movie.Description, &movie.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	return movie, nil
}

// GetByID retrieves a movie by ID
func (r *MovieRepository) GetByID(ctx context.Context, id int) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie := &models.Movie{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&movie.ID, &movie.Name, &movie.Price, &movie.Description, &movie.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return movie, nil
}

// GetByIDs retrieves every movie whose id is in ids. Unknown ids are simply absent
// from the result.
func (r *MovieRepository) GetByIDs(ctx context.Context, ids []int) ([]*models.Movie, error) {
	if len(ids) == 0 {
		return []*models.Movie{}, nil
	}

	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = ANY($1) ORDER BY id`

	ids64 := make([]int64, len(ids))
	for i, id := range ids {
		ids64[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids64))
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}
	defer rows.Close()

	return scanMovies(rows)
}

// List returns the catalog ordered by name. A non-empty search filters by a
// case-insensitive name substring.
func (r *MovieRepository) List(ctx context.Context, search string) ([]*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies`
	var args []interface{}

	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	return scanMovies(rows)
}

// Count returns the number of movies in the catalog
func (r *MovieRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

func scanMovies(rows *sql.Rows) ([]*models.Movie, error) {
	movies := []*models.Movie{}
	for rows.Next() {
		movie := &models.Movie{}
		if err := rows.Scan(&movie.ID, &movie.Name, &movie.Price, &movie.Description, &movie.Image); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	return movies, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
