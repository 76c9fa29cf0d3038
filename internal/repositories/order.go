package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"moviestore/internal/database"
	"moviestore/internal/models"
)

// OrderRepository handles order data operations
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems creates an order and all of its items in one transaction.
// The stored total is always the sum of the item lines being written.
func (r *OrderRepository) CreateWithItems(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	shipping := req.Shipping.Normalize()
	order := &models.Order{
		UserID:    req.UserID,
		City:      shipping.City,
		State:     shipping.State,
		Country:   shipping.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Items:     make([]*models.Item, 0, len(req.Items)),
	}
	for _, line := range req.Items {
		order.Items = append(order.Items, &models.Item{
			MovieID:  line.MovieID,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}
	order.Total = order.ItemsTotal()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total, city, state, country, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		order.UserID,
		order.Total,
		order.City,
		order.State,
		order.Country,
		nullFloat(order.Latitude),
		nullFloat(order.Longitude),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (order_id, movie_id, price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range order.Items {
		item.OrderID = order.ID
		if err := stmt.QueryRowContext(ctx, order.ID, item.MovieID, item.Price, item.Quantity).Scan(&item.ID); err != nil {
			if database.IsForeignKeyViolation(err) {
				return nil, fmt.Errorf("failed to create item for movie %d: %w", item.MovieID, models.ErrMovieNotFound)
			}
			return nil, fmt.Errorf("failed to create item for movie %d: %w", item.MovieID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return order, nil
}

// GetByUser retrieves a user's orders, newest first, with their items
func (r *OrderRepository) GetByUser(ctx context.Context, userID int) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, total, created_at, city, state, country, latitude, longitude
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.CreatedAt,
			&order.City, &order.State, &order.Country, &lat, &lng); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Latitude = floatPtr(lat)
		order.Longitude = floatPtr(lng)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the items of every order in one query
func (r *OrderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int]*models.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Items = []*models.Item{}
		byID[o.ID] = o
		ids = append(ids, int64(o.ID))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.order_id, i.movie_id, m.name, i.price, i.quantity
		FROM items i
		JOIN movies m ON m.id = i.movie_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.order_id, i.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MovieID, &item.MovieName, &item.Price, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}
	return nil
}

const regionalTrendsQuery = `
	SELECT o.city, o.state, m.name, o.latitude, o.longitude, COUNT(i.id) AS total_purchases
	FROM items i
	JOIN orders o ON o.id = i.order_id
	JOIN movies m ON m.id = i.movie_id
	WHERE o.latitude IS NOT NULL AND o.longitude IS NOT NULL
	GROUP BY o.city, o.state, m.name, o.latitude, o.longitude
	ORDER BY total_purchases DESC, o.city, o.state, m.name`

// RegionalTrends counts purchased items per (city, state, movie, coordinates) for
// geocoded orders, most purchased first. A positive limit caps the result.
func (r *OrderRepository) RegionalTrends(ctx context.Context, limit int) ([]*models.RegionalTrend, error) {
	trends := []*models.RegionalTrend{}
	err := r.EachRegionalTrend(ctx, limit, func(t *models.RegionalTrend) error {
		trends = append(trends, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trends, nil
}

// EachRegionalTrend streams the regional trends row by row. Returning an error
// from fn stops the iteration and is returned as-is.
func (r *OrderRepository) EachRegionalTrend(ctx context.Context, limit int, fn func(*models.RegionalTrend) error) error {
	query := regionalTrendsQuery
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to get regional trends: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t := &models.RegionalTrend{}
		if err := rows.Scan(&t.City, &t.State, &t.MovieTitle, &t.Latitude, &t.Longitude, &t.TotalPurchases); err != nil {
			return fmt.Errorf("failed to scan regional trend: %w", err)
		}
		if err := fn(t); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating regional trends: %w", err)
	}
	return nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
