package services

import (
	"context"

	"moviestore/internal/models"
)

// TrendsService serves the regional purchase trends shown on the map
type TrendsService struct {
	trendsRepo TrendsRepository
}

// NewTrendsService creates a new trends service
func NewTrendsService(trendsRepo TrendsRepository) *TrendsService {
	return &TrendsService{trendsRepo: trendsRepo}
}

// RegionalTrends returns purchase counts per location and movie, most purchased
// first. Results are recomputed on every call. A non-positive limit means all rows.
func (s *TrendsService) RegionalTrends(ctx context.Context, limit int) ([]*models.RegionalTrend, error) {
	if limit < 0 {
		limit = 0
	}
	return s.trendsRepo.RegionalTrends(ctx, limit)
}

// EachRegionalTrend walks the trends one row at a time, honouring the same limit
// as RegionalTrends
func (s *TrendsService) EachRegionalTrend(ctx context.Context, limit int, fn func(*models.RegionalTrend) error) error {
	if limit < 0 {
		limit = 0
	}
	return s.trendsRepo.EachRegionalTrend(ctx, limit, fn)
}
