package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"moviestore/internal/models"
)

func TestTrendsService_RegionalTrends(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewTrendsService(repo)

	trends := []*models.RegionalTrend{
		{City: "Arrakeen", MovieTitle: "Dune", Latitude: 1.5, Longitude: 2.5, TotalPurchases: 2},
	}
	repo.On("RegionalTrends", mock.Anything, 0).Return(trends, nil).Twice()
	repo.On("RegionalTrends", mock.Anything, 3).Return(trends, nil).Once()

	got, err := service.RegionalTrends(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, trends, got)

	// Negative limits mean no limit
	_, err = service.RegionalTrends(context.Background(), -1)
	require.NoError(t, err)

	_, err = service.RegionalTrends(context.Background(), 3)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestTrendsService_EachRegionalTrend(t *testing.T) {
	repo := new(MockOrderRepository)
	service := NewTrendsService(repo)

	rows := []*models.RegionalTrend{
		{City: "Paris", MovieTitle: "Amelie", TotalPurchases: 3},
		{City: "Austin", State: "TX", MovieTitle: "Slacker", TotalPurchases: 1},
	}
	repo.On("EachRegionalTrend", mock.Anything, 0, mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(*models.RegionalTrend) error)
			for _, row := range rows {
				if err := fn(row); err != nil {
					return
				}
			}
		}).
		Return(nil)

	var titles []string
	err := service.EachRegionalTrend(context.Background(), -2, func(trend *models.RegionalTrend) error {
		titles = append(titles, trend.MovieTitle)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Amelie", "Slacker"}, titles)
}
