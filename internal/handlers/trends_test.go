package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"moviestore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sampleTrends = []*models.RegionalTrend{
	{City: "Paris", State: "", MovieTitle: "Amelie", Latitude: 48.8566, Longitude: 2.3522, TotalPurchases: 12},
	{City: "Austin", State: "TX", MovieTitle: "Slacker", Latitude: 30.2672, Longitude: -97.7431, TotalPurchases: 4},
}

func TestTrendsHandler_RegionalTrends(t *testing.T) {
	trends := new(MockTrendsService)
	h := NewTrendsHandler(trends)

	trends.On("RegionalTrends", mock.Anything, 0).Return(sampleTrends, nil)
	trends.On("RegionalTrends", mock.Anything, 1).Return(sampleTrends[:1], nil)

	rec := serve(t, http.HandlerFunc(h.RegionalTrends), newRequest(http.MethodGet, "/maps/trends", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Trends []*models.RegionalTrend `json:"trends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, sampleTrends, body.Trends)

	limited := serve(t, http.HandlerFunc(h.RegionalTrends), newRequest(http.MethodGet, "/maps/trends?limit=1", "", nil))
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &body))
	assert.Len(t, body.Trends, 1)
	trends.AssertExpectations(t)
}

func TestTrendsHandler_BadLimit(t *testing.T) {
	trends := new(MockTrendsService)
	h := NewTrendsHandler(trends)

	for _, limit := range []string{"0", "-3", "ten"} {
		rec := serve(t, http.HandlerFunc(h.RegionalTrends), newRequest(http.MethodGet, "/maps/trends?limit="+limit, "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
	}
	trends.AssertNotCalled(t, "RegionalTrends", mock.Anything, mock.Anything)
}

func TestTrendsHandler_Empty(t *testing.T) {
	trends := new(MockTrendsService)
	trends.On("RegionalTrends", mock.Anything, 0).Return(nil, nil)

	rec := serve(t, http.HandlerFunc(NewTrendsHandler(trends).RegionalTrends), newRequest(http.MethodGet, "/maps/trends", "", nil))
	assert.JSONEq(t, `{"trends":[]}`, rec.Body.String())
}

func TestTrendsHandler_Stream(t *testing.T) {
	trends := new(MockTrendsService)
	trends.On("EachRegionalTrend", mock.Anything, 0, mock.Anything).Return(sampleTrends, nil)

	req := newRequest(http.MethodGet, "/maps/trends", "", nil)
	req.Header.Set("Accept", ndjsonContentType)
	rec := serve(t, http.HandlerFunc(NewTrendsHandler(trends).RegionalTrends), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ndjsonContentType, rec.Header().Get("Content-Type"))
	assert.True(t, rec.Flushed)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	var first models.RegionalTrend
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Amelie", first.MovieTitle)
	assert.Equal(t, 12, first.TotalPurchases)
}

func TestTrendsHandler_StreamLimit(t *testing.T) {
	trends := new(MockTrendsService)
	trends.On("EachRegionalTrend", mock.Anything, 1, mock.Anything).Return(sampleTrends[:1], nil)
	h := NewTrendsHandler(trends)

	req := newRequest(http.MethodGet, "/maps/trends?limit=1", "", nil)
	req.Header.Set("Accept", ndjsonContentType)
	rec := serve(t, http.HandlerFunc(h.RegionalTrends), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, strings.Split(strings.TrimSpace(rec.Body.String()), "\n"), 1)

	bad := newRequest(http.MethodGet, "/maps/trends?limit=0", "", nil)
	bad.Header.Set("Accept", ndjsonContentType)
	rec = serve(t, http.HandlerFunc(h.RegionalTrends), bad)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	trends.AssertNumberOfCalls(t, "EachRegionalTrend", 1)
}

func TestTrendsHandler_StreamFailsBeforeFirstRow(t *testing.T) {
	trends := new(MockTrendsService)
	trends.On("EachRegionalTrend", mock.Anything, 0, mock.Anything).Return(nil, assert.AnError)

	req := newRequest(http.MethodGet, "/maps/trends", "", nil)
	req.Header.Set("Accept", ndjsonContentType)
	rec := serve(t, http.HandlerFunc(NewTrendsHandler(trends).RegionalTrends), req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
