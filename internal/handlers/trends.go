package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"moviestore/internal/models"
	"moviestore/internal/services"

	"github.com/rs/zerolog"
)

const ndjsonContentType = "application/x-ndjson"

// TrendsHandler serves the regional purchase trends used by the map view
type TrendsHandler struct {
	trends services.TrendsServiceInterface
}

// NewTrendsHandler creates a new trends handler
func NewTrendsHandler(trends services.TrendsServiceInterface) *TrendsHandler {
	return &TrendsHandler{trends: trends}
}

// RegionalTrends returns the trend records, most purchased first. ?limit= caps
// the list. Clients that accept application/x-ndjson get one record per line.
func (h *TrendsHandler) RegionalTrends(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeMessage(w, http.StatusBadRequest, "limit must be a positive whole number")
			return
		}
		limit = parsed
	}

	if strings.Contains(r.Header.Get("Accept"), ndjsonContentType) {
		h.stream(w, r, limit)
		return
	}

	trends, err := h.trends.RegionalTrends(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if trends == nil {
		trends = []*models.RegionalTrend{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"trends": trends})
}

func (h *TrendsHandler) stream(w http.ResponseWriter, r *http.Request, limit int) {
	w.Header().Set("Content-Type", ndjsonContentType)
	encoder := json.NewEncoder(w)
	rc := http.NewResponseController(w)

	started := false
	err := h.trends.EachRegionalTrend(r.Context(), limit, func(trend *models.RegionalTrend) error {
		if !started {
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := encoder.Encode(trend); err != nil {
			return err
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		return nil
	})
	if err != nil {
		if !started {
			w.Header().Set("Content-Type", "application/json")
			writeError(w, r, err)
			return
		}
		// Headers are gone; the truncated stream is all the client gets
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("trend stream aborted")
		return
	}

	if !started {
		w.WriteHeader(http.StatusOK)
	}
}
