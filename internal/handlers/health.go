package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("health check: database unreachable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "moviestore", "database": "up"})
}
