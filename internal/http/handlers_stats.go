package httpx

import (
	"net/http"
	"time"

	"github.com/rodaworks/academy/internal/service"
)

// StatsHandlers provides HTTP handlers for the admin dashboard counters.
type StatsHandlers struct {
	Svc *service.StatsService

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// Dashboard returns the aggregated dashboard counters.
// GET /api/stats/dashboard.
func (h *StatsHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	stats, err := h.Svc.Dashboard(r.Context(), now)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}
