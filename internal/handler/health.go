package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/likes-relay-service/internal/httputil"
	"github.com/likes-relay-service/internal/store"
)

type HealthHandler struct {
	store     store.IdentityStore
	startTime time.Time
}

func NewHealthHandler(s store.IdentityStore) *HealthHandler {
	return &HealthHandler{store: s, startTime: time.Now()}
}

type HealthResponse struct {
	Success         bool   `json:"success"`
	Status          string `json:"status"`
	UptimeSeconds   int64  `json:"uptimeSeconds"`
	Timestamp       string `json:"timestamp"`
	TotalIdentities int    `json:"totalIdentities"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.CountIdentities(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to count identities")
		total = 0
	}

	httputil.RespondJSON(w, http.StatusOK, HealthResponse{
		Success:         true,
		Status:          "ok",
		UptimeSeconds:   int64(time.Since(h.startTime).Seconds()),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		TotalIdentities: total,
	})
}
