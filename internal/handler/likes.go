package handler

import (
	"encoding/json"
	"net/http"

	"github.com/likes-relay-service/internal/middleware"
	"github.com/likes-relay-service/internal/service"
	"github.com/likes-relay-service/internal/validation"
)

type LikesHandler struct {
	relay *service.RelayService
}

func NewLikesHandler(relay *service.RelayService) *LikesHandler {
	return &LikesHandler{relay: relay}
}

func (h *LikesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		RespondError(w, http.StatusUnauthorized, "API key is required in the X-API-Key header")
		return
	}

	var payload validation.SendLikesInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&payload); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	normalized, vErr := validation.SendLikes(payload)
	if vErr != nil {
		service.RespondError(w, vErr)
		return
	}

	result, err := h.relay.Relay(r.Context(), identity, service.RelayRequest{
		UID:         normalized.UID,
		Region:      normalized.Region,
		AccessToken: normalized.AccessToken,
	})
	if err != nil {
		service.RespondError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, "Likes sent successfully", result)
}
