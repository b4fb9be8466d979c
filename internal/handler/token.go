package handler

import (
	"net/http"
	"time"

	"github.com/likes-relay-service/internal/middleware"
	"github.com/likes-relay-service/internal/service"
)

type TokenHandler struct {
	tokens *service.TokenService
}

func NewTokenHandler(tokens *service.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	LastUsedAt  time.Time `json:"lastUsedAt"`
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		RespondError(w, http.StatusUnauthorized, "API key is required in the X-API-Key header")
		return
	}

	record, err := h.tokens.Get(r.Context(), identity)
	if err != nil {
		service.RespondError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, "Token retrieved successfully", TokenResponse{
		AccessToken: record.AccessToken,
		ExpiresAt:   record.ExpiresAt,
		LastUsedAt:  record.LastUsedAt,
	})
}
