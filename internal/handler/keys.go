package handler

import (
	"net/http"
	"time"

	"github.com/likes-relay-service/internal/service"
)

type KeysHandler struct {
	identities *service.IdentityService
}

func NewKeysHandler(identities *service.IdentityService) *KeysHandler {
	return &KeysHandler{identities: identities}
}

type GenerateKeyResponse struct {
	APIKey    string    `json:"apiKey"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *KeysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.identities.Issue(r.Context())
	if err != nil {
		service.RespondError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, "API key generated successfully", GenerateKeyResponse{
		APIKey:    identity.APIKey,
		CreatedAt: identity.CreatedAt,
	})
}
