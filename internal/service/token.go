package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/likes-relay-service/internal/model"
	"github.com/likes-relay-service/internal/store"
)

// TokenService retrieves the stored access token for an identity.
type TokenService struct {
	tokens store.TokenStore
}

// NewTokenService creates a new token service.
func NewTokenService(tokens store.TokenStore) *TokenService {
	return &TokenService{tokens: tokens}
}

// Get returns the identity's token record. A record past its expiry is
// reported as expired, never as missing: physical deletion by the sweep may
// lag, so the expiry is always checked explicitly. A successful read
// refreshes last_used_at best-effort.
func (s *TokenService) Get(ctx context.Context, identity *model.Identity) (*model.TokenRecord, error) {
	record, err := s.tokens.GetTokenByIdentity(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFound("No token stored for this API key")
		}
		log.Error().Err(err).Str("identity", identity.ID.String()).Msg("failed to read token")
		return nil, NewInternal("Failed to retrieve token", err)
	}

	if record.Expired(time.Now().UTC()) {
		return nil, NewBadRequest("Token expired. Submit a new token via /api/send-likes")
	}

	if err := s.tokens.TouchToken(ctx, identity.ID); err != nil {
		log.Warn().Err(err).Str("identity", identity.ID.String()).Msg("failed to refresh token last_used_at")
	}

	return record, nil
}
