package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/likes-relay-service/internal/model"
	"github.com/likes-relay-service/internal/store"
	"github.com/likes-relay-service/internal/upstream"
)

// LikesAPI is the outbound external-service surface used by the relay.
type LikesAPI interface {
	SendLikes(ctx context.Context, params upstream.SendLikesParams) (*upstream.Result, error)
}

// RelayService forwards validated send-likes requests to the external API
// and records the access token used.
type RelayService struct {
	tokens   store.TokenStore
	likesAPI LikesAPI
	tokenTTL time.Duration
}

// NewRelayService creates a new relay service.
func NewRelayService(tokens store.TokenStore, likesAPI LikesAPI, tokenTTL time.Duration) *RelayService {
	return &RelayService{tokens: tokens, likesAPI: likesAPI, tokenTTL: tokenTTL}
}

// RelayRequest is a validated, normalized send-likes request.
type RelayRequest struct {
	UID         string
	Region      string
	AccessToken string
}

// RelayResult wraps the upstream payload with the original uid/region.
type RelayResult struct {
	UID      string                 `json:"uid"`
	Region   string                 `json:"region"`
	Response map[string]interface{} `json:"response"`
}

// Relay persists the submitted token and forwards the request upstream.
//
// The token write and the external call are independent: a write failure is
// logged and the call proceeds, so the stored token always reflects "most
// recently submitted", not "most recently proven valid".
func (s *RelayService) Relay(ctx context.Context, identity *model.Identity, req RelayRequest) (*RelayResult, error) {
	now := time.Now().UTC()
	record := &model.TokenRecord{
		IdentityID:  identity.ID,
		AccessToken: req.AccessToken,
		ExpiresAt:   now.Add(s.tokenTTL),
		LastUsedAt:  now,
	}
	if err := s.tokens.UpsertToken(ctx, record); err != nil {
		log.Error().Err(err).Str("identity", identity.ID.String()).Msg("failed to persist access token")
	}

	result, err := s.likesAPI.SendLikes(ctx, upstream.SendLikesParams{
		UID:         req.UID,
		APIKey:      identity.APIKey,
		Region:      req.Region,
		AccessToken: req.AccessToken,
	})
	if err != nil {
		return nil, s.mapUpstreamError(identity, err)
	}

	if !result.Success {
		message := result.Message
		if message == "" {
			message = "Failed to communicate with the external API"
		}
		return nil, NewBadRequest(message)
	}

	return &RelayResult{
		UID:      req.UID,
		Region:   req.Region,
		Response: result.Body,
	}, nil
}

func (s *RelayService) mapUpstreamError(identity *model.Identity, err error) *Error {
	if errors.Is(err, upstream.ErrTimeout) {
		log.Error().Str("identity", identity.ID.String()).Msg("external API call timed out")
		return NewInternal("Timed out contacting the external API", err)
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		log.Error().Int("status", statusErr.StatusCode).Str("identity", identity.ID.String()).
			Msg("external API returned an error response")
		if statusErr.Message != "" {
			return NewInternal(statusErr.Message, err)
		}
		return NewInternal("Failed to communicate with the external API", err)
	}

	log.Error().Err(err).Str("identity", identity.ID.String()).Msg("external API call failed")
	return NewInternal("Failed to communicate with the external API", err)
}
