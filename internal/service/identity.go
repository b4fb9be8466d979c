package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/likes-relay-service/internal/model"
	"github.com/likes-relay-service/internal/store"
)

// IdentityService handles anonymous key issuance.
type IdentityService struct {
	store store.IdentityStore
}

// NewIdentityService creates a new identity service.
func NewIdentityService(s store.IdentityStore) *IdentityService {
	return &IdentityService{store: s}
}

// Issue generates a new API key and persists its identity record. The key is
// never returned unless the write succeeded. A generated-key collision is
// reported as a distinct error so the caller may retry issuance; there is no
// retry loop here, collisions are negligible by construction.
func (s *IdentityService) Issue(ctx context.Context) (*model.Identity, error) {
	apiKey, err := generateAPIKey()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate API key")
		return nil, NewInternal("Failed to generate API key", err)
	}

	identity := &model.Identity{
		APIKey:       apiKey,
		Username:     generateAnonymousUsername(),
		Active:       true,
		RequestCount: 0,
	}

	if err := s.store.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			log.Warn().Msg("generated API key collided with an existing key")
			return nil, NewInternal("Failed to generate a unique key. Try again.", err)
		}
		log.Error().Err(err).Msg("failed to persist identity")
		return nil, NewInternal("Failed to generate API key", err)
	}

	return identity, nil
}

func generateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand failed: %w", err)
	}
	return "ak_" + hex.EncodeToString(b), nil
}

func generateAnonymousUsername() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("anon-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
