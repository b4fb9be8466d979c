package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/likes-relay-service/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when an insert violates a unique constraint.
var ErrDuplicateKey = errors.New("duplicate key")

// IdentityStore defines operations for anonymous identity management.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, identity *model.Identity) error
	// GetIdentityByKey resolves an API key to its identity. Only active
	// identities match; the comparison is exact and case-sensitive.
	GetIdentityByKey(ctx context.Context, apiKey string) (*model.Identity, error)
	// IncrementRequestCount atomically bumps the request counter. Concurrent
	// increments must not be lost to a read-modify-write race.
	IncrementRequestCount(ctx context.Context, id uuid.UUID) error
	CountIdentities(ctx context.Context) (int, error)
}

// TokenStore defines operations for per-identity access token records.
type TokenStore interface {
	// UpsertToken replaces the identity's token record in place, setting a
	// fresh expiry. At most one record exists per identity.
	UpsertToken(ctx context.Context, record *model.TokenRecord) error
	GetTokenByIdentity(ctx context.Context, identityID uuid.UUID) (*model.TokenRecord, error)
	// TouchToken refreshes last_used_at on read.
	TouchToken(ctx context.Context, identityID uuid.UUID) error
	// DeleteExpiredTokens removes records whose expiry has passed and
	// returns how many were deleted.
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

// Store combines both IdentityStore and TokenStore.
type Store interface {
	IdentityStore
	TokenStore
}
