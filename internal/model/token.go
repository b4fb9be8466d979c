package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenRecord holds the most recent external-service access token submitted
// by an identity. At most one record exists per identity; a new submission
// replaces the old one in place with a fresh expiry.
type TokenRecord struct {
	ID          uuid.UUID `json:"id"`
	IdentityID  uuid.UUID `json:"identity_id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	LastUsedAt  time.Time `json:"last_used_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Expired reports whether the record's expiry has passed. A record past its
// expiry must be treated as absent even if the sweep has not deleted it yet.
func (t *TokenRecord) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
