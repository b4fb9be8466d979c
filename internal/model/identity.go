package model

import (
	"time"

	"github.com/google/uuid"
)

// Identity is an anonymous account record identified by an opaque API key.
// Identities are created by key issuance and never deleted by the service;
// Active=false permanently revokes the key for authentication purposes.
type Identity struct {
	ID           uuid.UUID `json:"id"`
	APIKey       string    `json:"-"`
	Username     string    `json:"username"`
	Active       bool      `json:"active"`
	RequestCount int64     `json:"request_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
