package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/likes-relay-service/internal/model"
	"github.com/likes-relay-service/internal/store"
)

type contextKey string

const identityContextKey contextKey = "identity"

// APIKeyHeader is the request header carrying the caller's API key.
const APIKeyHeader = "X-API-Key"

// GetIdentity extracts the authenticated identity from the request context.
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// APIKeyAuth returns middleware that authenticates requests via the
// X-API-Key header. On success the identity is attached to the request
// context and the request counter is incremented in a detached goroutine;
// increment failures are logged and never reach the caller.
func APIKeyAuth(s store.IdentityStore, limiter *AuthAttemptLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attemptKey := clientIPKey(r, "api_key")
			if limiter != nil && !limiter.allow(attemptKey) {
				respondError(w, http.StatusTooManyRequests, "Too many authentication failures. Try again later.")
				return
			}

			apiKey := r.Header.Get(APIKeyHeader)
			if apiKey == "" {
				if limiter != nil {
					limiter.registerFailure(attemptKey)
				}
				respondError(w, http.StatusUnauthorized, "API key is required in the X-API-Key header")
				return
			}

			identity, err := s.GetIdentityByKey(r.Context(), apiKey)
			if err != nil {
				if limiter != nil {
					limiter.registerFailure(attemptKey)
				}
				if errors.Is(err, store.ErrNotFound) {
					respondError(w, http.StatusUnauthorized, "Invalid or unknown API key")
					return
				}
				log.Error().Err(err).Msg("identity lookup failed")
				respondError(w, http.StatusInternalServerError, "An unexpected error occurred")
				return
			}

			if limiter != nil {
				limiter.registerSuccess(attemptKey)
			}

			incrementRequestCount(r.Context(), s, identity.ID)

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// incrementRequestCount bumps the counter without blocking the response.
// The write inherits request values but not the request's cancellation, so
// it survives the caller disconnecting.
func incrementRequestCount(ctx context.Context, s store.IdentityStore, id uuid.UUID) {
	detached := context.WithoutCancel(ctx)
	go func() {
		incCtx, cancel := context.WithTimeout(detached, 5*time.Second)
		defer cancel()
		if err := s.IncrementRequestCount(incCtx, id); err != nil {
			log.Warn().Err(err).Str("identity", id.String()).Msg("failed to increment request count")
		}
	}()
}
