package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/likes-relay-service/internal/model"
)

func TestTokenServiceGet(t *testing.T) {
	t.Run("no token stored", func(t *testing.T) {
		svc := NewTokenService(newFakeTokenStore())

		_, err := svc.Get(context.Background(), testIdentity())
		var svcErr *Error
		if !errors.As(err, &svcErr) || svcErr.Kind != ErrNotFound {
			t.Fatalf("expected not-found error, got %v", err)
		}
	})

	t.Run("expired token is expired, not missing", func(t *testing.T) {
		tokens := newFakeTokenStore()
		identity := testIdentity()
		tokens.records[identity.ID] = &model.TokenRecord{
			IdentityID:  identity.ID,
			AccessToken: "stale",
			ExpiresAt:   time.Now().UTC().Add(-time.Second),
		}
		svc := NewTokenService(tokens)

		_, err := svc.Get(context.Background(), identity)
		var svcErr *Error
		if !errors.As(err, &svcErr) || svcErr.Kind != ErrBadRequest {
			t.Fatalf("expected bad-request error, got %v", err)
		}
		if !strings.Contains(svcErr.Message, "expired") {
			t.Fatalf("expected expiry message, got %q", svcErr.Message)
		}
	})

	t.Run("live token is returned and touched", func(t *testing.T) {
		tokens := newFakeTokenStore()
		identity := testIdentity()
		expires := time.Now().UTC().Add(time.Hour)
		tokens.records[identity.ID] = &model.TokenRecord{
			IdentityID:  identity.ID,
			AccessToken: "live",
			ExpiresAt:   expires,
		}
		svc := NewTokenService(tokens)

		record, err := svc.Get(context.Background(), identity)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if record.AccessToken != "live" || !record.ExpiresAt.Equal(expires) {
			t.Fatalf("unexpected record: %+v", record)
		}
		if tokens.touches != 1 {
			t.Fatalf("expected one touch, got %d", tokens.touches)
		}
	})

	t.Run("touch failure does not fail the read", func(t *testing.T) {
		tokens := newFakeTokenStore()
		identity := testIdentity()
		tokens.records[identity.ID] = &model.TokenRecord{
			IdentityID:  identity.ID,
			AccessToken: "live",
			ExpiresAt:   time.Now().UTC().Add(time.Hour),
		}
		tokens.touchErr = errors.New("lock timeout")
		svc := NewTokenService(tokens)

		if _, err := svc.Get(context.Background(), identity); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("store failure is internal", func(t *testing.T) {
		tokens := newFakeTokenStore()
		tokens.getErr = errors.New("connection reset")
		svc := NewTokenService(tokens)

		_, err := svc.Get(context.Background(), testIdentity())
		var svcErr *Error
		if !errors.As(err, &svcErr) || svcErr.Kind != ErrInternal {
			t.Fatalf("expected internal error, got %v", err)
		}
	})
}
