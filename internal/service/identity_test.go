package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/likes-relay-service/internal/model"
	"github.com/likes-relay-service/internal/store"
)

type fakeIdentityStore struct {
	createErr  error
	created    []*model.Identity
	byKey      map[string]*model.Identity
	increments int
	incErr     error
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{byKey: make(map[string]*model.Identity)}
}

func (f *fakeIdentityStore) CreateIdentity(_ context.Context, identity *model.Identity) error {
	if f.createErr != nil {
		return f.createErr
	}
	identity.ID = uuid.New()
	f.created = append(f.created, identity)
	f.byKey[identity.APIKey] = identity
	return nil
}

func (f *fakeIdentityStore) GetIdentityByKey(_ context.Context, apiKey string) (*model.Identity, error) {
	identity, ok := f.byKey[apiKey]
	if !ok || !identity.Active {
		return nil, store.ErrNotFound
	}
	return identity, nil
}

func (f *fakeIdentityStore) IncrementRequestCount(_ context.Context, _ uuid.UUID) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increments++
	return nil
}

func (f *fakeIdentityStore) CountIdentities(_ context.Context) (int, error) {
	return len(f.created), nil
}

func TestGenerateAPIKey(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		k, err := generateAPIKey()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(k, "ak_") {
			t.Fatalf("unexpected prefix: %s", k)
		}
		if len(k) != len("ak_")+64 {
			t.Fatalf("unexpected key length %d: %s", len(k), k)
		}
	})

	t.Run("unique over many draws", func(t *testing.T) {
		seen := make(map[string]struct{}, 10000)
		for i := 0; i < 10000; i++ {
			k, err := generateAPIKey()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, exists := seen[k]; exists {
				t.Fatalf("duplicate key generated: %s", k)
			}
			seen[k] = struct{}{}
		}
	})
}

func TestIdentityServiceIssue(t *testing.T) {
	t.Run("creates active identity with zero count", func(t *testing.T) {
		fake := newFakeIdentityStore()
		svc := NewIdentityService(fake)

		identity, err := svc.Issue(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !identity.Active {
			t.Fatal("expected new identity to be active")
		}
		if identity.RequestCount != 0 {
			t.Fatalf("expected zero request count, got %d", identity.RequestCount)
		}
		if !strings.HasPrefix(identity.Username, "anon-") {
			t.Fatalf("unexpected username: %s", identity.Username)
		}
		if len(fake.created) != 1 {
			t.Fatalf("expected one persisted identity, got %d", len(fake.created))
		}
	})

	t.Run("store failure yields internal error and no key", func(t *testing.T) {
		fake := newFakeIdentityStore()
		fake.createErr = errors.New("connection reset")
		svc := NewIdentityService(fake)

		_, err := svc.Issue(context.Background())
		var svcErr *Error
		if !errors.As(err, &svcErr) || svcErr.Kind != ErrInternal {
			t.Fatalf("expected internal error, got %v", err)
		}
		if len(fake.created) != 0 {
			t.Fatal("no identity must be recorded on write failure")
		}
	})

	t.Run("duplicate key is a distinct failure", func(t *testing.T) {
		fake := newFakeIdentityStore()
		fake.createErr = store.ErrDuplicateKey
		svc := NewIdentityService(fake)

		_, err := svc.Issue(context.Background())
		var svcErr *Error
		if !errors.As(err, &svcErr) {
			t.Fatalf("expected service error, got %v", err)
		}
		if !errors.Is(svcErr, store.ErrDuplicateKey) {
			t.Fatalf("expected wrapped duplicate-key error, got %v", err)
		}
		if !strings.Contains(svcErr.Message, "Try again") {
			t.Fatalf("expected retry hint, got %q", svcErr.Message)
		}
	})
}
