package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/likes-relay-service/internal/model"
)

const uniqueViolationCode = "23505"

func (p *Postgres) CreateIdentity(ctx context.Context, identity *model.Identity) error {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO identities (api_key, username, active, request_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`,
		identity.APIKey, identity.Username, identity.Active, identity.RequestCount,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("insert identity: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

const identityColumns = `id, api_key, username, active, request_count, created_at, updated_at`

func (p *Postgres) GetIdentityByKey(ctx context.Context, apiKey string) (*model.Identity, error) {
	var identity model.Identity
	err := p.pool.QueryRow(ctx, `
		SELECT `+identityColumns+` FROM identities WHERE api_key = $1 AND active
	`, apiKey).Scan(
		&identity.ID, &identity.APIKey, &identity.Username,
		&identity.Active, &identity.RequestCount,
		&identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get identity by key: %w", err)
	}
	return &identity, nil
}

func (p *Postgres) IncrementRequestCount(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE identities
		SET request_count = request_count + 1, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("increment request count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CountIdentities(ctx context.Context) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM identities`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return count, nil
}
