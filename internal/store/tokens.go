package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/likes-relay-service/internal/model"
)

func (p *Postgres) UpsertToken(ctx context.Context, record *model.TokenRecord) error {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO tokens (identity_id, access_token, expires_at, last_used_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			expires_at   = EXCLUDED.expires_at,
			last_used_at = EXCLUDED.last_used_at,
			updated_at   = NOW()
		RETURNING id, created_at, updated_at
	`,
		record.IdentityID, record.AccessToken, record.ExpiresAt, record.LastUsedAt,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (p *Postgres) GetTokenByIdentity(ctx context.Context, identityID uuid.UUID) (*model.TokenRecord, error) {
	var record model.TokenRecord
	err := p.pool.QueryRow(ctx, `
		SELECT id, identity_id, access_token, expires_at, last_used_at, created_at, updated_at
		FROM tokens WHERE identity_id = $1
	`, identityID).Scan(
		&record.ID, &record.IdentityID, &record.AccessToken,
		&record.ExpiresAt, &record.LastUsedAt,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get token by identity: %w", err)
	}
	return &record, nil
}

func (p *Postgres) TouchToken(ctx context.Context, identityID uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE tokens SET last_used_at = NOW(), updated_at = NOW() WHERE identity_id = $1
	`, identityID)
	if err != nil {
		return fmt.Errorf("touch token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
