package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/ropeworks/ropeworks/modules/core/domain/entities/session"
	"github.com/ropeworks/ropeworks/modules/core/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	selectSessionQuery = `
		SELECT token, user_id, tenant_id, ip, user_agent, expires_at, created_at
		FROM sessions
		WHERE token = $1`
	insertSessionQuery = `
		INSERT INTO sessions (token, user_id, tenant_id, ip, user_agent, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	deleteSessionQuery         = `DELETE FROM sessions WHERE token = $1`
	deleteExpiredSessionsQuery = `DELETE FROM sessions WHERE expires_at < NOW()`
)

type PgSessionRepository struct{}

func NewSessionRepository() session.Repository {
	return &PgSessionRepository{}
}

func (g *PgSessionRepository) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectSessionQuery, token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query session")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, session.ErrSessionNotFound
	}
	var dbRow models.Session
	if err := rows.Scan(
		&dbRow.Token,
		&dbRow.UserID,
		&dbRow.TenantID,
		&dbRow.IP,
		&dbRow.UserAgent,
		&dbRow.ExpiresAt,
		&dbRow.CreatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan session row")
	}
	return toDomainSession(&dbRow), nil
}

func (g *PgSessionRepository) Create(ctx context.Context, data *session.Session) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertSessionQuery,
		data.Token,
		data.UserID,
		data.TenantID,
		data.IP,
		data.UserAgent,
		data.ExpiresAt,
		data.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert session")
	}
	return nil
}

func (g *PgSessionRepository) Delete(ctx context.Context, token string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteSessionQuery, token); err != nil {
		return errors.Wrap(err, "failed to delete session")
	}
	return nil
}

func (g *PgSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, deleteExpiredSessionsQuery)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired sessions")
	}
	return tag.RowsAffected(), nil
}
