package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/projects/domain/entities/worksession"
	"github.com/ropeworks/ropeworks/modules/projects/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	selectWorkSessionsQuery = `
		SELECT id, tenant_id, project_id, technician_id, started_at, ended_at, drops_completed, notes, created_at, updated_at
		FROM work_sessions`
	insertWorkSessionQuery = `
		INSERT INTO work_sessions (id, tenant_id, project_id, technician_id, started_at, ended_at, drops_completed, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	updateWorkSessionQuery = `
		UPDATE work_sessions
		SET started_at = $1, ended_at = $2, drops_completed = $3, notes = $4, updated_at = $5
		WHERE id = $6 AND tenant_id = $7`
	deleteWorkSessionQuery  = `DELETE FROM work_sessions WHERE id = $1 AND tenant_id = $2`
	countSessionsSinceQuery = `
		SELECT COUNT(*) FROM work_sessions
		WHERE tenant_id = $1 AND technician_id = $2 AND started_at >= $3`
)

type PgWorkSessionRepository struct{}

func NewWorkSessionRepository() worksession.Repository {
	return &PgWorkSessionRepository{}
}

func (g *PgWorkSessionRepository) querySessions(ctx context.Context, query string, args ...interface{}) ([]*worksession.WorkSession, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query work sessions")
	}
	defer rows.Close()

	sessions := make([]*worksession.WorkSession, 0)
	for rows.Next() {
		var dbRow models.WorkSession
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.ProjectID,
			&dbRow.TechnicianID,
			&dbRow.StartedAt,
			&dbRow.EndedAt,
			&dbRow.DropsCompleted,
			&dbRow.Notes,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan work session row")
		}
		sessions = append(sessions, toDomainWorkSession(&dbRow))
	}
	return sessions, rows.Err()
}

func (g *PgWorkSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*worksession.WorkSession, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := g.querySessions(ctx, selectWorkSessionsQuery+" WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, errors.Wrap(worksession.ErrSessionNotFound, id.String())
	}
	return sessions[0], nil
}

func (g *PgWorkSessionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*worksession.WorkSession, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return g.querySessions(ctx, selectWorkSessionsQuery+" WHERE project_id = $1 AND tenant_id = $2 ORDER BY started_at DESC", projectID, tenantID)
}

func (g *PgWorkSessionRepository) CountByTechnicianSince(ctx context.Context, technicianID uuid.UUID, since time.Time) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countSessionsSinceQuery, tenantID, technicianID, since).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count work sessions")
	}
	return count, nil
}

func (g *PgWorkSessionRepository) Create(ctx context.Context, data *worksession.WorkSession) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBWorkSession(data)
	if _, err := tx.Exec(ctx, insertWorkSessionQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.ProjectID,
		dbRow.TechnicianID,
		dbRow.StartedAt,
		dbRow.EndedAt,
		dbRow.DropsCompleted,
		dbRow.Notes,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert work session")
	}
	return nil
}

func (g *PgWorkSessionRepository) Update(ctx context.Context, data *worksession.WorkSession) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBWorkSession(data)
	if _, err := tx.Exec(ctx, updateWorkSessionQuery,
		dbRow.StartedAt,
		dbRow.EndedAt,
		dbRow.DropsCompleted,
		dbRow.Notes,
		dbRow.UpdatedAt,
		dbRow.ID,
		dbRow.TenantID,
	); err != nil {
		return errors.Wrap(err, "failed to update work session")
	}
	return nil
}

func (g *PgWorkSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteWorkSessionQuery, id, tenantID); err != nil {
		return errors.Wrap(err, "failed to delete work session")
	}
	return nil
}
