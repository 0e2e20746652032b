package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/projects/domain/aggregates/project"
	"github.com/ropeworks/ropeworks/modules/projects/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/repo"
)

const (
	selectProjectsQuery = `
		SELECT id, tenant_id, name, address, status, drops_total, drops_completed, created_at, updated_at
		FROM projects`
	countProjectsQuery = `SELECT COUNT(*) FROM projects WHERE tenant_id = $1`
	insertProjectQuery = `
		INSERT INTO projects (id, tenant_id, name, address, status, drops_total, drops_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	updateProjectQuery = `
		UPDATE projects
		SET name = $1, address = $2, status = $3, drops_total = $4, drops_completed = $5, updated_at = $6
		WHERE id = $7 AND tenant_id = $8`
	deleteProjectQuery = `DELETE FROM projects WHERE id = $1 AND tenant_id = $2`
)

type PgProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &PgProjectRepository{}
}

func (g *PgProjectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query projects")
	}
	defer rows.Close()

	projects := make([]project.Project, 0)
	for rows.Next() {
		var dbRow models.Project
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.Name,
			&dbRow.Address,
			&dbRow.Status,
			&dbRow.DropsTotal,
			&dbRow.DropsCompleted,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan project row")
		}
		projects = append(projects, toDomainProject(&dbRow))
	}
	return projects, rows.Err()
}

func (g *PgProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := g.queryProjects(ctx, selectProjectsQuery+" WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, errors.Wrap(project.ErrProjectNotFound, id.String())
	}
	return projects[0], nil
}

func (g *PgProjectRepository) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := selectProjectsQuery + " WHERE tenant_id = $1 ORDER BY created_at DESC " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryProjects(ctx, query, tenantID)
}

func (g *PgProjectRepository) Count(ctx context.Context) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countProjectsQuery, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count projects")
	}
	return count, nil
}

func (g *PgProjectRepository) Create(ctx context.Context, data project.Project) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbRow := toDBProject(data)
	if _, err := tx.Exec(ctx, insertProjectQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.Name,
		dbRow.Address,
		dbRow.Status,
		dbRow.DropsTotal,
		dbRow.DropsCompleted,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert project")
	}
	return g.GetByID(ctx, dbRow.ID)
}

func (g *PgProjectRepository) Update(ctx context.Context, data project.Project) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBProject(data)
	if _, err := tx.Exec(ctx, updateProjectQuery,
		dbRow.Name,
		dbRow.Address,
		dbRow.Status,
		dbRow.DropsTotal,
		dbRow.DropsCompleted,
		dbRow.UpdatedAt,
		dbRow.ID,
		dbRow.TenantID,
	); err != nil {
		return errors.Wrap(err, "failed to update project")
	}
	return nil
}

func (g *PgProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteProjectQuery, id, tenantID); err != nil {
		return errors.Wrap(err, "failed to delete project")
	}
	return nil
}
