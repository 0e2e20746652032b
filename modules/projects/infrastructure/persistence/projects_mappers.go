package persistence

import (
	"database/sql"

	"github.com/ropeworks/ropeworks/modules/projects/domain/aggregates/project"
	"github.com/ropeworks/ropeworks/modules/projects/domain/entities/worksession"
	"github.com/ropeworks/ropeworks/modules/projects/infrastructure/persistence/models"
)

func toDomainProject(dbRow *models.Project) project.Project {
	return project.New(
		dbRow.TenantID,
		dbRow.Name,
		dbRow.Address,
		dbRow.DropsTotal,
		project.WithID(dbRow.ID),
		project.WithStatus(project.Status(dbRow.Status)),
		project.WithDropsCompleted(dbRow.DropsCompleted),
		project.WithTimestamps(dbRow.CreatedAt, dbRow.UpdatedAt),
	)
}

func toDBProject(entity project.Project) *models.Project {
	return &models.Project{
		ID:             entity.ID(),
		TenantID:       entity.TenantID(),
		Name:           entity.Name(),
		Address:        entity.Address(),
		Status:         string(entity.Status()),
		DropsTotal:     entity.DropsTotal(),
		DropsCompleted: entity.DropsCompleted(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
}

func toDomainWorkSession(dbRow *models.WorkSession) *worksession.WorkSession {
	out := &worksession.WorkSession{
		ID:             dbRow.ID,
		TenantID:       dbRow.TenantID,
		ProjectID:      dbRow.ProjectID,
		TechnicianID:   dbRow.TechnicianID,
		StartedAt:      dbRow.StartedAt,
		DropsCompleted: dbRow.DropsCompleted,
		Notes:          dbRow.Notes,
		CreatedAt:      dbRow.CreatedAt,
		UpdatedAt:      dbRow.UpdatedAt,
	}
	if dbRow.EndedAt.Valid {
		t := dbRow.EndedAt.Time
		out.EndedAt = &t
	}
	return out
}

func toDBWorkSession(entity *worksession.WorkSession) *models.WorkSession {
	out := &models.WorkSession{
		ID:             entity.ID,
		TenantID:       entity.TenantID,
		ProjectID:      entity.ProjectID,
		TechnicianID:   entity.TechnicianID,
		StartedAt:      entity.StartedAt,
		DropsCompleted: entity.DropsCompleted,
		Notes:          entity.Notes,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
	if entity.EndedAt != nil {
		out.EndedAt = sql.NullTime{Time: *entity.EndedAt, Valid: true}
	}
	return out
}
