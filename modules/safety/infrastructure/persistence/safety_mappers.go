package persistence

import (
	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/inspection"
	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/safetyform"
	"github.com/ropeworks/ropeworks/modules/safety/infrastructure/persistence/models"
)

func toDomainInspection(dbRow *models.HarnessInspection) *inspection.HarnessInspection {
	return &inspection.HarnessInspection{
		ID:           dbRow.ID,
		TenantID:     dbRow.TenantID,
		TechnicianID: dbRow.TechnicianID,
		InspectedAt:  dbRow.InspectedAt,
		Result:       inspection.Result(dbRow.Result),
		Notes:        dbRow.Notes,
		CreatedAt:    dbRow.CreatedAt,
	}
}

func toDBInspection(entity *inspection.HarnessInspection) *models.HarnessInspection {
	return &models.HarnessInspection{
		ID:           entity.ID,
		TenantID:     entity.TenantID,
		TechnicianID: entity.TechnicianID,
		InspectedAt:  entity.InspectedAt,
		Result:       string(entity.Result),
		Notes:        entity.Notes,
		CreatedAt:    entity.CreatedAt,
	}
}

func toDomainForm(dbRow *models.SafetyForm) *safetyform.Form {
	return &safetyform.Form{
		ID:           dbRow.ID,
		TenantID:     dbRow.TenantID,
		TechnicianID: dbRow.TechnicianID,
		DocumentType: dbRow.DocumentType,
		Status:       safetyform.Status(dbRow.Status),
		SubmittedAt:  dbRow.SubmittedAt,
		CreatedAt:    dbRow.CreatedAt,
		UpdatedAt:    dbRow.UpdatedAt,
	}
}

func toDBForm(entity *safetyform.Form) *models.SafetyForm {
	return &models.SafetyForm{
		ID:           entity.ID,
		TenantID:     entity.TenantID,
		TechnicianID: entity.TechnicianID,
		DocumentType: entity.DocumentType,
		Status:       string(entity.Status),
		SubmittedAt:  entity.SubmittedAt,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}
