package persistence

import (
	"github.com/ropeworks/ropeworks/modules/warehouse/domain/entities/gear"
	"github.com/ropeworks/ropeworks/modules/warehouse/infrastructure/persistence/models"
)

func toDomainGearItem(dbRow *models.GearItem) *gear.Item {
	return &gear.Item{
		ID:           dbRow.ID,
		TenantID:     dbRow.TenantID,
		SerialNumber: dbRow.SerialNumber,
		Type:         dbRow.Type,
		Status:       gear.Status(dbRow.Status),
		AssignedTo:   dbRow.AssignedTo,
		CreatedAt:    dbRow.CreatedAt,
		UpdatedAt:    dbRow.UpdatedAt,
	}
}

func toDBGearItem(entity *gear.Item) *models.GearItem {
	return &models.GearItem{
		ID:           entity.ID,
		TenantID:     entity.TenantID,
		SerialNumber: entity.SerialNumber,
		Type:         entity.Type,
		Status:       string(entity.Status),
		AssignedTo:   entity.AssignedTo,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}
