package persistence

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
	"github.com/ropeworks/ropeworks/modules/billing/infrastructure/persistence/models"
)

func toDomainSubscription(dbRow *models.Subscription) (subscription.Subscription, error) {
	amount, err := decimal.NewFromString(dbRow.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse subscription amount")
	}
	addons, err := unmarshalAddons(dbRow.Addons)
	if err != nil {
		return nil, err
	}
	return subscription.New(
		dbRow.TenantID,
		subscription.Plan(dbRow.Plan),
		dbRow.Seats,
		amount,
		dbRow.PeriodEnd,
		subscription.WithID(dbRow.ID),
		subscription.WithStatus(subscription.Status(dbRow.Status)),
		subscription.WithAddons(addons),
		subscription.WithTimestamps(dbRow.CreatedAt, dbRow.UpdatedAt),
	), nil
}

func toDBSubscription(entity subscription.Subscription) (*models.Subscription, error) {
	addons, err := marshalAddons(entity.Addons())
	if err != nil {
		return nil, err
	}
	return &models.Subscription{
		ID:        entity.ID(),
		TenantID:  entity.TenantID(),
		Plan:      string(entity.Plan()),
		Seats:     entity.Seats(),
		Status:    string(entity.Status()),
		Amount:    entity.Amount().String(),
		PeriodEnd: entity.PeriodEnd(),
		Addons:    addons,
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func marshalAddons(addons []subscription.Addon) ([]byte, error) {
	docs := make([]models.AddonDoc, 0, len(addons))
	for _, a := range addons {
		docs = append(docs, models.AddonDoc{
			Name:        a.Name,
			Amount:      a.Amount.String(),
			PurchasedAt: a.PurchasedAt,
		})
	}
	out, err := json.Marshal(docs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal subscription addons")
	}
	return out, nil
}

func unmarshalAddons(raw []byte) ([]subscription.Addon, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []models.AddonDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal subscription addons")
	}
	addons := make([]subscription.Addon, 0, len(docs))
	for _, doc := range docs {
		amount, err := decimal.NewFromString(doc.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse addon amount")
		}
		addons = append(addons, subscription.Addon{
			Name:        doc.Name,
			Amount:      amount,
			PurchasedAt: doc.PurchasedAt,
		})
	}
	return addons, nil
}
