package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/attempt"
	"github.com/ropeworks/ropeworks/modules/quiz/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	insertAttemptQuery = `
		INSERT INTO quiz_attempts (id, tenant_id, user_id, quiz_id, score, correct_answers, total_questions, passed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	selectAttemptsQuery = `
		SELECT id, tenant_id, user_id, quiz_id, score, correct_answers, total_questions, passed, created_at
		FROM quiz_attempts
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at`
	summariesQuery = `
		SELECT quiz_id, COUNT(*), bool_or(passed)
		FROM quiz_attempts
		WHERE tenant_id = $1 AND user_id = $2
		GROUP BY quiz_id`
)

type PgAttemptRepository struct{}

func NewAttemptRepository() attempt.Repository {
	return &PgAttemptRepository{}
}

func (g *PgAttemptRepository) Create(ctx context.Context, data *attempt.Attempt) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertAttemptQuery,
		data.ID,
		data.TenantID,
		data.UserID,
		data.QuizID,
		data.Score,
		data.CorrectAnswers,
		data.TotalQuestions,
		data.Passed,
		data.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert quiz attempt")
	}
	return nil
}

func (g *PgAttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*attempt.Attempt, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectAttemptsQuery, tenantID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query quiz attempts")
	}
	defer rows.Close()

	attempts := make([]*attempt.Attempt, 0)
	for rows.Next() {
		var dbRow models.Attempt
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.UserID,
			&dbRow.QuizID,
			&dbRow.Score,
			&dbRow.CorrectAnswers,
			&dbRow.TotalQuestions,
			&dbRow.Passed,
			&dbRow.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan quiz attempt row")
		}
		attempts = append(attempts, toDomainAttempt(&dbRow))
	}
	return attempts, rows.Err()
}

func (g *PgAttemptRepository) SummariesByUser(ctx context.Context, userID uuid.UUID) ([]*attempt.Summary, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, summariesQuery, tenantID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query attempt summaries")
	}
	defer rows.Close()

	summaries := make([]*attempt.Summary, 0)
	for rows.Next() {
		var s attempt.Summary
		if err := rows.Scan(&s.QuizID, &s.AttemptCount, &s.Passed); err != nil {
			return nil, errors.Wrap(err, "failed to scan attempt summary row")
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}
