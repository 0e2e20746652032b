package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	selectQuizzesQuery = `
		SELECT id, tenant_id, category, title, questions, created_at, updated_at
		FROM quizzes`
	insertQuizQuery = `
		INSERT INTO quizzes (id, tenant_id, category, title, questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updateQuizQuery = `
		UPDATE quizzes SET category = $1, title = $2, questions = $3, updated_at = $4
		WHERE id = $5 AND tenant_id = $6`
	deleteQuizQuery = `DELETE FROM quizzes WHERE id = $1 AND tenant_id = $2`
)

type PgQuizRepository struct{}

func NewQuizRepository() quiz.Repository {
	return &PgQuizRepository{}
}

func (g *PgQuizRepository) queryQuizzes(ctx context.Context, query string, args ...interface{}) ([]quiz.Quiz, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query quizzes")
	}
	defer rows.Close()

	quizzes := make([]quiz.Quiz, 0)
	for rows.Next() {
		var dbRow models.Quiz
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.Category,
			&dbRow.Title,
			&dbRow.Questions,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan quiz row")
		}
		entity, err := toDomainQuiz(&dbRow)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, entity)
	}
	return quizzes, rows.Err()
}

func (g *PgQuizRepository) GetByID(ctx context.Context, id uuid.UUID) (quiz.Quiz, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	quizzes, err := g.queryQuizzes(ctx, selectQuizzesQuery+" WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, errors.Wrap(quiz.ErrQuizNotFound, id.String())
	}
	return quizzes[0], nil
}

func (g *PgQuizRepository) GetAll(ctx context.Context) ([]quiz.Quiz, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return g.queryQuizzes(ctx, selectQuizzesQuery+" WHERE tenant_id = $1 ORDER BY created_at", tenantID)
}

func (g *PgQuizRepository) Create(ctx context.Context, data quiz.Quiz) (quiz.Quiz, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbRow, err := toDBQuiz(data)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, insertQuizQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.Category,
		dbRow.Title,
		dbRow.Questions,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert quiz")
	}
	return g.GetByID(ctx, dbRow.ID)
}

func (g *PgQuizRepository) Update(ctx context.Context, data quiz.Quiz) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow, err := toDBQuiz(data)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, updateQuizQuery,
		dbRow.Category,
		dbRow.Title,
		dbRow.Questions,
		dbRow.UpdatedAt,
		dbRow.ID,
		dbRow.TenantID,
	); err != nil {
		return errors.Wrap(err, "failed to update quiz")
	}
	return nil
}

func (g *PgQuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteQuizQuery, id, tenantID); err != nil {
		return errors.Wrap(err, "failed to delete quiz")
	}
	return nil
}
