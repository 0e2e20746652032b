package attempt

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Attempt is one graded submission. Rows are append-only; the latest passing
// attempt determines quiz availability.
type Attempt struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	UserID         uuid.UUID
	QuizID         uuid.UUID
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Passed         bool
	CreatedAt      time.Time
}

// Summary aggregates a user's attempts for one quiz.
type Summary struct {
	QuizID       uuid.UUID
	AttemptCount int
	Passed       bool
}

type Repository interface {
	Create(ctx context.Context, data *Attempt) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Attempt, error)
	SummariesByUser(ctx context.Context, userID uuid.UUID) ([]*Summary, error)
}
