package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/attempt"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/grader"
	"github.com/ropeworks/ropeworks/modules/quiz/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

// AvailableQuiz pairs a quiz with the requesting user's attempt history.
type AvailableQuiz struct {
	Quiz         quiz.Quiz
	AttemptCount int
	Passed       bool
}

type QuizService struct {
	quizzes   quiz.Repository
	attempts  attempt.Repository
	publisher eventbus.EventBus
}

func NewQuizService(quizzes quiz.Repository, attempts attempt.Repository, publisher eventbus.EventBus) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		attempts:  attempts,
		publisher: publisher,
	}
}

func (s *QuizService) GetByID(ctx context.Context, id uuid.UUID) (quiz.Quiz, error) {
	if err := authorizeQuizFn(ctx, permissions.ResourceQuizzes, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (quiz.Quiz, error) {
		return s.quizzes.GetByID(txCtx, id)
	})
}

// Available lists the tenant's quizzes annotated with the caller's attempt
// count and pass status.
func (s *QuizService) Available(ctx context.Context) ([]*AvailableQuiz, error) {
	if err := authorizeQuizFn(ctx, permissions.ResourceQuizzes, permissions.ActionRead); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*AvailableQuiz, error) {
		quizzes, err := s.quizzes.GetAll(txCtx)
		if err != nil {
			return nil, err
		}
		summaries, err := s.attempts.SummariesByUser(txCtx, u.ID())
		if err != nil {
			return nil, err
		}
		byQuiz := make(map[uuid.UUID]*attempt.Summary, len(summaries))
		for _, summary := range summaries {
			byQuiz[summary.QuizID] = summary
		}

		out := make([]*AvailableQuiz, 0, len(quizzes))
		for _, q := range quizzes {
			item := &AvailableQuiz{Quiz: q}
			if summary, ok := byQuiz[q.ID()]; ok {
				item.AttemptCount = summary.AttemptCount
				item.Passed = summary.Passed
			}
			out = append(out, item)
		}
		return out, nil
	})
}

// Submit grades a submission, records the attempt, and publishes a pass
// event for the CSR ledger and notifications.
func (s *QuizService) Submit(ctx context.Context, quizID uuid.UUID, answers []grader.Answer) (*grader.Result, error) {
	if err := authorizeQuizFn(ctx, permissions.ResourceQuizzes, permissions.ActionSubmit); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var graded quiz.Quiz
	result, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*grader.Result, error) {
		q, err := s.quizzes.GetByID(txCtx, quizID)
		if err != nil {
			return nil, err
		}
		graded = q

		result, err := grader.Grade(q, answers)
		if err != nil {
			return nil, err
		}
		if err := s.attempts.Create(txCtx, &attempt.Attempt{
			ID:             uuid.New(),
			TenantID:       q.TenantID(),
			UserID:         u.ID(),
			QuizID:         q.ID(),
			Score:          result.Score,
			CorrectAnswers: result.CorrectAnswers,
			TotalQuestions: result.TotalQuestions,
			Passed:         result.Passed,
			CreatedAt:      time.Now(),
		}); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(quiz.SubmittedEvent{
		TenantID: graded.TenantID(),
		UserID:   u.ID(),
		QuizID:   graded.ID(),
		Passed:   result.Passed,
	})
	if result.Passed {
		s.publisher.Publish(quiz.PassedEvent{
			TenantID: graded.TenantID(),
			UserID:   u.ID(),
			QuizID:   graded.ID(),
			Title:    graded.Title(),
			Score:    result.Score,
		})
	}
	return result, nil
}

func (s *QuizService) Create(ctx context.Context, data quiz.Quiz) (quiz.Quiz, error) {
	if err := authorizeQuizFn(ctx, permissions.ResourceQuizzes, permissions.ActionCreate); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (quiz.Quiz, error) {
		return s.quizzes.Create(txCtx, data)
	})
}

func (s *QuizService) Update(ctx context.Context, data quiz.Quiz) error {
	if err := authorizeQuizFn(ctx, permissions.ResourceQuizzes, permissions.ActionUpdate); err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.quizzes.Update(txCtx, data)
	})
}

func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeQuizFn(ctx, permissions.ResourceQuizzes, permissions.ActionDelete); err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.quizzes.Delete(txCtx, id)
	})
}
