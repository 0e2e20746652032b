package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/attempt"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/grader"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/testutils"
)

type stubPublisher struct {
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.events = append(p.events, args...)
}
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

type mockQuizRepository struct {
	quizzes map[uuid.UUID]quiz.Quiz
}

func (m *mockQuizRepository) GetByID(ctx context.Context, id uuid.UUID) (quiz.Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok {
		return nil, quiz.ErrQuizNotFound
	}
	return q, nil
}

func (m *mockQuizRepository) GetAll(ctx context.Context) ([]quiz.Quiz, error) {
	out := make([]quiz.Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		out = append(out, q)
	}
	return out, nil
}

func (m *mockQuizRepository) Create(ctx context.Context, data quiz.Quiz) (quiz.Quiz, error) {
	m.quizzes[data.ID()] = data
	return data, nil
}

func (m *mockQuizRepository) Update(ctx context.Context, data quiz.Quiz) error { return nil }
func (m *mockQuizRepository) Delete(ctx context.Context, id uuid.UUID) error   { return nil }

type mockAttemptRepository struct {
	attempts  []*attempt.Attempt
	summaries []*attempt.Summary
}

func (m *mockAttemptRepository) Create(ctx context.Context, data *attempt.Attempt) error {
	m.attempts = append(m.attempts, data)
	return nil
}

func (m *mockAttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*attempt.Attempt, error) {
	return m.attempts, nil
}

func (m *mockAttemptRepository) SummariesByUser(ctx context.Context, userID uuid.UUID) ([]*attempt.Summary, error) {
	return m.summaries, nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeQuizFn
	authorizeQuizFn = func(ctx context.Context, object, action string) error { return nil }
	t.Cleanup(func() { authorizeQuizFn = prev })
}

func authedCtx(t *testing.T, tenantID uuid.UUID) context.Context {
	t.Helper()
	u := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	ctx := testutils.WithNoopTx(context.Background())
	ctx = composables.WithUser(ctx, u)
	return composables.WithTenantID(ctx, tenantID)
}

func safetyQuiz(tenantID uuid.UUID, totalQuestions int) quiz.Quiz {
	questions := make([]quiz.Question, 0, totalQuestions)
	for i := 1; i <= totalQuestions; i++ {
		questions = append(questions, quiz.Question{
			Number:        i,
			Text:          quiz.QuestionText{Prompt: "q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d"},
			CorrectOption: "A",
		})
	}
	return quiz.New(tenantID, quiz.CategorySafety, "Rope Rescue Basics", questions)
}

func submission(total, nCorrect int) []grader.Answer {
	out := make([]grader.Answer, 0, total)
	for i := 1; i <= total; i++ {
		selected := "B"
		if i <= nCorrect {
			selected = "A"
		}
		out = append(out, grader.Answer{QuestionNumber: i, SelectedAnswer: selected})
	}
	return out
}

func TestQuizService_SubmitPassingAttempt(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	q := safetyQuiz(tenantID, 20)
	quizzes := &mockQuizRepository{quizzes: map[uuid.UUID]quiz.Quiz{q.ID(): q}}
	attempts := &mockAttemptRepository{}
	publisher := &stubPublisher{}
	svc := NewQuizService(quizzes, attempts, publisher)

	result, err := svc.Submit(authedCtx(t, tenantID), q.ID(), submission(20, 16))
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 80, result.Score)

	require.Len(t, attempts.attempts, 1)
	assert.True(t, attempts.attempts[0].Passed)
	assert.Equal(t, 16, attempts.attempts[0].CorrectAnswers)

	// A pass publishes both the submission and the pass event.
	require.Len(t, publisher.events, 2)
	assert.IsType(t, quiz.SubmittedEvent{}, publisher.events[0])
	assert.IsType(t, quiz.PassedEvent{}, publisher.events[1])
}

func TestQuizService_SubmitFailingAttempt(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	q := safetyQuiz(tenantID, 20)
	quizzes := &mockQuizRepository{quizzes: map[uuid.UUID]quiz.Quiz{q.ID(): q}}
	attempts := &mockAttemptRepository{}
	publisher := &stubPublisher{}
	svc := NewQuizService(quizzes, attempts, publisher)

	result, err := svc.Submit(authedCtx(t, tenantID), q.ID(), submission(20, 15))
	require.NoError(t, err)
	assert.False(t, result.Passed)

	require.Len(t, attempts.attempts, 1)
	require.Len(t, publisher.events, 1)
	assert.IsType(t, quiz.SubmittedEvent{}, publisher.events[0])
}

func TestQuizService_SubmitIncomplete(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	q := safetyQuiz(tenantID, 5)
	quizzes := &mockQuizRepository{quizzes: map[uuid.UUID]quiz.Quiz{q.ID(): q}}
	attempts := &mockAttemptRepository{}
	svc := NewQuizService(quizzes, attempts, &stubPublisher{})

	_, err := svc.Submit(authedCtx(t, tenantID), q.ID(), submission(3, 3))
	require.ErrorIs(t, err, grader.ErrIncompleteSubmission)
	assert.Empty(t, attempts.attempts)
}

func TestQuizService_Available(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	q := safetyQuiz(tenantID, 5)
	quizzes := &mockQuizRepository{quizzes: map[uuid.UUID]quiz.Quiz{q.ID(): q}}
	attempts := &mockAttemptRepository{
		summaries: []*attempt.Summary{
			{QuizID: q.ID(), AttemptCount: 3, Passed: true},
		},
	}
	svc := NewQuizService(quizzes, attempts, &stubPublisher{})

	available, err := svc.Available(authedCtx(t, tenantID))
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 3, available[0].AttemptCount)
	assert.True(t, available[0].Passed)
}
