package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrQuizNotFound = errors.New("quiz not found")

type Category string

const (
	CategoryCompany       Category = "company"
	CategoryCertification Category = "certification"
	CategorySafety        Category = "safety"
)

func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case CategoryCompany:
		return CategoryCompany, nil
	case CategoryCertification:
		return CategoryCertification, nil
	case CategorySafety:
		return CategorySafety, nil
	}
	return "", errors.New("unknown quiz category: " + raw)
}

// QuestionText is the language-facing half of a question. The correct answer
// key lives on Question and is never part of localized output.
type QuestionText struct {
	Prompt  string
	OptionA string
	OptionB string
	OptionC string
	OptionD string
}

type Question struct {
	Number int
	Text   QuestionText
	// Translations maps a language tag to alternate question text. English
	// lives in Text and is the fallback.
	Translations map[string]QuestionText
	// CorrectOption is one of "A" "B" "C" "D". Server-side only.
	CorrectOption string
}

// Localized returns the question text for lang, falling back to the default.
func (q Question) Localized(lang string) QuestionText {
	if t, ok := q.Translations[lang]; ok {
		return t
	}
	return q.Text
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Quiz, error)
	GetAll(ctx context.Context) ([]Quiz, error)
	Create(ctx context.Context, data Quiz) (Quiz, error)
	Update(ctx context.Context, data Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Quiz interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	Category() Category
	Title() string
	Questions() []Question
	TotalQuestions() int
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

type quiz struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	category  Category
	title     string
	questions []Question
	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, category Category, title string, questions []Question, opts ...Option) Quiz {
	q := &quiz{
		id:        uuid.New(),
		tenantID:  tenantID,
		category:  category,
		title:     title,
		questions: questions,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

type Option func(*quiz)

func WithID(id uuid.UUID) Option {
	return func(q *quiz) {
		if id != uuid.Nil {
			q.id = id
		}
	}
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(q *quiz) {
		if !createdAt.IsZero() {
			q.createdAt = createdAt
		}
		if !updatedAt.IsZero() {
			q.updatedAt = updatedAt
		}
	}
}

func (q *quiz) ID() uuid.UUID         { return q.id }
func (q *quiz) TenantID() uuid.UUID   { return q.tenantID }
func (q *quiz) Category() Category    { return q.category }
func (q *quiz) Title() string         { return q.title }
func (q *quiz) Questions() []Question { return q.questions }
func (q *quiz) TotalQuestions() int   { return len(q.questions) }
func (q *quiz) CreatedAt() time.Time  { return q.createdAt }
func (q *quiz) UpdatedAt() time.Time  { return q.updatedAt }
