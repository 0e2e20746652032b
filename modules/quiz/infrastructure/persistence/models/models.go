package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Category  string
	Title     string
	Questions []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuestionTextDoc and QuestionDoc are the JSONB shape of the questions
// column. The correct option travels with the row and is stripped at the
// presentation boundary.
type QuestionTextDoc struct {
	Prompt  string `json:"prompt"`
	OptionA string `json:"optionA"`
	OptionB string `json:"optionB"`
	OptionC string `json:"optionC"`
	OptionD string `json:"optionD"`
}

type QuestionDoc struct {
	Number        int                        `json:"number"`
	Text          QuestionTextDoc            `json:"text"`
	Translations  map[string]QuestionTextDoc `json:"translations,omitempty"`
	CorrectOption string                     `json:"correctOption"`
}

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

type CSREntry struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Points    int
	Reason    string
	CreatedAt time.Time
}
