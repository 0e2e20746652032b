package persistence

import (
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/attempt"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/csr"
	"github.com/ropeworks/ropeworks/modules/quiz/infrastructure/persistence/models"
)

func toTextDoc(t quiz.QuestionText) models.QuestionTextDoc {
	return models.QuestionTextDoc{
		Prompt:  t.Prompt,
		OptionA: t.OptionA,
		OptionB: t.OptionB,
		OptionC: t.OptionC,
		OptionD: t.OptionD,
	}
}

func toDomainText(d models.QuestionTextDoc) quiz.QuestionText {
	return quiz.QuestionText{
		Prompt:  d.Prompt,
		OptionA: d.OptionA,
		OptionB: d.OptionB,
		OptionC: d.OptionC,
		OptionD: d.OptionD,
	}
}

func marshalQuestions(questions []quiz.Question) ([]byte, error) {
	docs := make([]models.QuestionDoc, 0, len(questions))
	for _, q := range questions {
		doc := models.QuestionDoc{
			Number:        q.Number,
			Text:          toTextDoc(q.Text),
			CorrectOption: q.CorrectOption,
		}
		if len(q.Translations) > 0 {
			doc.Translations = make(map[string]models.QuestionTextDoc, len(q.Translations))
			for lang, t := range q.Translations {
				doc.Translations[lang] = toTextDoc(t)
			}
		}
		docs = append(docs, doc)
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal quiz questions")
	}
	return data, nil
}

func unmarshalQuestions(data []byte) ([]quiz.Question, error) {
	var docs []models.QuestionDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal quiz questions")
	}
	questions := make([]quiz.Question, 0, len(docs))
	for _, doc := range docs {
		q := quiz.Question{
			Number:        doc.Number,
			Text:          toDomainText(doc.Text),
			CorrectOption: doc.CorrectOption,
		}
		if len(doc.Translations) > 0 {
			q.Translations = make(map[string]quiz.QuestionText, len(doc.Translations))
			for lang, t := range doc.Translations {
				q.Translations[lang] = toDomainText(t)
			}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func toDomainQuiz(dbRow *models.Quiz) (quiz.Quiz, error) {
	category, err := quiz.ParseCategory(dbRow.Category)
	if err != nil {
		return nil, err
	}
	questions, err := unmarshalQuestions(dbRow.Questions)
	if err != nil {
		return nil, err
	}
	return quiz.New(
		dbRow.TenantID,
		category,
		dbRow.Title,
		questions,
		quiz.WithID(dbRow.ID),
		quiz.WithTimestamps(dbRow.CreatedAt, dbRow.UpdatedAt),
	), nil
}

func toDBQuiz(entity quiz.Quiz) (*models.Quiz, error) {
	questions, err := marshalQuestions(entity.Questions())
	if err != nil {
		return nil, err
	}
	return &models.Quiz{
		ID:        entity.ID(),
		TenantID:  entity.TenantID(),
		Category:  string(entity.Category()),
		Title:     entity.Title(),
		Questions: questions,
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func toDomainAttempt(dbRow *models.Attempt) *attempt.Attempt {
	return &attempt.Attempt{
		ID:             dbRow.ID,
		TenantID:       dbRow.TenantID,
		UserID:         dbRow.UserID,
		QuizID:         dbRow.QuizID,
		Score:          dbRow.Score,
		CorrectAnswers: dbRow.CorrectAnswers,
		TotalQuestions: dbRow.TotalQuestions,
		Passed:         dbRow.Passed,
		CreatedAt:      dbRow.CreatedAt,
	}
}

func toDomainCSREntry(dbRow *models.CSREntry) *csr.Entry {
	return &csr.Entry{
		ID:        dbRow.ID,
		TenantID:  dbRow.TenantID,
		UserID:    dbRow.UserID,
		Points:    dbRow.Points,
		Reason:    dbRow.Reason,
		CreatedAt: dbRow.CreatedAt,
	}
}
