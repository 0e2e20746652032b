// Package grader evaluates quiz submissions against the answer key. Grading
// is pure so the pass threshold can be verified in isolation from transport
// and storage.
package grader

import (
	"math"

	"github.com/go-faster/errors"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
)

var (
	ErrIncompleteSubmission = errors.New("submission must include every question exactly once")
	ErrUnknownQuestion      = errors.New("submission references an unknown question")
)

// Answer is one submitted (question, selection) pair. An unanswered question
// carries an empty SelectedAnswer and simply grades as incorrect.
type Answer struct {
	QuestionNumber int    `json:"questionNumber"`
	SelectedAnswer string `json:"selectedAnswer"`
}

type AnswerResult struct {
	QuestionNumber int    `json:"questionNumber"`
	SelectedAnswer string `json:"selectedAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	Correct        bool   `json:"correct"`
}

type Result struct {
	Score          int            `json:"score"`
	Passed         bool           `json:"passed"`
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	Answers        []AnswerResult `json:"answers"`
}

// RequiredCorrect is the pass bar: ceil(total * 0.8). Exported so display
// text ("need 16/20") and enforcement always agree.
func RequiredCorrect(totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	return (totalQuestions*4 + 4) / 5
}

// Grade scores a submission. Every question in the quiz must appear in the
// submission exactly once; blank selections are permitted and count as wrong.
func Grade(q quiz.Quiz, answers []Answer) (*Result, error) {
	questions := q.Questions()
	if len(answers) != len(questions) {
		return nil, ErrIncompleteSubmission
	}

	keyByNumber := make(map[int]string, len(questions))
	for _, question := range questions {
		keyByNumber[question.Number] = question.CorrectOption
	}

	seen := make(map[int]struct{}, len(answers))
	results := make([]AnswerResult, 0, len(answers))
	correct := 0
	for _, a := range answers {
		key, ok := keyByNumber[a.QuestionNumber]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownQuestion, "question %d", a.QuestionNumber)
		}
		if _, dup := seen[a.QuestionNumber]; dup {
			return nil, ErrIncompleteSubmission
		}
		seen[a.QuestionNumber] = struct{}{}

		isCorrect := a.SelectedAnswer != "" && a.SelectedAnswer == key
		if isCorrect {
			correct++
		}
		results = append(results, AnswerResult{
			QuestionNumber: a.QuestionNumber,
			SelectedAnswer: a.SelectedAnswer,
			CorrectAnswer:  key,
			Correct:        isCorrect,
		})
	}

	total := len(questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}
	return &Result{
		Score:          score,
		Passed:         correct >= RequiredCorrect(total),
		CorrectAnswers: correct,
		TotalQuestions: total,
		Answers:        results,
	}, nil
}
