package grader_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/grader"
)

// newQuiz builds a quiz where every correct option is "A".
func newQuiz(totalQuestions int) quiz.Quiz {
	questions := make([]quiz.Question, 0, totalQuestions)
	for i := 1; i <= totalQuestions; i++ {
		questions = append(questions, quiz.Question{
			Number: i,
			Text: quiz.QuestionText{
				Prompt:  fmt.Sprintf("Question %d", i),
				OptionA: "right",
				OptionB: "wrong",
				OptionC: "wrong",
				OptionD: "wrong",
			},
			CorrectOption: "A",
		})
	}
	return quiz.New(uuid.New(), quiz.CategorySafety, "Anchor Systems", questions)
}

// answers submits "A" for the first nCorrect questions and "B" for the rest.
func answers(totalQuestions, nCorrect int) []grader.Answer {
	out := make([]grader.Answer, 0, totalQuestions)
	for i := 1; i <= totalQuestions; i++ {
		selected := "B"
		if i <= nCorrect {
			selected = "A"
		}
		out = append(out, grader.Answer{QuestionNumber: i, SelectedAnswer: selected})
	}
	return out
}

func TestRequiredCorrect(t *testing.T) {
	tests := []struct {
		total    int
		required int
	}{
		{20, 16},
		{23, 19},
		{10, 8},
		{1, 1},
		{5, 4},
		{0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("Total%d", tt.total), func(t *testing.T) {
			assert.Equal(t, tt.required, grader.RequiredCorrect(tt.total))
		})
	}
}

func TestGrade_PassThreshold(t *testing.T) {
	q := newQuiz(20)

	t.Run("SixteenOfTwentyPasses", func(t *testing.T) {
		result, err := grader.Grade(q, answers(20, 16))
		require.NoError(t, err)
		assert.True(t, result.Passed)
		assert.Equal(t, 16, result.CorrectAnswers)
		assert.Equal(t, 80, result.Score)
	})

	t.Run("FifteenOfTwentyFails", func(t *testing.T) {
		result, err := grader.Grade(q, answers(20, 15))
		require.NoError(t, err)
		assert.False(t, result.Passed)
		assert.Equal(t, 15, result.CorrectAnswers)
		assert.Equal(t, 75, result.Score)
	})
}

func TestGrade_ThresholdRoundsUp(t *testing.T) {
	q := newQuiz(23)

	result, err := grader.Grade(q, answers(23, 18))
	require.NoError(t, err)
	assert.False(t, result.Passed)

	result, err = grader.Grade(q, answers(23, 19))
	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestGrade_AllWrong(t *testing.T) {
	q := newQuiz(20)
	result, err := grader.Grade(q, answers(20, 0))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 0, result.CorrectAnswers)
	assert.Equal(t, 20, result.TotalQuestions)
	require.Len(t, result.Answers, 20)
	for _, a := range result.Answers {
		assert.False(t, a.Correct)
	}
}

func TestGrade_BlankSelectionsCountAsWrong(t *testing.T) {
	q := newQuiz(4)
	submission := []grader.Answer{
		{QuestionNumber: 1, SelectedAnswer: "A"},
		{QuestionNumber: 2, SelectedAnswer: ""},
		{QuestionNumber: 3, SelectedAnswer: ""},
		{QuestionNumber: 4, SelectedAnswer: "A"},
	}
	result, err := grader.Grade(q, submission)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed)
}

func TestGrade_RejectsIncompleteSubmissions(t *testing.T) {
	q := newQuiz(3)

	t.Run("MissingQuestion", func(t *testing.T) {
		_, err := grader.Grade(q, answers(2, 2))
		require.ErrorIs(t, err, grader.ErrIncompleteSubmission)
	})

	t.Run("DuplicateQuestion", func(t *testing.T) {
		_, err := grader.Grade(q, []grader.Answer{
			{QuestionNumber: 1, SelectedAnswer: "A"},
			{QuestionNumber: 1, SelectedAnswer: "A"},
			{QuestionNumber: 2, SelectedAnswer: "A"},
		})
		require.ErrorIs(t, err, grader.ErrIncompleteSubmission)
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		_, err := grader.Grade(q, []grader.Answer{
			{QuestionNumber: 1, SelectedAnswer: "A"},
			{QuestionNumber: 2, SelectedAnswer: "A"},
			{QuestionNumber: 99, SelectedAnswer: "A"},
		})
		require.ErrorIs(t, err, grader.ErrUnknownQuestion)
	})
}

func TestGrade_ScoreIsIntegerPercentage(t *testing.T) {
	q := newQuiz(3)
	result, err := grader.Grade(q, answers(3, 2))
	require.NoError(t, err)
	// 2/3 rounds to 67.
	assert.Equal(t, 67, result.Score)
}
