package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/grader"
	"github.com/ropeworks/ropeworks/modules/quiz/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type QuizController struct {
	app      application.Application
	quizzes  *services.QuizService
	basePath string
}

func NewQuizController(app application.Application) application.Controller {
	return &QuizController{
		app:      app,
		quizzes:  app.Service(services.QuizService{}).(*services.QuizService),
		basePath: "/api/quiz",
	}
}

func (c *QuizController) Key() string {
	return c.basePath
}

func (c *QuizController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/available", c.available).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/submit", c.submit).Methods(http.MethodPost)
}

func (c *QuizController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	case errors.Is(err, quiz.ErrQuizNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Quiz.NotFound"), meta)
	case errors.Is(err, grader.ErrIncompleteSubmission), errors.Is(err, grader.ErrUnknownQuestion):
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_SUBMISSION", err.Error(), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

type availableQuizResponse struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Title          string `json:"title"`
	TotalQuestions int    `json:"totalQuestions"`
	RequiredToPass int    `json:"requiredToPass"`
	AttemptCount   int    `json:"attemptCount"`
	Passed         bool   `json:"passed"`
}

func (c *QuizController) available(w http.ResponseWriter, r *http.Request) {
	items, err := c.quizzes.Available(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	out := make([]*availableQuizResponse, 0, len(items))
	for _, item := range items {
		out = append(out, &availableQuizResponse{
			ID:             item.Quiz.ID().String(),
			Category:       string(item.Quiz.Category()),
			Title:          item.Quiz.Title(),
			TotalQuestions: item.Quiz.TotalQuestions(),
			RequiredToPass: grader.RequiredCorrect(item.Quiz.TotalQuestions()),
			AttemptCount:   item.AttemptCount,
			Passed:         item.Passed,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": out})
}

// questionResponse deliberately has no field for the correct option. The
// answer key must never reach the client before submission.
type questionResponse struct {
	Number  int    `json:"number"`
	Prompt  string `json:"prompt"`
	OptionA string `json:"optionA"`
	OptionB string `json:"optionB"`
	OptionC string `json:"optionC"`
	OptionD string `json:"optionD"`
}

type quizResponse struct {
	ID             string             `json:"id"`
	Category       string             `json:"category"`
	Title          string             `json:"title"`
	TotalQuestions int                `json:"totalQuestions"`
	RequiredToPass int                `json:"requiredToPass"`
	Questions      []questionResponse `json:"questions"`
}

func (c *QuizController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "quiz id must be a uuid", nil)
		return
	}
	q, err := c.quizzes.GetByID(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	lang := r.URL.Query().Get("lang")
	questions := make([]questionResponse, 0, q.TotalQuestions())
	for _, question := range q.Questions() {
		text := question.Localized(lang)
		questions = append(questions, questionResponse{
			Number:  question.Number,
			Prompt:  text.Prompt,
			OptionA: text.OptionA,
			OptionB: text.OptionB,
			OptionC: text.OptionC,
			OptionD: text.OptionD,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &quizResponse{
		ID:             q.ID().String(),
		Category:       string(q.Category()),
		Title:          q.Title(),
		TotalQuestions: q.TotalQuestions(),
		RequiredToPass: grader.RequiredCorrect(q.TotalQuestions()),
		Questions:      questions,
	})
}

type submitRequest struct {
	Answers []grader.Answer `json:"answers"`
}

type submitResponse struct {
	*grader.Result
	Message string `json:"message"`
}

func (c *QuizController) submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "quiz id must be a uuid", nil)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}

	result, err := c.quizzes.Submit(r.Context(), id, req.Answers)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	messageID := "Quiz.Failed"
	if result.Passed {
		messageID = "Quiz.Passed"
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &submitResponse{
		Result:  result,
		Message: intl.MustT(r.Context(), messageID),
	})
}
