package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/safetyform"
	"github.com/ropeworks/ropeworks/modules/safety/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type SafetyFormController struct {
	app      application.Application
	forms    *services.SafetyFormService
	basePath string
}

func NewSafetyFormController(app application.Application) application.Controller {
	return &SafetyFormController{
		app:      app,
		forms:    app.Service(services.SafetyFormService{}).(*services.SafetyFormService),
		basePath: "/api/safety-forms",
	}
}

func (c *SafetyFormController) Key() string {
	return c.basePath
}

func (c *SafetyFormController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.submit).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.review).Methods(http.MethodPatch)
}

type submitFormRequest struct {
	DocumentType string `json:"documentType"`
}

type reviewFormRequest struct {
	Status string `json:"status"`
}

type formResponse struct {
	ID           string `json:"id"`
	DocumentType string `json:"documentType"`
	Status       string `json:"status"`
	SubmittedAt  string `json:"submittedAt"`
}

func toFormResponse(f *safetyform.Form) *formResponse {
	return &formResponse{
		ID:           f.ID.String(),
		DocumentType: f.DocumentType,
		Status:       string(f.Status),
		SubmittedAt:  f.SubmittedAt.Format(time.RFC3339),
	}
}

type formListResponse struct {
	Items []*formResponse `json:"items"`
}

func (c *SafetyFormController) list(w http.ResponseWriter, r *http.Request) {
	items, err := c.forms.Mine(r.Context())
	if err != nil {
		writeSafetyError(w, r, err)
		return
	}
	out := make([]*formResponse, 0, len(items))
	for _, f := range items {
		out = append(out, toFormResponse(f))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &formListResponse{Items: out})
}

func (c *SafetyFormController) submit(w http.ResponseWriter, r *http.Request) {
	var req submitFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	if req.DocumentType == "" {
		_ = httpapi.WriteValidationError(w, "VALIDATION", httpapi.FieldErrors{
			"documentType": "document type is required",
		})
		return
	}
	form, err := c.forms.Submit(r.Context(), req.DocumentType)
	if err != nil {
		writeSafetyError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toFormResponse(form))
}

func (c *SafetyFormController) review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "safety form id must be a uuid", nil)
		return
	}
	var req reviewFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	status := safetyform.Status(req.Status)
	switch status {
	case safetyform.StatusApproved, safetyform.StatusRejected:
	default:
		_ = httpapi.WriteValidationError(w, "VALIDATION", httpapi.FieldErrors{
			"status": "must be one of approved, rejected",
		})
		return
	}
	form, err := c.forms.Review(r.Context(), id, status)
	if err != nil {
		if errors.Is(err, safetyform.ErrFormNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "SafetyForms.NotFound"), nil)
			return
		}
		writeSafetyError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toFormResponse(form))
}
