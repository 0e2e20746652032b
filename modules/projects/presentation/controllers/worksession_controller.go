package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/projects/domain/entities/worksession"
	"github.com/ropeworks/ropeworks/modules/projects/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type WorkSessionController struct {
	app      application.Application
	sessions *services.WorkSessionService
	basePath string
}

func NewWorkSessionController(app application.Application) application.Controller {
	return &WorkSessionController{
		app:      app,
		sessions: app.Service(services.WorkSessionService{}).(*services.WorkSessionService),
		basePath: "/api/work-sessions",
	}
}

func (c *WorkSessionController) Key() string {
	return c.basePath
}

func (c *WorkSessionController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.log).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id}", c.delete).Methods(http.MethodDelete)
}

type logSessionRequest struct {
	ProjectID      string  `json:"projectId"`
	StartedAt      string  `json:"startedAt"`
	EndedAt        *string `json:"endedAt"`
	DropsCompleted int     `json:"dropsCompleted"`
	Notes          string  `json:"notes"`
}

type updateSessionRequest struct {
	StartedAt      *string `json:"startedAt"`
	EndedAt        *string `json:"endedAt"`
	DropsCompleted *int    `json:"dropsCompleted"`
	Notes          *string `json:"notes"`
}

type sessionResponse struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"projectId"`
	TechnicianID   string  `json:"technicianId"`
	StartedAt      string  `json:"startedAt"`
	EndedAt        *string `json:"endedAt"`
	DropsCompleted int     `json:"dropsCompleted"`
	Notes          string  `json:"notes"`
}

func toSessionResponse(s *worksession.WorkSession) *sessionResponse {
	var endedAt *string
	if s.EndedAt != nil {
		v := s.EndedAt.Format(time.RFC3339)
		endedAt = &v
	}
	return &sessionResponse{
		ID:             s.ID.String(),
		ProjectID:      s.ProjectID.String(),
		TechnicianID:   s.TechnicianID.String(),
		StartedAt:      s.StartedAt.Format(time.RFC3339),
		EndedAt:        endedAt,
		DropsCompleted: s.DropsCompleted,
		Notes:          s.Notes,
	}
}

func parseTimestamp(raw *string, field string, fields httpapi.FieldErrors) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		fields[field] = "must be an RFC 3339 timestamp"
		return nil
	}
	return &parsed
}

func writeSessionsError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	case errors.Is(err, worksession.ErrSessionNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "WorkSessions.NotFound"), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

func (c *WorkSessionController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "work session id must be a uuid", nil)
		return
	}
	s, err := c.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeSessionsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toSessionResponse(s))
}

func (c *WorkSessionController) log(w http.ResponseWriter, r *http.Request) {
	var req logSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}

	fields := httpapi.FieldErrors{}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		fields["projectId"] = "must be a uuid"
	}
	startedAt := parseTimestamp(&req.StartedAt, "startedAt", fields)
	if req.StartedAt == "" {
		fields["startedAt"] = "started at is required"
	}
	endedAt := parseTimestamp(req.EndedAt, "endedAt", fields)
	if req.DropsCompleted < 0 {
		fields["dropsCompleted"] = "must be non-negative"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}

	logged, err := c.sessions.Log(r.Context(), &worksession.WorkSession{
		ProjectID:      projectID,
		StartedAt:      *startedAt,
		EndedAt:        endedAt,
		DropsCompleted: req.DropsCompleted,
		Notes:          req.Notes,
	})
	if err != nil {
		writeSessionsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toSessionResponse(logged))
}

func (c *WorkSessionController) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "work session id must be a uuid", nil)
		return
	}
	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}

	fields := httpapi.FieldErrors{}
	upd := &worksession.UpdateDTO{
		StartedAt:      parseTimestamp(req.StartedAt, "startedAt", fields),
		EndedAt:        parseTimestamp(req.EndedAt, "endedAt", fields),
		DropsCompleted: req.DropsCompleted,
		Notes:          req.Notes,
	}
	if req.DropsCompleted != nil && *req.DropsCompleted < 0 {
		fields["dropsCompleted"] = "must be non-negative"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}

	updated, err := c.sessions.Update(r.Context(), id, upd)
	if err != nil {
		writeSessionsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toSessionResponse(updated))
}

func (c *WorkSessionController) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "work session id must be a uuid", nil)
		return
	}
	if err := c.sessions.Delete(r.Context(), id); err != nil {
		writeSessionsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
