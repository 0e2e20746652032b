package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/projects/domain/aggregates/project"
	"github.com/ropeworks/ropeworks/modules/projects/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type ProjectController struct {
	app      application.Application
	projects *services.ProjectService
	basePath string
}

func NewProjectController(app application.Application) application.Controller {
	return &ProjectController{
		app:      app,
		projects: app.Service(services.ProjectService{}).(*services.ProjectService),
		basePath: "/api/projects",
	}
}

func (c *ProjectController) Key() string {
	return c.basePath
}

func (c *ProjectController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id}", c.delete).Methods(http.MethodDelete)
}

type projectRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Status     string `json:"status"`
	DropsTotal int    `json:"dropsTotal"`
}

type projectResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Status         string `json:"status"`
	DropsTotal     int    `json:"dropsTotal"`
	DropsCompleted int    `json:"dropsCompleted"`
}

func toProjectResponse(p project.Project) *projectResponse {
	return &projectResponse{
		ID:             p.ID().String(),
		Name:           p.Name(),
		Address:        p.Address(),
		Status:         string(p.Status()),
		DropsTotal:     p.DropsTotal(),
		DropsCompleted: p.DropsCompleted(),
	}
}

func (req *projectRequest) validate() httpapi.FieldErrors {
	fields := httpapi.FieldErrors{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.Address == "" {
		fields["address"] = "address is required"
	}
	if req.DropsTotal < 0 {
		fields["dropsTotal"] = "must be non-negative"
	}
	if req.Status != "" {
		switch project.Status(req.Status) {
		case project.StatusActive, project.StatusCompleted, project.StatusOnHold:
		default:
			fields["status"] = "must be one of active, completed, on_hold"
		}
	}
	return fields
}

func writeProjectsError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	case errors.Is(err, project.ErrProjectNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Projects.NotFound"), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

type projectListResponse struct {
	Items []*projectResponse `json:"items"`
	Total int64              `json:"total"`
}

func (c *ProjectController) list(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	pagination, err := composables.UseQuery(&composables.PaginationParams{Limit: conf.PageSize}, r)
	if err != nil {
		_ = httpapi.WriteValidationError(w, "VALIDATION", httpapi.QueryFieldErrors(err))
		return
	}
	if fields := pagination.Validate(); len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	params := &project.FindParams{
		Limit:  min(pagination.Limit, conf.MaxPageSize),
		Offset: pagination.Offset,
	}

	items, err := c.projects.GetPaginated(r.Context(), params)
	if err != nil {
		writeProjectsError(w, r, err)
		return
	}
	total, err := c.projects.Count(r.Context())
	if err != nil {
		writeProjectsError(w, r, err)
		return
	}
	out := make([]*projectResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProjectResponse(p))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &projectListResponse{Items: out, Total: total})
}

func (c *ProjectController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "project id must be a uuid", nil)
		return
	}
	p, err := c.projects.GetByID(r.Context(), id)
	if err != nil {
		writeProjectsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toProjectResponse(p))
}

func (c *ProjectController) create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		writeProjectsError(w, r, composables.ErrNoUserFound)
		return
	}

	opts := []project.Option{}
	if req.Status != "" {
		opts = append(opts, project.WithStatus(project.Status(req.Status)))
	}
	created, err := c.projects.Create(r.Context(), project.New(
		tenantID, req.Name, req.Address, req.DropsTotal, opts...,
	))
	if err != nil {
		writeProjectsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toProjectResponse(created))
}

func (c *ProjectController) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "project id must be a uuid", nil)
		return
	}
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}

	existing, err := c.projects.GetByID(r.Context(), id)
	if err != nil {
		writeProjectsError(w, r, err)
		return
	}

	status := existing.Status()
	if req.Status != "" {
		status = project.Status(req.Status)
	}
	updated := project.New(
		existing.TenantID(), req.Name, req.Address, req.DropsTotal,
		project.WithID(existing.ID()),
		project.WithStatus(status),
		project.WithDropsCompleted(existing.DropsCompleted()),
		project.WithTimestamps(existing.CreatedAt(), time.Now()),
	)
	if err := c.projects.Update(r.Context(), updated); err != nil {
		writeProjectsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toProjectResponse(updated))
}

func (c *ProjectController) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "project id must be a uuid", nil)
		return
	}
	if err := c.projects.Delete(r.Context(), id); err != nil {
		writeProjectsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
