package controllers

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/logging/domain/entities/actionlog"
	"github.com/ropeworks/ropeworks/modules/logging/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type LogsController struct {
	app      application.Application
	logs     *services.LogsService
	basePath string
}

func NewLogsController(app application.Application) application.Controller {
	return &LogsController{
		app:      app,
		logs:     app.Service(services.LogsService{}).(*services.LogsService),
		basePath: "/api/logs",
	}
}

func (c *LogsController) Key() string {
	return c.basePath
}

func (c *LogsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/actions", c.listActions).Methods(http.MethodGet)
}

type actionLogResponse struct {
	ID        uint    `json:"id"`
	UserID    *string `json:"userId"`
	Method    string  `json:"method"`
	Path      string  `json:"path"`
	UserAgent string  `json:"userAgent"`
	IP        string  `json:"ip"`
	CreatedAt string  `json:"createdAt"`
}

type actionLogListResponse struct {
	Items []*actionLogResponse `json:"items"`
	Total int64                `json:"total"`
}

func toActionLogResponse(entry *actionlog.ActionLog) *actionLogResponse {
	resp := &actionLogResponse{
		ID:        entry.ID,
		Method:    entry.Method,
		Path:      entry.Path,
		UserAgent: entry.UserAgent,
		IP:        entry.IP,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.UserID != nil {
		id := entry.UserID.String()
		resp.UserID = &id
	}
	return resp
}

func writeLogsError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

type actionLogQuery struct {
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	UserID string `form:"userId"`
	Method string `form:"method"`
	Path   string `form:"path"`
	From   string `form:"from"`
	To     string `form:"to"`
}

func (c *LogsController) listActions(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	query, err := composables.UseQuery(&actionLogQuery{Limit: conf.PageSize}, r)
	if err != nil {
		_ = httpapi.WriteValidationError(w, "VALIDATION", httpapi.QueryFieldErrors(err))
		return
	}

	fields := httpapi.FieldErrors{}
	if query.Limit < 1 {
		fields["limit"] = "must be a positive integer"
	}
	if query.Offset < 0 {
		fields["offset"] = "must be a non-negative integer"
	}
	params := &actionlog.FindParams{
		Limit:  min(query.Limit, conf.MaxPageSize),
		Offset: query.Offset,
		Method: query.Method,
		Path:   query.Path,
	}
	if query.UserID != "" {
		userID, err := uuid.Parse(query.UserID)
		if err != nil {
			fields["userId"] = "must be a valid uuid"
		} else {
			params.UserID = &userID
		}
	}
	if query.From != "" {
		from, err := time.Parse(time.RFC3339, query.From)
		if err != nil {
			fields["from"] = "must be an RFC 3339 timestamp"
		} else {
			params.From = &from
		}
	}
	if query.To != "" {
		to, err := time.Parse(time.RFC3339, query.To)
		if err != nil {
			fields["to"] = "must be an RFC 3339 timestamp"
		} else {
			params.To = &to
		}
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}

	entries, total, err := c.logs.ListActionLogs(r.Context(), params)
	if err != nil {
		writeLogsError(w, r, err)
		return
	}
	items := make([]*actionLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toActionLogResponse(entry))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &actionLogListResponse{Items: items, Total: total})
}
