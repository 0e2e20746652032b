package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/warehouse/domain/entities/gear"
	"github.com/ropeworks/ropeworks/modules/warehouse/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type GearController struct {
	app      application.Application
	gear     *services.GearService
	basePath string
}

func NewGearController(app application.Application) application.Controller {
	return &GearController{
		app:      app,
		gear:     app.Service(services.GearService{}).(*services.GearService),
		basePath: "/api/gear",
	}
}

func (c *GearController) Key() string {
	return c.basePath
}

func (c *GearController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.delete).Methods(http.MethodDelete)

	// Self-assignment keeps its original path for client compatibility.
	r.HandleFunc("/api/gear-assignments/self", c.selfAssign).Methods(http.MethodPost)
}

type gearRequest struct {
	SerialNumber string `json:"serialNumber"`
	Type         string `json:"type"`
}

type selfAssignRequest struct {
	Type string `json:"type"`
}

type gearResponse struct {
	ID           string  `json:"id"`
	SerialNumber string  `json:"serialNumber"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	AssignedTo   *string `json:"assignedTo"`
}

func toGearResponse(item *gear.Item) *gearResponse {
	var assignedTo *string
	if item.AssignedTo != nil {
		v := item.AssignedTo.String()
		assignedTo = &v
	}
	return &gearResponse{
		ID:           item.ID.String(),
		SerialNumber: item.SerialNumber,
		Type:         item.Type,
		Status:       string(item.Status),
		AssignedTo:   assignedTo,
	}
}

func writeGearError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	case errors.Is(err, gear.ErrGearNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Gear.NotFound"), meta)
	case errors.Is(err, gear.ErrNoGearAvailable):
		_ = httpapi.WriteError(w, http.StatusConflict, "NO_GEAR_AVAILABLE", intl.MustT(r.Context(), "Gear.NoneAvailable"), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

type gearListResponse struct {
	Items []*gearResponse `json:"items"`
	Total int64           `json:"total"`
}

type gearQuery struct {
	Type   string `form:"type"`
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func (c *GearController) list(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	query, err := composables.UseQuery(&gearQuery{Limit: conf.PageSize}, r)
	if err != nil {
		_ = httpapi.WriteValidationError(w, "VALIDATION", httpapi.QueryFieldErrors(err))
		return
	}
	params := &gear.FindParams{
		Type:   query.Type,
		Status: gear.Status(query.Status),
		Limit:  min(max(query.Limit, 1), conf.MaxPageSize),
		Offset: max(query.Offset, 0),
	}
	items, err := c.gear.GetPaginated(r.Context(), params)
	if err != nil {
		writeGearError(w, r, err)
		return
	}
	total, err := c.gear.Count(r.Context())
	if err != nil {
		writeGearError(w, r, err)
		return
	}
	out := make([]*gearResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toGearResponse(item))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &gearListResponse{Items: out, Total: total})
}

func (c *GearController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "gear id must be a uuid", nil)
		return
	}
	item, err := c.gear.GetByID(r.Context(), id)
	if err != nil {
		writeGearError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toGearResponse(item))
}

func (c *GearController) create(w http.ResponseWriter, r *http.Request) {
	var req gearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	fields := httpapi.FieldErrors{}
	if req.SerialNumber == "" {
		fields["serialNumber"] = "serial number is required"
	}
	if req.Type == "" {
		fields["type"] = "type is required"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	created, err := c.gear.Create(r.Context(), &gear.Item{
		SerialNumber: req.SerialNumber,
		Type:         req.Type,
	})
	if err != nil {
		writeGearError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toGearResponse(created))
}

func (c *GearController) selfAssign(w http.ResponseWriter, r *http.Request) {
	var req selfAssignRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
			return
		}
	}
	assigned, err := c.gear.SelfAssign(r.Context(), req.Type)
	if err != nil {
		writeGearError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toGearResponse(assigned))
}

func (c *GearController) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "gear id must be a uuid", nil)
		return
	}
	if err := c.gear.Delete(r.Context(), id); err != nil {
		writeGearError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
