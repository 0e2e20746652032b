package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/inspection"
	"github.com/ropeworks/ropeworks/modules/safety/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
)

const recentInspectionDays = 30

type InspectionController struct {
	app         application.Application
	inspections *services.InspectionService
	basePath    string
}

func NewInspectionController(app application.Application) application.Controller {
	return &InspectionController{
		app:         app,
		inspections: app.Service(services.InspectionService{}).(*services.InspectionService),
		basePath:    "/api/harness-inspections",
	}
}

func (c *InspectionController) Key() string {
	return c.basePath
}

func (c *InspectionController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.log).Methods(http.MethodPost)
}

type inspectionRequest struct {
	InspectedAt string `json:"inspectedAt"`
	Result      string `json:"result"`
	Notes       string `json:"notes"`
}

type inspectionResponse struct {
	ID          string `json:"id"`
	InspectedAt string `json:"inspectedAt"`
	Result      string `json:"result"`
	Notes       string `json:"notes"`
}

func toInspectionResponse(insp *inspection.HarnessInspection) *inspectionResponse {
	return &inspectionResponse{
		ID:          insp.ID.String(),
		InspectedAt: insp.InspectedAt.Format(time.RFC3339),
		Result:      string(insp.Result),
		Notes:       insp.Notes,
	}
}

type inspectionListResponse struct {
	Items []*inspectionResponse `json:"items"`
}

func (c *InspectionController) list(w http.ResponseWriter, r *http.Request) {
	items, err := c.inspections.Recent(r.Context(), recentInspectionDays)
	if err != nil {
		writeSafetyError(w, r, err)
		return
	}
	out := make([]*inspectionResponse, 0, len(items))
	for _, insp := range items {
		out = append(out, toInspectionResponse(insp))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &inspectionListResponse{Items: out})
}

func (c *InspectionController) log(w http.ResponseWriter, r *http.Request) {
	var req inspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}

	fields := httpapi.FieldErrors{}
	var inspectedAt time.Time
	if req.InspectedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.InspectedAt)
		if err != nil {
			fields["inspectedAt"] = "must be an RFC 3339 timestamp"
		} else {
			inspectedAt = parsed
		}
	}
	result := inspection.Result(req.Result)
	switch result {
	case inspection.ResultPass, inspection.ResultFail:
	default:
		fields["result"] = "must be one of pass, fail"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}

	logged, err := c.inspections.Log(r.Context(), &inspection.HarnessInspection{
		InspectedAt: inspectedAt,
		Result:      result,
		Notes:       req.Notes,
	})
	if err != nil {
		writeSafetyError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toInspectionResponse(logged))
}
