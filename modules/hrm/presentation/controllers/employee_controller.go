package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
	"github.com/ropeworks/ropeworks/modules/hrm/domain/expiry"
	"github.com/ropeworks/ropeworks/modules/hrm/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

const dateLayout = "2006-01-02"

type EmployeeController struct {
	app       application.Application
	employees *services.EmployeeService
	basePath  string
}

func NewEmployeeController(app application.Application) application.Controller {
	return &EmployeeController{
		app:       app,
		employees: app.Service(services.EmployeeService{}).(*services.EmployeeService),
		basePath:  "/api/employees",
	}
}

func (c *EmployeeController) Key() string {
	return c.basePath
}

func (c *EmployeeController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/expiring-licenses", c.expiringLicenses).Methods(http.MethodGet)
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id}", c.delete).Methods(http.MethodDelete)
}

type employeeRequest struct {
	FirstName            string  `json:"firstName"`
	LastName             string  `json:"lastName"`
	Email                string  `json:"email"`
	ConnectionStatus     string  `json:"connectionStatus"`
	TerminatedDate       *string `json:"terminatedDate"`
	SuspendedAt          *string `json:"suspendedAt"`
	IrataExpirationDate  *string `json:"irataExpirationDate"`
	SpratExpirationDate  *string `json:"spratExpirationDate"`
	DriversLicenseExpiry *string `json:"driversLicenseExpiry"`
}

type employeeResponse struct {
	ID                   string  `json:"id"`
	FirstName            string  `json:"firstName"`
	LastName             string  `json:"lastName"`
	Email                string  `json:"email"`
	ConnectionStatus     string  `json:"connectionStatus"`
	TerminatedDate       *string `json:"terminatedDate"`
	SuspendedAt          *string `json:"suspendedAt"`
	IrataExpirationDate  *string `json:"irataExpirationDate"`
	SpratExpirationDate  *string `json:"spratExpirationDate"`
	DriversLicenseExpiry *string `json:"driversLicenseExpiry"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toEmployeeResponse(e employee.Employee) *employeeResponse {
	return &employeeResponse{
		ID:                   e.ID().String(),
		FirstName:            e.FirstName(),
		LastName:             e.LastName(),
		Email:                e.Email(),
		ConnectionStatus:     string(e.ConnectionStatus()),
		TerminatedDate:       formatDate(e.TerminatedDate()),
		SuspendedAt:          formatDate(e.SuspendedAt()),
		IrataExpirationDate:  formatDate(e.IrataExpirationDate()),
		SpratExpirationDate:  formatDate(e.SpratExpirationDate()),
		DriversLicenseExpiry: formatDate(e.DriversLicenseExpiry()),
	}
}

// parseDates validates every optional date field up front so malformed input
// never reaches the scanner.
func (req *employeeRequest) parseDates(fields httpapi.FieldErrors) map[string]*time.Time {
	out := make(map[string]*time.Time)
	inputs := map[string]*string{
		"terminatedDate":       req.TerminatedDate,
		"suspendedAt":          req.SuspendedAt,
		"irataExpirationDate":  req.IrataExpirationDate,
		"spratExpirationDate":  req.SpratExpirationDate,
		"driversLicenseExpiry": req.DriversLicenseExpiry,
	}
	for field, raw := range inputs {
		if raw == nil || *raw == "" {
			out[field] = nil
			continue
		}
		parsed, err := time.Parse(dateLayout, *raw)
		if err != nil {
			fields[field] = "must be a date in YYYY-MM-DD format"
			continue
		}
		out[field] = &parsed
	}
	return out
}

func (req *employeeRequest) validate() (httpapi.FieldErrors, map[string]*time.Time) {
	fields := httpapi.FieldErrors{}
	if req.FirstName == "" {
		fields["firstName"] = "first name is required"
	}
	if req.LastName == "" {
		fields["lastName"] = "last name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if req.ConnectionStatus != "" {
		switch employee.ConnectionStatus(req.ConnectionStatus) {
		case employee.StatusConnected, employee.StatusPending, employee.StatusSuspended:
		default:
			fields["connectionStatus"] = "must be one of connected, pending, suspended"
		}
	}
	dates := req.parseDates(fields)
	return fields, dates
}

func (c *EmployeeController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Employees.NotFound"), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

type expiringLicensesResponse struct {
	Items         []expiry.Finding `json:"items"`
	EmployeeCount int              `json:"employeeCount"`
}

// expiringLicenses returns findings within the warning horizon. An empty
// items list with a zero count is the "nothing to warn about" shape clients
// key off to render no badge at all.
func (c *EmployeeController) expiringLicenses(w http.ResponseWriter, r *http.Request) {
	report, err := c.employees.ExpiringLicenses(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &expiringLicensesResponse{
		Items:         report.Findings,
		EmployeeCount: report.UniqueEmployeeCount,
	})
}

type listResponse struct {
	Items []*employeeResponse `json:"items"`
	Total int64               `json:"total"`
}

func (c *EmployeeController) list(w http.ResponseWriter, r *http.Request) {
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
	params := &employee.FindParams{
		Limit:  min(pagination.Limit, conf.MaxPageSize),
		Offset: pagination.Offset,
	}

	items, err := c.employees.GetPaginated(r.Context(), params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	total, err := c.employees.Count(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	out := make([]*employeeResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toEmployeeResponse(e))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &listResponse{Items: out, Total: total})
}

func (c *EmployeeController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "employee id must be a uuid", nil)
		return
	}
	e, err := c.employees.GetByID(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toEmployeeResponse(e))
}

func (c *EmployeeController) create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	fields, dates := req.validate()
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		c.writeError(w, r, composables.ErrNoUserFound)
		return
	}

	opts := []employee.Option{
		employee.WithTerminatedDate(dates["terminatedDate"]),
		employee.WithSuspendedAt(dates["suspendedAt"]),
		employee.WithIrataExpirationDate(dates["irataExpirationDate"]),
		employee.WithSpratExpirationDate(dates["spratExpirationDate"]),
		employee.WithDriversLicenseExpiry(dates["driversLicenseExpiry"]),
	}
	if req.ConnectionStatus != "" {
		opts = append(opts, employee.WithConnectionStatus(employee.ConnectionStatus(req.ConnectionStatus)))
	}
	created, err := c.employees.Create(r.Context(), employee.New(
		tenantID, req.FirstName, req.LastName, req.Email, opts...,
	))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toEmployeeResponse(created))
}

func (c *EmployeeController) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "employee id must be a uuid", nil)
		return
	}
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	fields, dates := req.validate()
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}

	existing, err := c.employees.GetByID(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	status := existing.ConnectionStatus()
	if req.ConnectionStatus != "" {
		status = employee.ConnectionStatus(req.ConnectionStatus)
	}
	updated := employee.New(
		existing.TenantID(), req.FirstName, req.LastName, req.Email,
		employee.WithID(existing.ID()),
		employee.WithConnectionStatus(status),
		employee.WithTerminatedDate(dates["terminatedDate"]),
		employee.WithSuspendedAt(dates["suspendedAt"]),
		employee.WithIrataExpirationDate(dates["irataExpirationDate"]),
		employee.WithSpratExpirationDate(dates["spratExpirationDate"]),
		employee.WithDriversLicenseExpiry(dates["driversLicenseExpiry"]),
		employee.WithTimestamps(existing.CreatedAt(), time.Now()),
	)
	if err := c.employees.Update(r.Context(), updated); err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toEmployeeResponse(updated))
}

func (c *EmployeeController) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "employee id must be a uuid", nil)
		return
	}
	if err := c.employees.Delete(r.Context(), id); err != nil {
		c.writeError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
