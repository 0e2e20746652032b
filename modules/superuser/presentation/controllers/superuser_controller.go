package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/tenant"
	"github.com/ropeworks/ropeworks/modules/superuser/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type SuperuserController struct {
	app      application.Application
	platform *services.PlatformService
	basePath string
}

func NewSuperuserController(app application.Application) application.Controller {
	return &SuperuserController{
		app:      app,
		platform: app.Service(services.PlatformService{}).(*services.PlatformService),
		basePath: "/api/superuser",
	}
}

func (c *SuperuserController) Key() string {
	return c.basePath
}

func (c *SuperuserController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/accounts", c.listAccounts).Methods(http.MethodGet)
	router.HandleFunc("/accounts/gift", c.giftAccount).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}", c.deleteAccount).Methods(http.MethodDelete)
	router.HandleFunc("/staff", c.createStaff).Methods(http.MethodPost)
	router.HandleFunc("/announcements", c.announce).Methods(http.MethodPost)
}

type giftAccountRequest struct {
	CompanyName string `json:"companyName"`
	Domain      string `json:"domain"`
	AdminEmail  string `json:"adminEmail"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Password    string `json:"password"`
}

type staffAccountRequest struct {
	TenantID  string `json:"tenantId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

type announcementRequest struct {
	TenantID string `json:"tenantId"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

type accountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	IsGift    bool   `json:"isGift"`
	CreatedAt string `json:"createdAt"`
}

type staffResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type giftAccountResponse struct {
	Account      *accountResponse `json:"account"`
	Admin        *staffResponse   `json:"admin"`
	Plan         string           `json:"plan"`
	TrialEndsAt  string           `json:"trialEndsAt"`
	Subscription string           `json:"subscriptionId"`
}

func toAccountResponse(t *tenant.Tenant) *accountResponse {
	return &accountResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Domain:    t.Domain,
		IsGift:    t.IsGift,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func toStaffResponse(u coreuser.User) *staffResponse {
	return &staffResponse{
		ID:        u.ID().String(),
		TenantID:  u.TenantID().String(),
		Email:     u.Email(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		Role:      u.RoleName(),
	}
}

func writeSuperuserError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	case errors.Is(err, tenant.ErrTenantNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Superuser.AccountNotFound"), meta)
	case errors.Is(err, coreuser.ErrEmailTaken):
		_ = httpapi.WriteError(w, http.StatusConflict, "EMAIL_TAKEN", intl.MustT(r.Context(), "Superuser.EmailTaken"), meta)
	case errors.Is(err, services.ErrStaffRoleInvalid):
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "INVALID_ROLE", intl.MustT(r.Context(), "Superuser.InvalidRole"), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

func (c *SuperuserController) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := c.platform.ListAccounts(r.Context())
	if err != nil {
		writeSuperuserError(w, r, err)
		return
	}
	out := make([]*accountResponse, 0, len(accounts))
	for _, t := range accounts {
		out = append(out, toAccountResponse(t))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *SuperuserController) giftAccount(w http.ResponseWriter, r *http.Request) {
	var req giftAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	fields := httpapi.FieldErrors{}
	if req.CompanyName == "" {
		fields["companyName"] = "company name is required"
	}
	if req.AdminEmail == "" {
		fields["adminEmail"] = "admin email is required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	result, err := c.platform.GiftAccount(r.Context(), &services.GiftAccountDTO{
		CompanyName: req.CompanyName,
		Domain:      req.Domain,
		AdminEmail:  req.AdminEmail,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    req.Password,
	})
	if err != nil {
		writeSuperuserError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, &giftAccountResponse{
		Account:      toAccountResponse(result.Tenant),
		Admin:        toStaffResponse(result.Admin),
		Plan:         string(result.Subscription.Plan()),
		TrialEndsAt:  result.Subscription.PeriodEnd().Format(time.RFC3339),
		Subscription: result.Subscription.ID().String(),
	})
}

func (c *SuperuserController) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Superuser.AccountNotFound"), nil)
		return
	}
	if err := c.platform.DeleteAccount(r.Context(), id); err != nil {
		writeSuperuserError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *SuperuserController) createStaff(w http.ResponseWriter, r *http.Request) {
	var req staffAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	fields := httpapi.FieldErrors{}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		fields["tenantId"] = "must be a valid uuid"
	}
	role, err := coreuser.ParseRole(req.Role)
	if err != nil {
		fields["role"] = "unknown role"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	created, err := c.platform.CreateStaff(r.Context(), &services.StaffAccountDTO{
		TenantID:  tenantID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		Password:  req.Password,
	})
	if err != nil {
		writeSuperuserError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toStaffResponse(created))
}

func (c *SuperuserController) announce(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	fields := httpapi.FieldErrors{}
	if req.Title == "" {
		fields["title"] = "title is required"
	}
	dto := &services.AnnouncementDTO{Title: req.Title, Body: req.Body}
	if req.TenantID != "" {
		tenantID, err := uuid.Parse(req.TenantID)
		if err != nil {
			fields["tenantId"] = "must be a valid uuid"
		} else {
			dto.TenantID = &tenantID
		}
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	delivered, err := c.platform.Announce(r.Context(), dto)
	if err != nil {
		writeSuperuserError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]int{"delivered": delivered})
}
