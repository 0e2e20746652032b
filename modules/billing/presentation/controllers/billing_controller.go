package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
	"github.com/ropeworks/ropeworks/modules/billing/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

// BillingController keeps the /api/stripe prefix the deployed clients are
// wired to, whatever gateway actually settles the charge.
type BillingController struct {
	app      application.Application
	billing  *services.BillingService
	basePath string
}

func NewBillingController(app application.Application) application.Controller {
	return &BillingController{
		app:      app,
		billing:  app.Service(services.BillingService{}).(*services.BillingService),
		basePath: "/api/stripe",
	}
}

func (c *BillingController) Key() string {
	return c.basePath
}

func (c *BillingController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/subscription", c.subscription).Methods(http.MethodGet)
	router.HandleFunc("/checkout", c.checkout).Methods(http.MethodPost)
	router.HandleFunc("/cancel", c.cancel).Methods(http.MethodPost)
	router.HandleFunc("/reactivate", c.reactivate).Methods(http.MethodPost)
	router.HandleFunc("/addon", c.addon).Methods(http.MethodPost)
}

type checkoutRequest struct {
	Plan  string `json:"plan"`
	Seats int    `json:"seats"`
}

type addonRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type addonResponse struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	PurchasedAt string `json:"purchasedAt"`
}

type subscriptionResponse struct {
	ID        string          `json:"id"`
	Plan      string          `json:"plan"`
	Seats     int             `json:"seats"`
	Status    string          `json:"status"`
	Amount    string          `json:"amount"`
	PeriodEnd string          `json:"periodEnd"`
	Addons    []addonResponse `json:"addons"`
}

type checkoutResponse struct {
	Subscription *subscriptionResponse `json:"subscription"`
	Reference    string                `json:"reference"`
}

func toSubscriptionResponse(sub subscription.Subscription) *subscriptionResponse {
	addons := make([]addonResponse, 0, len(sub.Addons()))
	for _, a := range sub.Addons() {
		addons = append(addons, addonResponse{
			Name:        a.Name,
			Amount:      a.Amount.String(),
			PurchasedAt: a.PurchasedAt.Format(time.RFC3339),
		})
	}
	return &subscriptionResponse{
		ID:        sub.ID().String(),
		Plan:      string(sub.Plan()),
		Seats:     sub.Seats(),
		Status:    string(sub.Status()),
		Amount:    sub.Amount().String(),
		PeriodEnd: sub.PeriodEnd().Format(time.RFC3339),
		Addons:    addons,
	}
}

func writeBillingError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Billing.NotFound"), meta)
	case errors.Is(err, subscription.ErrAlreadyCanceled):
		_ = httpapi.WriteError(w, http.StatusConflict, "ALREADY_CANCELED", intl.MustT(r.Context(), "Billing.AlreadyCanceled"), meta)
	case errors.Is(err, subscription.ErrNotCanceled):
		_ = httpapi.WriteError(w, http.StatusConflict, "NOT_CANCELED", intl.MustT(r.Context(), "Billing.NotCanceled"), meta)
	case errors.Is(err, subscription.ErrAlreadySubscribed):
		_ = httpapi.WriteError(w, http.StatusConflict, "ALREADY_SUBSCRIBED", intl.MustT(r.Context(), "Billing.AlreadySubscribed"), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

func (c *BillingController) subscription(w http.ResponseWriter, r *http.Request) {
	sub, err := c.billing.Subscription(r.Context())
	if err != nil {
		writeBillingError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (c *BillingController) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	fields := httpapi.FieldErrors{}
	plan := subscription.Plan(req.Plan)
	switch plan {
	case subscription.PlanTrial, subscription.PlanStandard, subscription.PlanPro:
	default:
		fields["plan"] = "must be one of trial, standard, pro"
	}
	if req.Seats < 1 {
		fields["seats"] = "must be at least 1"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	result, err := c.billing.Checkout(r.Context(), plan, req.Seats)
	if err != nil {
		writeBillingError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, &checkoutResponse{
		Subscription: toSubscriptionResponse(result.Subscription),
		Reference:    result.Session.Reference,
	})
}

func (c *BillingController) cancel(w http.ResponseWriter, r *http.Request) {
	sub, err := c.billing.Cancel(r.Context())
	if err != nil {
		writeBillingError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (c *BillingController) reactivate(w http.ResponseWriter, r *http.Request) {
	sub, err := c.billing.Reactivate(r.Context())
	if err != nil {
		writeBillingError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

func (c *BillingController) addon(w http.ResponseWriter, r *http.Request) {
	var req addonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", nil)
		return
	}
	fields := httpapi.FieldErrors{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		fields["amount"] = "must be a non-negative decimal amount"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	sub, err := c.billing.PurchaseAddon(r.Context(), req.Name, amount)
	if err != nil {
		writeBillingError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}
