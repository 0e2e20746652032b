package controllers

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/safety/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type PSRController struct {
	app      application.Application
	psr      *services.PSRService
	basePath string
}

func NewPSRController(app application.Application) application.Controller {
	return &PSRController{
		app:      app,
		psr:      app.Service(services.PSRService{}).(*services.PSRService),
		basePath: "/api/technician",
	}
}

func (c *PSRController) Key() string {
	return c.basePath
}

func (c *PSRController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/psr", c.rating).Methods(http.MethodGet)
}

func (c *PSRController) rating(w http.ResponseWriter, r *http.Request) {
	rating, err := c.psr.Rating(r.Context())
	if err != nil {
		writeSafetyError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, rating)
}

func writeSafetyError(w http.ResponseWriter, r *http.Request, err error) {
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
