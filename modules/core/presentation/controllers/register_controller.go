package controllers

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

const minPasswordLength = 8

type RegisterController struct {
	app       application.Application
	residents *services.ResidentRegistrationService
	basePath  string
}

func NewRegisterController(app application.Application) application.Controller {
	return &RegisterController{
		app:       app,
		residents: app.Service(services.ResidentRegistrationService{}).(*services.ResidentRegistrationService),
		basePath:  "/api/register",
	}
}

func (c *RegisterController) Key() string {
	return c.basePath
}

func (c *RegisterController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/resident", c.registerResident).Methods(http.MethodPost)
}

type residentRegisterRequest struct {
	Token     string `json:"token"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

func (c *RegisterController) registerResident(w http.ResponseWriter, r *http.Request) {
	var req residentRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", requestMeta(r))
		return
	}

	fields := httpapi.FieldErrors{}
	if req.Token == "" {
		fields["token"] = "invite token is required"
	}
	if req.FirstName == "" {
		fields["firstName"] = "first name is required"
	}
	if req.LastName == "" {
		fields["lastName"] = "last name is required"
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}

	created, err := c.residents.Register(r.Context(), &services.ResidentRegistration{
		Token:     req.Token,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInviteInvalid):
			_ = httpapi.WriteValidationError(w, "VALIDATION", httpapi.FieldErrors{
				"token": "invite token is invalid or expired",
			})
		case errors.Is(err, user.ErrEmailTaken):
			_ = httpapi.WriteError(w, http.StatusConflict, "EMAIL_TAKEN", intl.MustT(r.Context(), "Register.EmailTaken"), requestMeta(r))
		default:
			writeInternalError(w, r, err)
		}
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toUserResponse(created))
}
