package controllers

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type AuthController struct {
	app      application.Application
	auth     *services.AuthService
	basePath string
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:      app,
		auth:     app.Service(services.AuthService{}).(*services.AuthService),
		basePath: "/api/auth",
	}
}

func (c *AuthController) Key() string {
	return c.basePath
}

func (c *AuthController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/login", c.login).Methods(http.MethodPost)
	router.HandleFunc("/logout", c.logout).Methods(http.MethodPost)
	router.HandleFunc("/me", c.me).Methods(http.MethodGet)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func toUserResponse(u user.User) *userResponse {
	return &userResponse{
		ID:        u.ID().String(),
		Email:     u.Email(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		Role:      u.RoleName(),
	}
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "malformed request body", requestMeta(r))
		return
	}
	fields := httpapi.FieldErrors{}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}

	u, sess, err := c.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, composables.ErrInvalidPassword) {
			_ = httpapi.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", intl.MustT(r.Context(), "Auth.InvalidCredentials"), requestMeta(r))
			return
		}
		writeInternalError(w, r, err)
		return
	}

	conf := configuration.Use()
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   conf.GoAppEnvironment == configuration.Production,
		SameSite: http.SameSiteLaxMode,
	})
	_ = httpapi.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// logout is best-effort. A failed session delete still clears the cookie so
// the client ends up signed out either way.
func (c *AuthController) logout(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	if cookie, err := r.Cookie(conf.SidCookieKey); err == nil && cookie.Value != "" {
		if err := c.auth.Logout(r.Context(), cookie.Value); err != nil {
			composables.UseLogger(r.Context()).WithError(err).Warn("failed to delete session on logout")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func (c *AuthController) me(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), requestMeta(r))
		return
	}
	full, ok := u.(user.User)
	if !ok {
		writeInternalError(w, r, errors.New("unexpected user type in context"))
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toUserResponse(full))
}
