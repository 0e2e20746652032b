package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

// Authenticator resolves a session token to the authenticated user. The core
// module's auth service implements it; the indirection keeps pkg free of
// module imports.
type Authenticator interface {
	AuthorizeToken(ctx context.Context, token string) (composables.AuthUser, error)
}

// Authenticate resolves the session cookie when present, loading the user and
// tenant into the context. Requests without a valid session pass through
// unauthenticated; use RequireAuthenticated to gate protected routes.
func Authenticate(auth Authenticator) mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(conf.SidCookieKey)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := auth.AuthorizeToken(r.Context(), cookie.Value)
			if err != nil {
				// Stale cookie: proceed unauthenticated rather than failing
				// public routes.
				next.ServeHTTP(w, r)
				return
			}

			ctx := composables.WithUser(r.Context(), u)
			ctx = composables.WithTenantID(ctx, u.TenantID())
			if params, ok := composables.UseParams(ctx); ok {
				params.Authenticated = true
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated rejects requests that did not resolve to a user.
func RequireAuthenticated() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseUser(r.Context()); err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
