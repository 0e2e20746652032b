package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

// ProvideLocalizer builds a request localizer from the lang query parameter
// falling back to Accept-Language.
func ProvideLocalizer(app application.Application) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := r.URL.Query().Get("lang")
			accept := r.Header.Get("Accept-Language")
			localizer := i18n.NewLocalizer(app.Bundle(), lang, accept)
			ctx := intl.WithLocalizer(r.Context(), localizer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
