package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/pkg/constants"
)

// Provide stores a fixed value under the given context key for every request.
func Provide(key constants.ContextKey, value any) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
