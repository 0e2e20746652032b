package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
)

// LoggerOptions tunes the request logging middleware.
type LoggerOptions struct {
	// SlowThreshold promotes the completion log line to Warn.
	SlowThreshold time.Duration
}

func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		SlowThreshold: 2 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithLogger injects a request-scoped *logrus.Entry carrying the request id
// and client address, and logs request completion with duration and status.
func WithLogger(logger *logrus.Logger, opts LoggerOptions) mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := strings.TrimSpace(r.Header.Get(conf.RequestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(conf.RequestIDHeader, requestID)

			ip := strings.TrimSpace(r.Header.Get(conf.RealIPHeader))
			if ip == "" {
				ip = r.RemoteAddr
			}

			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"ip":         ip,
			})

			ctx := composables.WithLogger(r.Context(), entry)
			ctx = composables.WithParams(ctx, &composables.Params{
				IP:        ip,
				UserAgent: r.UserAgent(),
				RequestID: requestID,
				Request:   r,
				Writer:    w,
			})

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			elapsed := time.Since(start)
			completed := entry.WithFields(logrus.Fields{
				"status":   rec.status,
				"duration": elapsed.String(),
			})
			if opts.SlowThreshold > 0 && elapsed >= opts.SlowThreshold {
				completed.Warn("slow request")
				return
			}
			completed.Info("request completed")
		})
	}
}
