package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	coreservices "github.com/ropeworks/ropeworks/modules/core/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/constants"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/middleware"
	"github.com/ropeworks/ropeworks/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})
}

func methodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	authService := app.Service(coreservices.AuthService{}).(*coreservices.AuthService)

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, middleware.DefaultLoggerOptions()),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.Cors(options.Configuration.Origin),
	}

	if options.Configuration.RateLimit.Enabled {
		var store limiter.Store
		switch options.Configuration.RateLimit.Storage {
		case "redis":
			redisStore, err := middleware.NewRedisStore(options.Configuration.RateLimit.RedisURL)
			if err != nil {
				options.Logger.WithError(err).Warn("rate limit: redis store unavailable, falling back to memory")
				store = middleware.NewMemoryStore()
			} else {
				store = redisStore
			}
		default:
			store = middleware.NewMemoryStore()
		}
		middlewares = append(middlewares, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: options.Configuration.RateLimit.GlobalRPS,
			Store:             store,
		}))
	}

	middlewares = append(middlewares,
		middleware.Authenticate(authService),
		middleware.ProvideLocalizer(app),
	)

	// Module middleware (action logging) goes innermost so it sees the
	// authenticated, tenant-scoped context.
	middlewares = append(middlewares, app.Middleware()...)

	return &server.HTTPServer{
		Controllers:             app.Controllers(),
		Middlewares:             middlewares,
		NotFoundHandler:         notFoundHandler(),
		MethodNotAllowedHandler: methodNotAllowedHandler(),
	}, nil
}
