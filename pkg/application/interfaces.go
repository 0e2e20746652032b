package application

import (
	"context"
	"embed"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

// Module is a self-contained business capability that wires its services,
// controllers, schema, and locale files into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

// Controller registers a set of routes on the application router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// MigrationManager collects embedded schema files from modules and applies
// them at startup.
type MigrationManager interface {
	RegisterSchema(fs *embed.FS, dir string)
	Run(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Middleware() []mux.MiddlewareFunc
	Controllers() []Controller
	Migrations() MigrationManager
	Bundle() *i18n.Bundle

	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...interface{})
	RegisterLocaleFiles(fs ...*embed.FS)

	// Service retrieves a registered service by its zero-value type.
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
}
