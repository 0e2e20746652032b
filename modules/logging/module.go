package logging

import (
	"embed"

	"github.com/ropeworks/ropeworks/modules/logging/handlers"
	"github.com/ropeworks/ropeworks/modules/logging/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/logging/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/logging/services"
	"github.com/ropeworks/ropeworks/pkg/application"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "logging"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewLogsService(persistence.NewActionLogRepository()),
	)

	app.RegisterControllers(
		controllers.NewLogsController(app),
	)
	app.RegisterMiddleware(handlers.ActionLogMiddleware(app))

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
