package hrm

import (
	"embed"

	"github.com/ropeworks/ropeworks/modules/hrm/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/hrm/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/hrm/services"
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
	return "hrm"
}

func (m *Module) Register(app application.Application) error {
	employeeRepo := persistence.NewEmployeeRepository()

	app.RegisterServices(
		services.NewEmployeeService(employeeRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewEmployeeController(app),
	)

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
