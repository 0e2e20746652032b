package warehouse

import (
	"embed"

	"github.com/ropeworks/ropeworks/modules/warehouse/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/warehouse/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/warehouse/services"
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
	return "warehouse"
}

func (m *Module) Register(app application.Application) error {
	gearRepo := persistence.NewGearRepository()

	app.RegisterServices(
		services.NewGearService(gearRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewGearController(app),
	)

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
