package projects

import (
	"embed"

	"github.com/ropeworks/ropeworks/modules/projects/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/projects/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/projects/services"
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
	return "projects"
}

func (m *Module) Register(app application.Application) error {
	projectRepo := persistence.NewProjectRepository()
	sessionRepo := persistence.NewWorkSessionRepository()

	app.RegisterServices(
		services.NewProjectService(projectRepo, app.EventPublisher()),
		services.NewWorkSessionService(sessionRepo, projectRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewProjectController(app),
		controllers.NewWorkSessionController(app),
	)

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
