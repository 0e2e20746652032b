package safety

import (
	"embed"

	hrmpersistence "github.com/ropeworks/ropeworks/modules/hrm/infrastructure/persistence"
	projectspersistence "github.com/ropeworks/ropeworks/modules/projects/infrastructure/persistence"
	quizpersistence "github.com/ropeworks/ropeworks/modules/quiz/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/safety/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/safety/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/safety/services"
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
	return "safety"
}

func (m *Module) Register(app application.Application) error {
	inspectionRepo := persistence.NewInspectionRepository()
	formRepo := persistence.NewSafetyFormRepository()

	app.RegisterServices(
		services.NewInspectionService(inspectionRepo, app.EventPublisher()),
		services.NewSafetyFormService(formRepo, app.EventPublisher()),
		services.NewPSRService(
			hrmpersistence.NewEmployeeRepository(),
			inspectionRepo,
			quizpersistence.NewQuizRepository(),
			quizpersistence.NewAttemptRepository(),
			projectspersistence.NewWorkSessionRepository(),
		),
	)

	app.RegisterControllers(
		controllers.NewPSRController(app),
		controllers.NewInspectionController(app),
		controllers.NewSafetyFormController(app),
	)

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
