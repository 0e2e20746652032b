package quiz

import (
	"embed"

	"github.com/ropeworks/ropeworks/modules/quiz/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/quiz/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/quiz/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/configuration"
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
	return "quiz"
}

func (m *Module) Register(app application.Application) error {
	quizRepo := persistence.NewQuizRepository()
	attemptRepo := persistence.NewAttemptRepository()
	csrRepo := persistence.NewCSRRepository()

	csrService := services.NewCSRLedgerService(csrRepo, app.DB(), configuration.Use().Logger())
	app.RegisterServices(
		services.NewQuizService(quizRepo, attemptRepo, app.EventPublisher()),
		csrService,
	)
	app.EventPublisher().Subscribe(csrService.OnQuizPassed)

	app.RegisterControllers(
		controllers.NewQuizController(app),
	)

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
