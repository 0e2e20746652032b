package core

import (
	"embed"

	"github.com/ropeworks/ropeworks/modules/core/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/core/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/core/services"
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
	return "core"
}

func (m *Module) Register(app application.Application) error {
	userRepo := persistence.NewUserRepository()
	tenantRepo := persistence.NewTenantRepository()
	sessionRepo := persistence.NewSessionRepository()

	app.RegisterServices(
		services.NewUserService(userRepo, app.EventPublisher()),
		services.NewTenantService(tenantRepo),
		services.NewAuthService(userRepo, sessionRepo, app.EventPublisher()),
		services.NewResidentRegistrationService(userRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewAuthController(app),
		controllers.NewRegisterController(app),
	)

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
