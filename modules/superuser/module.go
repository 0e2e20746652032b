package superuser

import (
	"embed"

	billingpersistence "github.com/ropeworks/ropeworks/modules/billing/infrastructure/persistence"
	corepersistence "github.com/ropeworks/ropeworks/modules/core/infrastructure/persistence"
	notifservices "github.com/ropeworks/ropeworks/modules/notifications/services"
	"github.com/ropeworks/ropeworks/modules/superuser/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/superuser/services"
	"github.com/ropeworks/ropeworks/pkg/application"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "superuser"
}

func (m *Module) Register(app application.Application) error {
	notifier := app.Service(notifservices.NotificationService{}).(*notifservices.NotificationService)

	app.RegisterServices(
		services.NewPlatformService(
			corepersistence.NewTenantRepository(),
			corepersistence.NewUserRepository(),
			billingpersistence.NewSubscriptionRepository(),
			notifier,
			app.EventPublisher(),
		),
	)

	app.RegisterControllers(
		controllers.NewSuperuserController(app),
	)

	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
