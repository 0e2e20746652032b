package billing

import (
	"embed"

	"github.com/ropeworks/ropeworks/modules/billing/infrastructure/payment"
	"github.com/ropeworks/ropeworks/modules/billing/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/billing/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/billing/services"
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
	return "billing"
}

func (m *Module) Register(app application.Application) error {
	subscriptionRepo := persistence.NewSubscriptionRepository()
	gateway := payment.NewOfflineGateway(configuration.Use().Logger())

	app.RegisterServices(
		services.NewBillingService(subscriptionRepo, gateway, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewBillingController(app),
	)

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
