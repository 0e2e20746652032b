package notifications

import (
	"embed"

	corepersistence "github.com/ropeworks/ropeworks/modules/core/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/notifications/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/modules/notifications/presentation/controllers"
	"github.com/ropeworks/ropeworks/modules/notifications/services"
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
	return "notifications"
}

func (m *Module) Register(app application.Application) error {
	notificationRepo := persistence.NewNotificationRepository()

	notificationService := services.NewNotificationService(notificationRepo)
	app.RegisterServices(notificationService)

	feed := services.NewFeedSubscriber(
		notificationService,
		corepersistence.NewUserRepository(),
		app.DB(),
		configuration.Use().Logger(),
	)
	app.EventPublisher().Subscribe(feed.OnQuizPassed)
	app.EventPublisher().Subscribe(feed.OnSubscriptionCanceled)

	app.RegisterControllers(
		controllers.NewNotificationController(app),
	)

	app.Migrations().RegisterSchema(&MigrationFiles, "infrastructure/persistence/schema")
	app.RegisterLocaleFiles(&LocaleFiles)
	return nil
}
