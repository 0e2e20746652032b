package modules

import (
	"github.com/ropeworks/ropeworks/modules/billing"
	"github.com/ropeworks/ropeworks/modules/core"
	"github.com/ropeworks/ropeworks/modules/hrm"
	"github.com/ropeworks/ropeworks/modules/logging"
	"github.com/ropeworks/ropeworks/modules/notifications"
	"github.com/ropeworks/ropeworks/modules/projects"
	"github.com/ropeworks/ropeworks/modules/quiz"
	"github.com/ropeworks/ropeworks/modules/safety"
	"github.com/ropeworks/ropeworks/modules/superuser"
	"github.com/ropeworks/ropeworks/modules/warehouse"
	"github.com/ropeworks/ropeworks/pkg/application"
)

// BuiltInModules in registration order. Core first so its schema and
// services exist before dependents; superuser last because it reaches into
// billing and notifications.
var BuiltInModules = []application.Module{
	core.NewModule(),
	hrm.NewModule(),
	quiz.NewModule(),
	projects.NewModule(),
	safety.NewModule(),
	warehouse.NewModule(),
	billing.NewModule(),
	notifications.NewModule(),
	superuser.NewModule(),
	logging.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
