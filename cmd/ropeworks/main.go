package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ropeworks/ropeworks/modules"
	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/tenant"
	corepersistence "github.com/ropeworks/ropeworks/modules/core/infrastructure/persistence"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

func loadApp() (application.Application, error) {
	conf := configuration.Use()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		Bundle:   application.LoadBundle(),
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	return app, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema management",
	}
	cmd.AddCommand(upCmd(), downCmd())
	return cmd
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			return app.Migrations().Run(cmd.Context())
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			return app.Migrations().Rollback(cmd.Context())
		},
	}
}

func seedCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the platform tenant and its superuser account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("a password is required, pass --password")
			}
			app, err := loadApp()
			if err != nil {
				return err
			}
			if err := app.Migrations().Run(cmd.Context()); err != nil {
				return err
			}

			hash, err := coreuser.HashPassword(password)
			if err != nil {
				return err
			}
			platform := tenant.New("Platform", "platform")
			operator := coreuser.New(
				platform.ID,
				email,
				"Platform",
				"Operator",
				coreuser.RoleSuperuser,
				coreuser.WithPasswordHash(hash),
			)

			tenants := corepersistence.NewTenantRepository()
			users := corepersistence.NewUserRepository()

			ctx := composables.WithPool(cmd.Context(), app.DB())
			ctx = composables.WithTenantID(ctx, platform.ID)
			err = composables.InTx(ctx, func(txCtx context.Context) error {
				if _, err := tenants.Create(txCtx, platform); err != nil {
					return err
				}
				_, err := users.Create(txCtx, operator)
				return err
			})
			if err != nil {
				return err
			}
			log.Printf("seeded platform tenant %s with superuser %s", platform.ID, email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "ops@localhost", "superuser email")
	cmd.Flags().StringVar(&password, "password", "", "superuser password")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:   "ropeworks",
		Short: "RopeWorks platform management",
	}
	root.AddCommand(migrateCmd(), seedCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
