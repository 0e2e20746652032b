package application

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ropeworks/ropeworks/pkg/configuration"
)

type schemaSource struct {
	fsys *embed.FS
	dir  string
}

type migrationManager struct {
	sources []schemaSource
}

func NewMigrationManager() MigrationManager {
	return &migrationManager{}
}

func (m *migrationManager) RegisterSchema(fsys *embed.FS, dir string) {
	m.sources = append(m.sources, schemaSource{fsys: fsys, dir: dir})
}

// Run applies every registered schema in registration order. Modules register
// during load, so core schemas run before dependent module schemas.
func (m *migrationManager) Run(ctx context.Context) error {
	conf := configuration.Use()
	db, err := sql.Open("pgx", conf.Database.Opts)
	if err != nil {
		return fmt.Errorf("migrations: open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	for _, source := range m.sources {
		goose.SetBaseFS(source.fsys)
		if err := goose.UpContext(ctx, db, source.dir); err != nil {
			return fmt.Errorf("migrations: apply %s: %w", source.dir, err)
		}
	}
	goose.SetBaseFS(nil)
	return nil
}

// Rollback reverts every registered schema in reverse registration order, so
// dependent module schemas drop before the core tables they reference.
func (m *migrationManager) Rollback(ctx context.Context) error {
	conf := configuration.Use()
	db, err := sql.Open("pgx", conf.Database.Opts)
	if err != nil {
		return fmt.Errorf("migrations: open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	for i := len(m.sources) - 1; i >= 0; i-- {
		source := m.sources[i]
		goose.SetBaseFS(source.fsys)
		if err := goose.DownContext(ctx, db, source.dir); err != nil {
			return fmt.Errorf("migrations: revert %s: %w", source.dir, err)
		}
	}
	goose.SetBaseFS(nil)
	return nil
}
