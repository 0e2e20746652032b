package testutils

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ropeworks/ropeworks/pkg/composables"
)

// NoopTx satisfies pgx.Tx for service tests that pair the tenant transaction
// helpers with in-memory repositories. Any attempt to actually touch the
// database fails loudly.
type NoopTx struct{}

var errNoopTx = errors.New("testutils: noop tx does not reach a database")

func (NoopTx) Begin(ctx context.Context) (pgx.Tx, error) { return NoopTx{}, nil }
func (NoopTx) Commit(ctx context.Context) error          { return nil }
func (NoopTx) Rollback(ctx context.Context) error        { return nil }

func (NoopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errNoopTx
}

func (NoopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (NoopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }

func (NoopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errNoopTx
}

func (NoopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNoopTx
}

func (NoopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errNoopTx
}

func (NoopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (NoopTx) Conn() *pgx.Conn                                               { return nil }

// WithNoopTx seeds the context so composables.InTenantTx reuses the stub
// instead of requiring a pool.
func WithNoopTx(ctx context.Context) context.Context {
	return composables.WithTx(ctx, NoopTx{})
}
