package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/repo"
)

const (
	selectUsersQuery = `
		SELECT id, tenant_id, email, first_name, last_name, role, password_hash, last_login_at, created_at, updated_at
		FROM users`
	countUsersQuery = `SELECT COUNT(*) FROM users`
	insertUserQuery = `
		INSERT INTO users (id, tenant_id, email, first_name, last_name, role, password_hash, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	updateUserQuery = `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, role = $4, password_hash = $5, last_login_at = $6, updated_at = $7
		WHERE id = $8`
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (g *PgUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users")
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		var dbRow models.User
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.Email,
			&dbRow.FirstName,
			&dbRow.LastName,
			&dbRow.Role,
			&dbRow.PasswordHash,
			&dbRow.LastLoginAt,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		entity, err := toDomainUser(&dbRow)
		if err != nil {
			return nil, err
		}
		users = append(users, entity)
	}
	return users, rows.Err()
}

func (g *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	users, err := g.queryUsers(ctx, selectUsersQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.Wrap(user.ErrUserNotFound, id.String())
	}
	return users[0], nil
}

func (g *PgUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	users, err := g.queryUsers(ctx, selectUsersQuery+" WHERE lower(email) = lower($1)", email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.Wrap(user.ErrUserNotFound, email)
	}
	return users[0], nil
}

func (g *PgUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	where, args := []string{}, []interface{}{}
	if params.Role != "" {
		args = append(args, string(params.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	query := repo.Join(
		selectUsersQuery,
		repo.JoinWhere(where...),
		"ORDER BY last_name, first_name",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	return g.queryUsers(ctx, query, args...)
}

func (g *PgUserRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countUsersQuery).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}
	return count, nil
}

func (g *PgUserRepository) Create(ctx context.Context, data user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := g.queryUsers(ctx, selectUsersQuery+" WHERE lower(email) = lower($1)", data.Email())
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errors.Wrap(user.ErrEmailTaken, data.Email())
	}
	dbRow := toDBUser(data)
	if _, err := tx.Exec(ctx, insertUserQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.Email,
		dbRow.FirstName,
		dbRow.LastName,
		dbRow.Role,
		dbRow.PasswordHash,
		dbRow.LastLoginAt,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert user")
	}
	return g.GetByID(ctx, dbRow.ID)
}

func (g *PgUserRepository) Update(ctx context.Context, data user.User) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBUser(data)
	if _, err := tx.Exec(ctx, updateUserQuery,
		dbRow.Email,
		dbRow.FirstName,
		dbRow.LastName,
		dbRow.Role,
		dbRow.PasswordHash,
		dbRow.LastLoginAt,
		dbRow.UpdatedAt,
		dbRow.ID,
	); err != nil {
		return errors.Wrap(err, "failed to update user")
	}
	return nil
}

func (g *PgUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteUserQuery, id); err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	return nil
}
