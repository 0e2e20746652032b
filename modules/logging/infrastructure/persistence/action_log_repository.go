package persistence

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ropeworks/ropeworks/modules/logging/domain/entities/actionlog"
	"github.com/ropeworks/ropeworks/modules/logging/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/repo"
)

const (
	selectActionLogsQuery = `
		SELECT id, tenant_id, user_id, method, path, user_agent, ip, created_at
		FROM action_logs`
	insertActionLogQuery = `
		INSERT INTO action_logs (tenant_id, user_id, method, path, user_agent, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
)

type PgActionLogRepository struct{}

func NewActionLogRepository() actionlog.Repository {
	return &PgActionLogRepository{}
}

func actionLogFilters(ctx context.Context, params *actionlog.FindParams) ([]string, []interface{}, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, err
	}
	where := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}
	if params == nil {
		return where, args, nil
	}
	if params.UserID != nil {
		args = append(args, *params.UserID)
		where = append(where, "user_id = $"+strconv.Itoa(len(args)))
	}
	if params.Method != "" {
		args = append(args, strings.ToUpper(params.Method))
		where = append(where, "method = $"+strconv.Itoa(len(args)))
	}
	if params.Path != "" {
		args = append(args, "%"+params.Path+"%")
		where = append(where, "path ILIKE $"+strconv.Itoa(len(args)))
	}
	if params.From != nil {
		args = append(args, *params.From)
		where = append(where, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if params.To != nil {
		args = append(args, *params.To)
		where = append(where, "created_at <= $"+strconv.Itoa(len(args)))
	}
	return where, args, nil
}

func (g *PgActionLogRepository) List(ctx context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	where, args, err := actionLogFilters(ctx, params)
	if err != nil {
		return nil, err
	}
	query := selectActionLogsQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at DESC"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*actionlog.ActionLog, 0)
	for rows.Next() {
		var row models.ActionLog
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.UserID,
			&row.Method,
			&row.Path,
			&row.UserAgent,
			&row.IP,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry, err := toDomainActionLog(&row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (g *PgActionLogRepository) Count(ctx context.Context, params *actionlog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args, err := actionLogFilters(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM action_logs WHERE "+strings.Join(where, " AND "), args...).Scan(&count)
	return count, err
}

func (g *PgActionLogRepository) Create(ctx context.Context, entry *actionlog.ActionLog) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	row := toDBActionLog(entry)
	return tx.QueryRow(
		ctx,
		insertActionLogQuery,
		row.TenantID,
		row.UserID,
		row.Method,
		row.Path,
		row.UserAgent,
		row.IP,
		row.CreatedAt,
	).Scan(&entry.ID)
}
