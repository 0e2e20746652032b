package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
	"github.com/ropeworks/ropeworks/modules/hrm/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/repo"
)

const (
	selectEmployeesQuery = `
		SELECT id, tenant_id, first_name, last_name, email, connection_status,
		       terminated_date, suspended_at, irata_expiration_date,
		       sprat_expiration_date, drivers_license_expiry, created_at, updated_at
		FROM employees`
	countEmployeesQuery = `SELECT COUNT(*) FROM employees WHERE tenant_id = $1`
	insertEmployeeQuery = `
		INSERT INTO employees (id, tenant_id, first_name, last_name, email, connection_status,
		                       terminated_date, suspended_at, irata_expiration_date,
		                       sprat_expiration_date, drivers_license_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	updateEmployeeQuery = `
		UPDATE employees
		SET first_name = $1, last_name = $2, email = $3, connection_status = $4,
		    terminated_date = $5, suspended_at = $6, irata_expiration_date = $7,
		    sprat_expiration_date = $8, drivers_license_expiry = $9, updated_at = $10
		WHERE id = $11 AND tenant_id = $12`
	deleteEmployeeQuery = `DELETE FROM employees WHERE id = $1 AND tenant_id = $2`
)

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (g *PgEmployeeRepository) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query employees")
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var dbRow models.Employee
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.FirstName,
			&dbRow.LastName,
			&dbRow.Email,
			&dbRow.ConnectionStatus,
			&dbRow.TerminatedDate,
			&dbRow.SuspendedAt,
			&dbRow.IrataExpirationDate,
			&dbRow.SpratExpirationDate,
			&dbRow.DriversLicenseExpiry,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan employee row")
		}
		employees = append(employees, toDomainEmployee(&dbRow))
	}
	return employees, rows.Err()
}

func (g *PgEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := g.queryEmployees(ctx, selectEmployeesQuery+" WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, errors.Wrap(employee.ErrEmployeeNotFound, id.String())
	}
	return employees[0], nil
}

func (g *PgEmployeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := g.queryEmployees(ctx, selectEmployeesQuery+" WHERE lower(email) = lower($1) AND tenant_id = $2", email, tenantID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, errors.Wrap(employee.ErrEmployeeNotFound, email)
	}
	return employees[0], nil
}

func (g *PgEmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return g.queryEmployees(ctx, selectEmployeesQuery+" WHERE tenant_id = $1 ORDER BY created_at", tenantID)
}

func (g *PgEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := selectEmployeesQuery + " WHERE tenant_id = $1 ORDER BY last_name, first_name " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryEmployees(ctx, query, tenantID)
}

func (g *PgEmployeeRepository) Count(ctx context.Context) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countEmployeesQuery, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count employees")
	}
	return count, nil
}

func (g *PgEmployeeRepository) Create(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbRow := toDBEmployee(data)
	if _, err := tx.Exec(ctx, insertEmployeeQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.FirstName,
		dbRow.LastName,
		dbRow.Email,
		dbRow.ConnectionStatus,
		dbRow.TerminatedDate,
		dbRow.SuspendedAt,
		dbRow.IrataExpirationDate,
		dbRow.SpratExpirationDate,
		dbRow.DriversLicenseExpiry,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert employee")
	}
	return g.GetByID(ctx, dbRow.ID)
}

func (g *PgEmployeeRepository) Update(ctx context.Context, data employee.Employee) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBEmployee(data)
	if _, err := tx.Exec(ctx, updateEmployeeQuery,
		dbRow.FirstName,
		dbRow.LastName,
		dbRow.Email,
		dbRow.ConnectionStatus,
		dbRow.TerminatedDate,
		dbRow.SuspendedAt,
		dbRow.IrataExpirationDate,
		dbRow.SpratExpirationDate,
		dbRow.DriversLicenseExpiry,
		dbRow.UpdatedAt,
		dbRow.ID,
		dbRow.TenantID,
	); err != nil {
		return errors.Wrap(err, "failed to update employee")
	}
	return nil
}

func (g *PgEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteEmployeeQuery, id, tenantID); err != nil {
		return errors.Wrap(err, "failed to delete employee")
	}
	return nil
}
