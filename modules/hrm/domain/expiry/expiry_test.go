package expiry_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
	"github.com/ropeworks/ropeworks/modules/hrm/domain/expiry"
)

var today = time.Date(2026, time.March, 10, 14, 35, 12, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func inDays(n int) *time.Time {
	d := today.AddDate(0, 0, n)
	return &d
}

func newEmployee(name string, opts ...employee.Option) employee.Employee {
	return employee.New(uuid.New(), name, "Doe", name+"@example.com", opts...)
}

func TestScan_TerminatedEmployeeProducesNoFindings(t *testing.T) {
	roster := []employee.Employee{
		newEmployee("Terminated",
			employee.WithTerminatedDate(datePtr(today.AddDate(0, -1, 0))),
			employee.WithIrataExpirationDate(inDays(3)),
			employee.WithSpratExpirationDate(inDays(1)),
		),
		newEmployee("SuspendedAt",
			employee.WithSuspendedAt(datePtr(today.AddDate(0, 0, -2))),
			employee.WithIrataExpirationDate(inDays(0)),
		),
		newEmployee("SuspendedStatus",
			employee.WithConnectionStatus(employee.StatusSuspended),
			employee.WithDriversLicenseExpiry(inDays(5)),
		),
	}

	report := expiry.Scan(roster, today)
	assert.Empty(t, report.Findings)
	assert.Equal(t, 0, report.UniqueEmployeeCount)
}

func TestScan_HorizonBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		expiry   *time.Time
		included bool
	}{
		{"ExpiresToday", inDays(0), true},
		{"ExpiresInThirtyDays", inDays(30), true},
		{"ExpiresInThirtyOneDays", inDays(31), false},
		{"ExpiredYesterday", inDays(-1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := []employee.Employee{
				newEmployee("Boundary", employee.WithIrataExpirationDate(tt.expiry)),
			}
			report := expiry.Scan(roster, today)
			if tt.included {
				require.Len(t, report.Findings, 1)
			} else {
				require.Empty(t, report.Findings)
			}
		})
	}
}

func TestScan_TwoLicensesOneEmployee(t *testing.T) {
	e := newEmployee("Double",
		employee.WithIrataExpirationDate(inDays(10)),
		employee.WithSpratExpirationDate(inDays(4)),
	)
	report := expiry.Scan([]employee.Employee{e}, today)

	require.Len(t, report.Findings, 2)
	assert.Equal(t, 1, report.UniqueEmployeeCount)
	// Soonest expiry first.
	assert.Equal(t, expiry.LicenseSprat, report.Findings[0].LicenseType)
	assert.Equal(t, 4, report.Findings[0].DaysRemaining)
	assert.Equal(t, expiry.LicenseIrata, report.Findings[1].LicenseType)
	assert.Equal(t, 10, report.Findings[1].DaysRemaining)
}

func TestScan_StableOrderForTies(t *testing.T) {
	first := newEmployee("First", employee.WithIrataExpirationDate(inDays(7)))
	second := newEmployee("Second", employee.WithSpratExpirationDate(inDays(7)))

	report := expiry.Scan([]employee.Employee{first, second}, today)
	require.Len(t, report.Findings, 2)
	assert.Equal(t, first.ID(), report.Findings[0].EmployeeID)
	assert.Equal(t, second.ID(), report.Findings[1].EmployeeID)
}

func TestScan_Idempotent(t *testing.T) {
	roster := []employee.Employee{
		newEmployee("A", employee.WithIrataExpirationDate(inDays(12))),
		newEmployee("B", employee.WithSpratExpirationDate(inDays(3)), employee.WithDriversLicenseExpiry(inDays(12))),
		newEmployee("C", employee.WithDriversLicenseExpiry(inDays(29))),
	}

	first := expiry.Scan(roster, today)
	second := expiry.Scan(roster, today)
	assert.Equal(t, first, second)
}

func TestScan_TimeOfDayDoesNotSkewDayCount(t *testing.T) {
	// Expiry stored at 23:59 and "today" observed at 00:01 must still count
	// whole calendar days.
	lateExpiry := time.Date(2026, time.March, 15, 23, 59, 0, 0, time.UTC)
	earlyToday := time.Date(2026, time.March, 10, 0, 1, 0, 0, time.UTC)

	e := newEmployee("Night", employee.WithIrataExpirationDate(&lateExpiry))
	report := expiry.Scan([]employee.Employee{e}, earlyToday)

	require.Len(t, report.Findings, 1)
	assert.Equal(t, 5, report.Findings[0].DaysRemaining)
}

func TestScan_SingleFindingScenario(t *testing.T) {
	jane := employee.New(uuid.New(), "Jane", "Smith", "jane@example.com",
		employee.WithIrataExpirationDate(inDays(5)),
	)
	report := expiry.Scan([]employee.Employee{jane}, today)

	require.Len(t, report.Findings, 1)
	finding := report.Findings[0]
	assert.Equal(t, "IRATA Certification", finding.LicenseType)
	assert.Equal(t, 5, finding.DaysRemaining)
	assert.Equal(t, "Jane Smith", finding.EmployeeName)
	assert.Equal(t, 1, report.UniqueEmployeeCount)
}

func TestScan_EmptyRoster(t *testing.T) {
	report := expiry.Scan(nil, today)
	assert.NotNil(t, report.Findings)
	assert.Empty(t, report.Findings)
	assert.Equal(t, 0, report.UniqueEmployeeCount)
}
