// Package expiry flags employee certifications expiring within a fixed
// horizon. Scan is a pure function of the roster and the supplied date so
// results are reproducible in tests and idempotent between calls.
package expiry

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
)

// HorizonDays is the inclusive look-ahead window for expiry warnings.
const HorizonDays = 30

const (
	LicenseIrata          = "IRATA Certification"
	LicenseSprat          = "SPRAT Certification"
	LicenseDriversLicense = "Driver's License"
)

// Finding is one license expiring within the horizon. Findings are derived
// values, recomputed on every call and never persisted.
type Finding struct {
	EmployeeID     uuid.UUID `json:"employeeId"`
	EmployeeName   string    `json:"employeeName"`
	LicenseType    string    `json:"licenseType"`
	ExpirationDate time.Time `json:"expirationDate"`
	DaysRemaining  int       `json:"daysRemaining"`
}

// Report is the scan output: findings sorted by urgency plus the number of
// distinct employees represented, which backs the warning badge. One employee
// with two expiring licenses contributes two findings but counts once.
type Report struct {
	Findings            []Finding
	UniqueEmployeeCount int
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	// Both ends are normalized to midnight; rounding absorbs DST offsets.
	d := midnight(to).Sub(midnight(from))
	return int(math.Round(d.Hours() / 24))
}

// Scan walks the roster and reports every license expiring within
// [today, today+HorizonDays]. Employees that are terminated, suspended, or
// carry a suspended connection status are skipped entirely, no matter how
// close their expiry dates are. Output order is ascending by days remaining
// with ties kept in input order.
func Scan(employees []employee.Employee, today time.Time) *Report {
	findings := make([]Finding, 0)
	seen := make(map[uuid.UUID]struct{})

	for _, e := range employees {
		if !e.Active() {
			continue
		}
		licenses := []struct {
			label  string
			expiry *time.Time
		}{
			{LicenseIrata, e.IrataExpirationDate()},
			{LicenseSprat, e.SpratExpirationDate()},
			{LicenseDriversLicense, e.DriversLicenseExpiry()},
		}
		for _, lic := range licenses {
			if lic.expiry == nil {
				continue
			}
			days := daysBetween(today, *lic.expiry)
			if days < 0 || days > HorizonDays {
				continue
			}
			findings = append(findings, Finding{
				EmployeeID:     e.ID(),
				EmployeeName:   e.FullName(),
				LicenseType:    lic.label,
				ExpirationDate: midnight(*lic.expiry),
				DaysRemaining:  days,
			})
			seen[e.ID()] = struct{}{}
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].DaysRemaining < findings[j].DaysRemaining
	})

	return &Report{
		Findings:            findings,
		UniqueEmployeeCount: len(seen),
	}
}
