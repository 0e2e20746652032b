package services

import (
	"context"
	"math"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
	"github.com/ropeworks/ropeworks/modules/projects/domain/entities/worksession"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/attempt"
	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/inspection"
	"github.com/ropeworks/ropeworks/modules/safety/domain/psr"
	"github.com/ropeworks/ropeworks/modules/safety/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	// Crews inspect harnesses before every working week, so a month of
	// compliance is four passed checks.
	expectedInspectionsPerMonth = 4
	// A technician on steady rotation logs roughly one session a week.
	expectedSessionsPerQuarter = 12

	certExpiryWarningDays = 30
)

// PSRService assembles the Personal Safety Rating from the other modules'
// records. It reads across module boundaries through their repository
// interfaces; the composition itself lives in the psr domain package.
type PSRService struct {
	employees   employee.Repository
	inspections inspection.Repository
	quizzes     quiz.Repository
	attempts    attempt.Repository
	sessions    worksession.Repository

	now func() time.Time
}

func NewPSRService(
	employees employee.Repository,
	inspections inspection.Repository,
	quizzes quiz.Repository,
	attempts attempt.Repository,
	sessions worksession.Repository,
) *PSRService {
	return &PSRService{
		employees:   employees,
		inspections: inspections,
		quizzes:     quizzes,
		attempts:    attempts,
		sessions:    sessions,
		now:         time.Now,
	}
}

func (s *PSRService) Rating(ctx context.Context) (psr.Rating, error) {
	if err := authorizeSafetyFn(ctx, permissions.ResourcePSR, permissions.ActionRead); err != nil {
		return psr.Rating{}, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return psr.Rating{}, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (psr.Rating, error) {
		emp, err := s.employees.GetByEmail(txCtx, u.Email())
		linked := err == nil
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return psr.Rating{}, err
		}

		certifications := s.certificationsInput(emp, linked)
		safetyDocs, err := s.safetyDocsInput(txCtx, u.ID())
		if err != nil {
			return psr.Rating{}, err
		}
		quizzes, err := s.quizzesInput(txCtx, u.ID())
		if err != nil {
			return psr.Rating{}, err
		}
		workHistory := psr.Input{}
		if linked {
			workHistory, err = s.workHistoryInput(txCtx, u.ID())
			if err != nil {
				return psr.Rating{}, err
			}
		}
		return psr.Compose(linked, certifications, safetyDocs, quizzes, workHistory), nil
	})
}

// certificationsInput scores the best rope-access certification on file.
// Valid scores 100, expiring within the warning window 50, expired or
// missing 25.
func (s *PSRService) certificationsInput(emp employee.Employee, linked bool) psr.Input {
	if !linked {
		return psr.Input{
			Score: 25,
			Details: map[string]interface{}{
				"onFile": false,
			},
		}
	}
	irata := s.certScore(emp.IrataExpirationDate())
	sprat := s.certScore(emp.SpratExpirationDate())
	score := irata
	if sprat > score {
		score = sprat
	}
	details := map[string]interface{}{
		"onFile": true,
	}
	if d := emp.IrataExpirationDate(); d != nil {
		details["irataExpirationDate"] = d.Format("2006-01-02")
	}
	if d := emp.SpratExpirationDate(); d != nil {
		details["spratExpirationDate"] = d.Format("2006-01-02")
	}
	return psr.Input{Score: score, Details: details}
}

func (s *PSRService) certScore(expiresAt *time.Time) int {
	if expiresAt == nil {
		return 25
	}
	now := s.now()
	if expiresAt.Before(now) {
		return 25
	}
	if expiresAt.Before(now.AddDate(0, 0, certExpiryWarningDays)) {
		return 50
	}
	return 100
}

// safetyDocsInput scores harness inspection cadence over the trailing 30
// days against the expected weekly rhythm. Failed inspections do not count.
func (s *PSRService) safetyDocsInput(txCtx context.Context, technicianID uuid.UUID) (psr.Input, error) {
	since := s.now().AddDate(0, 0, -30)
	inspections, err := s.inspections.ListByTechnicianSince(txCtx, technicianID, since)
	if err != nil {
		return psr.Input{}, err
	}
	passed := 0
	var lastInspectedAt *time.Time
	for _, insp := range inspections {
		if insp.Result != inspection.ResultPass {
			continue
		}
		passed++
		if lastInspectedAt == nil || insp.InspectedAt.After(*lastInspectedAt) {
			t := insp.InspectedAt
			lastInspectedAt = &t
		}
	}
	details := map[string]interface{}{
		"inspectionsLast30Days": passed,
	}
	if lastInspectedAt != nil {
		details["lastInspectedAt"] = lastInspectedAt.Format(time.RFC3339)
	}
	return psr.Input{
		Score:   ratioScore(passed, expectedInspectionsPerMonth),
		Details: details,
	}, nil
}

// quizzesInput scores passed quizzes against everything assigned to the
// tenant. A technician with nothing assigned has nothing outstanding.
func (s *PSRService) quizzesInput(txCtx context.Context, userID uuid.UUID) (psr.Input, error) {
	assigned, err := s.quizzes.GetAll(txCtx)
	if err != nil {
		return psr.Input{}, err
	}
	summaries, err := s.attempts.SummariesByUser(txCtx, userID)
	if err != nil {
		return psr.Input{}, err
	}
	passed := 0
	for _, summary := range summaries {
		if summary.Passed {
			passed++
		}
	}
	details := map[string]interface{}{
		"passed":   passed,
		"assigned": len(assigned),
	}
	if len(assigned) == 0 {
		return psr.Input{Score: 100, Details: details}, nil
	}
	return psr.Input{
		Score:   ratioScore(passed, len(assigned)),
		Details: details,
	}, nil
}

// workHistoryInput scores logged work sessions over the trailing 90 days.
func (s *PSRService) workHistoryInput(txCtx context.Context, technicianID uuid.UUID) (psr.Input, error) {
	since := s.now().AddDate(0, 0, -90)
	count, err := s.sessions.CountByTechnicianSince(txCtx, technicianID, since)
	if err != nil {
		return psr.Input{}, err
	}
	return psr.Input{
		Score: ratioScore(int(count), expectedSessionsPerQuarter),
		Details: map[string]interface{}{
			"sessionsLast90Days": int(count),
		},
	}, nil
}

func ratioScore(actual, expected int) int {
	if expected <= 0 {
		return 100
	}
	score := int(math.Round(100 * float64(actual) / float64(expected)))
	if score > 100 {
		return 100
	}
	return score
}
