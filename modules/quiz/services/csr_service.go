package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/csr"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const pointsPerQuizPass = 1

// CSRLedgerService maintains the company's append-only safety-rating ledger.
// It subscribes to quiz pass events and awards one point per pass.
type CSRLedgerService struct {
	repo csr.Repository
	pool *pgxpool.Pool
	log  *logrus.Logger
}

func NewCSRLedgerService(repo csr.Repository, pool *pgxpool.Pool, log *logrus.Logger) *CSRLedgerService {
	return &CSRLedgerService{repo: repo, pool: pool, log: log}
}

// OnQuizPassed is the event bus subscriber. It runs outside any request
// context, so the transaction scope is rebuilt from the event payload.
func (s *CSRLedgerService) OnQuizPassed(event quiz.PassedEvent) {
	ctx := composables.WithTenantID(context.Background(), event.TenantID)
	if s.pool != nil {
		ctx = composables.WithPool(ctx, s.pool)
	}
	err := s.Award(ctx, &csr.Entry{
		ID:        uuid.New(),
		TenantID:  event.TenantID,
		UserID:    event.UserID,
		Points:    pointsPerQuizPass,
		Reason:    "quiz passed: " + event.Title,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.log.WithError(err).WithField("quiz_id", event.QuizID).Error("failed to award csr point")
	}
}

func (s *CSRLedgerService) Award(ctx context.Context, entry *csr.Entry) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Append(txCtx, entry)
	})
}

func (s *CSRLedgerService) TotalPoints(ctx context.Context) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.TotalPoints(txCtx)
	})
}

func (s *CSRLedgerService) List(ctx context.Context, limit, offset int) ([]*csr.Entry, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*csr.Entry, error) {
		return s.repo.List(txCtx, limit, offset)
	})
}
