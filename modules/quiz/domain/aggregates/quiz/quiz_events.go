package quiz

import "github.com/google/uuid"

// PassedEvent fires once per passing submission. The CSR ledger awards the
// company a point and the notifications module may fan out a message.
type PassedEvent struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	QuizID   uuid.UUID
	Title    string
	Score    int
}

type SubmittedEvent struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	QuizID   uuid.UUID
	Passed   bool
}
