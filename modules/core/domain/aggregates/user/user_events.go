package user

import "github.com/google/uuid"

type CreatedEvent struct {
	Result User
}

type UpdatedEvent struct {
	Result User
}

type DeletedEvent struct {
	ID uuid.UUID
}

type SignedInEvent struct {
	Result User
}
