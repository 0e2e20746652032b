package project

import "github.com/google/uuid"

type CreatedEvent struct {
	Result Project
}

type UpdatedEvent struct {
	Result Project
}

type DeletedEvent struct {
	ID uuid.UUID
}
