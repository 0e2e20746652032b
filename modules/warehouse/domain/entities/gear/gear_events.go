package gear

import "github.com/google/uuid"

type CreatedEvent struct {
	Result *Item
}

// AssignedEvent fires after a technician self-assigns an item. Subscribers
// invalidate any cached inventory views.
type AssignedEvent struct {
	Result     *Item
	AssignedTo uuid.UUID
}
