package permissions

const ResourceNotifications = "notifications.notifications"

const (
	ActionRead   = "read"
	ActionUpdate = "update"
)
