package permissions

const ResourceSubscriptions = "billing.subscriptions"

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
)
