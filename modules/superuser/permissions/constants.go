package permissions

// Only the superuser wildcard policy grants these resources. Tenant roles
// have no rows for them, so every guard call below the platform level fails.
const (
	ResourceAccounts      = "superuser.accounts"
	ResourceAnnouncements = "superuser.announcements"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionDelete = "delete"
)
