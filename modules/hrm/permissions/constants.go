package permissions

const (
	ResourceEmployees = "hrm.employees"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)
