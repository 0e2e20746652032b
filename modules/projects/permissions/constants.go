package permissions

const (
	ResourceProjects     = "projects.projects"
	ResourceWorkSessions = "projects.worksessions"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	// ActionManage gates editing other technicians' work sessions. Only
	// wildcard grants (admin, manager) match it.
	ActionManage = "manage"
)
