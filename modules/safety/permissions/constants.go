package permissions

const (
	ResourceInspections = "safety.inspections"
	ResourceForms       = "safety.forms"
	ResourcePSR         = "safety.psr"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
)
