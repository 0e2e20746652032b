package permissions

const ResourceActionLogs = "logging.actionlogs"

const ActionRead = "read"
