package worksession

type LoggedEvent struct {
	Result *WorkSession
}

type UpdatedEvent struct {
	Result *WorkSession
}
