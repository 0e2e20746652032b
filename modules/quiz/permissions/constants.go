package permissions

const (
	ResourceQuizzes = "quiz.quizzes"
)

const (
	ActionRead   = "read"
	ActionSubmit = "submit"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)
