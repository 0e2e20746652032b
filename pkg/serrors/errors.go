package serrors

import "fmt"

// Error is a coded error used by cross-cutting infrastructure where a stable
// machine-readable code matters more than the wrapped cause chain.
type Error struct {
	Code    string
	Message string
	DocsURL string
}

func NewError(code, message, docsURL string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		DocsURL: docsURL,
	}
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
