package authz

import (
	"errors"
	"fmt"
)

// ErrForbidden is the sentinel wrapped by every denial.
var ErrForbidden = errors.New("forbidden")

func forbiddenError(req Request) error {
	return fmt.Errorf("%w: subject=%s object=%s action=%s", ErrForbidden, req.Subject, req.Object, req.Action)
}

// IsForbidden reports whether err stems from an authorization denial.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
