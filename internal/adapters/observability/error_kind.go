package observability

import (
	"errors"

	"kitchen/internal/pkg/errs"
)

// ErrorKind names the error family of err for metric attributes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, errs.ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, errs.ErrAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return "conflict"
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return "validation"
	default:
		return "internal"
	}
}
