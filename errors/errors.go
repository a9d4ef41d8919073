package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrValidation        = fmt.Errorf("validation failed")
	ErrNotFound          = fmt.Errorf("not found")
	ErrForbidden         = fmt.Errorf("caller is not a member of the chat")
	ErrEditWindowExpired = fmt.Errorf("edit window expired")
	ErrStorage           = fmt.Errorf("storage failure")
	ErrPartialFailure    = fmt.Errorf("partial failure")
	ErrUnauthenticated   = fmt.Errorf("unauthenticated")
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindPolicyViolation Kind = "policy_violation"
	KindStorage         Kind = "storage"
	KindPartialFailure  Kind = "partial_failure"
	KindUnauthenticated Kind = "unauthenticated"
	KindInternal        Kind = "internal"
)

// OpError carries the operation and identifiers an error happened on.
type OpError struct {
	Op        string
	ChatID    string
	MessageID string
	Err       error
}

func (e *OpError) Error() string {
	switch {
	case e.MessageID != "":
		return fmt.Sprintf("%s chat=%s message=%s: %v", e.Op, e.ChatID, e.MessageID, e.Err)
	case e.ChatID != "":
		return fmt.Sprintf("%s chat=%s: %v", e.Op, e.ChatID, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *OpError) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Storage wraps a persistence error unless it is already classified.
func Storage(err error) error {
	if err == nil || KindOf(err) != KindInternal {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrValidation):
		return KindValidation
	case stderrors.Is(err, ErrNotFound):
		return KindNotFound
	case stderrors.Is(err, ErrForbidden):
		return KindForbidden
	case stderrors.Is(err, ErrEditWindowExpired):
		return KindPolicyViolation
	case stderrors.Is(err, ErrPartialFailure):
		return KindPartialFailure
	case stderrors.Is(err, ErrStorage):
		return KindStorage
	case stderrors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	default:
		return KindInternal
	}
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// PolicyViolation is returned when the mutability window of a message has expired.
type PolicyViolation struct {
	Reason string
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("%v: %s", ErrEditWindowExpired, e.Reason)
}

func (e *PolicyViolation) Unwrap() error { return ErrEditWindowExpired }
