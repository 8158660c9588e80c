package domain

import "fmt"

// ConflictError signals contention on a shared resource: a busy property
// lock, missing or incomplete availability, or a concurrent status change.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError signals a missing booking or property.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// BookingError signals a business-rule violation: an unauthorized actor or
// an invalid status transition.
type BookingError struct {
	Reason string
}

func (e *BookingError) Error() string { return e.Reason }

func Bookingf(format string, args ...any) *BookingError {
	return &BookingError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError signals malformed caller input such as inverted date
// ranges or past start dates.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
