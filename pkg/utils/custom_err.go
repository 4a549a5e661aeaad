package utils

import (
	"errors"
	"fmt"
)

var (
	ErrLocationRequired  = errors.New("location required")
	ErrValidation        = errors.New("validation failed")
	ErrVisitNotFound     = errors.New("visit not found")
	ErrLocationNotFound  = errors.New("location not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrVisitAlreadyFinal = errors.New("visit already in a terminal state")
	ErrVisitConflict     = errors.New("visit was modified concurrently")
	ErrAgentBusy         = errors.New("agent already has a visit in progress")
	ErrDatabaseError     = errors.New("database error")
)

// PartialReconciliationError reports a tour-plan apply that stopped partway.
// Deleted/Added count the operations that reached the store before the failure.
type PartialReconciliationError struct {
	Deleted int
	Added   int
	Err     error
}

func (e *PartialReconciliationError) Error() string {
	return fmt.Sprintf("tour plan partially applied (%d deleted, %d added): %v", e.Deleted, e.Added, e.Err)
}

func (e *PartialReconciliationError) Unwrap() error {
	return e.Err
}
