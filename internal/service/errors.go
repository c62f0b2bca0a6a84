package service

import (
	"fmt"

	"github.com/alexanderramin/planops/internal/domain"
)

// PropagationError is returned when a bulk plan write stops part way. Batches
// before the failing one stay committed.
type PropagationError struct {
	Committed int
	Cause     error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("propagation stopped after %d committed plans: %v", e.Committed, e.Cause)
}

func (e *PropagationError) Unwrap() error {
	return e.Cause
}

func formatValidationErrors(what string, errs []error) error {
	msg := fmt.Sprintf("%s validation failed (%d errors):", what, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s: %w", msg, domain.ErrInvalid)
}
