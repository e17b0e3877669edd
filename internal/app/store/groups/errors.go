// internal/app/store/groups/errors.go
package groupstore

import (
	"errors"
	"fmt"
)

// Base error kinds. Callers classify failures with errors.Is against
// these; the more specific sentinels below wrap them.
var (
	// ErrValidation marks malformed input: empty name, unknown type,
	// unknown role.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a referenced group, user, or membership that
	// does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrCycle is returned when a re-parent would make a group its own
	// ancestor.
	ErrCycle = errors.New("re-parenting would create a cycle")

	// ErrIntegrity marks a detected invariant violation (a cycle in a
	// stored parent chain). It indicates a prior bug, never a normal
	// outcome.
	ErrIntegrity = errors.New("hierarchy integrity violation")

	// ErrConflict is returned when a mutation repeatedly loses the
	// optimistic version check to concurrent writers. The operation had
	// no effect; retrying is up to the caller.
	ErrConflict = errors.New("concurrent modification")
)

var (
	ErrGroupNotFound  = fmt.Errorf("group %w", ErrNotFound)
	ErrParentNotFound = fmt.Errorf("parent group %w", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("membership %w", ErrNotFound)
)

// ValidationError reports which field of an input failed and why.
// It unwraps to ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
