package container

import (
	"errors"
	"fmt"
	"strings"
)

// ── Error kinds ──────────────────────────────────────────────────────────────

var (
	// ErrNotFound is returned when no provider is registered for an identity.
	// It is never cached: registering the identity afterwards makes the next
	// Resolve succeed.
	ErrNotFound = errors.New("container: identity not registered")

	// ErrDuplicate is returned by Register in register-once mode when the
	// identity already has a provider.
	ErrDuplicate = errors.New("container: identity already registered")

	// ErrCycle is the kind matched by errors.Is for any CycleError.
	ErrCycle = errors.New("container: dependency cycle")
)

// CycleError reports an identity that transitively depends on itself.
// Path holds the resolution chain from the top-level identity down to the
// repeated one, e.g. ["a", "b", "a"].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// FactoryError wraps a failure signalled by a provider's construction routine.
// The cause is preserved verbatim and reachable through errors.Is/As.
type FactoryError struct {
	ID    string
	Cause error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("container: building %q: %v", e.ID, e.Cause)
}

func (e *FactoryError) Unwrap() error { return e.Cause }
