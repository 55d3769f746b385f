// File: errors.go
// Role: sentinel errors for the solver package, following the same
// sentinel-plus-wrapper convention as graph/errors.go.
package solver

import (
	"errors"
	"fmt"
)

// Configuration-time sentinel errors (spec.md §7 "Config errors").
var (
	// ErrDuplicateGraph indicates AddGraph was called with a name already
	// registered.
	ErrDuplicateGraph = errors.New("solver: duplicate graph")

	// ErrUnknownGraph indicates Solve referenced a graph name not present
	// in the registry.
	ErrUnknownGraph = errors.New("solver: unknown graph")

	// ErrEmptySwapGroup indicates AddSwappablePorts was called with fewer
	// than two port names.
	ErrEmptySwapGroup = errors.New("solver: swap group needs at least two ports")

	// ErrMalformedPermutation indicates AddSwappablePortsPermutation's "to"
	// list is not a permutation of its "from" list.
	ErrMalformedPermutation = errors.New("solver: malformed permutation")

	// ErrInitialMappingUnknownNode indicates a Solve call's initial mapping
	// referenced a needle or haystack node id absent from the respective
	// graph.
	ErrInitialMappingUnknownNode = errors.New("solver: initial mapping references unknown node")
)

func solverErrorf(method string, sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), sentinel)
}
