// File: errors.go
// Role: sentinel errors for the graph package.
//
// Error policy:
//   - Only sentinel variables are exported.
//   - Callers branch with errors.Is(err, ErrX), never string matching.
//   - Sentinels are never formatted at definition site; call sites wrap
//     them with graphErrorf to attach method/argument context via %w.
package graph

import (
	"errors"
	"fmt"
)

// Build-time sentinel errors (spec.md §7 "Build errors").
var (
	// ErrDuplicateNode indicates CreateNode was called with an ID already
	// present in this graph.
	ErrDuplicateNode = errors.New("graph: duplicate node")

	// ErrUnknownNode indicates an operation referenced a node ID that does
	// not exist in this graph.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrDuplicatePort indicates CreatePort was called with a name already
	// present on that node.
	ErrDuplicatePort = errors.New("graph: duplicate port")

	// ErrUnknownPort indicates an operation referenced a port name that
	// does not exist on the given node.
	ErrUnknownPort = errors.New("graph: unknown port")

	// ErrBadWidth indicates a declared port width < 1.
	ErrBadWidth = errors.New("graph: bad width")

	// ErrBadMinWidth indicates min_width > width or min_width < 1.
	ErrBadMinWidth = errors.New("graph: bad min width")

	// ErrBitOutOfRange indicates a bit index outside [0, width).
	ErrBitOutOfRange = errors.New("graph: bit out of range")

	// ErrWidthMismatch indicates a full-port connection between ports of
	// unequal declared width.
	ErrWidthMismatch = errors.New("graph: width mismatch")

	// ErrConstantConflict indicates a Signal would carry two distinct
	// constant driver characters.
	ErrConstantConflict = errors.New("graph: constant conflict")
)

// graphErrorf wraps a sentinel with call-site context, preserving it for
// errors.Is while adding a human-readable prefix.
func graphErrorf(method string, sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), sentinel)
}
