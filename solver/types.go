// File: types.go
// Role: public result and option shapes (spec.md §4.3, §6.3).
package solver

import "github.com/circuitiso/sgiso/graph"

// Result is one accepted injective mapping from a needle graph's nodes onto
// a haystack graph's nodes, produced by Solve (spec.md §4.4.6).
type Result struct {
	NeedleID   string
	HaystackID string

	// NodeMap maps every needle node id to the haystack node id it was
	// matched to.
	NodeMap map[string]string

	// PortMap maps, per needle node id, the needle's own port name to the
	// haystack port name it was matched against under the chosen port-swap
	// permutation (identity for unswapped ports; spec.md §6.3).
	PortMap map[string]map[string]string
}

// SolveOptions configures one Solve call. DefaultSolveOptions returns
// spec.md §4.3's documented defaults.
type SolveOptions struct {
	// AllowOverlap, when false, excludes haystack nodes already consumed by
	// an earlier accepted solution — both from a prior Solve call against
	// this haystack and from earlier solutions within this same call
	// (spec.md §4.4.6 "non-overlap").
	AllowOverlap bool

	// MaxSolutions caps the number of Results appended by this call.
	// Negative means unlimited.
	MaxSolutions int

	// InitialMappings pins a subset of needle node ids to specific
	// haystack node ids before the search begins (spec.md §4.4.1).
	InitialMappings map[string][]string
}

// DefaultSolveOptions returns {AllowOverlap: true, MaxSolutions: -1,
// InitialMappings: nil}.
func DefaultSolveOptions() SolveOptions {
	return SolveOptions{AllowOverlap: true, MaxSolutions: -1}
}

// MineOptions configures one Mine call (spec.md §4.5).
type MineOptions struct {
	MinNodes    int
	MaxNodes    int
	MinMatches  int
	PerGraphCap int // <= 0 means unlimited
}

// MineResult is one frequent candidate subcircuit and its match counts
// across the registered haystacks (spec.md §4.5).
type MineResult struct {
	NeedleID       string
	Needle         *graph.Graph
	TotalMatches   int
	PerGraphCounts map[string]int
}

// Hooks are user-supplied virtualization points (spec.md §4.3). Any nil
// field falls back to its documented default behavior.
type Hooks struct {
	// CompareNodes, if set, is ANDed with the built-in type-compatibility
	// check at the initial-filter stage. Default: always true.
	CompareNodes func(needle *graph.Graph, ni graph.NodeIndex, hay *graph.Graph, hi graph.NodeIndex) bool

	// CompareEdge, if set, is ANDed with the built-in connectivity check
	// each time the connection bundle between two nodes is checked.
	// Default: always true.
	CompareEdge func(needle *graph.Graph, from, to graph.NodeIndex, hay *graph.Graph, hfrom, hto graph.NodeIndex) bool

	// CheckSolution, if set, is the final gate before a full assignment is
	// accepted and emitted. Default: always true.
	CheckSolution func(res *Result) bool

	// AnnotateEdge, if set, is invoked as an observer once per ordered pair
	// of adjacent needle nodes of each accepted solution, after
	// CheckSolution passes. Default: no-op.
	AnnotateEdge func(needle *graph.Graph, from, to graph.NodeIndex, hay *graph.Graph, hfrom, hto graph.NodeIndex)
}

func (h Hooks) compareNodes(needle *graph.Graph, ni graph.NodeIndex, hay *graph.Graph, hi graph.NodeIndex) bool {
	if h.CompareNodes == nil {
		return true
	}
	return h.CompareNodes(needle, ni, hay, hi)
}

func (h Hooks) compareEdge(needle *graph.Graph, from, to graph.NodeIndex, hay *graph.Graph, hfrom, hto graph.NodeIndex) bool {
	if h.CompareEdge == nil {
		return true
	}
	return h.CompareEdge(needle, from, to, hay, hfrom, hto)
}

func (h Hooks) checkSolution(res *Result) bool {
	if h.CheckSolution == nil {
		return true
	}
	return h.CheckSolution(res)
}

func (h Hooks) annotateEdge(needle *graph.Graph, from, to graph.NodeIndex, hay *graph.Graph, hfrom, hto graph.NodeIndex) {
	if h.AnnotateEdge == nil {
		return
	}
	h.AnnotateEdge(needle, from, to, hay, hfrom, hto)
}
