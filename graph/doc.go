// Package graph builds and freezes attributed hypergraph netlists: small
// logic-pattern needles and large circuit haystacks alike.
//
// A Builder accepts string-keyed nodes, ports, bit-level connections,
// constant drivers, and externality marks. Freeze collapses the builder's
// union-find over bits into contiguous signal equivalence classes and
// produces an immutable Graph addressed entirely by integer indices
// (NodeIndex, PortIndex, SignalIndex) — the representation the solver
// package's matcher and miner operate on.
//
// Everything here is string-keyed on the way in (for external stability)
// and integer-keyed on the way out (for matcher performance); see
// SPEC_FULL.md §5–6 for the full data model.
package graph
