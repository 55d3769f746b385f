// Package solver registers frozen graph.Graph netlists under string names
// and solves subgraph isomorphism between a small needle and a large
// haystack, plus mines frequent subcircuits across a corpus of haystacks.
//
// Solver holds the registry of graphs, compatibility tables (node types,
// constant drivers), port-swap permutation groups, overlap history, and
// user hooks (spec.md §4.3). Solve and Mine drive an internal Ullmann-style
// matcher: candidate-matrix refinement to a fixed point, then
// most-constrained-first backtracking with port-swap permutation search
// interleaved into each assignment (spec.md §4.4).
//
// The package builds on graph.Graph the way the reference corpus's flow
// package builds on core.Graph: an Options struct configures each entry
// point, and entry points return (value, error). See SPEC_FULL.md §6.3–6.5
// and DESIGN.md for the full grounding.
package solver
