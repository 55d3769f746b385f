// Package sgiso is the module root for a subgraph-isomorphism matcher over
// attributed hypergraph netlists: given a small "needle" graph describing a
// logic pattern and a larger "haystack" graph describing a circuit, it
// enumerates every injective node mapping that preserves node-type
// compatibility and signal connectivity.
//
// The module is organized as:
//
//	graph/       — InternalGraph: nodes, ports, per-bit Signal equivalence
//	               classes built via union-find, frozen into an
//	               integer-indexed immutable Graph
//	solver/      — Solver: graph registry, compatibility/swap configuration,
//	               the Ullmann-style matcher, and the frequent-subcircuit
//	               miner built on top of it
//	cmd/scshell/ — a thin line-oriented driver over Solver, for scripting
//	               matches and mining runs from a text protocol
//
// See graph.Builder for constructing graphs and solver.Solver for running
// matches and mining.
package sgiso
