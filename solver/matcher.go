// File: matcher.go
// Role: the Ullmann-style subgraph isomorphism engine (spec.md §4.4).
//
// Stages:
//  1. Initial filter (§4.4.2): type compatibility, port width/min-width
//     containment, user compare_nodes hook, initial mapping, overlap
//     history. Permutation-free (see DESIGN.md "Open Question decisions").
//  2. Fixed-point refinement (§4.4.3): repeatedly drop any candidate
//     (i, j) for which some needle neighbor i' has no remaining haystack
//     candidate embeddable under some permutation pair.
//  3. Backtracking search (§4.4.4, §4.4.6): most-constrained-needle-node-
//     first variable ordering; each needle edge is validated exactly once,
//     when its later-assigned endpoint commits to a haystack node and
//     permutation, against the already-fixed other endpoint.
//  4. Extern containment (§4.4.5) and the user check_solution hook gate
//     each full assignment before it is emitted.
package solver

import (
	"github.com/sirupsen/logrus"

	"github.com/circuitiso/sgiso/graph"
)

// Solve appends every accepted mapping from needleID onto haystackID to
// results, honoring opts.
//
// Errors: ErrUnknownGraph, ErrInitialMappingUnknownNode.
func (s *Solver) Solve(results *[]Result, needleID, haystackID string, opts SolveOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle, err := s.graphByName(needleID)
	if err != nil {
		return err
	}
	hay, err := s.graphByName(haystackID)
	if err != nil {
		return err
	}

	found, err := s.runMatch(needle, hay, needleID, haystackID, opts)
	if err != nil {
		return err
	}
	*results = append(*results, found...)
	return nil
}

// runMatch is the unexported engine entry point shared by Solve and
// Mine. Callers must hold s.mu (write lock: it may populate s.permCache
// and s.overlap).
func (s *Solver) runMatch(needle, hay *graph.Graph, needleID, haystackID string, opts SolveOptions) ([]Result, error) {
	n := needle.NodeCount()
	h := hay.NodeCount()

	log := s.log.WithField("needle", needleID).WithField("haystack", haystackID)

	c := &matchCtx{
		sv:         s,
		needle:     needle,
		hay:        hay,
		needleID:   needleID,
		haystackID: haystackID,
		opts:       opts,
		matrix:     newCandidateMatrix(n, h),
		perms:      make([][]Permutation, n),
		assignedTo: make([]int, n),
		assignedP:  make([]int, n),
		usedHay:    make([]bool, h),
		forbidden:  make([]bool, h),
		consumedAcrossCall: make(map[graph.NodeIndex]bool),
		log:        log,
	}
	for i := range c.assignedTo {
		c.assignedTo[i] = -1
		c.assignedP[i] = -1
	}

	if consumed := s.overlap[haystackID]; consumed != nil {
		for j := range consumed {
			c.forbidden[int(j)] = true
		}
	}

	for i := 0; i < n; i++ {
		c.perms[i] = s.permutationsFor(needle.NodeType(graph.NodeIndex(i)))
	}

	if err := c.applyInitialMapping(opts.InitialMappings); err != nil {
		return nil, err
	}
	if err := c.initialFilter(); err != nil {
		return nil, err
	}
	c.refineToFixpoint()

	c.capHit = opts.MaxSolutions == 0
	c.backtrack()

	if !opts.AllowOverlap && len(c.results) > 0 {
		set := s.overlap[haystackID]
		if set == nil {
			set = make(map[graph.NodeIndex]bool)
			s.overlap[haystackID] = set
		}
		for j := range c.consumedAcrossCall {
			set[j] = true
		}
	}

	log.WithField("count", len(c.results)).Debug("solve complete")
	return c.results, nil
}

// matchCtx holds all mutable state for a single Solve/Mine invocation.
type matchCtx struct {
	sv         *Solver
	needle     *graph.Graph
	hay        *graph.Graph
	needleID   string
	haystackID string
	opts       SolveOptions

	matrix *candidateMatrix
	perms  [][]Permutation // per needle NodeIndex

	assignedTo []int // needle node -> haystack NodeIndex, -1 unassigned
	assignedP  []int // needle node -> index into perms[i], -1 unassigned
	usedHay    []bool
	forbidden  []bool // haystack nodes excluded for the rest of this call

	results            []Result
	consumedAcrossCall map[graph.NodeIndex]bool
	capHit             bool

	log *logrus.Entry
}

// applyInitialMapping checks that every needle and haystack node id named
// in the initial mapping exists (spec.md §4.4.1); initialFilter then
// applies the restriction through initialMappingAllows.
func (c *matchCtx) applyInitialMapping(initial map[string][]string) error {
	if len(initial) == 0 {
		return nil
	}
	for needleNodeID, hayIDs := range initial {
		if _, ok := c.needle.NodeByID(needleNodeID); !ok {
			return solverErrorf("Solve", ErrInitialMappingUnknownNode, "needle node=%q", needleNodeID)
		}
		for _, hayNodeID := range hayIDs {
			if _, ok := c.hay.NodeByID(hayNodeID); !ok {
				return solverErrorf("Solve", ErrInitialMappingUnknownNode, "haystack node=%q", hayNodeID)
			}
		}
	}
	return nil
}

// initialMappingAllows reports whether haystack node j is among the
// requested candidates for needle node i (or there was no restriction).
func (c *matchCtx) initialMappingAllows(i int, j int) bool {
	if len(c.opts.InitialMappings) == 0 {
		return true
	}
	needleID := c.needle.NodeID(graph.NodeIndex(i))
	allowed, restricted := c.opts.InitialMappings[needleID]
	if !restricted {
		return true
	}
	hayID := c.hay.NodeID(graph.NodeIndex(j))
	for _, id := range allowed {
		if id == hayID {
			return true
		}
	}
	return false
}

// initialFilter fills the candidate matrix from type/port/overlap/hook
// checks (spec.md §4.4.2), with no permutation applied.
func (c *matchCtx) initialFilter() error {
	n := c.needle.NodeCount()
	h := c.hay.NodeCount()
	for i := 0; i < n; i++ {
		ni := graph.NodeIndex(i)
		needleType := c.needle.NodeType(ni)
		needlePorts := c.needle.Ports(ni)
		for j := 0; j < h; j++ {
			hj := graph.NodeIndex(j)
			if c.forbidden[j] {
				continue
			}
			if !c.initialMappingAllows(i, j) {
				continue
			}
			if !c.sv.typeCompatible(needleType, c.hay.NodeType(hj)) {
				continue
			}
			if !c.sv.hooks.compareNodes(c.needle, ni, c.hay, hj) {
				continue
			}
			if !portsContain(c.hay, hj, needlePorts) {
				continue
			}
			c.matrix.Set(i, j, true)
		}
	}
	return nil
}

// portsContain reports whether haystack node hj declares every port in
// needlePorts with a haystack width in [minWidth, width] (spec.md §4.4.2.2
// width subtyping).
func portsContain(hay *graph.Graph, hj graph.NodeIndex, needlePorts []graph.PortSpec) bool {
	for _, np := range needlePorts {
		hp, ok := hay.PortSpecOf(hj, np.Name)
		if !ok {
			return false
		}
		if hp.Width < np.MinWidth || hp.Width > np.Width {
			return false
		}
	}
	return true
}

// refineToFixpoint repeatedly drops candidates whose neighbor bundles
// cannot be embedded under any permutation pair into any remaining
// candidate of the corresponding needle neighbor, until no row changes
// (spec.md §4.4.3).
func (c *matchCtx) refineToFixpoint() {
	n := c.needle.NodeCount()
	for {
		changed := false
		for i := 0; i < n; i++ {
			ni := graph.NodeIndex(i)
			for j := 0; j < c.matrix.cols; j++ {
				if !c.matrix.Get(i, j) {
					continue
				}
				if !c.neighborsEmbeddable(ni, graph.NodeIndex(j)) {
					c.matrix.Set(i, j, false)
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// neighborsEmbeddable reports whether, for every needle neighbor of ni,
// there remains at least one haystack candidate of that neighbor into
// which ni's bundle can be embedded under some permutation pair.
func (c *matchCtx) neighborsEmbeddable(ni, hj graph.NodeIndex) bool {
	for _, neighbor := range c.needle.Neighbors(ni) {
		bundle := c.needle.Bundle(ni, neighbor)
		ok := false
		for j2 := 0; j2 < c.matrix.cols; j2++ {
			if !c.matrix.Get(int(neighbor), j2) {
				continue
			}
			if c.existsEmbedding(ni, neighbor, bundle, hj, graph.NodeIndex(j2)) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// existsEmbedding reports whether some permutation pair (one for ni, one
// for neighbor) embeds bundle(ni,neighbor) into bundle(hj,hj2).
func (c *matchCtx) existsEmbedding(ni, neighbor graph.NodeIndex, bundle []graph.ConnPair, hj, hj2 graph.NodeIndex) bool {
	hayBundle := c.hay.Bundle(hj, hj2)
	for _, pMine := range c.perms[ni] {
		for _, pTheir := range c.perms[neighbor] {
			if bundleEmbeds(c.sv, c.needle, ni, neighbor, pMine, pTheir, c.hay, hj, hj2, bundle, hayBundle) {
				return true
			}
		}
	}
	return false
}

// bundleEmbeds checks every ConnPair of bundle has a matching haystack
// ConnPair (same permuted port names and bit indices), with both endpoints'
// constant compatibility satisfied (spec.md §4.4.5) and the user
// compare_edge hook passing.
func bundleEmbeds(sv *Solver, needle *graph.Graph, ni, neighbor graph.NodeIndex, pMine, pTheir Permutation, hay *graph.Graph, hj, hj2 graph.NodeIndex, bundle, hayBundle []graph.ConnPair) bool {
	if !sv.hooks.compareEdge(needle, ni, neighbor, hay, hj, hj2) {
		return false
	}
	for _, e := range bundle {
		myPort := pMine.apply(e.MyPort)
		theirPort := pTheir.apply(e.TheirPort)
		found := false
		for _, he := range hayBundle {
			if he.MyPort != myPort || he.MyBit != e.MyBit || he.TheirPort != theirPort || he.TheirBit != e.TheirBit {
				continue
			}
			if !endpointConstantsCompatible(sv, needle, ni, e.MyPort, e.MyBit, hay, hj, he.MyPort, he.MyBit) {
				continue
			}
			if !endpointConstantsCompatible(sv, needle, neighbor, e.TheirPort, e.TheirBit, hay, hj2, he.TheirPort, he.TheirBit) {
				continue
			}
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}

// endpointConstantsCompatible applies spec.md §4.4.5's constant rule: a
// needle bit with a constant requires a compatible constant on the
// haystack bit; a needle bit with no constant matches anything.
func endpointConstantsCompatible(sv *Solver, needle *graph.Graph, nn graph.NodeIndex, nPort string, nBit int, hay *graph.Graph, hn graph.NodeIndex, hPort string, hBit int) bool {
	ns, ok := needle.SignalOfBit(nn, nPort, nBit)
	if !ok {
		return false
	}
	nc, nHas := needle.SignalConst(ns)
	if !nHas {
		return true
	}
	hs, ok := hay.SignalOfBit(hn, hPort, hBit)
	if !ok {
		return false
	}
	hc, hHas := hay.SignalConst(hs)
	if !hHas {
		return false
	}
	return sv.constCompatible(nc, hc)
}
