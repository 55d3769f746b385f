// File: backtrack.go
// Role: the most-constrained-first backtracking search over matchCtx's
// candidate matrix (spec.md §4.4.4, §4.4.6).
package solver

import "github.com/circuitiso/sgiso/graph"

// backtrack runs the search to completion (or until the solution cap is
// hit). Results are appended to c.results as they are accepted.
func (c *matchCtx) backtrack() {
	if c.capHit {
		return
	}
	i, ok := c.pickMostConstrained()
	if !ok {
		c.emitIfFull()
		return
	}
	if c.matrix.RowCount(i) == 0 {
		return // dead branch: an unassigned node has no candidates left
	}

	for j := 0; j < c.matrix.cols; j++ {
		if c.capHit {
			return
		}
		if !c.matrix.Get(i, j) || c.usedHay[j] || c.forbidden[j] {
			continue
		}
		// The first permutation that passes the forward check is fixed for
		// this branch; later permutations are only tried if it fails.
		for from := 0; ; {
			permIdx, ok := c.choosePermutation(i, j, from)
			if !ok {
				break
			}

			snap := c.matrix.Snapshot()
			c.assignedTo[i] = j
			c.assignedP[i] = permIdx
			c.usedHay[j] = true

			fits := c.forwardCheck(i)
			if fits {
				c.backtrack()
			}

			c.assignedTo[i] = -1
			c.assignedP[i] = -1
			c.usedHay[j] = false
			c.matrix.Restore(snap)
			if fits {
				break
			}
			from = permIdx + 1
		}
	}
}

// pickMostConstrained returns the unassigned needle node with the smallest
// remaining candidate count, or ok=false if every node is assigned.
func (c *matchCtx) pickMostConstrained() (int, bool) {
	best := -1
	bestCount := -1
	for i := 0; i < c.needle.NodeCount(); i++ {
		if c.assignedTo[i] != -1 {
			continue
		}
		cnt := c.matrix.RowCount(i)
		if best == -1 || cnt < bestCount {
			best, bestCount = i, cnt
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// choosePermutation finds the first permutation in perms[i], at index from
// or later, consistent with every already-assigned needle neighbor of i,
// checking each such edge exactly once (spec.md §4.4.4 "checked exactly
// once").
func (c *matchCtx) choosePermutation(i, j, from int) (int, bool) {
	ni := graph.NodeIndex(i)
	hj := graph.NodeIndex(j)
	for permIdx := from; permIdx < len(c.perms[i]); permIdx++ {
		pMine := c.perms[i][permIdx]
		ok := true
		for _, neighbor := range c.needle.Neighbors(ni) {
			if c.assignedTo[neighbor] == -1 {
				continue
			}
			hNeighbor := graph.NodeIndex(c.assignedTo[neighbor])
			pTheir := c.perms[neighbor][c.assignedP[neighbor]]
			bundle := c.needle.Bundle(ni, neighbor)
			hayBundle := c.hay.Bundle(hj, hNeighbor)
			if !bundleEmbeds(c.sv, c.needle, ni, neighbor, pMine, pTheir, c.hay, hj, hNeighbor, bundle, hayBundle) {
				ok = false
				break
			}
		}
		if ok {
			return permIdx, true
		}
	}
	return -1, false
}

// forwardCheck prunes the domains of i's unassigned needle neighbors given
// i's new assignment, returning false if any such domain becomes empty.
// This is a pruning optimization, not a correctness requirement: any
// violation it misses is still caught by choosePermutation when that
// neighbor is assigned (spec.md §4.4.4).
func (c *matchCtx) forwardCheck(i int) bool {
	ni := graph.NodeIndex(i)
	hj := graph.NodeIndex(c.assignedTo[i])
	pMine := c.perms[i][c.assignedP[i]]
	for _, neighbor := range c.needle.Neighbors(ni) {
		if c.assignedTo[neighbor] != -1 {
			continue
		}
		bundle := c.needle.Bundle(neighbor, ni)
		for j2 := 0; j2 < c.matrix.cols; j2++ {
			if !c.matrix.Get(int(neighbor), j2) {
				continue
			}
			hayBundle := c.hay.Bundle(graph.NodeIndex(j2), hj)
			feasible := false
			for _, pTheir := range c.perms[neighbor] {
				if bundleEmbeds(c.sv, c.needle, neighbor, ni, pTheir, pMine, c.hay, graph.NodeIndex(j2), hj, bundle, hayBundle) {
					feasible = true
					break
				}
			}
			if !feasible {
				c.matrix.Set(int(neighbor), j2, false)
			}
		}
		if c.matrix.RowCount(int(neighbor)) == 0 {
			return false
		}
	}
	return true
}

// emitIfFull runs the non-overlap check (when overlap is disallowed), the
// extern-containment check and the user check_solution hook on a complete
// assignment, and if all pass, builds and appends a Result, updating
// overlap bookkeeping and the solution cap.
func (c *matchCtx) emitIfFull() {
	if !c.opts.AllowOverlap {
		for i := 0; i < c.needle.NodeCount(); i++ {
			if c.forbidden[c.assignedTo[i]] {
				return // a node fixed on this branch was consumed by an earlier solution
			}
		}
	}
	if !c.externContainmentOK() {
		return
	}
	res := c.buildResult()
	if !c.sv.hooks.checkSolution(&res) {
		return
	}

	for i := 0; i < c.needle.NodeCount(); i++ {
		ni := graph.NodeIndex(i)
		for _, neighbor := range c.needle.Neighbors(ni) {
			c.sv.hooks.annotateEdge(c.needle, ni, neighbor, c.hay, graph.NodeIndex(c.assignedTo[i]), graph.NodeIndex(c.assignedTo[int(neighbor)]))
		}
	}

	c.results = append(c.results, res)

	if !c.opts.AllowOverlap {
		for i := 0; i < c.needle.NodeCount(); i++ {
			if c.needle.NodeShareable(graph.NodeIndex(i)) {
				continue
			}
			j := graph.NodeIndex(c.assignedTo[i])
			c.forbidden[int(j)] = true
			c.consumedAcrossCall[j] = true
		}
	}

	if c.opts.MaxSolutions >= 0 && len(c.results) >= c.opts.MaxSolutions {
		c.capHit = true
	}
}

// externContainmentOK implements spec.md §4.4.5: every needle-internal
// (non-extern) Signal must map onto a haystack Signal whose only touchers
// outside the mapped node set are on haystack-extern signals (or there are
// none). Needle bits beyond the width of a narrower haystack port have no
// haystack image and are skipped.
func (c *matchCtx) externContainmentOK() bool {
	used := make(map[graph.NodeIndex]bool, c.needle.NodeCount())
	for i := 0; i < c.needle.NodeCount(); i++ {
		used[graph.NodeIndex(c.assignedTo[i])] = true
	}

	for s := 0; s < c.needle.SignalCount(); s++ {
		sig := graph.SignalIndex(s)
		if c.needle.SignalExtern(sig) {
			continue
		}
		for _, bit := range c.needle.SignalTouchers(sig) {
			hj := graph.NodeIndex(c.assignedTo[int(bit.Node)])
			portName := c.perms[int(bit.Node)][c.assignedP[int(bit.Node)]].apply(c.portNameOf(bit))
			hs, ok := c.hay.SignalOfBit(hj, portName, bit.Bit)
			if !ok {
				continue
			}
			if c.hay.SignalExtern(hs) {
				continue
			}
			for _, htoucher := range c.hay.SignalTouchers(hs) {
				if !used[htoucher.Node] {
					return false
				}
			}
		}
	}
	return true
}

func (c *matchCtx) portNameOf(b graph.Bit) string {
	ports := c.needle.Ports(b.Node)
	if int(b.Port) < 0 || int(b.Port) >= len(ports) {
		return ""
	}
	return ports[b.Port].Name
}

// buildResult materializes the current full assignment as a Result,
// including the per-node port map under each node's chosen permutation
// (spec.md §6.3).
func (c *matchCtx) buildResult() Result {
	res := Result{
		NeedleID:   c.needleID,
		HaystackID: c.haystackID,
		NodeMap:    make(map[string]string, c.needle.NodeCount()),
		PortMap:    make(map[string]map[string]string, c.needle.NodeCount()),
	}
	for i := 0; i < c.needle.NodeCount(); i++ {
		ni := graph.NodeIndex(i)
		hj := graph.NodeIndex(c.assignedTo[i])
		res.NodeMap[c.needle.NodeID(ni)] = c.hay.NodeID(hj)

		perm := c.perms[i][c.assignedP[i]]
		ports := make(map[string]string, len(c.needle.Ports(ni)))
		for _, p := range c.needle.Ports(ni) {
			ports[p.Name] = perm.apply(p.Name)
		}
		res.PortMap[c.needle.NodeID(ni)] = ports
	}
	return res
}
