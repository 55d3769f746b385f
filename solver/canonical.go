// File: canonical.go
// Role: canonical labeling for subgraph deduplication during mining
// (spec.md §4.5, §9). For each candidate root, assign visitation-order
// local ids via a breadth-first walk (neighbors in NodeIndex order) and
// stringify the node/port/edge shape; take the lexicographically smallest
// string over all roots as the candidate's canonical signature.
//
// Known incompleteness (documented in spec.md §9, preserved deliberately
// per DESIGN.md): two candidates differing only in which of two
// electrically-shorted pins plays which structural role can collide or
// fail to collide under this signature. Because neighbors are visited in
// NodeIndex order rather than by a node signature, two isomorphic
// candidates whose nodes are numbered differently can also produce
// different signatures. Exact canonicalization would require solving a
// graph-automorphism problem this miner does not attempt.
package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/circuitiso/sgiso/graph"
)

// canonicalSignature returns a deterministic string such that two
// candidate graphs considered structurally identical by this miner's
// (deliberately incomplete) notion of isomorphism produce equal strings.
func canonicalSignature(g *graph.Graph) string {
	n := g.NodeCount()
	if n == 0 {
		return ""
	}
	best := ""
	for root := 0; root < n; root++ {
		sig := canonicalFromRoot(g, graph.NodeIndex(root))
		if best == "" || sig < best {
			best = sig
		}
	}
	return best
}

func canonicalFromRoot(g *graph.Graph, root graph.NodeIndex) string {
	localID := make(map[graph.NodeIndex]int, g.NodeCount())
	order := []graph.NodeIndex{root}
	localID[root] = 0
	queue := []graph.NodeIndex{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.Neighbors(cur) {
			if _, ok := localID[nb]; ok {
				continue
			}
			localID[nb] = len(order)
			order = append(order, nb)
			queue = append(queue, nb)
		}
	}
	// Nodes unreachable from root (disconnected candidate) still get a
	// local id so the signature stays total, appended in NodeIndex order.
	for i := 0; i < g.NodeCount(); i++ {
		ni := graph.NodeIndex(i)
		if _, ok := localID[ni]; !ok {
			localID[ni] = len(order)
			order = append(order, ni)
		}
	}

	var b strings.Builder
	for _, ni := range order {
		fmt.Fprintf(&b, "N%d:%s(", localID[ni], g.NodeType(ni))
		ports := g.Ports(ni)
		names := make([]string, len(ports))
		for i, p := range ports {
			names[i] = fmt.Sprintf("%s/%d", p.Name, p.Width)
		}
		b.WriteString(strings.Join(names, ","))
		b.WriteString(");")

		edges := make([]string, 0)
		for _, nb := range g.Neighbors(ni) {
			for _, e := range g.Bundle(ni, nb) {
				edges = append(edges, fmt.Sprintf("%d.%s[%d]-%d.%s[%d]", localID[ni], e.MyPort, e.MyBit, localID[nb], e.TheirPort, e.TheirBit))
			}
		}
		sort.Strings(edges)
		b.WriteString(strings.Join(edges, ","))
		b.WriteString("|")
	}
	return b.String()
}
