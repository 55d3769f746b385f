// File: miner.go
// Role: frequent-subcircuit mining (spec.md §4.5). Grows connected
// candidate node sets by BFS from every seed node of every registered
// haystack (adapted from bfs/bfs.go's queue-and-visited walker), dedups
// them by canonical signature, materializes each as an induced-subgraph
// graph.Graph, and counts matches across the full haystack corpus by
// reusing the matcher engine with allow_overlap=true.
//
// Coverage note: growing a single BFS order per seed and taking its
// length-k prefixes samples one connected subgraph shape per (seed, size)
// rather than enumerating every connected induced subgraph of that size.
// This bounds mining cost to O(nodes x maxNodes) candidates per haystack
// instead of combinatorial enumeration, at the cost of missing some
// shapes — an explicit scope tradeoff, not an oversight.
package solver

import (
	"fmt"
	"sort"

	"github.com/circuitiso/sgiso/graph"
)

// Mine grows candidate subcircuits from every registered haystack and
// returns those whose total match count across the corpus meets
// opts.MinMatches.
func (s *Solver) Mine(opts MineOptions) ([]MineResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.graphs))
	for name := range s.graphs {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	var candidates []*graph.Graph
	for _, name := range names {
		g := s.graphs[name]
		for seed := 0; seed < g.NodeCount(); seed++ {
			order := bfsOrder(g, graph.NodeIndex(seed), opts.MaxNodes)
			maxK := opts.MaxNodes
			if len(order) < maxK {
				maxK = len(order)
			}
			for k := opts.MinNodes; k <= maxK; k++ {
				if k < 1 {
					continue
				}
				nodes := order[:k]
				cand := buildInducedSubgraph(g, nodes)
				sig := canonicalSignature(cand)
				if seen[sig] {
					continue
				}
				seen[sig] = true
				candidates = append(candidates, cand)
			}
		}
	}

	perGraphCap := opts.PerGraphCap
	if perGraphCap <= 0 {
		perGraphCap = -1
	}

	var out []MineResult
	for idx, cand := range candidates {
		ephemeralID := fmt.Sprintf("mine#%d", idx)
		perGraph := make(map[string]int, len(names))
		total := 0
		for _, name := range names {
			hayG := s.graphs[name]
			found, err := s.runMatch(cand, hayG, ephemeralID, name, SolveOptions{AllowOverlap: true, MaxSolutions: perGraphCap})
			if err != nil {
				return nil, err
			}
			perGraph[name] = len(found)
			total += len(found)
		}
		if total < opts.MinMatches {
			continue
		}
		out = append(out, MineResult{
			NeedleID:       ephemeralID,
			Needle:         cand,
			TotalMatches:   total,
			PerGraphCounts: perGraph,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalMatches != out[j].TotalMatches {
			return out[i].TotalMatches > out[j].TotalMatches
		}
		return out[i].NeedleID < out[j].NeedleID
	})
	return out, nil
}

// bfsOrder returns up to maxNodes nodes reachable from seed in BFS
// visitation order (seed first).
func bfsOrder(g *graph.Graph, seed graph.NodeIndex, maxNodes int) []graph.NodeIndex {
	if maxNodes < 1 {
		return nil
	}
	visited := map[graph.NodeIndex]bool{seed: true}
	order := []graph.NodeIndex{seed}
	queue := []graph.NodeIndex{seed}
	for len(queue) > 0 && len(order) < maxNodes {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.Neighbors(cur) {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			order = append(order, nb)
			queue = append(queue, nb)
			if len(order) >= maxNodes {
				break
			}
		}
	}
	return order
}

// buildInducedSubgraph materializes the subgraph induced by nodes as a
// fresh graph.Graph: same node types/ports/constants, connections only
// between included nodes, and every signal touching an excluded node (or
// already extern in g) marked extern on the boundary.
func buildInducedSubgraph(g *graph.Graph, nodes []graph.NodeIndex) *graph.Graph {
	included := make(map[graph.NodeIndex]bool, len(nodes))
	for _, n := range nodes {
		included[n] = true
	}

	b := graph.NewBuilder()
	for _, n := range nodes {
		id := g.NodeID(n)
		_ = b.CreateNode(id, g.NodeType(n), g.NodeUserData(n), g.NodeShareable(n))
		for _, p := range g.Ports(n) {
			_ = b.CreatePortMinWidth(id, p.Name, p.Width, p.MinWidth)
		}
	}

	for ii, n1 := range nodes {
		for _, n2 := range nodes[ii+1:] {
			for _, e := range g.Bundle(n1, n2) {
				_ = b.ConnectBit(g.NodeID(n1), e.MyPort, e.MyBit, g.NodeID(n2), e.TheirPort, e.TheirBit)
			}
		}
	}

	for _, n := range nodes {
		id := g.NodeID(n)
		for _, p := range g.Ports(n) {
			for bit := 0; bit < p.Width; bit++ {
				sidx, ok := g.SignalOfBit(n, p.Name, bit)
				if !ok {
					continue
				}
				if c, has := g.SignalConst(sidx); has {
					_ = b.CreateConstant(id, p.Name, bit, c)
				}
				boundary := g.SignalExtern(sidx)
				if !boundary {
					for _, toucher := range g.SignalTouchers(sidx) {
						if !included[toucher.Node] {
							boundary = true
							break
						}
					}
				}
				if boundary {
					_ = b.MarkExternBit(id, p.Name, bit)
				}
			}
		}
	}

	return b.Freeze()
}
