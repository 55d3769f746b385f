// File: format.go
// Role: renders solver.Result values in the text format fixed by
// spec.md §6.3.
package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/circuitiso/sgiso/solver"
)

// writeMatch writes a single "Match #K: (...)" block, K being 1-based
// within the caller's numbering scheme.
func writeMatch(w io.Writer, k int, r solver.Result) {
	fmt.Fprintf(w, "Match #%d: (%s in %s)\n", k, r.NeedleID, r.HaystackID)

	needleNodes := make([]string, 0, len(r.NodeMap))
	for n := range r.NodeMap {
		needleNodes = append(needleNodes, n)
	}
	sort.Strings(needleNodes)

	for _, nn := range needleNodes {
		hn := r.NodeMap[nn]
		fmt.Fprintf(w, "  %s -> %s  %s\n", nn, hn, formatPortPairs(r.PortMap[nn]))
	}
}

// formatPortPairs renders "NP1:HP1 NP2:HP2 ..." sorted by needle port name
// for determinism.
func formatPortPairs(ports map[string]string) string {
	names := make([]string, 0, len(ports))
	for np := range ports {
		names = append(names, np)
	}
	sort.Strings(names)

	out := ""
	for i, np := range names {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s:%s", np, ports[np])
	}
	return out
}

// writeMineResults renders the output of a `mine` command. The shell
// grammar (spec.md §6.2) does not fix a text format for mine — there is no
// per-match node_map to print, only aggregate candidate statistics — so this
// follows the same header style as writeMatch for consistency.
func writeMineResults(w io.Writer, results []solver.MineResult) {
	for i, r := range results {
		fmt.Fprintf(w, "Candidate #%d: %s (%d nodes, %d total matches)\n",
			i+1, r.NeedleID, r.Needle.NodeCount(), r.TotalMatches)

		names := make([]string, 0, len(r.PerGraphCounts))
		for n := range r.PerGraphCounts {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "  %s: %d\n", n, r.PerGraphCounts[n])
		}
	}
}
