// File: permutation.go
// Role: port-swap permutation groups (spec.md §4.3 "swap groups", §4.4.4).
//
// A Permutation maps a needle node's own port name to the port name it is
// matched against on the haystack side. Ports absent from the map are
// identity. Permutation is built, composed, and deduplicated once per node
// type per Solve call, never recomputed per candidate assignment.
package solver

import "sort"

// Permutation renames ports; a missing key means identity for that port.
type Permutation map[string]string

func (p Permutation) apply(port string) string {
	if p == nil {
		return port
	}
	if v, ok := p[port]; ok {
		return v
	}
	return port
}

// signature returns a canonical string for deduplication: sorted
// "from=to;" pairs, skipping identity entries, so two maps with the same
// effective renaming compare equal regardless of incidental identity
// entries.
func (p Permutation) signature() string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if k == v {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]byte, 0, 16*len(keys))
	for _, k := range keys {
		out = append(out, k...)
		out = append(out, '=')
		out = append(out, p[k]...)
		out = append(out, ';')
	}
	return string(out)
}

// compose returns the permutation applying inner first, then outer:
// result(x) = outer(inner(x)).
func compose(outer, inner Permutation) Permutation {
	out := make(Permutation, len(outer)+len(inner))
	seen := make(map[string]bool)
	mark := func(port string) {
		if seen[port] {
			return
		}
		seen[port] = true
		mapped := outer.apply(inner.apply(port))
		if mapped != port {
			out[port] = mapped
		}
	}
	for k := range inner {
		mark(k)
	}
	for k := range outer {
		mark(k)
	}
	return out
}

// permutationsOfIndices returns all n! permutations of [0,n) as index
// slices, identity first.
func permutationsOfIndices(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	base := permutationsOfIndices(n - 1)
	out := make([][]int, 0, len(base)*n)
	// Insert element n-1 at every position, largest-position-first so the
	// identity ordering (append at the end each step) sorts first.
	for _, p := range base {
		for pos := len(p); pos >= 0; pos-- {
			np := make([]int, 0, n)
			np = append(np, p[:pos]...)
			np = append(np, n-1)
			np = append(np, p[pos:]...)
			out = append(out, np)
		}
	}
	return out
}

// permutationsOfGroup returns every bijection of group onto itself as a
// Permutation, identity first.
func permutationsOfGroup(group []string) []Permutation {
	idxPerms := permutationsOfIndices(len(group))
	out := make([]Permutation, 0, len(idxPerms))
	for _, idx := range idxPerms {
		p := make(Permutation, len(group))
		identity := true
		for i, j := range idx {
			if group[i] != group[j] {
				identity = false
			}
			p[group[i]] = group[j]
		}
		if identity {
			p = Permutation{}
		}
		out = append(out, p)
	}
	return out
}

// cartesianMerge combines independent swap groups: every combination picks
// one permutation from each group and unions them (groups are assumed to
// cover disjoint port sets).
func cartesianMerge(perGroup []([]Permutation)) []Permutation {
	combos := []Permutation{{}}
	for _, perms := range perGroup {
		next := make([]Permutation, 0, len(combos)*len(perms))
		for _, c := range combos {
			for _, p := range perms {
				merged := make(Permutation, len(c)+len(p))
				for k, v := range c {
					merged[k] = v
				}
				for k, v := range p {
					merged[k] = v
				}
				next = append(next, merged)
			}
		}
		combos = next
	}
	return combos
}

// buildPermutationSet computes Π(type): every group-permutation composed
// with every registered extra permutation (plus the group permutations
// alone), deduplicated by signature, identity sorted first, then
// lexicographic by signature (spec.md §4.3 "AddSwappablePorts" /
// "AddSwappablePortsPermutation").
func buildPermutationSet(groups [][]string, extra []Permutation) []Permutation {
	perGroup := make([][]Permutation, len(groups))
	for i, g := range groups {
		perGroup[i] = permutationsOfGroup(g)
	}
	groupPerms := cartesianMerge(perGroup)

	seen := make(map[string]bool)
	var out []Permutation
	add := func(p Permutation) {
		sig := p.signature()
		if seen[sig] {
			return
		}
		seen[sig] = true
		out = append(out, p)
	}

	for _, g := range groupPerms {
		add(g)
	}
	for _, e := range extra {
		for _, g := range groupPerms {
			add(compose(e, g))
		}
	}
	if len(out) == 0 {
		out = append(out, Permutation{})
	}

	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].signature(), out[j].signature()
		if si == "" {
			return sj != ""
		}
		if sj == "" {
			return false
		}
		return si < sj
	})
	return out
}
