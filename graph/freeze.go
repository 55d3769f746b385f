// File: freeze.go
// Role: Builder.Freeze — collapse the union-find over bits into contiguous
// SignalIndex values and produce an immutable Graph (spec.md §4.2).
//
// Freeze deep-copies node/port metadata so later Builder mutations never
// retroactively change a Graph already registered with a Solver (see
// DESIGN.md "Open Question decisions").
package graph

import "sort"

// Freeze produces an immutable Graph snapshot of the builder's current
// state. It may be called more than once (e.g. after further building) and
// each call returns an independent Graph.
func (b *Builder) Freeze() *Graph {
	b.mu.Lock()
	defer b.mu.Unlock()

	g := &Graph{
		nodes:    make([]*nodeRecord, len(b.nodes)),
		nodeByID: make(map[string]NodeIndex, len(b.nodes)),
	}
	for id, ni := range b.nodeByID {
		g.nodeByID[id] = ni
	}

	// Deep-copy node/port metadata.
	for i, rec := range b.nodes {
		cp := &nodeRecord{
			ID:         rec.ID,
			Type:       rec.Type,
			UserData:   rec.UserData,
			Shareable:  rec.Shareable,
			Ports:      append([]PortSpec(nil), rec.Ports...),
			portByName: make(map[string]PortIndex, len(rec.portByName)),
		}
		for name, pi := range rec.portByName {
			cp.portByName[name] = pi
		}
		g.nodes[i] = cp
	}

	// Enumerate every declared bit and group by DSU root.
	groups := make(map[Bit][]Bit)
	for ni, rec := range b.nodes {
		for pi, spec := range rec.Ports {
			for bit := 0; bit < spec.Width; bit++ {
				key := Bit{NodeIndex(ni), PortIndex(pi), bit}
				root := b.find(key)
				groups[root] = append(groups[root], key)
			}
		}
	}

	// Assign contiguous SignalIndex values in a deterministic order: sort
	// groups by their lexicographically smallest member.
	roots := make([]Bit, 0, len(groups))
	for root, bits := range groups {
		sort.Slice(bits, func(a, c int) bool { return bitLess(bits[a], bits[c]) })
		groups[root] = bits
		roots = append(roots, root)
	}
	sort.Slice(roots, func(a, c int) bool { return bitLess(groups[roots[a]][0], groups[roots[c]][0]) })

	nSignals := len(roots)
	g.signalBits = make([][]Bit, nSignals)
	g.signalConst = make([]byte, nSignals)
	g.signalHasConst = make([]bool, nSignals)
	g.signalExtern = make([]bool, nSignals)

	g.signalOf = make([][][]SignalIndex, len(g.nodes))
	for ni, rec := range g.nodes {
		g.signalOf[ni] = make([][]SignalIndex, len(rec.Ports))
		for pi, spec := range rec.Ports {
			g.signalOf[ni][pi] = make([]SignalIndex, spec.Width)
		}
	}

	for idx, root := range roots {
		sIdx := SignalIndex(idx)
		bits := groups[root]
		g.signalBits[sIdx] = bits
		if v, ok := b.constOf[root], b.hasConstOf[root]; ok {
			g.signalConst[sIdx] = v
			g.signalHasConst[sIdx] = true
		}
		g.signalExtern[sIdx] = b.externOf[root]
		for _, bitKey := range bits {
			g.signalOf[bitKey.Node][bitKey.Port][bitKey.Bit] = sIdx
		}
	}

	// Precompute node-to-node connection bundles from shared signals.
	g.bundle = make([]map[NodeIndex][]ConnPair, len(g.nodes))
	for i := range g.bundle {
		g.bundle[i] = make(map[NodeIndex][]ConnPair)
	}
	for _, bits := range g.signalBits {
		for i := 0; i < len(bits); i++ {
			for j := 0; j < len(bits); j++ {
				if i == j || bits[i].Node == bits[j].Node {
					continue
				}
				a, bb := bits[i], bits[j]
				pair := ConnPair{
					MyPort:    g.nodes[a.Node].Ports[a.Port].Name,
					MyBit:     a.Bit,
					TheirPort: g.nodes[bb.Node].Ports[bb.Port].Name,
					TheirBit:  bb.Bit,
				}
				g.bundle[a.Node][bb.Node] = append(g.bundle[a.Node][bb.Node], pair)
			}
		}
	}

	return g
}

func bitLess(a, c Bit) bool {
	if a.Node != c.Node {
		return a.Node < c.Node
	}
	if a.Port != c.Port {
		return a.Port < c.Port
	}
	return a.Bit < c.Bit
}
