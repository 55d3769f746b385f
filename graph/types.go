// File: types.go
// Role: identity types and the Builder/Graph struct shapes.
//
// Determinism:
//   - NodeIndex/PortIndex/SignalIndex are assigned in creation order
//     (nodes, ports) or in a sorted-bit order (signals, see freeze.go).
//
// Concurrency:
//   - Builder guards its catalog with mu; Graph is immutable once returned
//     from Freeze and needs no lock.
package graph

import "sync"

// NodeIndex identifies a node within a single Graph.
type NodeIndex int

// PortIndex identifies a port within a single node.
type PortIndex int

// SignalIndex identifies a hyperedge (equivalence class of Bits) within a
// single Graph.
type SignalIndex int

// Bit identifies a single electrical bit: the Bit-th wire of the port named
// by Port on node Node. Bit is comparable and used directly as a map key by
// the builder's union-find.
type Bit struct {
	Node NodeIndex
	Port PortIndex
	Bit  int
}

// PortSpec describes one declared port: its name, declared width, and
// (needle-only) minimum width a haystack port may shrink to and still
// match (spec.md §3 "Port").
type PortSpec struct {
	Name     string
	Width    int
	MinWidth int
}

// ConnPair is one signal-level connection between a bit of "my" port and a
// bit of a neighboring node's port — the atomic unit the matcher's bundle
// embeddability check (spec.md §4.4.3) operates on.
type ConnPair struct {
	MyPort    string
	MyBit     int
	TheirPort string
	TheirBit  int
}

// nodeRecord holds one node's catalog entry, shared in shape by Builder and
// Graph (Graph's copy is immutable after Freeze).
type nodeRecord struct {
	ID        string
	Type      string
	UserData  interface{}
	Shareable bool
	Ports     []PortSpec
	portByName map[string]PortIndex
}

// Builder accumulates string-keyed nodes, ports, connections, constants,
// and externality marks. It is not safe for concurrent use from multiple
// goroutines without external synchronization beyond what mu provides for
// individual calls; compound sequences (e.g. CreatePort after CreateNode)
// should be issued from a single goroutine.
type Builder struct {
	mu sync.RWMutex

	nodes     []*nodeRecord
	nodeByID  map[string]NodeIndex

	// Union-find over Bit, keyed by the bit itself. A Bit absent from
	// parent is its own singleton root until first unioned.
	parent  map[Bit]Bit
	rank    map[Bit]int
	constOf map[Bit]byte // keyed by current root
	hasConstOf map[Bit]bool
	externOf map[Bit]bool // keyed by current root
}

// NewBuilder returns an empty Builder ready to accept CreateNode calls.
func NewBuilder() *Builder {
	return &Builder{
		nodeByID:   make(map[string]NodeIndex),
		parent:     make(map[Bit]Bit),
		rank:       make(map[Bit]int),
		constOf:    make(map[Bit]byte),
		hasConstOf: make(map[Bit]bool),
		externOf:   make(map[Bit]bool),
	}
}

// Graph is the frozen, integer-indexed form of a netlist produced by
// Builder.Freeze. It is immutable: all read methods are safe for
// concurrent use without locking.
type Graph struct {
	nodes []*nodeRecord

	// signalOf[node][port][bit] -> SignalIndex
	signalOf [][][]SignalIndex

	signalBits    [][]Bit
	signalConst   []byte
	signalHasConst []bool
	signalExtern  []bool

	// bundle[node] maps neighbor NodeIndex -> precomputed ConnPair list.
	bundle []map[NodeIndex][]ConnPair

	nodeByID map[string]NodeIndex
}
