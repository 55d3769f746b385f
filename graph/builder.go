// File: builder.go
// Role: mutable GraphBuilder operations (spec.md §4.1), all keyed by
// strings for external stability.
package graph

// CreateNode registers a new node. shareable marks the node reusable
// across overlap-forbidden solves (spec.md §3 "Node").
//
// Errors: ErrDuplicateNode if id already exists in this graph.
func (b *Builder) CreateNode(id, typ string, userData interface{}, shareable bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.nodeByID[id]; exists {
		return graphErrorf("CreateNode", ErrDuplicateNode, "id=%q", id)
	}

	rec := &nodeRecord{
		ID:         id,
		Type:       typ,
		UserData:   userData,
		Shareable:  shareable,
		portByName: make(map[string]PortIndex),
	}
	b.nodes = append(b.nodes, rec)
	b.nodeByID[id] = NodeIndex(len(b.nodes) - 1)
	return nil
}

// CreatePort declares a port of the given width on nodeID, with
// min_width == width (see CreatePortMinWidth for the needle-only narrower
// form).
//
// Errors: ErrUnknownNode, ErrDuplicatePort, ErrBadWidth.
func (b *Builder) CreatePort(nodeID, portName string, width int) error {
	return b.CreatePortMinWidth(nodeID, portName, width, width)
}

// CreatePortMinWidth declares a port with an explicit minimum width
// (spec.md §3 "Port"): a needle port of width W and minWidth M may match a
// haystack port of any width in [M, W].
//
// Errors: ErrUnknownNode, ErrDuplicatePort, ErrBadWidth, ErrBadMinWidth.
func (b *Builder) CreatePortMinWidth(nodeID, portName string, width, minWidth int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ni, ok := b.nodeByID[nodeID]
	if !ok {
		return graphErrorf("CreatePort", ErrUnknownNode, "node=%q", nodeID)
	}
	rec := b.nodes[ni]
	if _, exists := rec.portByName[portName]; exists {
		return graphErrorf("CreatePort", ErrDuplicatePort, "node=%q port=%q", nodeID, portName)
	}
	if width < 1 {
		return graphErrorf("CreatePort", ErrBadWidth, "node=%q port=%q width=%d", nodeID, portName, width)
	}
	if minWidth < 1 || minWidth > width {
		return graphErrorf("CreatePort", ErrBadMinWidth, "node=%q port=%q minWidth=%d width=%d", nodeID, portName, minWidth, width)
	}

	rec.Ports = append(rec.Ports, PortSpec{Name: portName, Width: width, MinWidth: minWidth})
	rec.portByName[portName] = PortIndex(len(rec.Ports) - 1)
	return nil
}

// resolvePort resolves (nodeID, portName) to indices without locking;
// callers must hold at least a read lock.
func (b *Builder) resolvePort(nodeID, portName string) (NodeIndex, PortIndex, *PortSpec, error) {
	ni, ok := b.nodeByID[nodeID]
	if !ok {
		return 0, 0, nil, graphErrorf("resolvePort", ErrUnknownNode, "node=%q", nodeID)
	}
	rec := b.nodes[ni]
	pi, ok := rec.portByName[portName]
	if !ok {
		return 0, 0, nil, graphErrorf("resolvePort", ErrUnknownPort, "node=%q port=%q", nodeID, portName)
	}
	return ni, pi, &rec.Ports[pi], nil
}

// Connect unions every bit of portA with the corresponding bit of portB.
// Both ports must exist and declare equal width. Redundant calls are
// accepted silently (idempotent union-find).
//
// Errors: ErrUnknownNode, ErrUnknownPort, ErrWidthMismatch, ErrConstantConflict.
func (b *Builder) Connect(nodeA, portA, nodeB, portB string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	niA, piA, specA, err := b.resolvePort(nodeA, portA)
	if err != nil {
		return err
	}
	niB, piB, specB, err := b.resolvePort(nodeB, portB)
	if err != nil {
		return err
	}
	if specA.Width != specB.Width {
		return graphErrorf("Connect", ErrWidthMismatch, "%s.%s(%d) vs %s.%s(%d)", nodeA, portA, specA.Width, nodeB, portB, specB.Width)
	}
	for bit := 0; bit < specA.Width; bit++ {
		if err := b.union(Bit{niA, piA, bit}, Bit{niB, piB, bit}); err != nil {
			return graphErrorf("Connect", err, "%s.%s[%d] vs %s.%s[%d]", nodeA, portA, bit, nodeB, portB, bit)
		}
	}
	return nil
}

// ConnectBits unions width consecutive bits starting at bitA on
// (nodeA,portA) with width consecutive bits starting at bitB on
// (nodeB,portB) — the bit-slice connection form.
//
// Errors: ErrUnknownNode, ErrUnknownPort, ErrBitOutOfRange, ErrConstantConflict.
func (b *Builder) ConnectBits(nodeA, portA string, bitA int, nodeB, portB string, bitB, width int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	niA, piA, specA, err := b.resolvePort(nodeA, portA)
	if err != nil {
		return err
	}
	niB, piB, specB, err := b.resolvePort(nodeB, portB)
	if err != nil {
		return err
	}
	if bitA < 0 || bitA+width > specA.Width {
		return graphErrorf("ConnectBits", ErrBitOutOfRange, "%s.%s bit=%d width=%d (port width %d)", nodeA, portA, bitA, width, specA.Width)
	}
	if bitB < 0 || bitB+width > specB.Width {
		return graphErrorf("ConnectBits", ErrBitOutOfRange, "%s.%s bit=%d width=%d (port width %d)", nodeB, portB, bitB, width, specB.Width)
	}
	for i := 0; i < width; i++ {
		if err := b.union(Bit{niA, piA, bitA + i}, Bit{niB, piB, bitB + i}); err != nil {
			return graphErrorf("ConnectBits", err, "%s.%s[%d] vs %s.%s[%d]", nodeA, portA, bitA+i, nodeB, portB, bitB+i)
		}
	}
	return nil
}

// ConnectBit is ConnectBits with width=1, the common single-bit case.
func (b *Builder) ConnectBit(nodeA, portA string, bitA int, nodeB, portB string, bitB int) error {
	return b.ConnectBits(nodeA, portA, bitA, nodeB, portB, bitB, 1)
}

// CreateConstant attaches a constant driver character to the Signal
// containing (node,port,bit). If that Signal already carries a different
// constant, this fails with ErrConstantConflict (spec.md §4.1).
//
// Errors: ErrUnknownNode, ErrUnknownPort, ErrBitOutOfRange, ErrConstantConflict.
func (b *Builder) CreateConstant(node, port string, bit int, value byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ni, pi, spec, err := b.resolvePort(node, port)
	if err != nil {
		return err
	}
	if bit < 0 || bit >= spec.Width {
		return graphErrorf("CreateConstant", ErrBitOutOfRange, "%s.%s bit=%d (width %d)", node, port, bit, spec.Width)
	}
	key := Bit{ni, pi, bit}
	root := b.find(key)
	if has := b.hasConstOf[root]; has {
		if existing := b.constOf[root]; existing != value {
			return graphErrorf("CreateConstant", ErrConstantConflict, "%s.%s[%d]: has %q, requested %q", node, port, bit, existing, value)
		}
	}
	b.constOf[root] = value
	b.hasConstOf[root] = true
	return nil
}

// CreateConstantInt sets every bit of (node,port) LSB-first from the
// binary digits of value, mapping each digit to '0' or '1' (spec.md §4.1,
// §8 "Constant round-trip").
//
// Errors: ErrUnknownNode, ErrUnknownPort, ErrConstantConflict.
func (b *Builder) CreateConstantInt(node, port string, value uint64) error {
	_, _, spec, err := func() (NodeIndex, PortIndex, *PortSpec, error) {
		b.mu.RLock()
		defer b.mu.RUnlock()
		return b.resolvePort(node, port)
	}()
	if err != nil {
		return err
	}
	for bit := 0; bit < spec.Width; bit++ {
		digit := byte('0')
		if (value>>uint(bit))&1 == 1 {
			digit = '1'
		}
		if err := b.CreateConstant(node, port, bit, digit); err != nil {
			return err
		}
	}
	return nil
}

// MarkExtern marks every bit's Signal on (node,port) extern.
//
// Errors: ErrUnknownNode, ErrUnknownPort.
func (b *Builder) MarkExtern(node, port string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ni, pi, spec, err := b.resolvePort(node, port)
	if err != nil {
		return err
	}
	for bit := 0; bit < spec.Width; bit++ {
		root := b.find(Bit{ni, pi, bit})
		b.externOf[root] = true
	}
	return nil
}

// MarkExternBit marks a single bit's Signal extern.
//
// Errors: ErrUnknownNode, ErrUnknownPort, ErrBitOutOfRange.
func (b *Builder) MarkExternBit(node, port string, bit int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ni, pi, spec, err := b.resolvePort(node, port)
	if err != nil {
		return err
	}
	if bit < 0 || bit >= spec.Width {
		return graphErrorf("MarkExternBit", ErrBitOutOfRange, "%s.%s bit=%d (width %d)", node, port, bit, spec.Width)
	}
	root := b.find(Bit{ni, pi, bit})
	b.externOf[root] = true
	return nil
}

// MarkAllExtern marks every Signal in the graph extern — a convenience for
// disabling the intern/extern distinction entirely (spec.md §4.1).
func (b *Builder) MarkAllExtern() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ni, rec := range b.nodes {
		for pi, spec := range rec.Ports {
			for bit := 0; bit < spec.Width; bit++ {
				root := b.find(Bit{NodeIndex(ni), PortIndex(pi), bit})
				b.externOf[root] = true
			}
		}
	}
}
