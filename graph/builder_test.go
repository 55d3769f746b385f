package graph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/circuitiso/sgiso/graph"
)

func twoNodeAdder(t *testing.T) *graph.Builder {
	t.Helper()
	b := graph.NewBuilder()
	require.NoError(t, b.CreateNode("add1", "adder", nil, false))
	require.NoError(t, b.CreatePort("add1", "A", 4))
	require.NoError(t, b.CreatePort("add1", "B", 4))
	require.NoError(t, b.CreatePort("add1", "S", 4))
	require.NoError(t, b.CreateNode("add2", "adder", nil, false))
	require.NoError(t, b.CreatePort("add2", "A", 4))
	require.NoError(t, b.CreatePort("add2", "B", 4))
	require.NoError(t, b.CreatePort("add2", "S", 4))
	return b
}

func TestCreateNode_Duplicate(t *testing.T) {
	b := graph.NewBuilder()
	require.NoError(t, b.CreateNode("n1", "adder", nil, false))
	err := b.CreateNode("n1", "adder", nil, false)
	require.ErrorIs(t, err, graph.ErrDuplicateNode)
}

func TestCreatePort_Errors(t *testing.T) {
	b := graph.NewBuilder()
	require.NoError(t, b.CreateNode("n1", "adder", nil, false))

	require.ErrorIs(t, b.CreatePort("missing", "A", 4), graph.ErrUnknownNode)

	require.NoError(t, b.CreatePort("n1", "A", 4))
	require.ErrorIs(t, b.CreatePort("n1", "A", 4), graph.ErrDuplicatePort)

	require.ErrorIs(t, b.CreatePort("n1", "B", 0), graph.ErrBadWidth)

	require.ErrorIs(t, b.CreatePortMinWidth("n1", "C", 4, 0), graph.ErrBadMinWidth)
	require.ErrorIs(t, b.CreatePortMinWidth("n1", "D", 4, 5), graph.ErrBadMinWidth)
}

func TestConnect_WidthMismatchAndUnknown(t *testing.T) {
	b := twoNodeAdder(t)
	require.ErrorIs(t, b.Connect("add1", "missing", "add2", "A"), graph.ErrUnknownPort)
	require.NoError(t, b.CreatePort("add1", "narrow", 2))
	require.ErrorIs(t, b.Connect("add1", "narrow", "add2", "A"), graph.ErrWidthMismatch)
}

func TestConnectBits_OutOfRange(t *testing.T) {
	b := twoNodeAdder(t)
	err := b.ConnectBits("add1", "A", 3, "add2", "A", 0, 2)
	require.ErrorIs(t, err, graph.ErrBitOutOfRange)
}

// Idempotence of build: repeated identical Connect calls yield a graph
// equal (same signal grouping) to a single call (spec.md §8).
func TestConnect_Idempotent(t *testing.T) {
	b1 := twoNodeAdder(t)
	require.NoError(t, b1.Connect("add1", "S", "add2", "A"))
	g1 := b1.Freeze()

	b2 := twoNodeAdder(t)
	require.NoError(t, b2.Connect("add1", "S", "add2", "A"))
	require.NoError(t, b2.Connect("add1", "S", "add2", "A"))
	require.NoError(t, b2.Connect("add1", "S", "add2", "A"))
	g2 := b2.Freeze()

	require.Equal(t, g1.SignalCount(), g2.SignalCount())
	n1, _ := g1.NodeByID("add1")
	n2, _ := g2.NodeByID("add1")
	require.Len(t, g1.Bundle(n1, mustNeighbor(t, g1, n1)), len(g2.Bundle(n2, mustNeighbor(t, g2, n2))))
}

func mustNeighbor(t *testing.T, g *graph.Graph, n graph.NodeIndex) graph.NodeIndex {
	t.Helper()
	nbrs := g.Neighbors(n)
	require.Len(t, nbrs, 1)
	return nbrs[0]
}

// Constant round-trip: building with CreateConstantInt(node, port, N) and
// probing each bit yields the binary digits of N LSB-first (spec.md §8).
func TestCreateConstantInt_RoundTrip(t *testing.T) {
	b := graph.NewBuilder()
	require.NoError(t, b.CreateNode("n1", "const", nil, false))
	require.NoError(t, b.CreatePort("n1", "V", 4))
	require.NoError(t, b.CreateConstantInt("n1", "V", 0b0101))

	g := b.Freeze()
	n1, _ := g.NodeByID("n1")
	expect := []byte{'1', '0', '1', '0'}
	for bit := 0; bit < 4; bit++ {
		s, ok := g.SignalOfBit(n1, "V", bit)
		require.True(t, ok)
		c, has := g.SignalConst(s)
		require.True(t, has)
		require.Equal(t, expect[bit], c, "bit %d", bit)
	}
}

func TestCreateConstant_Conflict(t *testing.T) {
	b := graph.NewBuilder()
	require.NoError(t, b.CreateNode("n1", "const", nil, false))
	require.NoError(t, b.CreatePort("n1", "V", 1))
	require.NoError(t, b.CreateConstant("n1", "V", 0, '0'))
	err := b.CreateConstant("n1", "V", 0, '1')
	require.ErrorIs(t, err, graph.ErrConstantConflict)
}

func TestCreateConstant_ConflictAcrossConnection(t *testing.T) {
	b := twoNodeAdder(t)
	require.NoError(t, b.CreateConstant("add1", "A", 0, '0'))
	require.NoError(t, b.CreateConstant("add2", "A", 0, '1'))
	err := b.ConnectBit("add1", "A", 0, "add2", "A", 0)
	require.True(t, errors.Is(err, graph.ErrConstantConflict))
}

func TestMarkExtern(t *testing.T) {
	b := twoNodeAdder(t)
	require.NoError(t, b.Connect("add1", "S", "add2", "A"))
	require.NoError(t, b.MarkExtern("add1", "S"))
	g := b.Freeze()
	n1, _ := g.NodeByID("add1")
	s, ok := g.SignalOfBit(n1, "S", 0)
	require.True(t, ok)
	require.True(t, g.SignalExtern(s))
}

func TestMarkAllExtern(t *testing.T) {
	b := twoNodeAdder(t)
	require.NoError(t, b.Connect("add1", "S", "add2", "A"))
	b.MarkAllExtern()
	g := b.Freeze()
	for s := 0; s < g.SignalCount(); s++ {
		require.True(t, g.SignalExtern(graph.SignalIndex(s)))
	}
}

func TestFreeze_Snapshot_IsolatesFurtherMutation(t *testing.T) {
	b := twoNodeAdder(t)
	g1 := b.Freeze()
	require.NoError(t, b.CreateNode("add3", "adder", nil, false))
	require.Equal(t, 2, g1.NodeCount())

	g2 := b.Freeze()
	require.Equal(t, 3, g2.NodeCount())
}
