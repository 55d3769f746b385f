package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/circuitiso/sgiso/graph"
)

func TestAddSwappablePorts_TooFewPorts(t *testing.T) {
	s := New()
	err := s.AddSwappablePorts("adder", "A")
	require.ErrorIs(t, err, ErrEmptySwapGroup)
}

func TestAddSwappablePortsPermutation_LengthMismatch(t *testing.T) {
	s := New()
	err := s.AddSwappablePortsPermutation("adder", []string{"A", "B"}, []string{"A"})
	require.ErrorIs(t, err, ErrMalformedPermutation)
}

func TestAddSwappablePortsPermutation_NotAPermutation(t *testing.T) {
	s := New()
	err := s.AddSwappablePortsPermutation("adder", []string{"A", "B"}, []string{"A", "A"})
	require.ErrorIs(t, err, ErrMalformedPermutation)
}

func TestAddGraph_Duplicate(t *testing.T) {
	s := New()
	b := graph.NewBuilder()
	require.NoError(t, b.CreateNode("n1", "t", nil, false))
	g := b.Freeze()

	require.NoError(t, s.AddGraph("g1", g))
	err := s.AddGraph("g1", g)
	require.ErrorIs(t, err, ErrDuplicateGraph)
}

func TestSolve_UnknownGraph(t *testing.T) {
	s := New()
	var results []Result
	err := s.Solve(&results, "missing", "also-missing", DefaultSolveOptions())
	require.ErrorIs(t, err, ErrUnknownGraph)
}

func TestClearConfig_ClearsCompatibilityButNotGraphs(t *testing.T) {
	s := New()
	s.AddCompatibleTypes("a", "b")
	b := graph.NewBuilder()
	require.NoError(t, b.CreateNode("n1", "a", nil, false))
	require.NoError(t, s.AddGraph("g1", b.Freeze()))

	s.ClearConfig()
	require.False(t, s.typeCompatible("a", "b"))
	_, err := s.graphByName("g1")
	require.NoError(t, err)
}
