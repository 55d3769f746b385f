package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/circuitiso/sgiso/graph"
)

// Scenario 1: macc22 commutativity. A needle adder whose A/B operand
// ports are registered as swappable matches a haystack wired with the
// operands in the opposite order; without the swap group it does not.
func TestScenario_Macc22Commutativity(t *testing.T) {
	buildNeedle := func(t *testing.T) *graph.Graph {
		b := graph.NewBuilder()
		require.NoError(t, b.CreateNode("add", "adder", nil, false))
		require.NoError(t, b.CreatePort("add", "A", 4))
		require.NoError(t, b.CreatePort("add", "B", 4))
		require.NoError(t, b.CreatePort("add", "S", 4))
		require.NoError(t, b.CreateNode("srcA", "srcA", nil, false))
		require.NoError(t, b.CreatePort("srcA", "O", 4))
		require.NoError(t, b.CreateNode("srcB", "srcB", nil, false))
		require.NoError(t, b.CreatePort("srcB", "O", 4))
		require.NoError(t, b.Connect("srcA", "O", "add", "A"))
		require.NoError(t, b.Connect("srcB", "O", "add", "B"))
		return b.Freeze()
	}
	buildHaystack := func(t *testing.T) *graph.Graph {
		b := graph.NewBuilder()
		require.NoError(t, b.CreateNode("Add", "adder", nil, false))
		require.NoError(t, b.CreatePort("Add", "A", 4))
		require.NoError(t, b.CreatePort("Add", "B", 4))
		require.NoError(t, b.CreatePort("Add", "S", 4))
		require.NoError(t, b.CreateNode("HA", "srcA", nil, false))
		require.NoError(t, b.CreatePort("HA", "O", 4))
		require.NoError(t, b.CreateNode("HB", "srcB", nil, false))
		require.NoError(t, b.CreatePort("HB", "O", 4))
		// Wired swapped relative to the needle: HA (srcA) feeds B, not A.
		require.NoError(t, b.Connect("HA", "O", "Add", "B"))
		require.NoError(t, b.Connect("HB", "O", "Add", "A"))
		return b.Freeze()
	}

	t.Run("without swap group, no match", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddGraph("needle", buildNeedle(t)))
		require.NoError(t, s.AddGraph("hay", buildHaystack(t)))
		var results []Result
		require.NoError(t, s.Solve(&results, "needle", "hay", DefaultSolveOptions()))
		require.Empty(t, results)
	})

	t.Run("with swap group, matches", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddGraph("needle", buildNeedle(t)))
		require.NoError(t, s.AddGraph("hay", buildHaystack(t)))
		require.NoError(t, s.AddSwappablePorts("adder", "A", "B"))

		var results []Result
		require.NoError(t, s.Solve(&results, "needle", "hay", DefaultSolveOptions()))
		require.Len(t, results, 1)
		r := results[0]
		require.Equal(t, "Add", r.NodeMap["add"])
		require.Equal(t, "HA", r.NodeMap["srcA"])
		require.Equal(t, "HB", r.NodeMap["srcB"])
		require.Equal(t, "B", r.PortMap["add"]["A"])
		require.Equal(t, "A", r.PortMap["add"]["B"])
	})
}

// Scenario 2: width subtyping. A needle port declared with width 32 and
// min_width 1 matches a haystack port of any width in that range, but not
// a missing port.
func TestScenario_WidthSubtyping(t *testing.T) {
	needleB := graph.NewBuilder()
	require.NoError(t, needleB.CreateNode("n", "reg", nil, false))
	require.NoError(t, needleB.CreatePortMinWidth("n", "D", 32, 1))
	needle := needleB.Freeze()

	narrowB := graph.NewBuilder()
	require.NoError(t, narrowB.CreateNode("h", "reg", nil, false))
	require.NoError(t, narrowB.CreatePort("h", "D", 16))
	narrowHay := narrowB.Freeze()

	missingB := graph.NewBuilder()
	require.NoError(t, missingB.CreateNode("h", "reg", nil, false))
	require.NoError(t, missingB.CreatePort("h", "other", 8))
	missingHay := missingB.Freeze()

	s := New()
	require.NoError(t, s.AddGraph("needle", needle))
	require.NoError(t, s.AddGraph("narrow", narrowHay))
	require.NoError(t, s.AddGraph("missing", missingHay))

	var results []Result
	require.NoError(t, s.Solve(&results, "needle", "narrow", DefaultSolveOptions()))
	require.Len(t, results, 1)

	results = nil
	require.NoError(t, s.Solve(&results, "needle", "missing", DefaultSolveOptions()))
	require.Empty(t, results)
}

// Scenario 3: extern containment. A needle-internal signal must map onto
// a haystack signal whose outside touchers (if any) are only on
// haystack-extern signals; marking the needle signal extern lifts the
// restriction.
func TestScenario_ExternContainment(t *testing.T) {
	buildNeedle := func(t *testing.T, markExtern bool) *graph.Graph {
		b := graph.NewBuilder()
		require.NoError(t, b.CreateNode("n1", "A", nil, false))
		require.NoError(t, b.CreatePort("n1", "P", 1))
		require.NoError(t, b.CreateNode("n2", "B", nil, false))
		require.NoError(t, b.CreatePort("n2", "Q", 1))
		require.NoError(t, b.Connect("n1", "P", "n2", "Q"))
		if markExtern {
			require.NoError(t, b.MarkExtern("n1", "P"))
		}
		return b.Freeze()
	}
	buildHaystackWithLeak := func(t *testing.T) *graph.Graph {
		b := graph.NewBuilder()
		require.NoError(t, b.CreateNode("h1", "A", nil, false))
		require.NoError(t, b.CreatePort("h1", "P", 1))
		require.NoError(t, b.CreateNode("h2", "B", nil, false))
		require.NoError(t, b.CreatePort("h2", "Q", 1))
		require.NoError(t, b.CreateNode("h3", "C", nil, false))
		require.NoError(t, b.CreatePort("h3", "R", 1))
		require.NoError(t, b.Connect("h1", "P", "h2", "Q"))
		require.NoError(t, b.Connect("h1", "P", "h3", "R"))
		return b.Freeze()
	}

	t.Run("leaking signal blocks non-extern needle", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddGraph("needle", buildNeedle(t, false)))
		require.NoError(t, s.AddGraph("hay", buildHaystackWithLeak(t)))
		var results []Result
		require.NoError(t, s.Solve(&results, "needle", "hay", DefaultSolveOptions()))
		require.Empty(t, results)
	})

	t.Run("extern needle signal tolerates the leak", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddGraph("needle", buildNeedle(t, true)))
		require.NoError(t, s.AddGraph("hay", buildHaystackWithLeak(t)))
		var results []Result
		require.NoError(t, s.Solve(&results, "needle", "hay", DefaultSolveOptions()))
		require.Len(t, results, 1)
	})
}

// Scenario 4: non-overlap. Accepted solutions within one Solve call never
// share a haystack node when allow_overlap is false.
func TestScenario_NonOverlap(t *testing.T) {
	needleB := graph.NewBuilder()
	require.NoError(t, needleB.CreateNode("a", "A", nil, false))
	require.NoError(t, needleB.CreatePort("a", "P", 1))
	require.NoError(t, needleB.CreateNode("b", "B", nil, false))
	require.NoError(t, needleB.CreatePort("b", "Q", 1))
	require.NoError(t, needleB.Connect("a", "P", "b", "Q"))
	// Extern: this scenario is about non-overlap bookkeeping, not extern
	// containment, and "hub" below is deliberately a multi-driver net.
	require.NoError(t, needleB.MarkExtern("b", "Q"))
	needle := needleB.Freeze()

	// "hub" is driven by two independent haystack drivers, so the needle's
	// a-b edge has two valid, node-disjoint-except-for-hub solutions; a
	// third candidate (ha3, other) is fully independent.
	hayB := graph.NewBuilder()
	require.NoError(t, hayB.CreateNode("hub", "B", nil, false))
	require.NoError(t, hayB.CreatePort("hub", "Q", 1))
	require.NoError(t, hayB.CreateNode("ha1", "A", nil, false))
	require.NoError(t, hayB.CreatePort("ha1", "P", 1))
	require.NoError(t, hayB.CreateNode("ha2", "A", nil, false))
	require.NoError(t, hayB.CreatePort("ha2", "P", 1))
	require.NoError(t, hayB.Connect("ha1", "P", "hub", "Q"))
	require.NoError(t, hayB.Connect("ha2", "P", "hub", "Q"))

	require.NoError(t, hayB.CreateNode("other", "B", nil, false))
	require.NoError(t, hayB.CreatePort("other", "Q", 1))
	require.NoError(t, hayB.CreateNode("ha3", "A", nil, false))
	require.NoError(t, hayB.CreatePort("ha3", "P", 1))
	require.NoError(t, hayB.Connect("ha3", "P", "other", "Q"))
	hay := hayB.Freeze()

	s := New()
	require.NoError(t, s.AddGraph("needle", needle))
	require.NoError(t, s.AddGraph("hay", hay))

	var overlapAllowed []Result
	opts := DefaultSolveOptions()
	require.NoError(t, s.Solve(&overlapAllowed, "needle", "hay", opts))
	require.GreaterOrEqual(t, len(overlapAllowed), 3)

	s2 := New()
	require.NoError(t, s2.AddGraph("needle", needle))
	require.NoError(t, s2.AddGraph("hay", hay))
	var noOverlap []Result
	opts2 := DefaultSolveOptions()
	opts2.AllowOverlap = false
	require.NoError(t, s2.Solve(&noOverlap, "needle", "hay", opts2))

	used := make(map[string]bool)
	for _, r := range noOverlap {
		for _, hid := range r.NodeMap {
			require.False(t, used[hid], "haystack node %s reused across non-overlapping solutions", hid)
			used[hid] = true
		}
	}
	require.Equal(t, 2, len(noOverlap), "hub must be consumed by at most one solution")
	require.Less(t, len(noOverlap), len(overlapAllowed))
}

// Scenario 5: constant compatibility. A needle bit constant must find a
// compatible haystack constant; incompatible values block the match until
// AddCompatibleConstants registers an equivalence.
func TestScenario_ConstantCompatibility(t *testing.T) {
	buildNeedle := func(t *testing.T) *graph.Graph {
		b := graph.NewBuilder()
		require.NoError(t, b.CreateNode("n1", "A", nil, false))
		require.NoError(t, b.CreatePort("n1", "P", 1))
		require.NoError(t, b.CreateConstant("n1", "P", 0, '1'))
		require.NoError(t, b.CreateNode("n2", "B", nil, false))
		require.NoError(t, b.CreatePort("n2", "Q", 1))
		require.NoError(t, b.Connect("n1", "P", "n2", "Q"))
		return b.Freeze()
	}
	buildHaystack := func(t *testing.T) *graph.Graph {
		b := graph.NewBuilder()
		require.NoError(t, b.CreateNode("h1", "A", nil, false))
		require.NoError(t, b.CreatePort("h1", "P", 1))
		require.NoError(t, b.CreateConstant("h1", "P", 0, '0'))
		require.NoError(t, b.CreateNode("h2", "B", nil, false))
		require.NoError(t, b.CreatePort("h2", "Q", 1))
		require.NoError(t, b.Connect("h1", "P", "h2", "Q"))
		return b.Freeze()
	}

	t.Run("incompatible constants block the match", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddGraph("needle", buildNeedle(t)))
		require.NoError(t, s.AddGraph("hay", buildHaystack(t)))
		var results []Result
		require.NoError(t, s.Solve(&results, "needle", "hay", DefaultSolveOptions()))
		require.Empty(t, results)
	})

	t.Run("registered compatibility allows the match", func(t *testing.T) {
		s := New()
		require.NoError(t, s.AddGraph("needle", buildNeedle(t)))
		require.NoError(t, s.AddGraph("hay", buildHaystack(t)))
		s.AddCompatibleConstants('1', '0')
		var results []Result
		require.NoError(t, s.Solve(&results, "needle", "hay", DefaultSolveOptions()))
		require.Len(t, results, 1)
	})
}

// Scenario 6: early termination. MaxSolutions caps the number of Results
// even though strictly more exist.
func TestScenario_EarlyTermination(t *testing.T) {
	needleB := graph.NewBuilder()
	require.NoError(t, needleB.CreateNode("n", "leaf", nil, false))
	needle := needleB.Freeze()

	hayB := graph.NewBuilder()
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		require.NoError(t, hayB.CreateNode(id, "leaf", nil, false))
	}
	hay := hayB.Freeze()

	s := New()
	require.NoError(t, s.AddGraph("needle", needle))
	require.NoError(t, s.AddGraph("hay", hay))

	var results []Result
	opts := DefaultSolveOptions()
	opts.MaxSolutions = 2
	require.NoError(t, s.Solve(&results, "needle", "hay", opts))
	require.Len(t, results, 2)
}
