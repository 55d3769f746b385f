package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermutationsOfGroup_Size2(t *testing.T) {
	perms := permutationsOfGroup([]string{"A", "B"})
	require.Len(t, perms, 2)
	require.Equal(t, "", perms[0].signature(), "identity sorts first")
	require.Equal(t, "B", perms[1].apply("A"))
	require.Equal(t, "A", perms[1].apply("B"))
}

func TestPermutationsOfGroup_Size3(t *testing.T) {
	perms := permutationsOfGroup([]string{"A", "B", "C"})
	require.Len(t, perms, 6)
	require.Equal(t, "", perms[0].signature())
}

func TestBuildPermutationSet_DedupAndIdentityFirst(t *testing.T) {
	groups := [][]string{{"A", "B"}}
	extra := []Permutation{{"A": "B", "B": "A"}} // duplicates the size-2 swap
	set := buildPermutationSet(groups, extra)
	require.Len(t, set, 2, "the duplicate extra permutation must not double the set")
	require.Equal(t, "", set[0].signature())
}

func TestBuildPermutationSet_NoGroups_IsIdentityOnly(t *testing.T) {
	set := buildPermutationSet(nil, nil)
	require.Len(t, set, 1)
	require.Equal(t, "", set[0].signature())
}

func TestCompose(t *testing.T) {
	inner := Permutation{"A": "B", "B": "A"}
	outer := Permutation{"B": "C", "C": "B"}
	got := compose(outer, inner)
	require.Equal(t, "C", got.apply("A"))
	require.Equal(t, "A", got.apply("B"))
	require.Equal(t, "B", got.apply("C"))
}
