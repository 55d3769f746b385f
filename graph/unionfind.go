// File: unionfind.go
// Role: path-compressed, union-by-rank DSU over Bit, keyed directly by the
// Bit value (spec.md §9 "Union-find for signals").
//
// A Bit that has never been unioned is its own root implicitly (absent
// from b.parent); this lets CreatePort avoid pre-registering every bit.
package graph

// find returns the current root of x, compressing the path as it walks.
func (b *Builder) find(x Bit) Bit {
	parent, ok := b.parent[x]
	if !ok || parent == x {
		return x
	}
	root := b.find(parent)
	b.parent[x] = root // path compression
	return root
}

// union merges the equivalence classes of x and y. It is a no-op if they
// are already in the same class (idempotent, per spec.md §4.1
// "Redundant connections are accepted silently"). It returns
// ErrConstantConflict if the merge would leave a single Signal with two
// distinct constant driver characters.
func (b *Builder) union(x, y Bit) error {
	rx, ry := b.find(x), b.find(y)
	if rx == ry {
		return nil
	}

	cxv, hasX := b.constOf[rx], b.hasConstOf[rx]
	cyv, hasY := b.constOf[ry], b.hasConstOf[ry]
	if hasX && hasY && cxv != cyv {
		return ErrConstantConflict
	}
	mergedVal, mergedHas := cxv, hasX
	if !mergedHas {
		mergedVal, mergedHas = cyv, hasY
	}
	mergedExtern := b.externOf[rx] || b.externOf[ry]

	newRoot, oldRoot := rx, ry
	switch {
	case b.rank[ry] > b.rank[rx]:
		newRoot, oldRoot = ry, rx
	case b.rank[rx] == b.rank[ry]:
		b.rank[newRoot]++
	}
	b.parent[oldRoot] = newRoot

	delete(b.constOf, oldRoot)
	delete(b.hasConstOf, oldRoot)
	delete(b.externOf, oldRoot)
	if mergedHas {
		b.constOf[newRoot] = mergedVal
		b.hasConstOf[newRoot] = true
	}
	if mergedExtern {
		b.externOf[newRoot] = true
	}
	return nil
}
