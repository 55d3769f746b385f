// File: candidatematrix.go
// Role: the boolean candidate matrix the matcher refines and backtracks
// over — needle rows x haystack columns, M[i][j] = true iff needle node i
// may still map to haystack node j (spec.md §4.4.2–§4.4.4).
//
// Backing layout is a flat row-major []bool, the same shape
// matrix/dense.go uses for its numeric matrices, with an added per-row
// true-count cache so "most constrained needle node" selection (spec.md
// §4.4.4) is an O(1) lookup instead of an O(cols) scan.
package solver

// candidateMatrix is a flat row-major boolean matrix with a per-row
// popcount cache.
type candidateMatrix struct {
	rows, cols int
	bits       []bool
	rowCount   []int
}

func newCandidateMatrix(rows, cols int) *candidateMatrix {
	return &candidateMatrix{
		rows:     rows,
		cols:     cols,
		bits:     make([]bool, rows*cols),
		rowCount: make([]int, rows),
	}
}

func (m *candidateMatrix) idx(i, j int) int { return i*m.cols + j }

func (m *candidateMatrix) Get(i, j int) bool { return m.bits[m.idx(i, j)] }

// Set sets M[i][j] = v, maintaining the row popcount.
func (m *candidateMatrix) Set(i, j int, v bool) {
	k := m.idx(i, j)
	if m.bits[k] == v {
		return
	}
	m.bits[k] = v
	if v {
		m.rowCount[i]++
	} else {
		m.rowCount[i]--
	}
}

func (m *candidateMatrix) RowCount(i int) int { return m.rowCount[i] }

// matrixSnapshot is a restore point for the whole matrix, used by the
// backtracker to undo a failed branch's domain reductions.
type matrixSnapshot struct {
	bits     []bool
	rowCount []int
}

func (m *candidateMatrix) Snapshot() matrixSnapshot {
	return matrixSnapshot{
		bits:     append([]bool(nil), m.bits...),
		rowCount: append([]int(nil), m.rowCount...),
	}
}

func (m *candidateMatrix) Restore(s matrixSnapshot) {
	copy(m.bits, s.bits)
	copy(m.rowCount, s.rowCount)
}
