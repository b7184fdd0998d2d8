// Package yeq implements the auxiliary-variable deduplication map: a
// directory from an ordered pair of variable indices to a previously
// introduced auxiliary variable, so reformulation never introduces two
// auxiliaries for the same bivariate term. Grounded directly on
// original_source/src/base/YEqBivar.cpp: parallel slices filtered by a
// precomputed id-hash before the full equality check, rather than a map,
// because the original's key is the (possibly-reassigned) variable
// identity, not just its id — two variables can share an id hash without
// being the same pointer/index if the table outlives a clone.
package yeq

// Bivar records one (v1, v2) -> y entry, keyed by the two variables'
// immutable ids (playing the role of the original's VariablePtr
// identity, which survives presolve reindexing the way a dense arena
// Index would not) plus the precomputed hash used to short-circuit the
// scan before the full equality check.
type Bivar struct {
	v1, v2 int
	hash1  int
	hash2  int
	y      int
}

// Table is the YEqBivar map. The zero value is an empty table.
type Table struct {
	entries []Bivar
}

// FindY returns the auxiliary variable index for the ordered pair
// (v1, v2), and false if no such pair has been inserted. If (v1,v2) was
// inserted more than once, the most recently inserted y wins: the scan
// runs back-to-front, a stack-like override semantics that is a strict
// superset of the original's never-duplicate usage pattern (the
// original never inserts the same pair twice).
func (t *Table) FindY(v1, v2 int) (int, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := &t.entries[i]
		if e.hash1 == v1 && e.hash2 == v2 && e.v1 == v1 && e.v2 == v2 {
			return e.y, true
		}
	}
	return 0, false
}

// Insert records that auxiliary variable y is equivalent to the bivar
// term (v1, v2).
func (t *Table) Insert(y, v1, v2 int) {
	t.entries = append(t.entries, Bivar{v1: v1, v2: v2, hash1: v1, hash2: v2, y: y})
}

// Len reports the number of recorded entries.
func (t *Table) Len() int { return len(t.entries) }

// Clone returns an independent copy of the table: auxiliaries are
// carried over verbatim and no new bivariate terms are discovered
// during cloning, so Clone never calls Insert again.
func (t *Table) Clone() *Table {
	out := &Table{entries: make([]Bivar, len(t.entries))}
	copy(out.entries, t.entries)
	return out
}
