package model

// BoundMod records a variable's bounds before a reversible modification,
// so it can be restored later.
type BoundMod struct {
	VarIndex int
	OldLb    float64
	OldUb    float64
}

// BoundStack is a LIFO of BoundMods. The Single-Tree OA Handler's
// fixedNLP pushes one entry per integer/binary variable it fixes, then
// pops the whole stack to restore the source problem's bounds before
// returning; those bounds must come back bitwise identical.
type BoundStack struct {
	mods []BoundMod
}

// Fix records p's current bounds for idx, then sets both bounds to val.
func (s *BoundStack) Fix(p *Problem, idx int, val float64) {
	v := p.Var(idx)
	s.mods = append(s.mods, BoundMod{VarIndex: idx, OldLb: v.Lb, OldUb: v.Ub})
	v.Lb, v.Ub = val, val
}

// UndoAll pops every recorded modification in LIFO order, restoring p's
// bounds, and empties the stack.
func (s *BoundStack) UndoAll(p *Problem) {
	for i := len(s.mods) - 1; i >= 0; i-- {
		m := s.mods[i]
		v := p.Var(m.VarIndex)
		v.Lb, v.Ub = m.OldLb, m.OldUb
	}
	s.mods = s.mods[:0]
}

// Len reports how many modifications are currently pushed.
func (s *BoundStack) Len() int { return len(s.mods) }
