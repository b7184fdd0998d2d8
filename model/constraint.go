package model

import "math"

// Constraint is a (function, lb, ub) triple. A constraint is violated at
// x when activity(x) > ub + max(absTol, |ub|*relTol), or symmetrically
// for lb.
type Constraint struct {
	index int
	Name  string
	Func  Function
	Lb    float64
	Ub    float64
	// immutable is true for Linear/Constant functional types, whose
	// functional type never changes after construction (a nonlinear
	// constraint is never reclassified either, but nothing depends on
	// this flag to protect that).
	immutable bool
}

// Index returns the constraint's stable arena index.
func (c *Constraint) Index() int { return c.index }

// IsNonlinear reports whether the constraint's function has a nonlinear
// part, i.e. needs OA cuts rather than being usable directly in a MILP.
func (c *Constraint) IsNonlinear() bool {
	return c.Func.Type() == FuncNonlinear || c.Func.Type() == FuncQuadratic
}

// Activity evaluates the constraint's function at x.
func (c *Constraint) Activity(x []float64) (float64, error) {
	return c.Func.Eval(x)
}

// Violation reports how far activity(x) exceeds [Lb,Ub] under the given
// absolute/relative tolerances. A non-positive return means the
// constraint is satisfied.
func (c *Constraint) Violation(x []float64, absTol, relTol float64) (float64, error) {
	act, err := c.Activity(x)
	if err != nil {
		return 0, err
	}
	if !IsInf(c.Ub) {
		tol := math.Max(absTol, math.Abs(c.Ub)*relTol)
		if v := act - c.Ub - tol; v > 0 {
			return v, nil
		}
	}
	if !IsInf(c.Lb) {
		tol := math.Max(absTol, math.Abs(c.Lb)*relTol)
		if v := c.Lb - act - tol; v > 0 {
			return v, nil
		}
	}
	return 0, nil
}

// IsActive reports whether the constraint's activity at x sits within tol
// of either bound.
func (c *Constraint) IsActive(x []float64, tol float64) (bool, error) {
	act, err := c.Activity(x)
	if err != nil {
		return false, err
	}
	if !IsInf(c.Ub) && math.Abs(act-c.Ub) <= tol {
		return true, nil
	}
	if !IsInf(c.Lb) && math.Abs(act-c.Lb) <= tol {
		return true, nil
	}
	return false, nil
}
