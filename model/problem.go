package model

import "fmt"

// ObjSense is the direction of optimization.
type ObjSense int

const (
	Minimize ObjSense = iota
	Maximize
)

// Problem is a dense vector of Variables and a dense vector of
// Constraints, with entities referring to each other by stable integer
// index rather than shared pointers. This makes cloning (used to build
// the OA Handler's initial relaxation) a matter of copying two slices,
// and makes reversible bound modifications a simple
// index-keyed stack (BoundStack, below).
type Problem struct {
	vars     []Variable
	cons     []Constraint
	obj      Function
	objSense ObjSense
	nextID   int
}

// NewProblem returns an empty Problem minimizing a zero objective.
func NewProblem() *Problem {
	return &Problem{obj: NewEmptyLinearFunction(0)}
}

// NumVars implements engine.Problem.
func (p *Problem) NumVars() int { return len(p.vars) }

// NumConstraints implements engine.Problem.
func (p *Problem) NumConstraints() int { return len(p.cons) }

// AddVar appends v to the variable arena, assigns it a fresh immutable
// id and the next dense index, and returns that index. Variable indices
// stay dense and contiguous after every AddVar.
func (p *Problem) AddVar(v Variable) int {
	v.id = p.nextID
	p.nextID++
	v.Index = len(p.vars)
	p.vars = append(p.vars, v)
	return v.Index
}

// Var returns a pointer into the arena for the variable at idx. The
// pointer is invalidated by any subsequent AddVar (slice may reallocate);
// callers needing a stable reference should track the index instead.
func (p *Problem) Var(idx int) *Variable { return &p.vars[idx] }

// Variables returns the dense variable arena.
func (p *Problem) Variables() []Variable { return p.vars }

// AddConstraint appends c to the constraint arena and returns its index,
// which is stable for the lifetime of the constraint.
func (p *Problem) AddConstraint(c Constraint) int {
	c.index = len(p.cons)
	p.cons = append(p.cons, c)
	return c.index
}

// Constraint returns a pointer into the arena for the constraint at idx.
func (p *Problem) Constraint(idx int) *Constraint { return &p.cons[idx] }

// Constraints returns the dense constraint arena.
func (p *Problem) Constraints() []Constraint { return p.cons }

// ReplaceConstraint overwrites the function/bounds of the constraint at
// idx in place, preserving its index.
func (p *Problem) ReplaceConstraint(idx int, f Function, lb, ub float64) error {
	if idx < 0 || idx >= len(p.cons) {
		return fmt.Errorf("model: constraint index %d out of range", idx)
	}
	p.cons[idx].Func = f
	p.cons[idx].Lb = lb
	p.cons[idx].Ub = ub
	return nil
}

// Objective returns the problem's objective function.
func (p *Problem) Objective() Function { return p.obj }

// ObjSense returns the current optimization direction.
func (p *Problem) ObjSense() ObjSense { return p.objSense }

// SetObjective installs f as the objective, minimized or maximized per
// sense.
func (p *Problem) SetObjective(f Function, sense ObjSense) {
	p.obj = f
	p.objSense = sense
}

// RemoveObjective replaces the objective with a zero linear function,
// leaving ObjSense at Minimize, so the problem becomes feasibility-only.
func (p *Problem) RemoveObjective() {
	p.obj = NewEmptyLinearFunction(len(p.vars))
	p.objSense = Minimize
}

// NegateObj negates the objective function's contribution and flips the
// sense: a Maximize objective f(x) becomes an equivalent Minimize
// objective -f(x). Only meaningful for a Maximize objective; callers
// typically check the sense first.
func (p *Problem) NegateObj() {
	p.obj = negate(p.obj)
	p.objSense = Minimize
}

// ReverseSense flips the constraint at idx from a finite-lb/infinite-ub
// form into an equivalent finite-ub/infinite-lb form by negating its
// function and swapping/negating its bounds: lb <= g(x) with ub==+Inf
// becomes -g(x) <= -lb.
func (p *Problem) ReverseSense(idx int) error {
	if idx < 0 || idx >= len(p.cons) {
		return fmt.Errorf("model: constraint index %d out of range", idx)
	}
	c := &p.cons[idx]
	// Negating the Inf sentinel yields the opposite sentinel, so infinite
	// sides stay infinite with the sign flipped.
	newUb := -c.Lb
	newLb := -c.Ub
	c.Func = negate(c.Func)
	c.Lb, c.Ub = newLb, newUb
	return nil
}

// negate returns -f as a Function of the same shape, without mutating f.
func negate(f Function) Function {
	switch t := f.(type) {
	case *LinearFunction:
		neg := NewEmptyLinearFunction(t.n)
		for i, c := range t.coeffs {
			neg.coeffs[i] = -c
		}
		return neg
	case *QuadraticFunction:
		negLinear := negate(t.Linear).(*LinearFunction)
		pairs := make([]QuadraticPair, len(t.Pairs))
		for i, pr := range t.Pairs {
			pairs[i] = QuadraticPair{I: pr.I, J: pr.J, Coef: -pr.Coef}
		}
		return NewQuadraticFunction(t.n, negLinear, pairs)
	case *OpaqueFunction:
		eval := t.eval
		grad := t.grad
		return NewOpaqueFunction(t.n, func(x []float64) (float64, error) {
			v, err := eval(x)
			return -v, err
		}, func(x []float64) ([]float64, error) {
			g, err := grad(x)
			if err != nil {
				return nil, err
			}
			out := make([]float64, len(g))
			for i, v := range g {
				out[i] = -v
			}
			return out, nil
		})
	default:
		return f
	}
}

// Clone deep-copies the variable and constraint arenas (functions are
// shared by reference since they are treated as immutable once built;
// negate/ReplaceConstraint always install a fresh Function rather than
// mutate one in place, so sharing is safe). Variables and constraints
// added to the copy do not appear in p, which is how the OA Handler's
// relaxation is grown with cuts without touching the source problem.
func (p *Problem) Clone() *Problem {
	np := &Problem{
		obj:      p.obj,
		objSense: p.objSense,
		nextID:   p.nextID,
	}
	np.vars = make([]Variable, len(p.vars))
	copy(np.vars, p.vars)
	np.cons = make([]Constraint, len(p.cons))
	copy(np.cons, p.cons)
	return np
}

// NonlinearConstraints returns the indices of every constraint whose
// function is not purely linear/constant, i.e. the nlCons_ set the OA
// Handler and Linearization Generator both need.
func (p *Problem) NonlinearConstraints() []int {
	var out []int
	for i := range p.cons {
		if p.cons[i].IsNonlinear() {
			out = append(out, i)
		}
	}
	return out
}
