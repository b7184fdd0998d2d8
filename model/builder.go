package model

import "fmt"

// Builder accumulates variables and constraints into a Problem, tracking
// the first error encountered so callers can chain calls without
// checking each one, the same first-error-wins shape as cpmodel.Builder
// wrapping a CpModelProto.
type Builder struct {
	p   *Problem
	err error
}

// NewBuilder returns a Builder around a fresh, empty Problem.
func NewBuilder() *Builder {
	return &Builder{p: NewProblem()}
}

func (b *Builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

// NewVar adds a variable and returns its index. Errors (invalid bounds)
// are deferred to Build.
func (b *Builder) NewVar(name string, t VarType, lb, ub float64) int {
	if b.err != nil {
		return -1
	}
	if lb > ub {
		b.fail("model: variable %q has lb %v > ub %v", name, lb, ub)
		return -1
	}
	return b.p.AddVar(Variable{Name: name, Type: t, Lb: lb, Ub: ub, Role: Linear})
}

// MarkNonlinear tags the variable at idx as participating in a nonlinear
// term.
func (b *Builder) MarkNonlinear(idx int) {
	if b.err != nil {
		return
	}
	if idx < 0 || idx >= len(b.p.vars) {
		b.fail("model: MarkNonlinear: index %d out of range", idx)
		return
	}
	b.p.vars[idx].Role = Nonlinear
}

// AddLinearConstraint adds Σ coeffs[i]*x[idx[i]] within [lb,ub].
func (b *Builder) AddLinearConstraint(name string, idx []int, coef []float64, lb, ub float64) int {
	if b.err != nil {
		return -1
	}
	if len(idx) != len(coef) {
		b.fail("model: AddLinearConstraint %q: len(idx)=%d != len(coef)=%d", name, len(idx), len(coef))
		return -1
	}
	f := NewLinearFunction(len(b.p.vars), idx, coef)
	return b.p.AddConstraint(Constraint{Name: name, Func: f, Lb: lb, Ub: ub, immutable: true})
}

// AddNonlinearConstraint adds an opaque nonlinear constraint within
// [lb,ub], and marks every variable index it touches as Nonlinear.
func (b *Builder) AddNonlinearConstraint(name string, touches []int, eval Evaluator, grad GradEvaluator, lb, ub float64) int {
	if b.err != nil {
		return -1
	}
	f := NewOpaqueFunction(len(b.p.vars), eval, grad).WithTouches(touches)
	idx := b.p.AddConstraint(Constraint{Name: name, Func: f, Lb: lb, Ub: ub})
	for _, v := range touches {
		b.MarkNonlinear(v)
	}
	return idx
}

// AddUnivariateNonlinearConstraint is AddNonlinearConstraint for the
// common shape RS1/RS2 exploit: a nonlinear term depending on exactly
// nlVar, optionally summed with one linear term in a different variable.
// touches must list every variable the evaluator reads.
func (b *Builder) AddUnivariateNonlinearConstraint(name string, touches []int, nlVar int, eval Evaluator, grad GradEvaluator, lb, ub float64) int {
	if b.err != nil {
		return -1
	}
	f := NewOpaqueFunction(len(b.p.vars), eval, grad).WithTouches(touches).WithUnivariateNl(nlVar)
	idx := b.p.AddConstraint(Constraint{Name: name, Func: f, Lb: lb, Ub: ub})
	for _, v := range touches {
		b.MarkNonlinear(v)
	}
	return idx
}

// SetLinearObjective installs Σ coeffs[i]*x[idx[i]] as the objective.
func (b *Builder) SetLinearObjective(idx []int, coef []float64, sense ObjSense) {
	if b.err != nil {
		return
	}
	if len(idx) != len(coef) {
		b.fail("model: SetLinearObjective: len(idx)=%d != len(coef)=%d", len(idx), len(coef))
		return
	}
	b.p.SetObjective(NewLinearFunction(len(b.p.vars), idx, coef), sense)
}

// SetNonlinearObjective installs an opaque nonlinear objective.
func (b *Builder) SetNonlinearObjective(touches []int, eval Evaluator, grad GradEvaluator, sense ObjSense) {
	if b.err != nil {
		return
	}
	b.p.SetObjective(NewOpaqueFunction(len(b.p.vars), eval, grad), sense)
	for _, v := range touches {
		b.MarkNonlinear(v)
	}
}

// Build returns the accumulated Problem, or the first error recorded by
// any prior call.
func (b *Builder) Build() (*Problem, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.p, nil
}
