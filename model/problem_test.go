package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestReverseSenseS5(t *testing.T) {
	// S5: constraint 5 <= 3x + y with ub = +Inf becomes -3x - y <= -5.
	b := NewBuilder()
	x := b.NewVar("x", Continuous, -Inf, Inf)
	y := b.NewVar("y", Continuous, -Inf, Inf)
	ci := b.AddLinearConstraint("c", []int{x, y}, []float64{3, 1}, 5, Inf)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := p.ReverseSense(ci); err != nil {
		t.Fatalf("ReverseSense: %v", err)
	}
	c := p.Constraint(ci)
	if c.Lb != -Inf || c.Ub != -5 {
		t.Errorf("bounds = [%v,%v], want [-Inf,-5]", c.Lb, c.Ub)
	}
	lf := c.Func.(*LinearFunction)
	if diff := cmp.Diff(-3.0, lf.Coeff(x)); diff != "" {
		t.Errorf("coeff(x) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(-1.0, lf.Coeff(y)); diff != "" {
		t.Errorf("coeff(y) mismatch (-want +got):\n%s", diff)
	}
}

func TestNegateObjS6(t *testing.T) {
	// S6: max(2x+3y) becomes min(-2x-3y).
	b := NewBuilder()
	x := b.NewVar("x", Continuous, 0, 10)
	y := b.NewVar("y", Continuous, 0, 10)
	b.SetLinearObjective([]int{x, y}, []float64{2, 3}, Maximize)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p.NegateObj()
	if p.ObjSense() != Minimize {
		t.Errorf("ObjSense() = %v, want Minimize", p.ObjSense())
	}
	got, err := p.Objective().Eval([]float64{1, 1})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != -5 {
		t.Errorf("Objective at (1,1) = %v, want -5", got)
	}
}

func TestBoundStackFixReversibleS4(t *testing.T) {
	// S4: fixing then undoing an integer variable's bounds restores
	// them bitwise.
	b := NewBuilder()
	z := b.NewVar("z", Integer, 0, 10)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	before := *p.Var(z)
	var stack BoundStack
	stack.Fix(p, z, 2)
	if p.Var(z).Lb != 2 || p.Var(z).Ub != 2 {
		t.Fatalf("after Fix: bounds = [%v,%v], want [2,2]", p.Var(z).Lb, p.Var(z).Ub)
	}
	stack.UndoAll(p)
	after := *p.Var(z)
	if diff := cmp.Diff(before, after, cmpopts.IgnoreUnexported(Variable{})); diff != "" {
		t.Errorf("bounds not restored (-want +got):\n%s", diff)
	}
	if stack.Len() != 0 {
		t.Errorf("stack.Len() = %d after UndoAll, want 0", stack.Len())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBuilder()
	x := b.NewVar("x", Continuous, 0, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	clone := p.Clone()
	clone.Var(x).Ub = 5
	if p.Var(x).Ub != 1 {
		t.Errorf("mutating clone affected source: p.Var(x).Ub = %v, want 1", p.Var(x).Ub)
	}
}

func TestConstraintViolation(t *testing.T) {
	b := NewBuilder()
	x := b.NewVar("x", Continuous, -Inf, Inf)
	ci := b.AddLinearConstraint("c", []int{x}, []float64{1}, -Inf, 10)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := p.Constraint(ci)
	v, err := c.Violation([]float64{10.5}, 1e-6, 1e-6)
	if err != nil {
		t.Fatalf("Violation: %v", err)
	}
	if v <= 0 {
		t.Errorf("Violation(10.5) = %v, want > 0", v)
	}
	v, err = c.Violation([]float64{9.9}, 1e-6, 1e-6)
	if err != nil {
		t.Fatalf("Violation: %v", err)
	}
	if v > 0 {
		t.Errorf("Violation(9.9) = %v, want <= 0", v)
	}
}
