package presolve

import (
	"testing"

	"github.com/krushna33/minotaur/errs"
	"github.com/krushna33/minotaur/model"
)

func TestBoundTightenNarrowsUpperBound(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, 0, 100)
	y := b.NewVar("y", model.Continuous, 2, 5)
	b.AddLinearConstraint("c", []int{x, y}, []float64{1, 1}, -model.Inf, 10)
	b.SetLinearObjective([]int{x}, []float64{1}, model.Minimize)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	h := NewBoundTightenHandler(1e-9)
	mods, changed, status, sol, err := h.Presolve(p)
	if err != nil {
		t.Fatalf("Presolve: %v", err)
	}
	if sol != nil {
		t.Fatalf("sol = %v, want nil", sol)
	}
	if !changed {
		t.Fatal("changed = false, want true")
	}
	if status != errs.Started {
		t.Fatalf("status = %v, want Started", status)
	}
	if len(mods) == 0 {
		t.Fatal("no mods recorded despite changed=true")
	}

	// x+y<=10, y in [2,5] => x <= 10-2 = 8, tighter than x's original ub of 100.
	if got := p.Var(x).Ub; got != 8 {
		t.Errorf("x.Ub = %v, want 8", got)
	}
	if got := p.Var(x).Lb; got != 0 {
		t.Errorf("x.Lb = %v, want 0 (unchanged)", got)
	}
}

func TestBoundTightenDetectsInfeasibility(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, 5, 10)
	b.AddLinearConstraint("c", []int{x}, []float64{1}, -model.Inf, 1)
	b.SetLinearObjective([]int{x}, []float64{1}, model.Minimize)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	h := NewBoundTightenHandler(1e-9)
	_, _, status, _, err := h.Presolve(p)
	if err != nil {
		t.Fatalf("Presolve: %v", err)
	}
	if status != errs.SolvedInfeasible {
		t.Fatalf("status = %v, want SolvedInfeasible", status)
	}
}

func TestBoundTightenNoOpWhenAlreadyTight(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, 0, 5)
	b.AddLinearConstraint("c", []int{x}, []float64{1}, -model.Inf, 10)
	b.SetLinearObjective([]int{x}, []float64{1}, model.Minimize)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	h := NewBoundTightenHandler(1e-9)
	_, changed, status, _, err := h.Presolve(p)
	if err != nil {
		t.Fatalf("Presolve: %v", err)
	}
	if status != errs.Started {
		t.Fatalf("status = %v, want Started", status)
	}
	if changed {
		t.Error("changed = true for a constraint looser than the variable's own bounds")
	}
	if p.Var(x).Ub != 5 {
		t.Errorf("x.Ub = %v, want 5 (unchanged)", p.Var(x).Ub)
	}
}
