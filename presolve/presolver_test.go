package presolve

import (
	"context"
	"testing"

	"github.com/krushna33/minotaur/engine"
	"github.com/krushna33/minotaur/errs"
	"github.com/krushna33/minotaur/model"
	"github.com/krushna33/minotaur/options"
)

func TestStandardizeNegatesMaximizeObjective(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, 0, 10)
	b.AddLinearConstraint("c", []int{x}, []float64{1}, -model.Inf, 10)
	b.SetLinearObjective([]int{x}, []float64{1}, model.Maximize)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	d := New(p, options.NewDB(), nil)
	d.Standardize()

	if p.ObjSense() != model.Minimize {
		t.Fatalf("ObjSense = %v, want Minimize", p.ObjSense())
	}
	lf := p.Objective().(*model.LinearFunction)
	if lf.Coeff(x) != -1 {
		t.Errorf("objective coeff = %v, want -1", lf.Coeff(x))
	}
}

func TestStandardizePromotesIntToBinary(t *testing.T) {
	b := model.NewBuilder()
	i := b.NewVar("i", model.Integer, 0, 1)
	b.AddLinearConstraint("c", []int{i}, []float64{1}, -model.Inf, 1)
	b.SetLinearObjective([]int{i}, []float64{1}, model.Minimize)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	d := New(p, options.NewDB(), nil)
	d.Standardize()

	if p.Var(i).Type != model.Binary {
		t.Errorf("var type = %v, want Binary", p.Var(i).Type)
	}
}

func TestStandardizeReversesLbOnlyConstraint(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, -10, 10)
	ci := b.AddLinearConstraint("c", []int{x}, []float64{1}, 2, model.Inf)
	b.SetLinearObjective([]int{x}, []float64{1}, model.Minimize)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	d := New(p, options.NewDB(), nil)
	d.Standardize()

	c := p.Constraint(ci)
	if c.Lb != -model.Inf || c.Ub != -2 {
		t.Fatalf("after reverse: [%v,%v], want [-Inf,-2]", c.Lb, c.Ub)
	}
	lf := c.Func.(*model.LinearFunction)
	if lf.Coeff(x) != -1 {
		t.Errorf("reversed coeff = %v, want -1", lf.Coeff(x))
	}
}

// recordingHandler never changes the problem; used to exercise the
// non-progress stop condition and count how many times it was invoked.
type recordingHandler struct{ calls int }

func (h *recordingHandler) Name() string { return "recording" }
func (h *recordingHandler) Presolve(p *model.Problem) ([]PreMod, bool, errs.SolveStatus, *engine.Solution, error) {
	h.calls++
	return nil, false, errs.Started, nil, nil
}

func TestSolveStopsOnNonProgress(t *testing.T) {
	b := model.NewBuilder()
	b.NewVar("x", model.Continuous, 0, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	h := &recordingHandler{}
	d := New(p, options.NewDB(), []Handler{h})
	status := d.Solve(context.Background())
	if status != errs.Finished {
		t.Fatalf("status = %v, want Finished", status)
	}
	if h.calls == 0 {
		t.Fatal("handler never invoked")
	}
	if h.calls > 3 {
		t.Errorf("handler invoked %d times with a single no-op handler, want it to stop quickly", h.calls)
	}
}

// optimalHandler reports SolvedOptimal with a solution on its first call.
type optimalHandler struct{}

func (optimalHandler) Name() string { return "optimal" }
func (optimalHandler) Presolve(p *model.Problem) ([]PreMod, bool, errs.SolveStatus, *engine.Solution, error) {
	return nil, false, errs.SolvedOptimal, &engine.Solution{Obj: 0, Primal: []float64{0}}, nil
}

func TestSolveReturnsSolvedOptimal(t *testing.T) {
	b := model.NewBuilder()
	b.NewVar("x", model.Continuous, 0, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	d := New(p, options.NewDB(), []Handler{optimalHandler{}})
	status := d.Solve(context.Background())
	if status != errs.SolvedOptimal {
		t.Fatalf("status = %v, want SolvedOptimal", status)
	}
}

// brokenOptimalHandler violates the SolvedOptimal-implies-solution
// invariant.
type brokenOptimalHandler struct{}

func (brokenOptimalHandler) Name() string { return "broken" }
func (brokenOptimalHandler) Presolve(p *model.Problem) ([]PreMod, bool, errs.SolveStatus, *engine.Solution, error) {
	return nil, false, errs.SolvedOptimal, nil, nil
}

func TestSolveReportsErrorWhenOptimalHasNoSolution(t *testing.T) {
	b := model.NewBuilder()
	b.NewVar("x", model.Continuous, 0, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	d := New(p, options.NewDB(), []Handler{brokenOptimalHandler{}})
	status := d.Solve(context.Background())
	if status != errs.SolveError {
		t.Fatalf("status = %v, want SolveError", status)
	}
}

func TestGetXFoldsPreModsInOrder(t *testing.T) {
	b := model.NewBuilder()
	b.NewVar("x", model.Continuous, 0, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	d := New(p, options.NewDB(), nil)
	d.mods = []PreMod{appendMod(1), appendMod(2)}

	out := d.GetX([]float64{0})
	if len(out) != 3 || out[1] != 1 || out[2] != 2 {
		t.Fatalf("GetX = %v, want [0 1 2]", out)
	}
}

type appendMod float64

func (m appendMod) PostsolveGetX(x []float64) []float64 {
	return append(x, float64(m))
}

func TestPostsolvePreservesObjective(t *testing.T) {
	b := model.NewBuilder()
	b.NewVar("x", model.Continuous, 0, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	d := New(p, options.NewDB(), nil)

	out := d.Postsolve(engine.Solution{Obj: 3.5, Primal: []float64{1}})
	if out.Obj != 3.5 {
		t.Errorf("Obj = %v, want 3.5", out.Obj)
	}
	if len(out.Primal) != 1 || out.Primal[0] != 1 {
		t.Errorf("Primal = %v, want [1]", out.Primal)
	}
}
