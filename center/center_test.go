package center

import (
	"context"
	"math"
	"testing"

	"github.com/krushna33/minotaur/model"
	"github.com/krushna33/minotaur/testsupport"
)

func TestBuildCenterProblemLinearBothFiniteDuplicates(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, -model.Inf, model.Inf)
	y := b.NewVar("y", model.Continuous, -model.Inf, model.Inf)
	b.AddLinearConstraint("c", []int{x, y}, []float64{1, 1}, 2, 5)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cp := buildCenterProblem(p)
	etaIdx := p.NumVars() // eta is appended last
	var lo, up *model.Constraint
	for i := range cp.Constraints() {
		c := cp.Constraint(i)
		if c.Lb == 2 && model.IsInf(c.Ub) {
			lo = c
		}
		if model.IsInf(c.Lb) && c.Ub == 5 {
			up = c
		}
	}
	if lo == nil || up == nil {
		t.Fatalf("expected duplicated lo/up constraints, got %d constraints", cp.NumConstraints())
	}
	lf := lo.Func.(*model.LinearFunction)
	if lf.Coeff(etaIdx) != 1 {
		t.Errorf("lo constraint eta coeff = %v, want 1", lf.Coeff(etaIdx))
	}
	uf := up.Func.(*model.LinearFunction)
	if uf.Coeff(etaIdx) != -1 {
		t.Errorf("up constraint eta coeff = %v, want -1", uf.Coeff(etaIdx))
	}
}

func TestBuildCenterProblemLinearEqualityUnchanged(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, -model.Inf, model.Inf)
	b.AddLinearConstraint("c", []int{x}, []float64{1}, 3, 3)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cp := buildCenterProblem(p)
	found := false
	for i := range cp.Constraints() {
		c := cp.Constraint(i)
		if c.Lb == 3 && c.Ub == 3 {
			found = true
			lf := c.Func.(*model.LinearFunction)
			etaIdx := p.NumVars()
			if lf.Coeff(etaIdx) != 0 {
				t.Errorf("equality constraint should not gain an eta term, got coeff %v", lf.Coeff(etaIdx))
			}
		}
	}
	if !found {
		t.Fatalf("equality constraint [3,3] not found unchanged among %d constraints", cp.NumConstraints())
	}
}

func TestBuildCenterProblemNonlinearGainsEtaTerm(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, -model.Inf, model.Inf)
	y := b.NewVar("y", model.Continuous, -model.Inf, model.Inf)
	b.AddNonlinearConstraint("circle", []int{x, y},
		func(v []float64) (float64, error) { return v[0]*v[0] + v[1]*v[1], nil },
		func(v []float64) ([]float64, error) { return []float64{2 * v[0], 2 * v[1]}, nil },
		-model.Inf, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cp := buildCenterProblem(p)
	etaIdx := p.NumVars()
	c := cp.Constraint(0)
	if c.Lb != -model.Inf || c.Ub != 1 {
		t.Errorf("bounds changed for nonlinear constraint: [%v,%v], want [-Inf,1]", c.Lb, c.Ub)
	}
	v, err := c.Func.Eval([]float64{3, 4, 10}) // x=3,y=4,eta=10
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	want := 3.0*3 + 4.0*4 - 10 // x^2+y^2-eta
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("shifted nonlinear eval = %v, want %v", v, want)
	}
	g, err := c.Func.Grad([]float64{3, 4, 10})
	if err != nil {
		t.Fatalf("Grad: %v", err)
	}
	if g[etaIdx] != -1 {
		t.Errorf("grad w.r.t eta = %v, want -1", g[etaIdx])
	}
}

func TestFindBoxCenterIsMidpoint(t *testing.T) {
	// A pure box [-1,1]x[-1,1] with no other constraints: the analytic
	// center problem reduces to eta=-1, solC=(0,0) exactly (the box's
	// own center, with margin 1 on every side).
	b := model.NewBuilder()
	b.NewVar("x", model.Continuous, -1, 1)
	b.NewVar("y", model.Continuous, -1, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tmpl := testsupport.NewPenaltyEngine()
	tmpl.Iterations = 6000
	solC, ok := Find(context.Background(), p, tmpl)
	if !ok {
		t.Fatalf("Find reported no center for a box problem")
	}
	if len(solC) != 2 {
		t.Fatalf("solC has length %d, want 2", len(solC))
	}
	for i, v := range solC {
		if math.Abs(v) > 0.1 {
			t.Errorf("solC[%d] = %v, want close to 0", i, v)
		}
	}
}
