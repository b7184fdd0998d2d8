package linearize

import (
	"math"
	"testing"

	"github.com/krushna33/minotaur/model"
	"github.com/krushna33/minotaur/options"
)

func buildS1Problem(t *testing.T) (*model.Problem, int) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, -2, 3)
	y := b.NewVar("y", model.Continuous, -model.Inf, model.Inf)
	conIdx := b.AddUnivariateNonlinearConstraint("g", []int{x, y}, x,
		func(v []float64) (float64, error) { return v[x]*v[x] - v[y], nil },
		func(v []float64) ([]float64, error) { return []float64{2 * v[x], -1}, nil },
		-model.Inf, 0)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p, conIdx
}

// TestScheme1ConvexUnivariate grounds S1: g(x)=x^2-y<=0, x in [-2,3],
// rs1=5. The two endpoint tangents must be exact: slope (2x,-1) at each
// bound, and the scheme must converge (not diverge) within a bounded
// number of cuts.
func TestScheme1ConvexUnivariate(t *testing.T) {
	p, conIdx := buildS1Problem(t)
	opts := options.NewDB()
	opts.RootLinScheme1 = 5
	g := New(p, opts)

	added := g.Scheme1(conIdx)
	if added < 2 {
		t.Fatalf("Scheme1 added %d cuts, want at least 2 (the endpoint tangents)", added)
	}
	if added > 20 {
		t.Fatalf("Scheme1 added %d cuts without converging", added)
	}

	lf0 := g.Cuts[0].Func.(*model.LinearFunction)
	if lf0.Coeff(0) != -4 || lf0.Coeff(1) != -1 {
		t.Errorf("tangent at x=-2: coeffs = (%v,%v), want (-4,-1)", lf0.Coeff(0), lf0.Coeff(1))
	}
	lf1 := g.Cuts[1].Func.(*model.LinearFunction)
	if lf1.Coeff(0) != 6 || lf1.Coeff(1) != -1 {
		t.Errorf("tangent at x=3: coeffs = (%v,%v), want (6,-1)", lf1.Coeff(0), lf1.Coeff(1))
	}

	// Every emitted cut must be valid: any point on the original curve
	// (x, x^2) must satisfy it, per the cut-validity property.
	for _, c := range g.Cuts {
		for xv := -2.0; xv <= 3.0; xv += 0.5 {
			act, err := c.Eval([]float64{xv, xv * xv})
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if act > c.Ub+1e-6 {
				t.Errorf("cut %q violated by curve point x=%v: act=%v, ub=%v", c.Name, xv, act, c.Ub)
			}
		}
	}
}

func TestScheme1NoOpWithoutLinVar(t *testing.T) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, -2, 3)
	conIdx := b.AddUnivariateNonlinearConstraint("g", []int{x}, x,
		func(v []float64) (float64, error) { return v[x] * v[x], nil },
		func(v []float64) ([]float64, error) { return []float64{2 * v[x]}, nil },
		-model.Inf, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	opts := options.NewDB()
	opts.RootLinScheme1 = 5
	g := New(p, opts)
	if added := g.Scheme1(conIdx); added != 0 {
		t.Errorf("Scheme1 added %d cuts for a constraint with no linear variable, want 0", added)
	}
}

func TestIntersectLineMatchesS1(t *testing.T) {
	// Cramer's rule sanity check against the exact S1 intersection point
	// derived by hand: tangents -4x-y<=4 and 6x-y<=9 meet at x=0.5.
	_, y, ok := intersectLine(-1, -4, 4, -1, 6, 9)
	if !ok {
		t.Fatal("intersectLine reported no solution")
	}
	if math.Abs(y-0.5) > 1e-9 {
		t.Errorf("intersection x-coordinate = %v, want 0.5", y)
	}
}
