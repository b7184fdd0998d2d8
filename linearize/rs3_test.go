package linearize

import (
	"math"
	"testing"

	"github.com/krushna33/minotaur/model"
	"github.com/krushna33/minotaur/options"
)

func buildDiskProblem(t *testing.T) (*model.Problem, int) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, -5, 5)
	y := b.NewVar("y", model.Continuous, -5, 5)
	conIdx := b.AddNonlinearConstraint("disk", []int{x, y},
		func(v []float64) (float64, error) { return v[x]*v[x] + v[y]*v[y], nil },
		func(v []float64) ([]float64, error) { return []float64{2 * v[x], 2 * v[y]}, nil },
		-model.Inf, 1)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p, conIdx
}

// TestBoundaryPointFindsCircleEdge bisects from the disk's center (which
// satisfies x^2+y^2<=1) toward an infeasible LP iterate, and expects the
// midpoint search to land on the unit circle.
func TestBoundaryPointFindsCircleEdge(t *testing.T) {
	p, conIdx := buildDiskProblem(t)
	con := p.Constraint(conIdx)
	solC := []float64{0, 0}
	lpx := []float64{4, 0}

	x, ok := boundaryPoint(con, solC, lpx, 1e-7, 1e-7)
	if !ok {
		t.Fatal("boundaryPoint did not converge")
	}
	r := math.Hypot(x[0], x[1])
	if math.Abs(r-1) > 1e-4 {
		t.Errorf("boundary point radius = %v, want ~1", r)
	}
	if x[1] > 1e-4 {
		t.Errorf("boundary point strayed off the x-axis: y=%v", x[1])
	}
}

func TestScheme3RoundCutsInfeasibleLp(t *testing.T) {
	p, _ := buildDiskProblem(t)
	opts := options.NewDB()
	g := New(p, opts)

	solC := []float64{0, 0}
	lpx := []float64{4, 0}
	added := g.Scheme3Round(lpx, solC, -1, false, 0)
	if added != 1 {
		t.Fatalf("Scheme3Round added %d cuts, want 1", added)
	}
	c := g.Cuts[0]
	act, err := c.Eval([]float64{1, 0})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if act > c.Ub+1e-6 {
		t.Errorf("cut rejects the boundary point (1,0): act=%v ub=%v", act, c.Ub)
	}
	if act2, _ := c.Eval(lpx); act2 <= c.Ub+1e-6 {
		t.Errorf("cut does not separate the infeasible LP iterate %v", lpx)
	}
}
