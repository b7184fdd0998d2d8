package linearize

import (
	"testing"

	"github.com/krushna33/minotaur/options"
)

// TestScheme4GS1FindsCuts drives GS1 outward from the disk's center,
// along the axes and the diagonal, and expects at least one valid cut
// against the boundary it crosses.
func TestScheme4GS1FindsCuts(t *testing.T) {
	p, _ := buildDiskProblem(t)
	opts := options.NewDB()
	opts.RootGenLinScheme1 = true
	g := New(p, opts)

	solC := []float64{0, 0}
	added := g.Scheme4GS1(solC)
	if added == 0 {
		t.Fatal("Scheme4GS1 added no cuts")
	}
	for _, c := range g.Cuts {
		act, err := c.Eval([]float64{0, 0})
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if act > c.Ub+1e-6 {
			t.Errorf("cut %q excludes the analytic center: act=%v ub=%v", c.Name, act, c.Ub)
		}
	}
}

func TestScheme4GS1DisabledByOption(t *testing.T) {
	p, _ := buildDiskProblem(t)
	opts := options.NewDB()
	opts.RootGenLinScheme1 = false
	g := New(p, opts)
	if added := g.Scheme4GS1([]float64{0, 0}); added != 0 {
		t.Errorf("Scheme4GS1 added %d cuts while disabled, want 0", added)
	}
}

func TestScheme5GS2CentersOnNlp(t *testing.T) {
	p, _ := buildDiskProblem(t)
	opts := options.NewDB()
	opts.RootGenLinScheme2 = true
	g := New(p, opts)

	solC := []float64{0, 0}
	nlpx := []float64{0.2, 0.2}
	added := g.Scheme5GS2(solC, nlpx)
	if added == 0 {
		t.Fatal("Scheme5GS2 added no cuts")
	}
}
