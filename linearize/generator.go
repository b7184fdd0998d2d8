// Package linearize implements the root-node Linearization Generator: the
// RS1/RS2/RS3 per-constraint schemes and the GS1/GS2 general
// positive-spanning-set schemes, all reducing to repeated calls of
// linear.At against a growing Relaxation. Grounded on
// original_source/src/base/Linearizations.cpp.
package linearize

import (
	"fmt"
	"math"

	"github.com/krushna33/minotaur/cut"
	"github.com/krushna33/minotaur/linear"
	"github.com/krushna33/minotaur/model"
	"github.com/krushna33/minotaur/options"
)

// Generator accumulates cuts into rel, a Problem that carries both the
// original nonlinear constraints (read for activity/gradient) and the
// linear cuts emitted so far (added as ordinary constraints).
type Generator struct {
	rel  *model.Problem
	opts *options.DB

	Cuts []*cut.Cut
	iter int

	rs1Cuts, rs2Cuts, rs3Cuts, gsCuts int
}

// New returns a Generator that will add cuts to rel under opts' scheme
// thresholds.
func New(rel *model.Problem, opts *options.DB) *Generator {
	return &Generator{rel: rel, opts: opts}
}

// NonlinearConstraints returns the indices of rel's nonlinear constraints.
func (g *Generator) NonlinearConstraints() []int {
	return g.rel.NonlinearConstraints()
}

// AddRootCut linearizes at x unconditionally (root-node schemes emit a
// tangent regardless of whether any existing LP point violates it, since
// no Relaxation solution exists yet to check against) and attaches the
// resulting cut to rel. Returns nil if the linearization failed.
func (g *Generator) AddRootCut(name string, con *model.Constraint, x []float64) *cut.Cut {
	act, err := con.Activity(x)
	if err != nil {
		return nil
	}
	lf, c, err := linear.At(con.Func, x, act, g.opts.ConCoeffTol)
	if err != nil {
		return nil
	}
	return g.applyCut(name, lf, con.Ub-c)
}

// AddLpCut linearizes at x and attaches the cut only if it is violated by
// lpx by more than the feasibility tolerance, the no-op suppression
// property the OA Handler's cuts are held to (the root-node schemes use
// AddRootCut instead).
func (g *Generator) AddLpCut(name string, con *model.Constraint, x, lpx []float64, ub float64) *cut.Cut {
	act, err := con.Activity(x)
	if err != nil {
		return nil
	}
	lf, c, err := linear.At(con.Func, x, act, g.opts.ConCoeffTol)
	if err != nil {
		return nil
	}
	rhs := ub - c
	viol, err := lf.Eval(lpx)
	if err != nil {
		return nil
	}
	viol -= rhs
	if viol <= g.opts.FeasAbsTol && (rhs == 0 || viol <= g.opts.FeasRelTol*math.Abs(rhs)) {
		return nil
	}
	return g.applyCut(name, lf, rhs)
}

func (g *Generator) applyCut(name string, lf *model.LinearFunction, rhs float64) *cut.Cut {
	c := cut.New(name, lf, -model.Inf, rhs, false, false)
	g.iter++
	c.ApplyToProblem(g.rel, g.iter)
	g.Cuts = append(g.Cuts, c)
	return c
}

func insertAt(s []float64, i int, v float64) []float64 {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt(s []float64, i int) []float64 {
	return append(s[:i], s[i+1:]...)
}

// intersectLine solves the 2x2 system {a*x+b*y=e, c*x+d*y=f} by Cramer's
// rule, matching findIntersectPt_/insertNewPt_.
func intersectLine(a, b, e, c, d, f float64) (x, y float64, ok bool) {
	det := a*d - b*c
	if det == 0 {
		return 0, 0, false
	}
	return (e*d - b*f) / det, (a*f - e*c) / det, true
}

func cutName(scheme string, n int) string {
	return fmt.Sprintf("%scut_%d_AtRoot", scheme, n)
}
