package linearize

import (
	"math"

	"github.com/krushna33/minotaur/linear"
	"github.com/krushna33/minotaur/model"
)

// boundaryPoint bisects the segment [solC, lpx] until f(x) is within
// tolerance of the constraint's upper bound, mirroring lineSearchPt_.
// Bounded at 200 steps; a non-convex constraint could otherwise never
// reach the tolerance band.
func boundaryPoint(con *model.Constraint, solC, lpx []float64, solAbsTol, solRelTol float64) ([]float64, bool) {
	n := len(lpx)
	xl := append([]float64(nil), solC...)
	xu := append([]float64(nil), lpx...)
	x := make([]float64, n)
	cUb := con.Ub
	for iter := 0; iter < 200; iter++ {
		for i := range x {
			x[i] = 0.5 * (xl[i] + xu[i])
		}
		act, err := con.Activity(x)
		if err != nil {
			return nil, false
		}
		switch {
		case act > cUb+solAbsTol && (cUb == 0 || act > cUb+math.Abs(cUb)*solRelTol):
			copy(xu, x)
		case math.Abs(cUb-act) <= solAbsTol || (cUb != 0 && math.Abs(cUb-act) <= math.Abs(cUb)*solRelTol):
			return x, true
		default:
			copy(xl, x)
		}
	}
	return nil, false
}

func distance(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

// Scheme3Round runs one round of RS3 (extended supporting hyperplane)
// at the MILP iterate lpx and analytic center solC: for every nonlinear
// constraint violated at lpx, bisects to the boundary and linearizes
// there. If at least one such cut fired and the objective is nonlinear
// (hasObjVar), additionally linearizes the objective at the boundary
// point closest to solC, cutting against objVarIdx with the objective's
// current LP value lpObjVal. Returns the number of cuts added.
func (g *Generator) Scheme3Round(lpx, solC []float64, objVarIdx int, hasObjVar bool, lpObjVal float64) int {
	added := 0
	minDist := math.Inf(1)
	var boundaryPt []float64

	for _, idx := range g.rel.NonlinearConstraints() {
		con := g.rel.Constraint(idx)
		act, err := con.Activity(lpx)
		if err != nil {
			continue
		}
		cUb := con.Ub
		if !(act > cUb+g.opts.FeasAbsTol && (cUb == 0 || act > cUb+math.Abs(cUb)*g.opts.FeasRelTol)) {
			continue
		}
		x, ok := boundaryPoint(con, solC, lpx, g.opts.SolAbsTol, g.opts.SolRelTol)
		if !ok {
			continue
		}
		g.rs3Cuts++
		if g.AddRootCut(cutName("rs3", g.rs3Cuts), con, x) == nil {
			continue
		}
		added++
		if hasObjVar {
			if d := distance(solC, x); d < minDist {
				minDist, boundaryPt = d, append([]float64(nil), x...)
			}
		}
	}

	if added > 0 && hasObjVar && boundaryPt != nil {
		if obj := g.rel.Objective(); obj != nil && obj.Type() != model.FuncLinear && obj.Type() != model.FuncConstant {
			g.linearizeObjectiveAt(obj, boundaryPt, objVarIdx, lpObjVal)
		}
	}
	return added
}

func (g *Generator) linearizeObjectiveAt(obj model.Function, x []float64, objVarIdx int, lpObjVal float64) bool {
	act, err := obj.Eval(x)
	if err != nil {
		return false
	}
	vio := math.Max(act-lpObjVal, 0)
	if !(vio > g.opts.SolAbsTol && (lpObjVal == 0 || vio > math.Abs(lpObjVal)*g.opts.SolRelTol)) {
		return false
	}
	lf, c, err := linear.At(obj, x, act, g.opts.ConCoeffTol)
	if err != nil {
		return false
	}
	ev, err := lf.Eval(x)
	if err != nil {
		return false
	}
	vio2 := math.Max(c+ev-lpObjVal, 0)
	if !(vio2 > g.opts.SolAbsTol && ((lpObjVal-c) == 0 || vio2 > math.Abs(lpObjVal-c)*g.opts.SolRelTol)) {
		return false
	}
	lf.AddTerm(objVarIdx, -1)
	g.rs3Cuts++
	g.applyCut(cutName("rs3obj", g.rs3Cuts), lf, -c)
	return true
}
