package linearize

import (
	"math"

	"github.com/krushna33/minotaur/model"
)

// Scheme2 runs RS2 (per-constraint neighbourhood slope scan) against the
// nonlinear constraint at conIdx around the NLP primal nlpx, returning
// the number of cuts added. Applicable under the same univariate shape
// as Scheme1.
func (g *Generator) Scheme2(conIdx int, nlpx []float64) int {
	if g.opts.RootLinScheme2Per <= 0 {
		return 0
	}
	con := g.rel.Constraint(conIdx)
	shape, ok := model.DetectUnivariate(con.Func)
	if !ok || !shape.HasLinVar || shape.LinCoeff == 0 {
		return 0
	}
	nVarIdx := shape.NlVar
	vnl := g.rel.Var(nVarIdx)
	n := g.rel.NumVars()

	grad, err := con.Func.Grad(nlpx)
	if err != nil {
		return 0
	}
	nlpSlope := -grad[nVarIdx] / shape.LinCoeff

	npt := make([]float64, n)
	copy(npt, nlpx)

	added := 0
	sample := func(lastSlope *float64, delta *float64) bool {
		g2, err := con.Func.Grad(npt)
		if err != nil {
			return true // continue scanning; a single failed sample is dropped
		}
		newSlope := -g2[nVarIdx] / shape.LinCoeff
		if (*lastSlope == 0 && newSlope == 0) ||
			(*lastSlope != 0 && math.Abs((newSlope-*lastSlope)/(*lastSlope))*100 < g.opts.RootLinScheme2Per) {
			*delta *= 2
			return true
		}
		*lastSlope = newSlope
		g.rs2Cuts++
		if g.AddRootCut(cutName("rs2", g.rs2Cuts), con, npt) != nil {
			added++
		}
		return true
	}

	// scan below nlpx[nVarIdx]
	nbhLo := math.Max(vnl.Lb, nlpx[nVarIdx]-g.opts.RootLinScheme2NbhSize)
	delta := 0.5
	if nlpx[nVarIdx]-nbhLo < 1 {
		delta = nlpx[nVarIdx] - nbhLo
	}
	lastSlope := nlpSlope
	npt[nVarIdx] = nlpx[nVarIdx] - delta
	if delta != 0 {
		for npt[nVarIdx] >= nbhLo {
			sample(&lastSlope, &delta)
			npt[nVarIdx] -= delta
		}
	}

	// scan above nlpx[nVarIdx]
	nbhHi := math.Min(vnl.Ub, nlpx[nVarIdx]+g.opts.RootLinScheme2NbhSize)
	delta = 0.5
	if nbhHi-nlpx[nVarIdx] < 1 {
		delta = nbhHi - nlpx[nVarIdx]
	}
	lastSlope = nlpSlope
	npt[nVarIdx] = nlpx[nVarIdx] + delta
	if delta != 0 {
		for npt[nVarIdx] <= nbhHi {
			sample(&lastSlope, &delta)
			npt[nVarIdx] += delta
		}
	}

	return added
}
