package linearize

import (
	"math"

	"github.com/krushna33/minotaur/model"
)

// Scheme1 runs RS1 (per-constraint tangent enumeration) against the
// nonlinear constraint at conIdx, returning the number of cuts added.
// Applicable only when the constraint's nonlinear part depends on a
// single variable alongside a single other linear variable; a no-op
// otherwise.
func (g *Generator) Scheme1(conIdx int) int {
	rs1 := g.opts.RootLinScheme1
	if rs1 <= 0 {
		return 0
	}
	con := g.rel.Constraint(conIdx)
	shape, ok := model.DetectUnivariate(con.Func)
	if !ok || !shape.HasLinVar || shape.LinCoeff == 0 {
		return 0
	}
	nVarIdx, lVarIdx := shape.NlVar, shape.LinVar
	n := g.rel.NumVars()
	vnl := g.rel.Var(nVarIdx)

	vLb, vUb := vnl.Lb, vnl.Ub
	switch {
	case model.IsInf(vLb) && model.IsInf(vUb):
		vLb, vUb = -50, 50
	case model.IsInf(vLb):
		vLb = vUb - 100
	case model.IsInf(vUb):
		vUb = vLb + 100
	}

	b1 := make([]float64, n)
	zero := func() {
		for i := range b1 {
			b1[i] = 0
		}
	}
	// linPart solves the constraint for the linear variable given the
	// nonlinear variable pinned at nVal, holding every other variable at
	// zero (mirrors linPart_'s isolation of the two-variable slice).
	linPart := func(nVal float64) (float64, bool) {
		zero()
		b1[nVarIdx] = nVal
		val, err := con.Func.Eval(b1)
		if err != nil {
			return 0, false
		}
		return (con.Ub - val) / shape.LinCoeff, true
	}
	tangentAt := func(nVal, lVal float64) *model.Constraint {
		zero()
		b1[nVarIdx], b1[lVarIdx] = nVal, lVal
		g.rs1Cuts++
		c := g.AddRootCut(cutName("rs1", g.rs1Cuts), con, b1)
		if c == nil {
			return nil
		}
		idx, _ := c.ConstraintIndex()
		return g.rel.Constraint(idx)
	}

	lVal1, ok1 := linPart(vLb)
	if !ok1 {
		return 0
	}
	c1 := tangentAt(vLb, lVal1)
	if c1 == nil {
		return 0
	}
	lVal2, ok2 := linPart(vUb)
	if !ok2 {
		return 1
	}
	c2 := tangentAt(vUb, lVal2)
	if c2 == nil {
		return 1
	}

	lf1, lf2 := c1.Func.(*model.LinearFunction), c2.Func.(*model.LinearFunction)
	ipL, ipN, ok3 := intersectLine(lf1.Coeff(lVarIdx), lf1.Coeff(nVarIdx), c1.Ub,
		lf2.Coeff(lVarIdx), lf2.Coeff(nVarIdx), c2.Ub)
	if !ok3 {
		return 2
	}

	xc := []float64{vLb, ipN, vUb}
	yc := []float64{lVal1, ipL, lVal2}
	vio := make([]float64, 3)
	zero()
	b1[nVarIdx], b1[lVarIdx] = ipN, ipL
	act, err := con.Activity(b1)
	if err != nil {
		return 2
	}
	consUb := con.Ub
	vio[1] = math.Max(act-consUb, 0)

	i := 1
	maxVio := vio[i]
	var stopCond float64
	if math.Abs(consUb) > g.opts.SolAbsTol {
		stopCond = consUb * rs1 / 100
	} else {
		stopCond = maxVio * rs1 / 100
	}
	if stopCond < g.opts.SolAbsTol || (consUb != 0 && stopCond < math.Abs(consUb)*g.opts.SolRelTol) {
		return 2
	}

	added := 2
	for maxVio >= stopCond {
		zero()
		b1[nVarIdx], b1[lVarIdx] = xc[i], yc[i]
		g.rs1Cuts++
		newCutObj := g.AddRootCut(cutName("rs1", g.rs1Cuts), con, b1)
		if newCutObj == nil {
			break
		}
		added++
		idx, _ := newCutObj.ConstraintIndex()
		newCon := g.rel.Constraint(idx)
		newLf := newCon.Func.(*model.LinearFunction)
		dCoef, cCoef, cUb := newLf.Coeff(lVarIdx), newLf.Coeff(nVarIdx), newCon.Ub

		// walk right: find the first point still satisfying newCon,
		// dropping every dominated point along the way.
		okRight := true
		for j := i + 1; j < len(xc); {
			zero()
			b1[nVarIdx], b1[lVarIdx] = xc[j], yc[j]
			a2, err := newCon.Activity(b1)
			if err != nil {
				j++
				continue
			}
			if a2 < cUb+g.opts.SolAbsTol || (cUb != 0 && a2 < cUb+math.Abs(cUb)*g.opts.SolRelTol) {
				nx, ny, ok := intersectLine(yc[j-1]-yc[j], xc[j]-xc[j-1],
					yc[j-1]*(xc[j]-xc[j-1])-xc[j-1]*(yc[j]-yc[j-1]), cCoef, dCoef, cUb)
				if !ok {
					okRight = false
					break
				}
				xc, yc = insertAt(xc, j, nx), insertAt(yc, j, ny)
				zero()
				b1[nVarIdx], b1[lVarIdx] = nx, ny
				a3, err := con.Activity(b1)
				if err != nil {
					okRight = false
				} else {
					vio = insertAt(vio, j, math.Max(a3-consUb, 0))
				}
				break
			}
			xc, yc, vio = removeAt(xc, j), removeAt(yc, j), removeAt(vio, j)
		}
		if !okRight {
			break
		}

		// walk left: symmetric.
		okLeft := true
		j := i - 1
		for j >= 0 {
			zero()
			b1[nVarIdx], b1[lVarIdx] = xc[j], yc[j]
			a2, err := newCon.Activity(b1)
			if err != nil {
				j--
				continue
			}
			if a2 < cUb+g.opts.SolAbsTol || (cUb != 0 && a2 < cUb+math.Abs(cUb)*g.opts.SolRelTol) {
				nx, ny, ok := intersectLine(yc[j]-yc[j+1], xc[j+1]-xc[j],
					yc[j]*(xc[j+1]-xc[j])-xc[j]*(yc[j+1]-yc[j]), cCoef, dCoef, cUb)
				if !ok {
					okLeft = false
					break
				}
				xc, yc = insertAt(xc, j+1, nx), insertAt(yc, j+1, ny)
				zero()
				b1[nVarIdx], b1[lVarIdx] = nx, ny
				a3, err := con.Activity(b1)
				if err != nil {
					okLeft = false
				} else {
					vio = insertAt(vio, j+1, math.Max(a3-consUb, 0))
					xc, yc, vio = removeAt(xc, j+2), removeAt(yc, j+2), removeAt(vio, j+2)
				}
				break
			}
			xc, yc, vio = removeAt(xc, j), removeAt(yc, j), removeAt(vio, j)
			j--
		}
		if !okLeft {
			break
		}

		maxVio = -math.MaxFloat64
		for k, v := range vio {
			if v > maxVio {
				maxVio, i = v, k
			}
		}
		if maxVio < g.opts.SolAbsTol || (consUb != 0 && maxVio < math.Abs(consUb)*g.opts.SolRelTol) {
			break
		}
	}
	return added
}
