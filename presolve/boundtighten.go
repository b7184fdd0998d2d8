package presolve

import (
	"math"

	log "github.com/golang/glog"
	"github.com/krushna33/minotaur/engine"
	"github.com/krushna33/minotaur/errs"
	"github.com/krushna33/minotaur/model"
)

// BoundTightenHandler derives tighter variable bounds from each linear
// constraint's coefficients: for Σ a_i*x_i in [lb,ub], isolating one
// variable's term against the extremal contribution of every other term
// (given its current bounds) yields a candidate interval for that
// variable, which is intersected into its current bounds. Iterating this
// across every linear constraint and over the Driver's major iterations
// is classic bound propagation; this is the handler that exercises it.
type BoundTightenHandler struct {
	AbsTol float64
}

// NewBoundTightenHandler returns a handler using absTol as the minimum
// bound improvement worth recording (guards against churning on
// floating-point noise).
func NewBoundTightenHandler(absTol float64) *BoundTightenHandler {
	return &BoundTightenHandler{AbsTol: absTol}
}

func (h *BoundTightenHandler) Name() string { return "BoundTightenHandler" }

// varBoundMod records a variable's bounds before they were tightened.
// Tightening a bound never invalidates an existing feasible point in the
// reduced space being mapped back, so postsolve is the identity on x;
// the mod exists to record the reduction and the bounds it replaced.
type varBoundMod struct {
	idx   int
	oldLb float64
	oldUb float64
}

func (m *varBoundMod) PostsolveGetX(x []float64) []float64 { return x }

func (h *BoundTightenHandler) Presolve(p *model.Problem) ([]PreMod, bool, errs.SolveStatus, *engine.Solution, error) {
	var mods []PreMod
	changed := false

	for ci := 0; ci < p.NumConstraints(); ci++ {
		c := p.Constraint(ci)
		lf, ok := c.Func.(*model.LinearFunction)
		if !ok {
			continue
		}
		terms := lf.Terms()
		for idx, coef := range terms {
			if coef == 0 {
				continue
			}
			lo, hi, ok := tightenOne(terms, idx, coef, c.Lb, c.Ub, p)
			if !ok {
				continue
			}
			cand := model.FromIntervals([]model.Interval{{Start: lo, End: hi}})
			candLo, hasLo := cand.Min()
			candHi, hasHi := cand.Max()
			if !hasLo || !hasHi {
				return mods, changed, errs.SolvedInfeasible, nil, nil
			}

			v := p.Var(idx)
			cur := model.NewBoundDomain(v.Lb, v.Ub).Intervals()[0]
			tightened := cur.Intersect(model.Interval{Start: candLo, End: candHi})
			if tightened.Empty() {
				return mods, changed, errs.SolvedInfeasible, nil, nil
			}
			if tightened.Start-cur.Start > h.AbsTol || cur.End-tightened.End > h.AbsTol {
				mods = append(mods, &varBoundMod{idx: idx, oldLb: v.Lb, oldUb: v.Ub})
				v.Lb, v.Ub = tightened.Start, tightened.End
				changed = true
				log.V(2).Infof("presolve: tightened var %d to [%v,%v] via constraint %d", idx, v.Lb, v.Ub, ci)
			}
		}
	}
	return mods, changed, errs.Started, nil, nil
}

// tightenOne isolates the term coef*x[idx] in Σ terms <= ub (and >= lb if
// finite), returning the interval that term's own bound range implies
// for x[idx] given every other variable's current bounds. ok is false
// only when the result would be vacuous ([-Inf,+Inf]).
func tightenOne(terms map[int]float64, idx int, coef, lb, ub float64, p *model.Problem) (lo, hi float64, ok bool) {
	minOther, maxOther := 0.0, 0.0
	minOtherInf, maxOtherInf := false, false

	for j, a := range terms {
		if j == idx || a == 0 {
			continue
		}
		v := p.Var(j)
		var lowContrib, highContrib float64
		var lowInf, highInf bool
		if a > 0 {
			lowContrib, lowInf = a*v.Lb, model.IsInf(v.Lb)
			highContrib, highInf = a*v.Ub, model.IsInf(v.Ub)
		} else {
			lowContrib, lowInf = a*v.Ub, model.IsInf(v.Ub)
			highContrib, highInf = a*v.Lb, model.IsInf(v.Lb)
		}
		if lowInf {
			minOtherInf = true
		} else {
			minOther += lowContrib
		}
		if highInf {
			maxOtherInf = true
		} else {
			maxOther += highContrib
		}
	}

	var tMin, tMax float64
	haveTMin, haveTMax := false, false
	if !model.IsInf(lb) && !maxOtherInf {
		tMin, haveTMin = lb-maxOther, true
	}
	if !model.IsInf(ub) && !minOtherInf {
		tMax, haveTMax = ub-minOther, true
	}
	if !haveTMin && !haveTMax {
		return 0, 0, false
	}

	lo, hi = -model.Inf, model.Inf
	if coef > 0 {
		if haveTMin {
			lo = tMin / coef
		}
		if haveTMax {
			hi = tMax / coef
		}
	} else {
		if haveTMax {
			lo = tMax / coef
		}
		if haveTMin {
			hi = tMin / coef
		}
	}
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, false
	}
	return lo, hi, true
}
