package linearize

import (
	"math"

	"github.com/krushna33/minotaur/model"
)

// varPtrs returns every variable index marked Nonlinear, the set GS1/GS2
// sample around (varPtrs_ in the original).
func (g *Generator) varPtrs() []int {
	var out []int
	for i, v := range g.rel.Variables() {
		if v.Role == model.Nonlinear {
			out = append(out, i)
		}
	}
	return out
}

// setStepSize picks the GS step size α along one coordinate: a quarter of
// the distance to a finite bound, or a heuristic step (with a synthetic
// bound placed ten times the current magnitude plus ten beyond current,
// on the side given by sign) when the bound is infinite. Mirrors
// setStepSize_.
func setStepSize(current float64, bound float64, boundOK bool, sign float64) (alpha, effBound float64) {
	if boundOK {
		return 0.25 * math.Abs(bound-current), bound
	}
	return 0.25*math.Abs(current) + 1, current + sign*(10*math.Abs(current)+10)
}

// violatedConstraints reports, for x, the indices of violated nonlinear
// constraints and whether every violated constraint is linear.
func (g *Generator) violatedConstraints(x []float64) (nlViol []int, onlyLinear bool, ok bool) {
	anyLin := false
	for i := range g.rel.Constraints() {
		c := g.rel.Constraint(i)
		v, err := c.Violation(x, g.opts.FeasAbsTol, g.opts.FeasRelTol)
		if err != nil {
			return nil, false, false
		}
		if v <= 0 {
			continue
		}
		if c.IsNonlinear() {
			nlViol = append(nlViol, i)
		} else {
			anyLin = true
		}
	}
	return nlViol, anyLin && len(nlViol) == 0, true
}

// bisectAndCut bisects [solC, xOut] until the constraints in nlViol stop
// being violated, then emits a tangent cut at that point for each of
// nlViol found active there.
func (g *Generator) bisectAndCut(solC, xOut []float64, nlViol []int, prefix string) int {
	n := len(solC)
	xl := append([]float64(nil), solC...)
	xu := append([]float64(nil), xOut...)
	x := make([]float64, n)
	for iter := 0; iter < 100; iter++ {
		for i := range x {
			x[i] = 0.5 * (xl[i] + xu[i])
		}
		anyViol := false
		for _, idx := range nlViol {
			v, err := g.rel.Constraint(idx).Violation(x, g.opts.FeasAbsTol, g.opts.FeasRelTol)
			if err == nil && v > 0 {
				anyViol = true
			}
		}
		if anyViol {
			copy(xu, x)
		} else {
			copy(xl, x)
		}
	}

	added := 0
	for _, idx := range nlViol {
		con := g.rel.Constraint(idx)
		active, err := con.IsActive(x, g.opts.FeasAbsTol)
		if err != nil || !active {
			continue
		}
		g.gsCuts++
		if g.AddRootCut(cutName(prefix, g.gsCuts), con, x) != nil {
			added++
		}
	}
	return added
}

// searchDirection walks from base along coordinate varIdx (sign>0 for
// +e_v, sign<0 for -e_v), stepping per setStepSize and invoking
// foundLinPt_'s logic after each step: stop (silently) once nothing is
// violated and the bound has been reached, abort if only linear
// constraints are violated, otherwise bisect toward solC and linearize.
func (g *Generator) searchDirection(solC, base []float64, varIdx int, sign float64, prefix string) int {
	xOut := append([]float64(nil), base...)
	v := g.rel.Var(varIdx)
	current := base[varIdx]
	added := 0

	for step := 0; step < 50; step++ {
		var bound float64
		boundOK := false
		if sign > 0 && !model.IsInf(v.Ub) {
			bound, boundOK = v.Ub, true
		} else if sign < 0 && !model.IsInf(v.Lb) {
			bound, boundOK = v.Lb, true
		}
		alpha, effBound := setStepSize(current, bound, boundOK, sign)
		if alpha == 0 {
			return added
		}
		current += sign * alpha
		crossed := (sign > 0 && current >= effBound) || (sign < 0 && current <= effBound)
		if crossed {
			current = effBound
		}
		xOut[varIdx] = current

		nlViol, onlyLinear, ok := g.violatedConstraints(xOut)
		if !ok {
			return added
		}
		if len(nlViol) == 0 && !onlyLinear {
			if crossed {
				return added
			}
			continue
		}
		if onlyLinear {
			return added
		}
		return added + g.bisectAndCut(solC, xOut, nlViol, prefix)
	}
	return added
}

// diagonalDirection builds the vector that, for every v in varPtrs,
// moves toward whichever of v's bounds is nearest from base, and its
// opposite, returning the total cuts added from both.
func (g *Generator) diagonalDirection(solC, base []float64, vars []int, prefix string) int {
	n := len(base)
	dir := make([]float64, n)
	for _, vi := range vars {
		v := g.rel.Var(vi)
		lbOK, ubOK := !model.IsInf(v.Lb), !model.IsInf(v.Ub)
		switch {
		case lbOK && ubOK:
			if base[vi]-v.Lb < v.Ub-base[vi] {
				dir[vi] = -1
			} else {
				dir[vi] = 1
			}
		case lbOK:
			dir[vi] = -1
		case ubOK:
			dir[vi] = 1
		default:
			dir[vi] = 1
		}
	}
	added := g.searchAlong(solC, base, vars, dir, prefix)
	for i := range dir {
		dir[i] = -dir[i]
	}
	added += g.searchAlong(solC, base, vars, dir, prefix)
	return added
}

// searchAlong steps every variable in vars simultaneously along dir,
// the multi-coordinate analogue of searchDirection used for the
// diagonal direction.
func (g *Generator) searchAlong(solC, base []float64, vars []int, dir []float64, prefix string) int {
	xOut := append([]float64(nil), base...)
	current := make([]float64, len(dir))
	copy(current, base)
	added := 0
	for step := 0; step < 50; step++ {
		crossedAll := true
		for _, vi := range vars {
			if dir[vi] == 0 {
				continue
			}
			v := g.rel.Var(vi)
			var bound float64
			boundOK := false
			if dir[vi] > 0 && !model.IsInf(v.Ub) {
				bound, boundOK = v.Ub, true
			} else if dir[vi] < 0 && !model.IsInf(v.Lb) {
				bound, boundOK = v.Lb, true
			}
			alpha, effBound := setStepSize(current[vi], bound, boundOK, dir[vi])
			if alpha == 0 {
				continue
			}
			current[vi] += dir[vi] * alpha
			crossed := (dir[vi] > 0 && current[vi] >= effBound) || (dir[vi] < 0 && current[vi] <= effBound)
			if crossed {
				current[vi] = effBound
			} else {
				crossedAll = false
			}
			xOut[vi] = current[vi]
		}

		nlViol, onlyLinear, ok := g.violatedConstraints(xOut)
		if !ok {
			return added
		}
		if len(nlViol) == 0 && !onlyLinear {
			if crossedAll {
				return added
			}
			continue
		}
		if onlyLinear {
			return added
		}
		return added + g.bisectAndCut(solC, xOut, nlViol, prefix)
	}
	return added
}

// Scheme4GS1 runs GS1: for each variable touching a nonlinear term,
// search ±e_v from solC, plus one diagonal direction and its opposite.
func (g *Generator) Scheme4GS1(solC []float64) int {
	if !g.opts.RootGenLinScheme1 || solC == nil {
		return 0
	}
	vars := g.varPtrs()
	added := 0
	for _, vi := range vars {
		added += g.searchDirection(solC, solC, vi, 1, "gs1")
		added += g.searchDirection(solC, solC, vi, -1, "gs1")
	}
	added += g.diagonalDirection(solC, solC, vars, "gs1")
	return added
}

// Scheme5GS2 runs GS2: the same positive-spanning-set sampling as GS1,
// but each search starts from the NLP primal nlpx rather than solC.
// nlpx is used exactly as given; no projection is applied to it.
func (g *Generator) Scheme5GS2(solC, nlpx []float64) int {
	if !g.opts.RootGenLinScheme2 || solC == nil {
		return 0
	}
	vars := g.varPtrs()
	added := 0
	for _, vi := range vars {
		added += g.searchDirection(solC, nlpx, vi, 1, "gs2")
		added += g.searchDirection(solC, nlpx, vi, -1, "gs2")
	}
	added += g.diagonalDirection(solC, nlpx, vars, "gs2")
	return added
}
