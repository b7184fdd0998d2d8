// Package center implements the Center Finder: an auxiliary
// slack-minimization NLP whose optimum, when negative, is a strict
// interior point (Slater point) of the original nonlinear feasible
// region. Grounded directly on
// original_source/src/base/Linearizations.cpp's findCenter().
package center

import (
	"context"

	log "github.com/golang/glog"
	"github.com/krushna33/minotaur/engine"
	"github.com/krushna33/minotaur/model"
)

// Find builds the η-slack problem from p, solves it with a fresh copy of
// tmpl (taking ownership of that copy and releasing it before
// returning), and returns the analytic interior point solC and true if
// the solve proved optimal with η < 0. Any other outcome (η >= 0,
// infeasible, iteration limit, engine failure) returns (nil, false);
// load/solve/GetSolution failures are logged at Warning and unexpected
// engine statuses at Error, while the other outcomes are not logged.
// Callers treat the absence of a center as "skip this root-node
// scheme", not a fatal error.
func Find(ctx context.Context, p *model.Problem, tmpl engine.NLP) ([]float64, bool) {
	cp := buildCenterProblem(p)

	nlpe := tmpl.EmptyCopy()
	defer nlpe.Clear()

	if err := nlpe.Load(cp); err != nil {
		log.Warningf("center.Find: load failed: %v", err)
		return nil, false
	}
	status, err := nlpe.Solve(ctx)
	if err != nil {
		log.Warningf("center.Find: solve failed: %v", err)
		return nil, false
	}

	switch status {
	case engine.ProvenOptimal, engine.ProvenLocalOptimal:
		sol, err := nlpe.GetSolution()
		if err != nil {
			log.Warningf("center.Find: GetSolution failed: %v", err)
			return nil, false
		}
		if sol.Obj < 0 {
			n := p.NumVars()
			solC := make([]float64, n)
			copy(solC, sol.Primal[:n])
			return solC, true
		}
		return nil, false
	case engine.EngineIterationLimit, engine.ProvenInfeasible,
		engine.ProvenLocalInfeasible, engine.ProvenObjectiveCutOff:
		return nil, false
	default:
		log.Errorf("center.Find: NLP engine status = %v", nlpe.StatusString())
		return nil, false
	}
}

// buildCenterProblem constructs the η-slack problem: a fresh Problem
// carrying every variable of p plus a bounded slack η ∈ [-Inf,0], every
// non-constant constraint of p rewritten so η measures how far inside
// its bounds the point sits, one bound constraint per finite variable
// bound (none for a fixed variable), and an objective of minimize η.
func buildCenterProblem(p *model.Problem) *model.Problem {
	cp := model.NewProblem()
	for _, v := range p.Variables() {
		cp.AddVar(v)
	}
	etaIdx := cp.AddVar(model.Variable{Name: "eta", Type: model.Continuous, Lb: -model.Inf, Ub: 0, Role: model.Nonlinear})
	cp.SetObjective(model.NewLinearFunction(cp.NumVars(), []int{etaIdx}, []float64{1}), model.Minimize)

	for _, c := range p.Constraints() {
		switch c.Func.Type() {
		case model.FuncConstant:
			cp.AddConstraint(model.Constraint{Name: c.Name, Func: c.Func, Lb: c.Lb, Ub: c.Ub})
		case model.FuncLinear:
			addLinearConstraint(cp, &c, etaIdx)
		default:
			addNonlinearConstraint(cp, &c, etaIdx)
		}
	}

	n := p.NumVars()
	for i := 0; i < n; i++ {
		v := p.Var(i)
		if v.Lb == v.Ub {
			continue
		}
		if !model.IsInf(v.Lb) {
			// lb <= v + eta
			f := model.NewLinearFunction(cp.NumVars(), []int{etaIdx, i}, []float64{1, 1})
			cp.AddConstraint(model.Constraint{Name: "centerLB", Func: f, Lb: v.Lb, Ub: model.Inf})
		}
		if !model.IsInf(v.Ub) {
			// v - eta <= ub
			f := model.NewLinearFunction(cp.NumVars(), []int{etaIdx, i}, []float64{-1, 1})
			cp.AddConstraint(model.Constraint{Name: "centerUB", Func: f, Lb: -model.Inf, Ub: v.Ub})
		}
	}
	return cp
}

func addLinearConstraint(cp *model.Problem, c *model.Constraint, etaIdx int) {
	lf := c.Func.(*model.LinearFunction)
	loFinite := !model.IsInf(c.Lb)
	upFinite := !model.IsInf(c.Ub)
	n := cp.NumVars()
	switch {
	case loFinite && upFinite:
		if c.Lb == c.Ub {
			// double-sided linear equality: kept unchanged.
			cp.AddConstraint(model.Constraint{Name: c.Name, Func: c.Func, Lb: c.Lb, Ub: c.Ub})
			return
		}
		// duplicate into two one-sided constraints.
		f1 := cloneWithShift(lf, n, etaIdx, 1)
		cp.AddConstraint(model.Constraint{Name: c.Name + "_lo", Func: f1, Lb: c.Lb, Ub: model.Inf})
		f2 := cloneWithShift(lf, n, etaIdx, -1)
		cp.AddConstraint(model.Constraint{Name: c.Name + "_up", Func: f2, Lb: -model.Inf, Ub: c.Ub})
	case loFinite:
		f := cloneWithShift(lf, n, etaIdx, 1)
		cp.AddConstraint(model.Constraint{Name: c.Name, Func: f, Lb: c.Lb, Ub: model.Inf})
	case upFinite:
		f := cloneWithShift(lf, n, etaIdx, -1)
		cp.AddConstraint(model.Constraint{Name: c.Name, Func: f, Lb: -model.Inf, Ub: c.Ub})
	default:
		// both sides infinite: an unconstraining row, dropped.
	}
}

// cloneWithShift copies lf's terms into a function over n variables and
// adds coef*x[etaIdx].
func cloneWithShift(lf *model.LinearFunction, n, etaIdx int, coef float64) *model.LinearFunction {
	out := model.NewEmptyLinearFunction(n)
	for i, c := range lf.Terms() {
		out.AddTerm(i, c)
	}
	out.AddTerm(etaIdx, coef)
	return out
}

// addNonlinearConstraint shifts a quadratic/opaque constraint's linear
// part (or introduces one) by -eta, keeping its original bounds.
func addNonlinearConstraint(cp *model.Problem, c *model.Constraint, etaIdx int) {
	n := cp.NumVars()
	switch t := c.Func.(type) {
	case *model.QuadraticFunction:
		shifted := cloneWithShift(t.Linear, n, etaIdx, -1)
		pairs := make([]model.QuadraticPair, len(t.Pairs))
		copy(pairs, t.Pairs)
		f := model.NewQuadraticFunction(n, shifted, pairs)
		cp.AddConstraint(model.Constraint{Name: c.Name, Func: f, Lb: c.Lb, Ub: c.Ub})
	default:
		eval := c.Func.Eval
		grad := c.Func.Grad
		f := model.NewOpaqueFunction(n,
			func(x []float64) (float64, error) {
				v, err := eval(x)
				if err != nil {
					return 0, err
				}
				return v - x[etaIdx], nil
			},
			func(x []float64) ([]float64, error) {
				g, err := grad(x)
				if err != nil {
					return nil, err
				}
				out := make([]float64, n)
				copy(out, g)
				out[etaIdx] -= 1
				return out, nil
			})
		cp.AddConstraint(model.Constraint{Name: c.Name, Func: f, Lb: c.Lb, Ub: c.Ub})
	}
}
