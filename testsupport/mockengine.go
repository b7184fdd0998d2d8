// Package testsupport provides test doubles for the engine.NLP/engine.MILP
// interfaces used across this module's test suites.
// Nothing here is part of the OA cut engine's external interface: real
// NLP/MILP engines are always external collaborators, loaded and driven
// through the same interfaces. PenaltyEngine exists only so component
// tests can exercise Center/Linearize/OAHandler against small,
// genuinely-solved problems without a cgo dependency.
package testsupport

import (
	"context"
	"fmt"

	"github.com/krushna33/minotaur/engine"
	"github.com/krushna33/minotaur/model"
)

// PenaltyEngine is a toy NLP/MILP engine for tests: it minimizes the
// loaded problem's objective over its box bounds using a classic
// exterior-penalty method (successive unconstrained gradient descent
// with a growing penalty coefficient on constraint violation), which is
// adequate for the small smooth convex problems this module's tests
// build. It is not a general-purpose solver and must never be used
// outside tests.
type PenaltyEngine struct {
	p            *model.Problem
	Iterations   int
	StepSize     int
	status       engine.Status
	lastSolution engine.Solution
	statusStr    string
}

// NewPenaltyEngine returns a PenaltyEngine with reasonable defaults for
// small test problems.
func NewPenaltyEngine() *PenaltyEngine {
	return &PenaltyEngine{Iterations: 4000, StepSize: 0}
}

func (e *PenaltyEngine) Load(p engine.Problem) error {
	mp, ok := p.(*model.Problem)
	if !ok {
		return fmt.Errorf("testsupport.PenaltyEngine: unsupported problem type %T", p)
	}
	e.p = mp
	return nil
}

func (e *PenaltyEngine) EmptyCopy() engine.NLP { return NewPenaltyEngine() }

func (e *PenaltyEngine) Clear() { e.p = nil }

func (e *PenaltyEngine) StatusString() string { return e.statusStr }

func (e *PenaltyEngine) GetSolution() (engine.Solution, error) {
	return e.lastSolution, nil
}

// Solve runs the penalty method from the midpoint of the box bounds and
// reports ProvenLocalOptimal if the final iterate is feasible within a
// loose tolerance, ProvenLocalInfeasible otherwise.
func (e *PenaltyEngine) Solve(ctx context.Context) (engine.Status, error) {
	if e.p == nil {
		return engine.EngineError, fmt.Errorf("testsupport.PenaltyEngine: Solve called before Load")
	}
	n := e.p.NumVars()
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		v := e.p.Var(i)
		x[i] = v.Midpoint()
	}

	const rhoGrowth = 1.6
	rho := 10.0
	lr := 0.02
	for round := 0; round < 12; round++ {
		for it := 0; it < e.Iterations/12+1; it++ {
			select {
			case <-ctx.Done():
				return e.finish(x)
			default:
			}
			g, err := e.penaltyGrad(x, rho)
			if err != nil {
				return engine.EngineError, err
			}
			for i := range x {
				x[i] -= lr * g[i]
			}
			e.clampBounds(x)
		}
		rho *= rhoGrowth
	}
	return e.finish(x)
}

func (e *PenaltyEngine) finish(x []float64) (engine.Status, error) {
	obj, err := e.p.Objective().Eval(x)
	if err != nil {
		return engine.EngineError, err
	}
	feasible := true
	for i := range e.p.Constraints() {
		c := e.p.Constraint(i)
		v, err := c.Violation(x, 1e-4, 1e-4)
		if err != nil {
			return engine.EngineError, err
		}
		if v > 1e-3 {
			feasible = false
			break
		}
	}
	e.lastSolution = engine.Solution{Obj: obj, Primal: append([]float64(nil), x...)}
	if feasible {
		e.status = engine.ProvenLocalOptimal
		e.statusStr = "ProvenLocalOptimal"
	} else {
		e.status = engine.ProvenLocalInfeasible
		e.statusStr = "ProvenLocalInfeasible"
	}
	return e.status, nil
}

func (e *PenaltyEngine) clampBounds(x []float64) {
	for i := range x {
		v := e.p.Var(i)
		if !model.IsInf(v.Lb) && x[i] < v.Lb {
			x[i] = v.Lb
		}
		if !model.IsInf(v.Ub) && x[i] > v.Ub {
			x[i] = v.Ub
		}
	}
}

// penaltyGrad returns the gradient of objective + rho*Σ violation^2 at x.
func (e *PenaltyEngine) penaltyGrad(x []float64, rho float64) ([]float64, error) {
	n := len(x)
	g, err := e.p.Objective().Grad(x)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	copy(out, g)
	for i := range e.p.Constraints() {
		c := e.p.Constraint(i)
		act, err := c.Activity(x)
		if err != nil {
			continue
		}
		var viol float64
		if !model.IsInf(c.Ub) && act > c.Ub {
			viol = act - c.Ub
		} else if !model.IsInf(c.Lb) && act < c.Lb {
			viol = act - c.Lb
		}
		if viol == 0 {
			continue
		}
		cg, err := c.Func.Grad(x)
		if err != nil {
			continue
		}
		coef := 2 * rho * viol
		for i := 0; i < n; i++ {
			out[i] += coef * cg[i]
		}
	}
	return out, nil
}

// MILP adapter: the same penalty method, ignoring integrality (adequate
// for tests that only need a usable LP-relaxation-shaped primal/status,
// never an actually-integer-feasible point).
type PenaltyMILPEngine struct {
	*PenaltyEngine
}

func NewPenaltyMILPEngine() *PenaltyMILPEngine {
	return &PenaltyMILPEngine{PenaltyEngine: NewPenaltyEngine()}
}

func (e *PenaltyMILPEngine) Load(p engine.Problem) error { return e.PenaltyEngine.Load(p) }
func (e *PenaltyMILPEngine) EmptyCopy() engine.MILP       { return NewPenaltyMILPEngine() }
