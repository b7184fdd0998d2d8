// The example command builds a small MINLP, runs it through presolve,
// the Center Finder, and a handful of single-tree OA rounds, and prints
// the incumbent it finds. It supplies its own toy grid-search engine
// rather than a real NLP/MILP solver, which is always an external
// collaborator to this module.
package main

import (
	"context"
	"fmt"
	"math"

	log "github.com/golang/glog"

	"github.com/krushna33/minotaur/center"
	"github.com/krushna33/minotaur/engine"
	"github.com/krushna33/minotaur/model"
	"github.com/krushna33/minotaur/oahandler"
	"github.com/krushna33/minotaur/options"
	"github.com/krushna33/minotaur/presolve"
)

// gridEngine is a toy engine.NLP/engine.MILP implementation: it samples
// a fixed grid over the loaded problem's box bounds and reports the
// best feasible point found, rounding grid points to integer variables'
// nearest feasible value. It exists only to make this command runnable
// without a real solver dependency; it is not fit for anything beyond a
// handful of variables.
type gridEngine struct {
	p    *model.Problem
	res  int
	sol  engine.Solution
	stat engine.Status
}

func newGridEngine(res int) *gridEngine { return &gridEngine{res: res} }

func (g *gridEngine) Load(p engine.Problem) error {
	mp, ok := p.(*model.Problem)
	if !ok {
		return fmt.Errorf("gridEngine: unsupported problem type %T", p)
	}
	g.p = mp
	return nil
}

func (g *gridEngine) EmptyCopy() engine.NLP { return newGridEngine(g.res) }
func (g *gridEngine) Clear()                { g.p = nil }
func (g *gridEngine) StatusString() string  { return g.stat.String() }
func (g *gridEngine) GetSolution() (engine.Solution, error) { return g.sol, nil }

func (g *gridEngine) Solve(ctx context.Context) (engine.Status, error) {
	n := g.p.NumVars()
	x := make([]float64, n)
	best := math.Inf(1)
	var bestX []float64

	var rec func(i int) error
	rec = func(i int) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if i == n {
			feasible := true
			for j := 0; j < g.p.NumConstraints(); j++ {
				c := g.p.Constraint(j)
				v, err := c.Violation(x, 1e-6, 1e-6)
				if err != nil || v > 1e-6 {
					feasible = false
					break
				}
			}
			if !feasible {
				return nil
			}
			obj, err := g.p.Objective().Eval(x)
			if err != nil {
				return nil
			}
			if obj < best {
				best = obj
				bestX = append([]float64(nil), x...)
			}
			return nil
		}
		v := g.p.Var(i)
		lo, hi := v.Lb, v.Ub
		if model.IsInf(lo) {
			lo = -10
		}
		if model.IsInf(hi) {
			hi = 10
		}
		steps := g.res
		if v.Type != model.Continuous {
			steps = int(hi-lo) + 1
			if steps < 1 {
				steps = 1
			}
		}
		for s := 0; s <= steps; s++ {
			frac := float64(s) / float64(steps)
			val := lo + frac*(hi-lo)
			if v.Type != model.Continuous {
				val = math.Round(val)
			}
			x[i] = val
			if err := rec(i + 1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := rec(0); err != nil {
		return engine.EngineError, err
	}
	if bestX == nil {
		g.stat = engine.ProvenLocalInfeasible
		return g.stat, nil
	}
	g.sol = engine.Solution{Obj: best, Primal: bestX}
	g.stat = engine.ProvenLocalOptimal
	return g.stat, nil
}

// gridMILP adapts gridEngine to engine.MILP; the grid-search method
// already respects integrality by construction, so nothing else
// changes.
type gridMILP struct{ *gridEngine }

func newGridMILP(res int) *gridMILP        { return &gridMILP{newGridEngine(res)} }
func (g *gridMILP) EmptyCopy() engine.MILP { return newGridMILP(g.res) }

func buildProblem() (*model.Problem, int, int, int) {
	b := model.NewBuilder()
	x := b.NewVar("x", model.Continuous, -5, 5)
	y := b.NewVar("y", model.Continuous, -5, 5)
	choose := b.NewVar("choose", model.Binary, 0, 1)

	b.AddNonlinearConstraint("disk", []int{x, y},
		func(v []float64) (float64, error) { return v[x]*v[x] + v[y]*v[y], nil },
		func(v []float64) ([]float64, error) { return []float64{2 * v[x], 2 * v[y]}, nil },
		-model.Inf, 4)
	b.AddLinearConstraint("choice", []int{x, choose}, []float64{1, 3}, 1, model.Inf)
	b.SetNonlinearObjective([]int{x, y},
		func(v []float64) (float64, error) { return v[x]*v[x] + v[y]*v[y], nil },
		func(v []float64) ([]float64, error) { return []float64{2 * v[x], 2 * v[y]}, nil },
		model.Minimize)

	p, err := b.Build()
	if err != nil {
		log.Exitf("build: %v", err)
	}
	return p, x, y, choose
}

func run() error {
	p, x, y, _ := buildProblem()
	opts := options.NewDB()

	pre := presolve.New(p, opts, []presolve.Handler{presolve.NewBoundTightenHandler(1e-9)})
	pre.Standardize()
	status := pre.Solve(context.Background())
	fmt.Printf("presolve status: %v\n", status)
	fmt.Printf("x bounds after presolve: [%v,%v]\n", p.Var(x).Lb, p.Var(x).Ub)

	if solC, ok := center.Find(context.Background(), p, newGridEngine(12)); ok {
		fmt.Printf("interior point: x=%.3f y=%.3f\n", solC[x], solC[y])
	} else {
		fmt.Println("no strict interior point found")
	}

	rel := p.Clone()
	pool := &oahandler.SolutionPool{}
	h := oahandler.New(p, opts, newGridEngine(12), pool)
	if h.RelaxInitInc(context.Background(), rel) {
		return fmt.Errorf("root relaxation proved infeasible")
	}

	milpe := newGridMILP(8)
	for round := 0; round < 3; round++ {
		lpSol, _, err := h.SolveMILP(context.Background(), milpe)
		if err != nil {
			return fmt.Errorf("MILP solve: %w", err)
		}
		if !h.FixedNLP(context.Background(), lpSol.Primal) {
			continue
		}
		ub, _, _ := h.NewUb()
		fmt.Printf("round %d: new incumbent objective = %.4f\n", round, ub)
	}

	best, ok := pool.Best()
	if !ok {
		fmt.Println("no incumbent found")
		return nil
	}
	fmt.Printf("best incumbent: obj=%.4f x=%.3f y=%.3f\n", best.Obj, best.Primal[x], best.Primal[y])
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Exitf("example returned with error: %v", err)
	}
}
