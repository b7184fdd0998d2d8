// Package presolve implements the Presolver driver: a standardization
// pass followed by a bounded fixed-point loop over registered Handlers,
// each attempting local reductions on the Problem and recording PreMods
// so a solution over the reduced Problem can be mapped back to the
// original variable space. Grounded on original_source/src/base/Presolver.cpp.
package presolve

import (
	"context"

	log "github.com/golang/glog"
	"github.com/krushna33/minotaur/engine"
	"github.com/krushna33/minotaur/errs"
	"github.com/krushna33/minotaur/model"
	"github.com/krushna33/minotaur/options"
)

// PreMod is one recorded, reversible reduction. Postsolve folds every
// PreMod left-to-right over a solution primal to recover the original
// variable space.
type PreMod interface {
	PostsolveGetX(x []float64) []float64
}

// Handler attempts local reductions against p, appending any PreMods it
// wants replayed at postsolve time. changed reports whether it modified
// p at all (drives the driver's non-progress detection); status is
// Started unless the handler proved the problem optimal, infeasible, or
// unbounded outright, in which case sol carries the proof solution for
// SolvedOptimal.
type Handler interface {
	Name() string
	Presolve(p *model.Problem) (mods []PreMod, changed bool, status errs.SolveStatus, sol *engine.Solution, err error)
}

// Driver runs Standardize once and then Solve's bounded handler loop
// against p, matching Presolver's standardize()/solve() split.
type Driver struct {
	p        *model.Problem
	opts     *options.DB
	handlers []Handler

	mods   []PreMod
	sol    *engine.Solution
	status errs.SolveStatus
}

// New returns a Driver over p with the given handlers, called in the
// order given on every major iteration.
func New(p *model.Problem, opts *options.DB, handlers []Handler) *Driver {
	return &Driver{p: p, opts: opts, handlers: handlers, status: errs.NotStarted}
}

// Standardize converts maximization to minimization by negating the
// objective, promotes any Integer variable whose bounds lie within
// [-intTol,1+intTol] to Binary, and reverses the sense of any
// constraint with a finite lower bound and infinite upper bound so
// every constraint reads as an upper-bounded inequality. One-shot; run
// before Solve.
func (d *Driver) Standardize() {
	d.minimizify()
	d.intsToBins()
	d.standardizeConstraints()
}

func (d *Driver) minimizify() {
	if d.p.ObjSense() == model.Maximize {
		d.p.NegateObj()
	}
}

func (d *Driver) intsToBins() {
	tol := d.opts.IntTol
	for i := 0; i < d.p.NumVars(); i++ {
		v := d.p.Var(i)
		if v.Type == model.Integer && v.Ub <= 1+tol && v.Lb >= -tol {
			v.Type = model.Binary
		}
	}
}

func (d *Driver) standardizeConstraints() {
	for i := 0; i < d.p.NumConstraints(); i++ {
		c := d.p.Constraint(i)
		if !model.IsInf(c.Lb) && model.IsInf(c.Ub) {
			if err := d.p.ReverseSense(i); err != nil {
				log.Warningf("presolve: reversing sense of constraint %d: %v", i, err)
			}
		}
	}
}

// Solve runs up to 5 major iterations over every handler in order,
// stopping early on a handler-proven terminal status or once a full
// pass completes without any handler reporting a change. A handler
// reporting SolvedOptimal without a solution is an invariant violation,
// surfaced as SolveError.
func (d *Driver) Solve(ctx context.Context) errs.SolveStatus {
	d.status = errs.Started
	changed := true
	stop := false
	iters := 0
	subiters := 0
	nHand := len(d.handlers)
	lastChange := -10000

	for changed && !stop && iters < 5 {
		changed = false
		for _, h := range d.handlers {
			select {
			case <-ctx.Done():
				d.status = errs.SolveError
				return d.status
			default:
			}

			mods, ch, hStatus, sol, err := h.Presolve(d.p)
			if err != nil {
				log.Errorf("presolve: handler %s failed: %v", h.Name(), err)
				d.status = errs.SolveError
				stop = true
				break
			}
			changed = changed || ch
			d.mods = append(d.mods, mods...)

			switch hStatus {
			case errs.SolvedOptimal:
				d.status = errs.SolvedOptimal
				if sol == nil {
					log.Errorf("presolve: handler %s reported SolvedOptimal without a solution", h.Name())
					d.status = errs.SolveError
				} else {
					d.sol = sol
				}
				stop = true
			case errs.SolvedInfeasible, errs.SolvedUnbounded:
				d.status = hStatus
				stop = true
			}
			if stop {
				break
			}
			if ch {
				lastChange = subiters
			}
			if subiters > nHand-2 && subiters-lastChange > nHand-2 {
				stop = true
				break
			}
			subiters++
		}
		iters++
	}
	if d.status == errs.Started {
		d.status = errs.Finished
	}
	return d.status
}

// Status returns the outcome of the last Solve call.
func (d *Driver) Status() errs.SolveStatus { return d.status }

// GetX folds every recorded PreMod left-to-right over x, mapping a
// solution primal over the presolved Problem back to the original
// variable space.
func (d *Driver) GetX(x []float64) []float64 {
	xx := append([]float64(nil), x...)
	for _, m := range d.mods {
		xx = m.PostsolveGetX(xx)
	}
	return xx
}

// Postsolve applies GetX to s's primal, leaving its objective value
// unchanged (presolve reductions never change the optimal objective).
func (d *Driver) Postsolve(s engine.Solution) engine.Solution {
	return engine.Solution{Obj: s.Obj, Primal: d.GetX(s.Primal)}
}
