// Package oahandler implements the Single-Tree OA Handler: fix integer
// variables, solve the continuous subproblem, and emit outer-approximation
// cuts into the MILP relaxation at integer-feasible LP solutions.
// Grounded on original_source/src/base/STOAHandler.cpp.
package oahandler

import (
	"context"
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/krushna33/minotaur/engine"
	"github.com/krushna33/minotaur/errs"
	"github.com/krushna33/minotaur/linear"
	"github.com/krushna33/minotaur/linearize"
	"github.com/krushna33/minotaur/model"
	"github.com/krushna33/minotaur/options"
)

// Stats tallies the counters the original STOAStats struct carries.
type Stats struct {
	NlpS, NlpF, NlpI, NlpIL int
	MilpS, MilpIL           int
	Cuts                    int
}

// Handler drives the fix-ints/solve-NLP/emit-cuts cycle of the
// single-tree OA algorithm: Idle -> fixedNLP -> Solved-Fixed-NLP ->
// OACutTo{Cons,Obj}* -> Idle.
type Handler struct {
	minlp   *model.Problem
	opts    *options.DB
	nlpTmpl engine.NLP
	nlpe    engine.NLP
	pool    *SolutionPool

	rel    *model.Problem
	gen    *linearize.Generator
	nlCons []int

	objVarIdx int
	oNl       bool

	nlpStatus engine.Status
	nlpSol    engine.Solution
	relObj    float64
	newUb     float64

	bounds model.BoundStack
	Stats  Stats
}

// New returns a Handler for minlp, drawing continuous subproblem solves
// from a fresh copy of nlpTmpl and recording feasible fixed-NLP solutions
// into pool.
func New(minlp *model.Problem, opts *options.DB, nlpTmpl engine.NLP, pool *SolutionPool) *Handler {
	return &Handler{
		minlp:     minlp,
		opts:      opts,
		nlpTmpl:   nlpTmpl,
		pool:      pool,
		nlpStatus: engine.EngineUnknownStatus,
		newUb:     model.Inf,
	}
}

// OACut is the (rhs, varIdx[], varCoeff[]) triple the MILP engine's lazy-
// constraint callback API consumes.
type OACut struct {
	Rhs      float64
	VarIdx   []int
	VarCoeff []float64
}

// RelaxInitInc builds the initial Relaxation: collects minlp's nonlinear
// constraints, introduces an objective variable eta if the objective is
// nonlinear, solves the unrestricted NLP once, and seeds rel with
// linearizations at that primal for every nonlinear constraint and (if
// applicable) the objective. rel must already carry every one of minlp's
// constraints at the same indices (the initial, uncut relaxation).
// Returns true if the root NLP proved the problem infeasible.
func (h *Handler) RelaxInitInc(ctx context.Context, rel *model.Problem) bool {
	h.rel = rel
	h.gen = linearize.New(rel, h.opts)
	h.nlCons = rel.NonlinearConstraints()
	h.nlpe = h.nlpTmpl.EmptyCopy()

	h.linearizeObj()
	return h.initLinear(ctx)
}

// linearizeObj introduces the eta objective variable when minlp's
// objective is nonlinear, replacing rel's objective with minimize eta and
// implicitly deferring the f(x)-eta<=0 constraint to root/OA
// linearizations, exactly as STOAHandler::linearizeObj_ does.
func (h *Handler) linearizeObj() {
	obj := h.minlp.Objective()
	t := obj.Type()
	if t == model.FuncLinear || t == model.FuncConstant {
		return
	}
	h.oNl = true
	etaIdx := h.rel.AddVar(model.Variable{Name: "eta", Type: model.Continuous, Lb: -model.Inf, Ub: model.Inf})
	lf := model.NewEmptyLinearFunction(h.rel.NumVars())
	lf.AddTerm(etaIdx, 1)
	h.rel.SetObjective(lf, model.Minimize)
	h.objVarIdx = etaIdx
}

// initLinear solves the unrestricted NLP once and seeds rel with
// unconditional linearizations at that primal, mirroring initLinear_.
// Returns true if the NLP proved infeasibility.
func (h *Handler) initLinear(ctx context.Context) bool {
	if err := h.nlpe.Load(h.minlp); err != nil {
		log.Errorf("oahandler: root NLP load failed: %v", err)
		return true
	}
	status, err := h.nlpe.Solve(ctx)
	h.Stats.NlpS++
	if err != nil {
		log.Errorf("oahandler: root NLP solve failed: %v", err)
		return true
	}
	h.nlpStatus = status

	switch status {
	case engine.ProvenOptimal, engine.ProvenLocalOptimal:
		h.Stats.NlpF++
	case engine.EngineIterationLimit:
		h.Stats.NlpIL++
	case engine.ProvenInfeasible, engine.ProvenLocalInfeasible, engine.ProvenObjectiveCutOff:
		h.Stats.NlpI++
		return true
	default:
		log.Errorf("oahandler: root NLP engine status = %v", h.nlpe.StatusString())
		return true
	}

	sol, err := h.nlpe.GetSolution()
	if err != nil {
		log.Errorf("oahandler: root NLP GetSolution failed: %v", err)
		return true
	}
	h.addInitLinearX(sol.Primal)
	return false
}

// addInitLinearX adds an unconditional tangent cut at x for every
// nonlinear constraint and, if the objective is nonlinear, for the
// objective too, mirroring addInitLinearX_.
func (h *Handler) addInitLinearX(x []float64) {
	for _, idx := range h.nlCons {
		con := h.rel.Constraint(idx)
		if c := h.gen.AddRootCut(cutName("stoa", h.Stats.Cuts+1), con, x); c != nil {
			h.Stats.Cuts++
		}
	}
	if h.oNl {
		h.addInitObjectiveCut(x)
	}
}

// addInitObjectiveCut linearizes minlp's objective at x and adds
// f_lin(x) - eta <= -c as a constraint of rel, unconditionally.
func (h *Handler) addInitObjectiveCut(x []float64) {
	obj := h.minlp.Objective()
	act, err := obj.Eval(x)
	if err != nil {
		log.Warningf("oahandler: objective not defined at root NLP primal: %v", err)
		return
	}
	lf, c, err := linear.At(obj, x, act, h.opts.ConCoeffTol)
	if err != nil {
		log.Warningf("oahandler: objective gradient failed at root NLP primal: %v", err)
		return
	}
	lf.AddTerm(h.objVarIdx, -1)
	h.Stats.Cuts++
	h.applyObjCut(cutName("stoaobj", h.Stats.Cuts), lf, -c)
}

// FixedNLP fixes every integer/binary variable of minlp to round(lpx),
// solves the resulting continuous subproblem, restores minlp's bounds
// unconditionally, and reports whether the fixed-integer NLP reached a
// usable feasible optimum. On success, the primal is recorded in the
// solution pool and newUb is updated.
func (h *Handler) FixedNLP(ctx context.Context, lpx []float64) bool {
	h.newUb = model.Inf
	h.fixInts(lpx)
	status, err := h.solveNLP(ctx)
	h.bounds.UndoAll(h.minlp)
	if err != nil {
		log.Errorf("oahandler: fixed-integer NLP solve failed: %v", err)
		return false
	}
	h.nlpStatus = status

	switch engine.Classify(status) {
	case engine.UsePrimal:
		h.Stats.NlpF++
		sol, err := h.nlpe.GetSolution()
		if err != nil {
			log.Errorf("oahandler: fixed-integer NLP GetSolution failed: %v", err)
			return false
		}
		h.nlpSol = sol
		h.newUb = sol.Obj
		h.pool.Add(sol)
		return true
	case engine.Infeasible:
		h.Stats.NlpI++
		h.nlpSol, _ = h.nlpe.GetSolution()
		return false
	case engine.UsePrimalWithCaveat:
		h.Stats.NlpIL++
		h.nlpSol, _ = h.nlpe.GetSolution()
		return false
	default:
		log.Errorf("oahandler: fixed-integer NLP engine status = %v, no cut generated, may cycle", h.nlpe.StatusString())
		return false
	}
}

func (h *Handler) fixInts(lpx []float64) {
	for i := 0; i < h.minlp.NumVars(); i++ {
		v := h.minlp.Var(i)
		if v.Type != model.Integer && v.Type != model.Binary {
			continue
		}
		h.bounds.Fix(h.minlp, i, math.Floor(lpx[i]+0.5))
	}
}

func (h *Handler) solveNLP(ctx context.Context) (engine.Status, error) {
	if err := h.nlpe.Load(h.minlp); err != nil {
		return engine.EngineError, err
	}
	status, err := h.nlpe.Solve(ctx)
	h.Stats.NlpS++
	return status, err
}

// SolveMILP invokes the MILP engine against rel and reports its primal
// and objective bound on any non-fatal outcome; any other status is
// fatal to this handler and is returned as an error wrapping
// errs.EngineFailure.
func (h *Handler) SolveMILP(ctx context.Context, milpe engine.MILP) (engine.Solution, engine.Status, error) {
	if err := milpe.Load(h.rel); err != nil {
		return engine.Solution{}, engine.EngineError, err
	}
	status, err := milpe.Solve(ctx)
	h.Stats.MilpS++
	if err != nil {
		return engine.Solution{}, status, err
	}
	switch status {
	case engine.ProvenOptimal, engine.ProvenLocalOptimal:
		sol, err := milpe.GetSolution()
		return sol, status, err
	case engine.EngineIterationLimit:
		h.Stats.MilpIL++
		sol, err := milpe.GetSolution()
		return sol, status, err
	default:
		log.Errorf("oahandler: MILP engine status = %v", milpe.StatusString())
		return engine.Solution{}, status, fmt.Errorf("oahandler: MILP engine status %v: %w", status, errs.EngineFailure)
	}
}

// NewUb returns the last fixed-integer NLP optimum as a candidate
// incumbent, packed as parallel (varIdx, varVal) slices over minlp's
// variables plus the eta variable when the objective is nonlinear.
func (h *Handler) NewUb() (float64, []int, []float64) {
	var idx []int
	var val []float64
	n := h.minlp.NumVars()
	for i := 0; i < n; i++ {
		idx = append(idx, i)
		if i < len(h.nlpSol.Primal) {
			val = append(val, h.nlpSol.Primal[i])
		} else {
			val = append(val, 0)
		}
	}
	if h.oNl {
		idx = append(idx, h.objVarIdx)
		val = append(val, h.nlpSol.Obj)
	}
	return h.newUb, idx, val
}
