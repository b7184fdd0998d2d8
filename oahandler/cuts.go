package oahandler

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
	"github.com/krushna33/minotaur/cut"
	"github.com/krushna33/minotaur/engine"
	"github.com/krushna33/minotaur/linear"
	"github.com/krushna33/minotaur/model"
)

func cutName(scheme string, n int) string {
	return fmt.Sprintf("_%scut_%d", scheme, n)
}

// OACutToCons linearizes the nonlinear constraint at conIdx and, if the
// linearization is violated at lpx, emits it as an OA cut: at the NLP
// primal when the last fixedNLP call reached a usable (or proven
// infeasible) status, or at lpx itself when it only hit an iteration
// limit. Mirrors STOAHandler::OACutToCons.
func (h *Handler) OACutToCons(conIdx int, lpx []float64) (*OACut, bool) {
	con := h.rel.Constraint(conIdx)
	switch engine.Classify(h.nlpStatus) {
	case engine.UsePrimal, engine.Infeasible:
		if h.nlpSol.Primal == nil {
			return nil, false
		}
		oc := h.cutToCons(con, h.nlpSol.Primal, lpx)
		return oc, oc != nil
	case engine.UsePrimalWithCaveat:
		oc := h.cutToCons(con, lpx, lpx)
		return oc, oc != nil
	default:
		log.Errorf("oahandler: OACutToCons called with NLP status %v", h.nlpStatus)
		return nil, false
	}
}

// cutToCons linearizes con at x and attaches the result to rel only if
// violated at lpx, via the shared AddLpCut primitive, then repackages the
// emitted cut as the (rhs, varIdx, varCoeff) triple the MILP callback API
// needs.
func (h *Handler) cutToCons(con *model.Constraint, x, lpx []float64) *OACut {
	c := h.gen.AddLpCut(cutName("stoacons", h.Stats.Cuts+1), con, x, lpx, con.Ub)
	if c == nil {
		return nil
	}
	h.Stats.Cuts++
	lf := c.Func.(*model.LinearFunction)
	oc := &OACut{Rhs: c.Ub}
	for i, co := range lf.Terms() {
		oc.VarIdx = append(oc.VarIdx, i)
		oc.VarCoeff = append(oc.VarCoeff, co)
	}
	return oc
}

// OACutToObj is OACutToCons for the objective: a no-op when the objective
// is linear/constant (oNl is false). ub is the MILP relaxation's current
// objective bound, the value the linearized objective must violate to be
// worth cutting. Mirrors STOAHandler::OACutToObj.
func (h *Handler) OACutToObj(lpx []float64, ub float64) (*OACut, bool) {
	if !h.oNl {
		return nil, false
	}
	h.relObj = ub
	switch engine.Classify(h.nlpStatus) {
	case engine.UsePrimal:
		oc := h.cutToObj(h.nlpSol.Primal, lpx)
		return oc, oc != nil
	case engine.UsePrimalWithCaveat:
		oc := h.cutToObj(lpx, lpx)
		return oc, oc != nil
	default:
		return nil, false
	}
}

// cutToObj checks whether the objective's current value at lpx exceeds
// relObj, and if so linearizes at linAt (nlpx on a full solve, lpx itself
// on an iteration-limit fallback) and re-checks violation of that
// linearization at lpx before attaching -eta<=... to rel. Mirrors
// cutToObj_/objCutAtLpSol_, which differ only in which point plays the
// role of linAt.
func (h *Handler) cutToObj(linAt, lpx []float64) *OACut {
	obj := h.minlp.Objective()
	act, err := obj.Eval(lpx)
	if err != nil {
		log.Warningf("oahandler: objective not defined at LP solution: %v", err)
		return nil
	}
	vio := act - h.relObj
	if vio <= h.opts.SolAbsTol && (h.relObj == 0 || vio <= h.opts.SolRelTol*math.Abs(h.relObj)) {
		return nil
	}

	act, err = obj.Eval(linAt)
	if err != nil {
		return nil
	}
	lf, c, err := linear.At(obj, linAt, act, h.opts.ConCoeffTol)
	if err != nil {
		return nil
	}
	ev, err := lf.Eval(lpx)
	if err != nil {
		return nil
	}
	rhs := h.relObj - c
	vio2 := ev - rhs
	if vio2 <= h.opts.SolAbsTol && (rhs == 0 || vio2 <= h.opts.SolRelTol*math.Abs(rhs)) {
		return nil
	}

	oc := &OACut{Rhs: -c}
	for i, co := range lf.Terms() {
		oc.VarIdx = append(oc.VarIdx, i)
		oc.VarCoeff = append(oc.VarCoeff, co)
	}
	oc.VarIdx = append(oc.VarIdx, h.objVarIdx)
	oc.VarCoeff = append(oc.VarCoeff, -1)

	lf.AddTerm(h.objVarIdx, -1)
	h.Stats.Cuts++
	h.applyObjCut(cutName("stoaobj", h.Stats.Cuts), lf, -c)
	return oc
}

func (h *Handler) applyObjCut(name string, lf *model.LinearFunction, rhs float64) {
	c := cut.New(name, lf, -model.Inf, rhs, false, false)
	c.ApplyToProblem(h.rel, h.Stats.Cuts)
}
