// Package cut implements the Cut/CutInfo data model: a (typically)
// linear inequality with lifecycle bookkeeping shared between the
// Linearization Generator, the Single-Tree OA Handler, and whatever pool
// purging policy the external driver runs.
package cut

import (
	"math"

	"github.com/krushna33/minotaur/model"
)

// Membership is an explicit enum replacing the original's implicit
// "cons_ pointer is nil" convention for pool membership.
type Membership int

const (
	// Pooled cuts are not attached to any Relaxation constraint.
	Pooled Membership = iota
	// InRelaxation cuts are attached to a live Relaxation constraint.
	InRelaxation
)

// Info is the CutInfo record: lifecycle counters, scores, and policy
// flags, carried alongside a Cut but logically owned by whichever
// handler decides pool purging policy.
type Info struct {
	TimesEnabled     int
	TimesDisabled    int
	LastEnabled      int
	LastDisabled     int
	CntSinceActive   int
	CntSinceViol     int
	NumActive        int
	ParentActiveCnts int
	Hash             uint32
	VarScore         float64
	FixedScore       float64
	NeverDelete      bool
	NeverDisable     bool
	Member           Membership
}

// checkInvariant reports whether the CutInfo invariant holds:
// TimesEnabled >= TimesDisabled, and Member==InRelaxation iff a
// constraint handle is attached (checked by the caller, which knows
// whether consIndex is set).
func (i *Info) checkInvariant(hasHandle bool) bool {
	if i.TimesEnabled < i.TimesDisabled {
		return false
	}
	return (i.Member == InRelaxation) == hasHandle
}

// Cut owns a Function (typically linear), its bounds, and an Info
// record. consIndex is the constraint index in the live Relaxation while
// InRelaxation, and is ignored (logically null) while Pooled.
type Cut struct {
	Name       string
	Func       model.Function
	Lb, Ub     float64
	Info       Info
	consIndex  int
	hasHandle  bool
}

// New constructs a Cut, initializing its Info with the given policy
// flags and a deterministic hash over the (rounded) coefficients. The
// hash is stable across runs (used for pool de-duplication): two cuts
// with identical coefficients under the stable rounding get identical
// hashes.
func New(name string, f model.Function, lb, ub float64, neverDelete, neverDisable bool) *Cut {
	c := &Cut{Name: name, Func: f, Lb: lb, Ub: ub}
	c.Info.NeverDelete = neverDelete
	c.Info.NeverDisable = neverDisable
	c.Info.Member = Pooled
	c.Info.Hash = hashFunc(f)
	c.Info.FixedScore = evalFixedScore(f)
	return c
}

// hashFunc computes Σ(i * round(a_i)) mod 2^31 over a linear function's
// coefficients. Non-linear cuts (never emitted by this core, but
// defensively handled) hash to 0.
func hashFunc(f model.Function) uint32 {
	lf, ok := f.(*model.LinearFunction)
	if !ok {
		return 0
	}
	var sum int64
	for i, c := range lf.Terms() {
		sum += int64(i) * int64(math.Round(c))
	}
	const mod = int64(1) << 31
	sum %= mod
	if sum < 0 {
		sum += mod
	}
	return uint32(sum)
}

// evalFixedScore computes the construction-time component of a cut's
// score: minus the number of nonzero coefficients, following the original's
// evalFixedScore_ (a denser cut is intrinsically less attractive to keep
// around under pool pressure).
func evalFixedScore(f model.Function) float64 {
	lf, ok := f.(*model.LinearFunction)
	if !ok {
		return 0
	}
	return -float64(len(lf.Terms()))
}

// Eval returns the cut's activity at x.
func (c *Cut) Eval(x []float64) (float64, error) {
	return c.Func.Eval(x)
}

// EvalScore returns the cut's violation at x (per Ub only, matching how
// OA/root cuts are always emitted as upper-bounded inequalities) and its
// current score, updating Info.VarScore as a side effect. score is
// fixedScore plus a violation-dependent term; the pool purging policy
// is the only reader of this composition.
func (c *Cut) EvalScore(x []float64) (violation, score float64, err error) {
	act, err := c.Eval(x)
	if err != nil {
		return 0, 0, err
	}
	violation = math.Max(0, act-c.Ub)
	c.Info.VarScore = violation
	score = c.Info.FixedScore + violation
	return violation, score, nil
}

// ApplyToProblem attaches the cut as a constraint in p, caches the
// resulting index, marks it InRelaxation, and bumps TimesEnabled/
// LastEnabled.
func (c *Cut) ApplyToProblem(p *model.Problem, iter int) int {
	idx := p.AddConstraint(model.Constraint{Name: c.Name, Func: c.Func, Lb: c.Lb, Ub: c.Ub})
	c.consIndex = idx
	c.hasHandle = true
	c.Info.Member = InRelaxation
	c.Info.TimesEnabled++
	c.Info.LastEnabled = iter
	return idx
}

// Disable marks the cut Pooled (detached from the Relaxation) and bumps
// TimesDisabled/LastDisabled. The caller is responsible for actually
// removing/deactivating the underlying constraint in the Relaxation;
// this only updates the Cut's own bookkeeping.
func (c *Cut) Disable(iter int) {
	c.hasHandle = false
	c.Info.Member = Pooled
	c.Info.TimesDisabled++
	c.Info.LastDisabled = iter
}

// ConstraintIndex returns the cut's constraint index in the Relaxation
// and whether it currently has one (i.e. is InRelaxation).
func (c *Cut) ConstraintIndex() (int, bool) {
	return c.consIndex, c.hasHandle
}

// CheckInvariant exposes Info.checkInvariant for tests and for the pool
// purging policy to assert against.
func (c *Cut) CheckInvariant() bool {
	return c.Info.checkInvariant(c.hasHandle)
}
