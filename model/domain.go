package model

import "sort"

// Interval is a closed real interval [Start,End]. Start>End denotes an
// empty interval. Adapted from cpmodel.ClosedInterval (there over
// int64, here over float64) for the bound-tightening
// reductions the Presolver's handlers perform: intersecting a variable's
// current bounds with a newly derived interval, or unioning candidate
// bound tightenings from several constraints touching the same
// variable.
type Interval struct {
	Start, End float64
}

// Empty reports whether the interval is empty.
func (iv Interval) Empty() bool { return iv.Start > iv.End }

// Intersect returns the overlap of iv and other (possibly empty).
func (iv Interval) Intersect(other Interval) Interval {
	s := iv.Start
	if other.Start > s {
		s = other.Start
	}
	e := iv.End
	if other.End < e {
		e = other.End
	}
	return Interval{s, e}
}

// BoundDomain is an ordered, non-adjacent list of Intervals: a general
// subset of the reals. A single variable's feasible bound region during
// presolve is always representable as one Interval, but a handler
// deriving a domain from a disjunction of linear pieces (e.g. two
// non-overlapping ranges implied by an SOS-style reduction) needs the
// general form, so this keeps the same shape as cpmodel's Domain even
// though the core only ever exercises the single-interval case today.
type BoundDomain struct {
	intervals []Interval
}

// NewBoundDomain builds a BoundDomain from a single interval.
func NewBoundDomain(lb, ub float64) BoundDomain {
	return BoundDomain{intervals: []Interval{{lb, ub}}}
}

// FromIntervals builds a BoundDomain from the union of the given
// intervals, sorted and merged the way Domain.joinIntervals does
// (adjacent/overlapping intervals collapse into one).
func FromIntervals(ivs []Interval) BoundDomain {
	var kept []Interval
	for _, v := range ivs {
		if !v.Empty() {
			kept = append(kept, v)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return kept[i].End < kept[j].End
	})
	var merged []Interval
	for _, v := range kept {
		if len(merged) == 0 {
			merged = append(merged, v)
			continue
		}
		last := &merged[len(merged)-1]
		if last.End >= v.Start {
			if v.End > last.End {
				last.End = v.End
			}
		} else {
			merged = append(merged, v)
		}
	}
	return BoundDomain{intervals: merged}
}

// Min returns the domain's minimum, and false if it is empty.
func (d BoundDomain) Min() (float64, bool) {
	if len(d.intervals) == 0 {
		return 0, false
	}
	return d.intervals[0].Start, true
}

// Max returns the domain's maximum, and false if it is empty.
func (d BoundDomain) Max() (float64, bool) {
	if len(d.intervals) == 0 {
		return 0, false
	}
	return d.intervals[len(d.intervals)-1].End, true
}

// Intervals returns the domain's merged, sorted intervals.
func (d BoundDomain) Intervals() []Interval { return d.intervals }
