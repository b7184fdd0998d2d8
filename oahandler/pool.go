package oahandler

import "github.com/krushna33/minotaur/engine"

// SolutionPool is the append-only collection of feasible primal/objective
// pairs the Handler discovers via FixedNLP.
type SolutionPool struct {
	sols []engine.Solution
}

// Add appends s to the pool.
func (p *SolutionPool) Add(s engine.Solution) {
	p.sols = append(p.sols, s)
}

// Solutions returns every solution added so far, in discovery order.
func (p *SolutionPool) Solutions() []engine.Solution {
	return p.sols
}

// Best returns the lowest-objective solution in the pool and whether the
// pool is non-empty.
func (p *SolutionPool) Best() (engine.Solution, bool) {
	if len(p.sols) == 0 {
		return engine.Solution{}, false
	}
	best := p.sols[0]
	for _, s := range p.sols[1:] {
		if s.Obj < best.Obj {
			best = s
		}
	}
	return best, true
}
