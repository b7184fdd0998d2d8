package linearize

import "github.com/krushna33/minotaur/model"

// RootLinearizations runs every enabled root-node scheme against the NLP
// primal nlpx (and the analytic center solC, if available), populating
// the Relaxation once at the root. Mirrors rootLinearizations: RS1/RS2
// run per eligible nonlinear constraint, GS1/GS2 run once each, gated on
// solC being available.
func (g *Generator) RootLinearizations(nlpx, solC []float64) {
	if g.opts.RootLinScheme1 > 0 || g.opts.RootLinScheme2Per > 0 {
		for _, idx := range g.NonlinearConstraints() {
			shape, ok := model.DetectUnivariate(g.rel.Constraint(idx).Func)
			if !ok || !shape.HasLinVar {
				continue
			}
			if g.opts.RootLinScheme1 > 0 {
				g.Scheme1(idx)
			}
			if g.opts.RootLinScheme2Per > 0 {
				g.Scheme2(idx, nlpx)
			}
		}
	}
	if (g.opts.RootGenLinScheme1 || g.opts.RootGenLinScheme2) && solC != nil {
		g.Scheme4GS1(solC)
		g.Scheme5GS2(solC, nlpx)
	}
}
