// Package linear implements the LinearAt primitive: building an affine
// under-support of a function at a point, the single numerical building
// block every root-node scheme and the OA Handler reduce to. Grounded on
// original_source/src/base/STOAHandler.cpp's linearAt_.
package linear

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/krushna33/minotaur/model"
)

// At computes the affine under-support a.y + c of f at x, given
// fval = f(x): a = grad(f)(x) with coefficients below coeffTol dropped
// to zero, and c = fval - a.x. Returns an error (and an unspecified
// linear function) if the gradient oracle fails; the caller must
// discard the result on error.
func At(f model.Function, x []float64, fval, coeffTol float64) (*model.LinearFunction, float64, error) {
	grad, err := f.Grad(x)
	if err != nil {
		log.Warningf("linear.At: gradient evaluation failed: %v", err)
		return nil, 0, fmt.Errorf("linear.At: %w", err)
	}
	lf := model.NewEmptyLinearFunction(len(grad))
	var ax float64
	for i, a := range grad {
		if a == 0 {
			continue
		}
		if abs(a) < coeffTol {
			continue
		}
		lf.AddTerm(i, a)
		ax += a * x[i]
	}
	c := fval - ax
	return lf, c, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
