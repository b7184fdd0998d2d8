package linear

import (
	"testing"

	"github.com/krushna33/minotaur/model"
)

func TestAtTangentOfSquareMinusY(t *testing.T) {
	// g(x,y) = x^2 - y, tangent at x=1: fval=0, grad=(2,-1).
	// a.y+c with c = fval - a.x = 0 - (2*1 + -1*1) = -1.
	f := model.NewOpaqueFunction(2,
		func(x []float64) (float64, error) { return x[0]*x[0] - x[1], nil },
		func(x []float64) ([]float64, error) { return []float64{2 * x[0], -1}, nil },
	)
	x := []float64{1, 1}
	fval, err := f.Eval(x)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	lf, c, err := At(f, x, fval, 1e-9)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if lf.Coeff(0) != 2 || lf.Coeff(1) != -1 {
		t.Errorf("coeffs = (%v,%v), want (2,-1)", lf.Coeff(0), lf.Coeff(1))
	}
	if c != -1 {
		t.Errorf("c = %v, want -1", c)
	}
	// The tangent must reproduce fval exactly at x itself.
	got, err := lf.Eval(x)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got+c != fval {
		t.Errorf("tangent(x)+c = %v, want fval = %v", got+c, fval)
	}
}

func TestAtDropsSmallCoefficients(t *testing.T) {
	f := model.NewOpaqueFunction(2,
		func(x []float64) (float64, error) { return x[0] + 1e-12*x[1], nil },
		func(x []float64) ([]float64, error) { return []float64{1, 1e-12}, nil },
	)
	x := []float64{3, 4}
	fval, _ := f.Eval(x)
	lf, _, err := At(f, x, fval, 1e-9)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if lf.Coeff(1) != 0 {
		t.Errorf("coeff(1) = %v, want 0 (below conCoeff_tol)", lf.Coeff(1))
	}
}

func TestAtPropagatesGradientError(t *testing.T) {
	f := model.NewOpaqueFunction(1,
		func(x []float64) (float64, error) { return 0, nil },
		func(x []float64) ([]float64, error) { return nil, errBoom },
	)
	if _, _, err := At(f, []float64{0}, 0, 1e-9); err == nil {
		t.Errorf("At should propagate gradient errors")
	}
}

var errBoom = &boomErr{}

type boomErr struct{}

func (*boomErr) Error() string { return "boom" }
