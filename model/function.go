package model

import "fmt"

// FuncType classifies a Function as Constant, Linear, Quadratic, or
// Nonlinear. Linear/constant constraints have an immutable functional
// type; only the Opaque variant can be reclassified (never, in practice
// — evaluators don't change shape at runtime).
type FuncType int

const (
	FuncConstant FuncType = iota
	FuncLinear
	FuncQuadratic
	FuncNonlinear
)

func (t FuncType) String() string {
	switch t {
	case FuncConstant:
		return "Constant"
	case FuncLinear:
		return "Linear"
	case FuncQuadratic:
		return "Quadratic"
	default:
		return "Nonlinear"
	}
}

// Function is a sum-of-parts abstraction: a Linear part, a Quadratic
// part, and an opaque Nonlinear part, any of which may be empty. A
// Function is one of three concrete shapes (Linear, Quadratic, Opaque)
// rather than a polymorphic expression tree, which keeps automatic
// differentiation concerns outside this core: an Opaque function is
// handed a caller-supplied evaluator and gradient oracle.
type Function interface {
	// Eval returns the function's value at x, or an error if the
	// (possibly opaque) evaluator failed.
	Eval(x []float64) (float64, error)
	// Grad returns a dense gradient vector at x, sized to the ambient
	// variable count, or an error if the evaluator failed.
	Grad(x []float64) ([]float64, error)
	// Type classifies the function per FuncType.
	Type() FuncType
	// NumVars is the ambient variable count the function was built
	// against; gradients are sized to this.
	NumVars() int
}

// LinearFunction is Σ coeffs[i]*x[i]. VarIndex-keyed rather than
// dense-array-keyed so a sparse linear function (as every OA cut is) does
// not pay for the full variable count in storage.
type LinearFunction struct {
	n      int
	coeffs map[int]float64
}

// NewLinearFunction builds a LinearFunction over n ambient variables from
// parallel index/coefficient slices, mirroring the original's
// LinearFunction(a, vbeg, vend, tol) constructor used by linearAt_: any
// index appearing twice has its coefficients summed.
func NewLinearFunction(n int, idx []int, coef []float64) *LinearFunction {
	lf := &LinearFunction{n: n, coeffs: make(map[int]float64, len(idx))}
	for k, i := range idx {
		lf.coeffs[i] += coef[k]
	}
	return lf
}

// NewEmptyLinearFunction builds a zero LinearFunction over n variables.
func NewEmptyLinearFunction(n int) *LinearFunction {
	return &LinearFunction{n: n, coeffs: make(map[int]float64)}
}

// AddTerm adds coef*x[idx] to the function, accumulating into any
// existing coefficient for idx.
func (f *LinearFunction) AddTerm(idx int, coef float64) {
	f.coeffs[idx] += coef
}

// Coeff returns the coefficient of variable idx (zero if absent).
func (f *LinearFunction) Coeff(idx int) float64 {
	return f.coeffs[idx]
}

// Terms returns the function's nonzero (index, coefficient) pairs. The
// order is unspecified.
func (f *LinearFunction) Terms() map[int]float64 {
	return f.coeffs
}

func (f *LinearFunction) Eval(x []float64) (float64, error) {
	var s float64
	for i, c := range f.coeffs {
		if i >= len(x) {
			return 0, fmt.Errorf("linear eval: index %d out of range for point of length %d", i, len(x))
		}
		s += c * x[i]
	}
	return s, nil
}

func (f *LinearFunction) Grad(x []float64) ([]float64, error) {
	g := make([]float64, f.n)
	for i, c := range f.coeffs {
		g[i] = c
	}
	return g, nil
}

func (f *LinearFunction) Type() FuncType { return FuncLinear }
func (f *LinearFunction) NumVars() int   { return f.n }

// QuadraticPair is one bilinear term coef*x[I]*x[J] (I==J for a square
// term).
type QuadraticPair struct {
	I, J int
	Coef float64
}

// QuadraticFunction is a linear part plus a sum of bilinear terms.
type QuadraticFunction struct {
	n      int
	Linear *LinearFunction
	Pairs  []QuadraticPair
}

// NewQuadraticFunction builds a QuadraticFunction over n ambient
// variables; linear may be nil to mean "no linear part".
func NewQuadraticFunction(n int, linear *LinearFunction, pairs []QuadraticPair) *QuadraticFunction {
	if linear == nil {
		linear = NewEmptyLinearFunction(n)
	}
	return &QuadraticFunction{n: n, Linear: linear, Pairs: pairs}
}

func (f *QuadraticFunction) Eval(x []float64) (float64, error) {
	s, err := f.Linear.Eval(x)
	if err != nil {
		return 0, err
	}
	for _, p := range f.Pairs {
		if p.I >= len(x) || p.J >= len(x) {
			return 0, fmt.Errorf("quadratic eval: index out of range for point of length %d", len(x))
		}
		s += p.Coef * x[p.I] * x[p.J]
	}
	return s, nil
}

func (f *QuadraticFunction) Grad(x []float64) ([]float64, error) {
	g, err := f.Linear.Grad(x)
	if err != nil {
		return nil, err
	}
	for _, p := range f.Pairs {
		if p.I >= len(x) || p.J >= len(x) {
			return nil, fmt.Errorf("quadratic grad: index out of range for point of length %d", len(x))
		}
		g[p.I] += p.Coef * x[p.J]
		if p.I != p.J {
			g[p.J] += p.Coef * x[p.I]
		} else {
			g[p.I] += p.Coef * x[p.J]
		}
	}
	return g, nil
}

func (f *QuadraticFunction) Type() FuncType { return FuncQuadratic }
func (f *QuadraticFunction) NumVars() int   { return f.n }

// Evaluator computes an opaque function's value at x.
type Evaluator func(x []float64) (float64, error)

// GradEvaluator computes an opaque function's dense gradient at x.
type GradEvaluator func(x []float64) ([]float64, error)

// OpaqueFunction wraps a caller-supplied nonlinear evaluator and gradient
// oracle; the core never differentiates or symbolically manipulates it.
type OpaqueFunction struct {
	n    int
	eval Evaluator
	grad GradEvaluator

	// Touches lists every variable index the evaluator reads. Optional;
	// a nil Touches means "unknown", which excludes the function from
	// shape-sensitive schemes (RS1/RS2) that need to know it depends on
	// a single variable.
	Touches []int
	// NlVar/HasNlVar name the single variable the *nonlinear* part
	// depends on, for opaque functions of the shape c*v_l + g(v_n) that
	// the caller knows to have this univariate shape even though the
	// evaluator itself is opaque.
	NlVar    int
	HasNlVar bool
}

// NewOpaqueFunction builds an OpaqueFunction over n ambient variables.
func NewOpaqueFunction(n int, eval Evaluator, grad GradEvaluator) *OpaqueFunction {
	return &OpaqueFunction{n: n, eval: eval, grad: grad}
}

func (f *OpaqueFunction) Eval(x []float64) (float64, error) { return f.eval(x) }
func (f *OpaqueFunction) Grad(x []float64) ([]float64, error) {
	return f.grad(x)
}
func (f *OpaqueFunction) Type() FuncType { return FuncNonlinear }
func (f *OpaqueFunction) NumVars() int   { return f.n }

// WithTouches records which variables f's evaluator reads and returns f,
// for chaining after NewOpaqueFunction.
func (f *OpaqueFunction) WithTouches(idx []int) *OpaqueFunction {
	f.Touches = append([]int(nil), idx...)
	return f
}

// WithUnivariateNl marks f as depending on nlVar in its nonlinear part
// (and, implicitly, at most one other variable linearly) and returns f.
func (f *OpaqueFunction) WithUnivariateNl(nlVar int) *OpaqueFunction {
	f.NlVar, f.HasNlVar = nlVar, true
	return f
}

// UnivariateShape describes a constraint whose nonlinear part depends on
// exactly one variable NlVar, optionally alongside one other variable
// LinVar appearing only linearly with coefficient LinCoeff. RS1/RS2 are
// only applicable to constraints matching this shape.
type UnivariateShape struct {
	NlVar     int
	LinVar    int
	LinCoeff  float64
	HasLinVar bool
}

// DetectUnivariate inspects f and reports its UnivariateShape, if any.
// QuadraticFunctions qualify when they carry exactly one square term
// x_i^2 and at most one other nonzero linear coefficient; OpaqueFunctions
// qualify when built WithUnivariateNl and their Touches (if given) name
// at most one variable besides NlVar. For an OpaqueFunction, LinCoeff is
// read from its gradient at the origin (the linear variable's partial
// derivative is constant); it stays zero if that evaluation fails.
func DetectUnivariate(f Function) (UnivariateShape, bool) {
	switch t := f.(type) {
	case *QuadraticFunction:
		nlVar := -1
		for _, p := range t.Pairs {
			if p.I != p.J {
				return UnivariateShape{}, false
			}
			if nlVar != -1 && nlVar != p.I {
				return UnivariateShape{}, false
			}
			nlVar = p.I
		}
		if nlVar == -1 {
			return UnivariateShape{}, false
		}
		shape := UnivariateShape{NlVar: nlVar}
		for i, c := range t.Linear.Terms() {
			if c == 0 || i == nlVar {
				continue
			}
			if shape.HasLinVar {
				return UnivariateShape{}, false
			}
			shape.LinVar, shape.LinCoeff, shape.HasLinVar = i, c, true
		}
		return shape, true
	case *OpaqueFunction:
		if !t.HasNlVar {
			return UnivariateShape{}, false
		}
		shape := UnivariateShape{NlVar: t.NlVar}
		if t.Touches == nil {
			return shape, true
		}
		for _, i := range t.Touches {
			if i == t.NlVar {
				continue
			}
			if shape.HasLinVar {
				return UnivariateShape{}, false
			}
			shape.LinVar, shape.HasLinVar = i, true
		}
		if shape.HasLinVar {
			if g, err := t.grad(make([]float64, t.n)); err == nil && shape.LinVar < len(g) {
				shape.LinCoeff = g[shape.LinVar]
			}
		}
		return shape, true
	default:
		return UnivariateShape{}, false
	}
}
