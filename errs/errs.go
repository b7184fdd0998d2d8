// Package errs defines the error-kind taxonomy used across the OA cut
// engine so callers can classify a failure with errors.Is/errors.As
// instead of string matching.
package errs

import "errors"

// Sentinel kinds. Wrap with fmt.Errorf("...: %w", Numeric) at the call
// site to attach context.
var (
	// Numeric marks a gradient/function evaluator error. Swallowed
	// locally by the caller: the candidate is dropped and the loop
	// continues.
	Numeric = errors.New("numeric evaluation error")

	// Infeasible marks an engine-proven infeasibility.
	Infeasible = errors.New("proven infeasible")

	// Unbounded marks an engine-proven unboundedness.
	Unbounded = errors.New("proven unbounded")

	// EngineFailure marks a CQ violation, an iteration limit with no
	// usable primal, or an unknown engine status. Fatal to the current
	// operation.
	EngineFailure = errors.New("engine failure")

	// Invariant marks a handler that reported SolvedOptimal without a
	// solution. Transitions the Presolver into SolveError.
	Invariant = errors.New("invariant violation")
)

// SolveStatus is the single user-visible outcome of an outer solve
// attempt.
type SolveStatus int

const (
	NotStarted SolveStatus = iota
	Started
	Finished
	SolvedOptimal
	SolvedInfeasible
	SolvedUnbounded
	SolveError
)

func (s SolveStatus) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Started:
		return "Started"
	case Finished:
		return "Finished"
	case SolvedOptimal:
		return "SolvedOptimal"
	case SolvedInfeasible:
		return "SolvedInfeasible"
	case SolvedUnbounded:
		return "SolvedUnbounded"
	case SolveError:
		return "SolveError"
	default:
		return "UnknownSolveStatus"
	}
}
