// Package options implements an exhaustive option schema as a typed,
// immutable-after-construction database, the way the original
// Minotaur::Environment/OptionDB does (see original_source/), rather than
// a flag/cobra/viper-based CLI: the CLI driver itself is an external
// collaborator, so DB is populated programmatically and then frozen.
package options

import "fmt"

// DB holds every option this core recognizes. Construct with NewDB
// (defaults) and adjust via the With* setters before calling Freeze;
// after Freeze, the accessors are the only supported way to read it.
type DB struct {
	frozen bool

	// Root-node linearization controls.
	RootLinScheme1        float64 // RS1 stop threshold (percent)
	RootLinScheme2Per     float64 // RS2 slope-change threshold (percent)
	RootLinScheme2NbhSize float64 // RS2 neighbourhood radius
	RootLinScheme3        int     // max RS3 rounds
	RootGenLinScheme1     bool    // enable GS1
	RootGenLinScheme2     bool    // enable GS2

	// Tolerances.
	IntTol     float64 // integrality tolerance
	SolAbsTol  float64 // objective gap, absolute
	SolRelTol  float64 // objective gap, relative
	FeasAbsTol float64 // constraint feasibility, absolute
	FeasRelTol float64 // constraint feasibility, relative
	ConCoeffTol float64 // drop threshold for cut coefficients

	// Presolve controls.
	Presolve               bool
	NLPresolve             bool
	UseNativeCGraph        bool
	DisplayPresolvedSize   bool
	DisplayPresolvedProblem bool

	// Controls for surrounding (external) components; carried here so
	// this core can hold the full option schema even though nothing in
	// this module reads them back.
	RCFix    bool
	FPump    bool
	DivHeur  bool
	Brancher string
}

// NewDB returns a DB populated with the same defaults the original
// Minotaur driver uses: RS1 disabled (0), RS3 capped at a handful of
// rounds, tight integrality/feasibility tolerances, GS1/GS2 off by
// default.
func NewDB() *DB {
	return &DB{
		RootLinScheme1:        0,
		RootLinScheme2Per:     10,
		RootLinScheme2NbhSize: 1,
		RootLinScheme3:        5,
		RootGenLinScheme1:     false,
		RootGenLinScheme2:     false,

		IntTol:      1e-6,
		SolAbsTol:   1e-6,
		SolRelTol:   1e-6,
		FeasAbsTol:  1e-6,
		FeasRelTol:  1e-6,
		ConCoeffTol: 1e-9,

		Presolve:   true,
		NLPresolve: true,
	}
}

// Freeze marks the DB immutable. Subsequent calls to any With* setter
// return an error.
func (d *DB) Freeze() { d.frozen = true }

// Frozen reports whether Freeze has been called.
func (d *DB) Frozen() bool { return d.frozen }

// setErr is returned by With* setters called after Freeze.
func setErr(field string) error {
	return fmt.Errorf("options: cannot set %s: DB is frozen", field)
}

// WithRootLinScheme1 sets the RS1 stop threshold.
func (d *DB) WithRootLinScheme1(v float64) error {
	if d.frozen {
		return setErr("RootLinScheme1")
	}
	d.RootLinScheme1 = v
	return nil
}

// WithRootLinScheme3 sets the max RS3 rounds.
func (d *DB) WithRootLinScheme3(v int) error {
	if d.frozen {
		return setErr("RootLinScheme3")
	}
	d.RootLinScheme3 = v
	return nil
}

// WithGenSchemes toggles GS1/GS2.
func (d *DB) WithGenSchemes(gs1, gs2 bool) error {
	if d.frozen {
		return setErr("RootGenLinScheme1/2")
	}
	d.RootGenLinScheme1 = gs1
	d.RootGenLinScheme2 = gs2
	return nil
}

// FindDouble mirrors the original Environment's generic accessor surface
// for the double-valued options, used by components (Center Finder,
// Linearization Generator) that want to look an option up by name rather
// than by field, the way original_source/src/base/Linearizations.cpp's
// constructor does via env_->getOptions()->findDouble(...).
func (d *DB) FindDouble(name string) (float64, bool) {
	switch name {
	case "root_linScheme1":
		return d.RootLinScheme1, true
	case "root_linScheme2_per":
		return d.RootLinScheme2Per, true
	case "root_linScheme2_nbhSize":
		return d.RootLinScheme2NbhSize, true
	case "int_tol":
		return d.IntTol, true
	case "solAbs_tol":
		return d.SolAbsTol, true
	case "solRel_tol":
		return d.SolRelTol, true
	case "feasAbs_tol":
		return d.FeasAbsTol, true
	case "feasRel_tol":
		return d.FeasRelTol, true
	case "conCoeff_tol":
		return d.ConCoeffTol, true
	default:
		return 0, false
	}
}

// FindInt mirrors findInt.
func (d *DB) FindInt(name string) (int, bool) {
	switch name {
	case "root_linScheme3":
		return d.RootLinScheme3, true
	default:
		return 0, false
	}
}

// FindBool mirrors findBool.
func (d *DB) FindBool(name string) (bool, bool) {
	switch name {
	case "root_genLinScheme1":
		return d.RootGenLinScheme1, true
	case "root_genLinScheme2":
		return d.RootGenLinScheme2, true
	case "presolve":
		return d.Presolve, true
	case "nl_presolve":
		return d.NLPresolve, true
	case "use_native_cgraph":
		return d.UseNativeCGraph, true
	case "display_presolved_size":
		return d.DisplayPresolvedSize, true
	case "display_presolved_problem":
		return d.DisplayPresolvedProblem, true
	case "rc_fix":
		return d.RCFix, true
	case "FPump":
		return d.FPump, true
	case "divheur":
		return d.DivHeur, true
	default:
		return false, false
	}
}
