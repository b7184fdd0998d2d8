package options

import "testing"

func TestFrozenDBRejectsSetters(t *testing.T) {
	db := NewDB()
	db.Freeze()
	if err := db.WithRootLinScheme1(5); err == nil {
		t.Errorf("WithRootLinScheme1 on frozen DB returned nil error")
	}
	if db.RootLinScheme1 != 0 {
		t.Errorf("frozen DB was mutated: RootLinScheme1 = %v", db.RootLinScheme1)
	}
}

func TestFindDoubleIntBool(t *testing.T) {
	db := NewDB()
	db.RootLinScheme3 = 7
	db.RootGenLinScheme1 = true
	if v, ok := db.FindDouble("feasAbs_tol"); !ok || v != db.FeasAbsTol {
		t.Errorf("FindDouble(feasAbs_tol) = %v,%v, want %v,true", v, ok, db.FeasAbsTol)
	}
	if v, ok := db.FindInt("root_linScheme3"); !ok || v != 7 {
		t.Errorf("FindInt(root_linScheme3) = %v,%v, want 7,true", v, ok)
	}
	if v, ok := db.FindBool("root_genLinScheme1"); !ok || !v {
		t.Errorf("FindBool(root_genLinScheme1) = %v,%v, want true,true", v, ok)
	}
	if _, ok := db.FindDouble("nonexistent"); ok {
		t.Errorf("FindDouble(nonexistent) reported ok")
	}
}
