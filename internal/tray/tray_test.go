package tray

import (
	"testing"

	"github.com/Faultbox/dice-arena/internal/dice"
)

func TestAddSingleDie(t *testing.T) {
	tr := New()
	if err := tr.AddDie(dice.KindD6); err != nil {
		t.Fatalf("AddDie: %v", err)
	}

	if len(tr.Plans()) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(tr.Plans()))
	}
	if len(tr.Selections()) != 1 {
		t.Fatalf("expected 1 selection, got %d", len(tr.Selections()))
	}
	p := tr.Plans()[0]
	if p.Role != RoleSingle || p.PairID != "" {
		t.Errorf("single die got pair attributes: role=%v pair=%q", p.Role, p.PairID)
	}
	if p.ID == "" {
		t.Error("plan must get a unique id")
	}
}

func TestAddPercentilePair(t *testing.T) {
	tr := New()
	if err := tr.AddDie(dice.KindD100); err != nil {
		t.Fatalf("AddDie: %v", err)
	}

	plans := tr.Plans()
	if len(plans) != 2 {
		t.Fatalf("d100 must add exactly 2 plans, got %d", len(plans))
	}
	if len(tr.Selections()) != 1 {
		t.Fatalf("d100 must add exactly 1 selection, got %d", len(tr.Selections()))
	}
	if plans[0].Role != RoleTens || plans[1].Role != RoleUnits {
		t.Errorf("expected tens+units roles, got %v and %v", plans[0].Role, plans[1].Role)
	}
	if plans[0].PairID == "" || plans[0].PairID != plans[1].PairID {
		t.Errorf("pair halves must share a group id: %q vs %q", plans[0].PairID, plans[1].PairID)
	}
	if plans[0].ID == plans[1].ID {
		t.Error("pair halves must have distinct die ids")
	}
}

func TestAddOutsideSelectIsNoop(t *testing.T) {
	tr := New()
	tr.AddDie(dice.KindD6)
	if !tr.Roll() {
		t.Fatal("Roll failed")
	}

	tr.AddDie(dice.KindD20)
	if len(tr.Plans()) != 1 {
		t.Errorf("AddDie during rolling must be a no-op, got %d plans", len(tr.Plans()))
	}
}

func TestRollGating(t *testing.T) {
	tr := New()
	if tr.Roll() {
		t.Error("Roll with no dice must not start")
	}

	tr.AddDie(dice.KindD6)
	if !tr.Roll() {
		t.Fatal("Roll with a die must start")
	}
	if tr.Phase() != PhaseRolling {
		t.Errorf("expected PhaseRolling, got %v", tr.Phase())
	}
	if tr.Token() != 1 {
		t.Errorf("expected roll token 1, got %d", tr.Token())
	}

	// A second roll while already rolling is refused.
	if tr.Roll() {
		t.Error("concurrent Roll must be refused")
	}
	if tr.Token() != 1 {
		t.Errorf("refused roll must not bump the token, got %d", tr.Token())
	}
}

func TestResultsReadyGatesOnPair(t *testing.T) {
	tr := New()
	tr.AddDie(dice.KindD100)
	tr.Roll()

	plans := tr.Plans()
	tr.ReportValue(plans[0].ID, 30)
	if tr.Phase() != PhaseRolling {
		t.Fatal("results must not be ready with only the tens half recorded")
	}

	tr.ReportValue(plans[1].ID, 7)
	if tr.Phase() != PhaseResults {
		t.Fatal("results must be ready once both halves are recorded")
	}

	results := tr.Results()
	if len(results) != 1 || results[0] != 37 {
		t.Errorf("expected composite result [37], got %v", results)
	}
	if tr.Total() != 37 {
		t.Errorf("expected total 37, got %d", tr.Total())
	}
}

func TestPercentileDoubleZero(t *testing.T) {
	tr := New()
	tr.AddDie(dice.KindD100)
	tr.Roll()

	plans := tr.Plans()
	tr.ReportValue(plans[0].ID, 0)
	tr.ReportValue(plans[1].ID, 0)

	if got := tr.Results(); len(got) != 1 || got[0] != 100 {
		t.Errorf("00 + 0 must read 100, got %v", got)
	}
}

func TestReportValueIdempotent(t *testing.T) {
	tr := New()
	tr.AddDie(dice.KindD20)
	tr.AddDie(dice.KindD6)
	tr.Roll()

	plans := tr.Plans()
	tr.ReportValue(plans[0].ID, 17)
	tr.ReportValue(plans[0].ID, 17) // duplicate report, no-op
	if tr.Phase() != PhaseRolling {
		t.Fatal("one unreported die remains; phase must still be rolling")
	}

	tr.ReportValue(plans[1].ID, 4)
	if tr.Phase() != PhaseResults {
		t.Fatal("expected results phase")
	}
	if tr.Total() != 21 {
		t.Errorf("expected total 21, got %d", tr.Total())
	}
}

func TestMixedSelectionOrder(t *testing.T) {
	tr := New()
	tr.AddDie(dice.KindD6)
	tr.AddDie(dice.KindD100)
	tr.AddDie(dice.KindD4)
	tr.Roll()

	plans := tr.Plans()
	tr.ReportValue(plans[0].ID, 5)  // d6
	tr.ReportValue(plans[1].ID, 90) // tens
	tr.ReportValue(plans[2].ID, 0)  // units
	tr.ReportValue(plans[3].ID, 2)  // d4

	want := []int{5, 90, 2}
	got := tr.Results()
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if tr.Total() != 97 {
		t.Errorf("expected total 97, got %d", tr.Total())
	}
}

func TestResetFromAnyPhase(t *testing.T) {
	phases := []func(*Tray){
		func(tr *Tray) {}, // select
		func(tr *Tray) { tr.AddDie(dice.KindD6); tr.Roll() }, // rolling
		func(tr *Tray) { // results
			tr.AddDie(dice.KindD6)
			tr.Roll()
			tr.ReportValue(tr.Plans()[0].ID, 3)
		},
	}

	for i, setup := range phases {
		tr := New()
		setup(tr)
		tr.Reset()

		if tr.Phase() != PhaseSelect {
			t.Errorf("case %d: expected PhaseSelect after reset, got %v", i, tr.Phase())
		}
		if len(tr.Plans()) != 0 || len(tr.Selections()) != 0 {
			t.Errorf("case %d: reset left dice behind", i)
		}
		if tr.Token() != 0 {
			t.Errorf("case %d: reset left roll token %d", i, tr.Token())
		}
		if _, ok := tr.Value("anything"); ok {
			t.Errorf("case %d: reset left values behind", i)
		}
	}
}
