// Package tray implements the dice tray orchestrator: the owned state
// container for the dice in play, their selection/roll/results lifecycle,
// and result aggregation including percentile pairing.
package tray

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/Faultbox/dice-arena/internal/dice"
)

// Phase is the tray lifecycle phase. It only ever advances
// select -> rolling -> results; Reset returns to select from anywhere.
type Phase int

const (
	PhaseSelect Phase = iota
	PhaseRolling
	PhaseResults
)

// Role tags a die plan's part in a percentile pair.
type Role int

const (
	RoleSingle Role = iota
	RoleTens
	RoleUnits
)

// Plan is one die instance placed in the tray.
type Plan struct {
	ID       string
	Spec     *dice.Spec
	Position mgl64.Vec3
	Role     Role

	// PairID is shared by the tens and units halves of one percentile
	// selection; empty for single dice.
	PairID string
}

// Selection is one user-facing die choice: a single plan, or the
// tens/units pair realizing a d100.
type Selection struct {
	Kind  dice.Kind
	Plans []*Plan
}

// Slot spacing for initial pre-roll positions along the tray's near edge.
const (
	slotSpacing = 2.6
	slotHeight  = 4.0
)

// Tray owns the dice in play. It is mutated only through its operations;
// per-die detectors report values via ReportValue and everything else
// reads.
type Tray struct {
	phase      Phase
	plans      []*Plan
	selections []Selection
	values     map[string]int
	token      uint64
}

// New creates an empty tray in the select phase.
func New() *Tray {
	return &Tray{values: make(map[string]int)}
}

// Phase returns the current lifecycle phase.
func (t *Tray) Phase() Phase { return t.phase }

// Token returns the current roll token. A change of token is the signal
// for every die to begin a new physical throw.
func (t *Tray) Token() uint64 { return t.token }

// Plans returns the dice in placement order.
func (t *Tray) Plans() []*Plan { return t.plans }

// Selections returns the user-facing die choices in placement order.
func (t *Tray) Selections() []Selection { return t.selections }

// AddDie places a die of the given kind. A d100 request places the
// tens/units pair sharing a generated pair id. No-op outside the select
// phase.
func (t *Tray) AddDie(kind dice.Kind) error {
	if t.phase != PhaseSelect {
		return nil
	}

	if kind == dice.KindD100 {
		tens, err := dice.Get(dice.KindTens)
		if err != nil {
			return err
		}
		units, err := dice.Get(dice.KindUnits)
		if err != nil {
			return err
		}
		pairID := uuid.NewString()
		a := t.place(tens, RoleTens, pairID)
		b := t.place(units, RoleUnits, pairID)
		t.selections = append(t.selections, Selection{Kind: kind, Plans: []*Plan{a, b}})
		return nil
	}

	spec, err := dice.Get(kind)
	if err != nil {
		return err
	}
	p := t.place(spec, RoleSingle, "")
	t.selections = append(t.selections, Selection{Kind: kind, Plans: []*Plan{p}})
	return nil
}

func (t *Tray) place(spec *dice.Spec, role Role, pairID string) *Plan {
	i := len(t.plans)
	p := &Plan{
		ID:       uuid.NewString(),
		Spec:     spec,
		Position: mgl64.Vec3{(float64(i) - 3.5) * slotSpacing, slotHeight, 0},
		Role:     role,
		PairID:   pairID,
	}
	t.plans = append(t.plans, p)
	return p
}

// Roll starts a throw: clears recorded values, advances to rolling, and
// bumps the roll token. Permitted only in the select phase with at least
// one die placed; reports whether a roll started.
func (t *Tray) Roll() bool {
	if t.phase != PhaseSelect || len(t.plans) == 0 {
		return false
	}
	t.values = make(map[string]int)
	t.phase = PhaseRolling
	t.token++
	return true
}

// ReportValue records a die's final value. Idempotent upsert: an
// unchanged value is a no-op. Results readiness is evaluated after each
// upsert, and the phase auto-advances the instant every die has settled.
func (t *Tray) ReportValue(dieID string, value int) {
	if prev, ok := t.values[dieID]; ok && prev == value {
		return
	}
	t.values[dieID] = value

	if t.phase == PhaseRolling && t.resultsReady() {
		t.phase = PhaseResults
	}
}

// Value returns a die's recorded value, if any.
func (t *Tray) Value(dieID string) (int, bool) {
	v, ok := t.values[dieID]
	return v, ok
}

// resultsReady reports whether every die in placement order, and both
// halves of every percentile pair, has a recorded value.
func (t *Tray) resultsReady() bool {
	for _, p := range t.plans {
		if _, ok := t.values[p.ID]; !ok {
			return false
		}
	}
	return len(t.plans) > 0
}

// Results returns one value per selection in placement order: the single
// die's value, or the percentile composite for a d100 pair. Only
// meaningful once the tray is in the results phase.
func (t *Tray) Results() []int {
	out := make([]int, 0, len(t.selections))
	for _, sel := range t.selections {
		if sel.Kind == dice.KindD100 {
			tens := t.values[sel.Plans[0].ID]
			units := t.values[sel.Plans[1].ID]
			out = append(out, dice.PercentileValue(tens, units))
			continue
		}
		out = append(out, t.values[sel.Plans[0].ID])
	}
	return out
}

// Total sums the selection results.
func (t *Tray) Total() int {
	sum := 0
	for _, v := range t.Results() {
		sum += v
	}
	return sum
}

// Reset clears all dice, selections, values, and the roll token, and
// returns unconditionally to the select phase.
func (t *Tray) Reset() {
	t.phase = PhaseSelect
	t.plans = nil
	t.selections = nil
	t.values = make(map[string]int)
	t.token = 0
}
