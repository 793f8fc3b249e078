// Package settle implements per-die result detection: a polling state
// machine that watches a rigid body come to rest and reads which physical
// face ends up on top (or on the bottom, for dice printed that way).
package settle

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dice-arena/internal/dice"
	"github.com/Faultbox/dice-arena/internal/geometry"
)

// Phase is the detector's lifecycle state for the current throw.
type Phase int

const (
	// PhaseIdle: die placed, not yet thrown.
	PhaseIdle Phase = iota

	// PhaseMoving: post-throw, velocity above the motion threshold.
	PhaseMoving

	// PhaseSettling: velocity below threshold, face tracking in progress.
	PhaseSettling

	// PhaseCommitted: a value has been reported and will not change
	// until a new roll token arrives.
	PhaseCommitted
)

// Body is the live physics state the detector reads each poll tick. Only
// the current values are read; no intermediate frames are buffered.
type Body interface {
	LinearVelocity() mgl64.Vec3
	Transform() mgl64.Mat4
}

// Config holds the detector's behavioral constants. These are tuning
// values, not fixed behavior; tests inject their own.
type Config struct {
	// SpeedThreshold is the linear speed at or below which a die counts
	// as settling, in length units per tick.
	SpeedThreshold float64

	// PollInterval is the face-scan period.
	PollInterval time.Duration

	// StableReads is how many consecutive identical face readings are
	// required before a value is committed.
	StableReads int
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		SpeedThreshold: 0.12,
		PollInterval:   120 * time.Millisecond,
		StableReads:    3,
	}
}

// Detector tracks one die through a throw. It is driven by the caller's
// cooperative loop via Update; nothing in it blocks or spawns.
type Detector struct {
	cfg   Config
	spec  *dice.Spec
	mesh  *geometry.Mesh
	group []geometry.FaceGroup
	body  Body

	onCommit func(value int)

	phase     Phase
	token     uint64
	acc       time.Duration
	lastGroup int
	stable    int
	value     int
	frozen    bool
}

// New creates a detector for one die instance. The mesh must be the same
// scaled instance the physics hull was derived from. onCommit fires
// exactly once per throw, with the die's final value.
func New(spec *dice.Spec, mesh *geometry.Mesh, groups []geometry.FaceGroup, body Body, cfg Config, onCommit func(value int)) *Detector {
	return &Detector{
		cfg:       cfg,
		spec:      spec,
		mesh:      mesh,
		group:     groups,
		body:      body,
		onCommit:  onCommit,
		phase:     PhaseIdle,
		lastGroup: -1,
	}
}

// Phase returns the detector's current lifecycle phase.
func (d *Detector) Phase() Phase {
	return d.phase
}

// Value returns the last committed value. Meaningful only in
// PhaseCommitted.
func (d *Detector) Value() int {
	return d.value
}

// BeginRoll resets all settle state for a new throw. The roll token is
// the sole signal that a new throw started; an unchanged token is
// ignored.
func (d *Detector) BeginRoll(token uint64) {
	if token == d.token && d.phase != PhaseIdle {
		return
	}
	d.token = token
	d.phase = PhaseMoving
	d.acc = 0
	d.lastGroup = -1
	d.stable = 0
}

// Freeze suppresses polling without clearing committed state, so the last
// reported value stays visible while results are displayed. Unfreezing
// resumes polling with state intact.
func (d *Detector) Freeze(frozen bool) {
	d.frozen = frozen
}

// Update advances the detector's poll timer by dt. Polls fire on the
// configured fixed interval regardless of how physics stepping and
// Update calls interleave.
func (d *Detector) Update(dt time.Duration) {
	if d.phase == PhaseIdle {
		return
	}
	d.acc += dt
	for d.acc >= d.cfg.PollInterval {
		d.acc -= d.cfg.PollInterval
		d.poll()
	}
}

func (d *Detector) poll() {
	if d.frozen || d.phase == PhaseCommitted {
		return
	}

	speed := d.body.LinearVelocity().Len()

	if speed > d.cfg.SpeedThreshold {
		// Still tumbling; any face tracking so far is void.
		d.phase = PhaseMoving
		d.lastGroup = -1
		d.stable = 0
		return
	}

	d.phase = PhaseSettling

	axis := mgl64.Vec3{0, 1, 0}
	if d.spec.ReadMode == dice.ReadBottom {
		axis = mgl64.Vec3{0, -1, 0}
	}
	g := geometry.UpFace(d.mesh, d.group, d.body.Transform(), axis)
	if g < 0 {
		return
	}

	if g == d.lastGroup {
		d.stable++
	} else {
		d.lastGroup = g
		d.stable = 1
	}

	if d.stable >= d.cfg.StableReads {
		d.value = d.spec.Value(g, len(d.group))
		d.phase = PhaseCommitted
		if d.onCommit != nil {
			d.onCommit(d.value)
		}
	}
}
