// Package game wires the tray together: die construction from the type
// registry, the physics arena, per-die settle detectors, and the roll
// lifecycle. It is headless; a rendering layer reads meshes and face
// labels through the session's accessors.
package game

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/dice-arena/internal/config"
	"github.com/Faultbox/dice-arena/internal/dice"
	"github.com/Faultbox/dice-arena/internal/geometry"
	"github.com/Faultbox/dice-arena/internal/logger"
	"github.com/Faultbox/dice-arena/internal/physics"
	"github.com/Faultbox/dice-arena/internal/settle"
	"github.com/Faultbox/dice-arena/internal/tray"
)

// ErrNeverSettled is returned when a roll exceeds the simulation cap
// without every die committing a value.
var ErrNeverSettled = fmt.Errorf("dice did not settle within the simulation cap")

// Die is one constructed die instance: the scaled mesh shared by visuals
// and physics, its physical faces, the rigid body, and the detector.
type Die struct {
	plan   *tray.Plan
	mesh   *geometry.Mesh
	groups []geometry.FaceGroup
	hull   *geometry.ConvexArgs
	body   *physics.Body
	det    *settle.Detector
}

// Plan returns the tray placement this die realizes.
func (d *Die) Plan() *tray.Plan { return d.plan }

// Mesh returns the scaled mesh. The physics hull is derived from this
// same instance, keeping visuals and collision in agreement.
func (d *Die) Mesh() *geometry.Mesh { return d.mesh }

// Groups returns the die's physical faces.
func (d *Die) Groups() []geometry.FaceGroup { return d.groups }

// Hull returns the convex collision hull.
func (d *Die) Hull() *geometry.ConvexArgs { return d.hull }

// Body returns the rigid body.
func (d *Die) Body() *physics.Body { return d.body }

// FaceLabel is what the rendering layer needs to draw one numeral.
type FaceLabel struct {
	Text     string
	Position mgl64.Vec3
	Normal   mgl64.Vec3
	Size     float64
	Color    string
}

// Labels returns one label per physical face, in face-group order.
func (d *Die) Labels(color string) []FaceLabel {
	out := make([]FaceLabel, len(d.groups))
	for gi, g := range d.groups {
		out[gi] = FaceLabel{
			Text:     d.plan.Spec.Label(gi, len(d.groups)),
			Position: g.Centroid,
			Normal:   g.Normal,
			Size:     d.plan.Spec.LabelSize,
			Color:    color,
		}
	}
	return out
}

// Session owns one tray's worth of live state. Everything runs on the
// caller's loop; nothing here blocks or spawns.
type Session struct {
	cfg   *config.Config
	tray  *tray.Tray
	world *physics.World
	dice  []*Die
	rng   *rand.Rand

	frozen bool
}

// New creates a session. The seed drives throw impulses only, so a fixed
// seed reproduces a throw sequence.
func New(cfg *config.Config, seed int64) *Session {
	return &Session{
		cfg:   cfg,
		tray:  tray.New(),
		world: physics.NewWorld(cfg.Physics.Gravity, cfg.Arena.Width, cfg.Arena.Depth),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Tray exposes the orchestrator for phase and result reads.
func (s *Session) Tray() *tray.Tray { return s.tray }

// Dice returns the constructed die instances in placement order.
func (s *Session) Dice() []*Die { return s.dice }

// AddDie places a die and constructs its geometry, faces, hull, body and
// detector. A d100 constructs its tens/units pair.
func (s *Session) AddDie(kind dice.Kind) error {
	before := len(s.tray.Plans())
	if err := s.tray.AddDie(kind); err != nil {
		return err
	}
	for _, plan := range s.tray.Plans()[before:] {
		die, err := s.build(plan)
		if err != nil {
			return err
		}
		s.dice = append(s.dice, die)
		s.world.Add(die.body)
	}
	return nil
}

func (s *Session) build(plan *tray.Plan) (*Die, error) {
	spec := plan.Spec

	mesh := spec.Generate().Scaled(spec.Scale)
	groups, err := spec.Group(mesh)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", spec.Name, err)
	}
	hull, err := geometry.ConvexHull(mesh)
	if err != nil {
		return nil, fmt.Errorf("building %s hull: %w", spec.Name, err)
	}

	body := physics.NewBody(hull, 1)
	body.Position = plan.Position
	body.LinearDamping = s.cfg.Physics.LinearDamping
	body.AngularDamping = s.cfg.Physics.AngularDamping
	body.Restitution = s.cfg.Physics.Restitution
	body.Friction = s.cfg.Physics.Friction

	die := &Die{plan: plan, mesh: mesh, groups: groups, hull: hull, body: body}
	die.det = settle.New(spec, mesh, groups, body, settle.Config{
		SpeedThreshold: s.cfg.Settle.SpeedThreshold,
		PollInterval:   s.cfg.Settle.PollInterval,
		StableReads:    s.cfg.Settle.StableReads,
	}, func(value int) {
		logger.Debug("die settled",
			zap.String("die", plan.ID),
			zap.String("kind", spec.Name),
			zap.Int("value", value),
		)
		s.tray.ReportValue(plan.ID, value)
	})
	return die, nil
}

// Roll throws every die: each body returns to its slot, gets a randomized
// orientation and an impulse toward the tray center, and its detector is
// handed the new roll token. Reports whether a roll started.
func (s *Session) Roll() bool {
	if !s.tray.Roll() {
		return false
	}
	s.setFrozen(false)

	token := s.tray.Token()
	for _, die := range s.dice {
		s.throw(die)
		die.det.BeginRoll(token)
	}
	logger.Info("roll started",
		zap.Uint64("token", token),
		zap.Int("dice", len(s.dice)),
	)
	return true
}

func (s *Session) throw(die *Die) {
	b := die.body
	b.Position = die.plan.Position
	b.Orientation = mgl64.QuatRotate(s.rng.Float64()*2*math.Pi, mgl64.Vec3{
		s.rng.Float64() - 0.5,
		s.rng.Float64() - 0.5,
		s.rng.Float64() - 0.5,
	}.Normalize())
	b.SetVelocity(mgl64.Vec3{}, mgl64.Vec3{})

	// Toward the far side of the tray, with some sideways scatter.
	impulse := mgl64.Vec3{
		-die.plan.Position[0] * 0.4,
		-1,
		s.cfg.Arena.Depth*0.3 + s.rng.Float64()*2,
	}
	offset := mgl64.Vec3{
		(s.rng.Float64() - 0.5) * 0.6,
		(s.rng.Float64() - 0.5) * 0.6,
		(s.rng.Float64() - 0.5) * 0.6,
	}
	b.ApplyImpulse(impulse, offset)
}

// Update advances physics and every detector by dt. Once the tray
// reaches results, detectors are frozen so the displayed values stay
// fixed even though the physics keeps stepping.
func (s *Session) Update(dt time.Duration) {
	s.world.Step(dt.Seconds())
	for _, die := range s.dice {
		die.det.Update(dt)
	}
	if s.tray.Phase() == tray.PhaseResults && !s.frozen {
		s.setFrozen(true)
	}
}

func (s *Session) setFrozen(frozen bool) {
	s.frozen = frozen
	for _, die := range s.dice {
		die.det.Freeze(frozen)
	}
}

// RunUntilResults steps simulated time until the tray reaches results or
// simCap elapses. Physics steps at the configured rate.
func (s *Session) RunUntilResults(simCap time.Duration) error {
	step := time.Second / time.Duration(s.cfg.Physics.StepHz)
	for elapsed := time.Duration(0); elapsed < simCap; elapsed += step {
		s.Update(step)
		if s.tray.Phase() == tray.PhaseResults {
			return nil
		}
	}
	return ErrNeverSettled
}

// Reset clears the tray, world and dice, returning to die selection.
func (s *Session) Reset() {
	s.tray.Reset()
	s.world.RemoveAll()
	s.dice = nil
	s.frozen = false
}
