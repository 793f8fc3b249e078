package settle

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dice-arena/internal/dice"
)

// fakeBody is a scriptable physics body: each poll reads the current
// speed and transform set by the test.
type fakeBody struct {
	velocity  mgl64.Vec3
	transform mgl64.Mat4
}

func (f *fakeBody) LinearVelocity() mgl64.Vec3 { return f.velocity }
func (f *fakeBody) Transform() mgl64.Mat4      { return f.transform }

func testConfig() Config {
	return Config{
		SpeedThreshold: 0.12,
		PollInterval:   10 * time.Millisecond,
		StableReads:    3,
	}
}

func newD6Detector(t *testing.T, body Body, onCommit func(int)) *Detector {
	t.Helper()
	spec, err := dice.Get(dice.KindD6)
	if err != nil {
		t.Fatalf("Get(KindD6): %v", err)
	}
	mesh, groups, err := spec.Faces()
	if err != nil {
		t.Fatalf("Faces: %v", err)
	}
	return New(spec, mesh, groups, body, testConfig(), onCommit)
}

// tick advances the detector by exactly one poll interval.
func tick(d *Detector) {
	d.Update(10 * time.Millisecond)
}

// faceUpTransform rotates the d6 so the given group's face points up.
func faceUpTransform(t *testing.T, gi int) mgl64.Mat4 {
	t.Helper()
	spec, _ := dice.Get(dice.KindD6)
	_, groups, err := spec.Faces()
	if err != nil {
		t.Fatalf("Faces: %v", err)
	}
	return mgl64.QuatBetweenVectors(groups[gi].Normal, mgl64.Vec3{0, 1, 0}).Mat4()
}

func TestCommitAfterStableReads(t *testing.T) {
	body := &fakeBody{
		velocity:  mgl64.Vec3{0.05, 0, 0},
		transform: faceUpTransform(t, 3),
	}

	var commits []int
	d := newD6Detector(t, body, func(v int) { commits = append(commits, v) })

	d.BeginRoll(1)
	if d.Phase() != PhaseMoving {
		t.Fatalf("expected PhaseMoving after BeginRoll, got %v", d.Phase())
	}

	tick(d)
	tick(d)
	if len(commits) != 0 {
		t.Fatalf("committed after only 2 stable reads: %v", commits)
	}

	tick(d)
	if len(commits) != 1 {
		t.Fatalf("expected exactly 1 commit after 3 stable reads, got %v", commits)
	}
	if commits[0] != 4 {
		t.Errorf("group 3 should map to value 4, got %d", commits[0])
	}
	if d.Phase() != PhaseCommitted {
		t.Errorf("expected PhaseCommitted, got %v", d.Phase())
	}

	// A 4th identical reading must not re-fire or change the value.
	tick(d)
	if len(commits) != 1 || d.Value() != 4 {
		t.Errorf("extra poll changed committed state: commits=%v value=%d", commits, d.Value())
	}
}

func TestMotionResetsStability(t *testing.T) {
	body := &fakeBody{
		velocity:  mgl64.Vec3{0.05, 0, 0},
		transform: faceUpTransform(t, 2),
	}

	var commits []int
	d := newD6Detector(t, body, func(v int) { commits = append(commits, v) })
	d.BeginRoll(1)

	tick(d)
	tick(d)

	// A bounce: speed spikes back above threshold.
	body.velocity = mgl64.Vec3{1.5, 0, 0}
	tick(d)
	if d.Phase() != PhaseMoving {
		t.Fatalf("expected PhaseMoving after speed spike, got %v", d.Phase())
	}

	// Stability restarts from scratch.
	body.velocity = mgl64.Vec3{0.02, 0, 0}
	tick(d)
	tick(d)
	if len(commits) != 0 {
		t.Fatalf("committed before 3 consecutive post-bounce reads: %v", commits)
	}
	tick(d)
	if len(commits) != 1 || commits[0] != 3 {
		t.Errorf("expected single commit of value 3, got %v", commits)
	}
}

func TestFaceChangeResetsCounter(t *testing.T) {
	body := &fakeBody{
		velocity:  mgl64.Vec3{0.05, 0, 0},
		transform: faceUpTransform(t, 0),
	}

	var commits []int
	d := newD6Detector(t, body, func(v int) { commits = append(commits, v) })
	d.BeginRoll(1)

	tick(d)
	tick(d)

	// The die tips onto another face while still below the threshold.
	body.transform = faceUpTransform(t, 5)
	tick(d)
	tick(d)
	if len(commits) != 0 {
		t.Fatalf("committed across a face change: %v", commits)
	}
	tick(d)
	if len(commits) != 1 || commits[0] != 6 {
		t.Errorf("expected commit of value 6 after 3 reads on new face, got %v", commits)
	}
}

func TestFreezeSuppressesWithoutClearing(t *testing.T) {
	body := &fakeBody{
		velocity:  mgl64.Vec3{0.05, 0, 0},
		transform: faceUpTransform(t, 1),
	}

	var commits []int
	d := newD6Detector(t, body, func(v int) { commits = append(commits, v) })
	d.BeginRoll(1)

	tick(d)
	tick(d)
	tick(d)
	if len(commits) != 1 {
		t.Fatalf("expected commit, got %v", commits)
	}

	// Frozen polls are no-ops: the committed value survives even if the
	// body keeps drifting.
	d.Freeze(true)
	body.transform = faceUpTransform(t, 4)
	tick(d)
	tick(d)
	if d.Value() != 2 || len(commits) != 1 {
		t.Errorf("freeze lost committed state: value=%d commits=%v", d.Value(), commits)
	}

	d.Freeze(false)
	tick(d)
	if d.Value() != 2 {
		t.Errorf("unfreeze changed committed value to %d", d.Value())
	}
}

func TestNewRollTokenResets(t *testing.T) {
	body := &fakeBody{
		velocity:  mgl64.Vec3{0.05, 0, 0},
		transform: faceUpTransform(t, 3),
	}

	var commits []int
	d := newD6Detector(t, body, func(v int) { commits = append(commits, v) })

	d.BeginRoll(1)
	tick(d)
	tick(d)
	tick(d)
	if len(commits) != 1 {
		t.Fatalf("expected first commit, got %v", commits)
	}

	// Re-issuing the same token is a no-op.
	d.BeginRoll(1)
	if d.Phase() != PhaseCommitted {
		t.Error("repeated token must not reset a committed detector")
	}

	d.BeginRoll(2)
	if d.Phase() != PhaseMoving {
		t.Errorf("new token must restart detection, got phase %v", d.Phase())
	}

	body.transform = faceUpTransform(t, 0)
	tick(d)
	tick(d)
	tick(d)
	if len(commits) != 2 || commits[1] != 1 {
		t.Errorf("expected second commit of value 1, got %v", commits)
	}
}

func TestBottomReadD4(t *testing.T) {
	spec, err := dice.Get(dice.KindD4)
	if err != nil {
		t.Fatalf("Get(KindD4): %v", err)
	}
	mesh, groups, err := spec.Faces()
	if err != nil {
		t.Fatalf("Faces: %v", err)
	}

	// Point group 2's face straight down; a bottom-read die reports it.
	rot := mgl64.QuatBetweenVectors(groups[2].Normal, mgl64.Vec3{0, -1, 0}).Mat4()
	body := &fakeBody{velocity: mgl64.Vec3{}, transform: rot}

	var commits []int
	d := New(spec, mesh, groups, body, testConfig(), func(v int) { commits = append(commits, v) })
	d.BeginRoll(1)
	tick(d)
	tick(d)
	tick(d)

	if len(commits) != 1 || commits[0] != spec.Value(2, len(groups)) {
		t.Errorf("expected commit of group 2's value, got %v", commits)
	}
}
