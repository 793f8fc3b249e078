// Package physics implements the rigid-body collaborator the tray core
// needs: impulse and velocity control, a live linear-velocity read, and
// the body's world transform for vertex mapping. The integrator is a
// deliberately simple semi-implicit Euler stepper with point-based arena
// collision; it only has to be stable enough that a resting body reads a
// speed at or below the settle threshold.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dice-arena/internal/geometry"
)

// Body is one simulated rigid die.
type Body struct {
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Mass           float64
	LinearDamping  float64
	AngularDamping float64
	Restitution    float64
	Friction       float64

	// hull holds the deduplicated collision vertices in local space.
	hull   []mgl64.Vec3
	radius float64

	invInertia float64
}

// NewBody creates a body from a convex hull and mass. The inertia tensor
// is approximated by a solid sphere of the hull's bounding radius, which
// is close enough for near-round dice.
func NewBody(hull *geometry.ConvexArgs, mass float64) *Body {
	b := &Body{
		Orientation: mgl64.QuatIdent(),
		Mass:        mass,
		hull:        hull.Vertices,
	}
	for _, v := range hull.Vertices {
		if l := v.Len(); l > b.radius {
			b.radius = l
		}
	}
	if mass > 0 && b.radius > 0 {
		b.invInertia = 1 / (0.4 * mass * b.radius * b.radius)
	}
	return b
}

// SetVelocity sets the instantaneous linear and angular velocity.
func (b *Body) SetVelocity(linear, angular mgl64.Vec3) {
	b.Velocity = linear
	b.AngularVelocity = angular
}

// LinearVelocity returns the body's live linear velocity.
func (b *Body) LinearVelocity() mgl64.Vec3 {
	return b.Velocity
}

// Speed returns the linear speed magnitude.
func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

// ApplyImpulse applies an instantaneous impulse at a world-space offset
// from the center of mass.
func (b *Body) ApplyImpulse(impulse, rel mgl64.Vec3) {
	if b.Mass > 0 {
		b.Velocity = b.Velocity.Add(impulse.Mul(1 / b.Mass))
	}
	b.AngularVelocity = b.AngularVelocity.Add(rel.Cross(impulse).Mul(b.invInertia))
}

// Transform returns the local-to-world matrix for vertex mapping.
func (b *Body) Transform() mgl64.Mat4 {
	return mgl64.Translate3D(b.Position[0], b.Position[1], b.Position[2]).Mul4(b.Orientation.Mat4())
}

// pointVelocity returns the world velocity of a point at offset r from
// the center of mass.
func (b *Body) pointVelocity(r mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(r))
}

// integrate advances the body by dt under the given gravity.
func (b *Body) integrate(dt, gravity float64) {
	b.Velocity[1] -= gravity * dt

	b.Velocity = b.Velocity.Mul(1 / (1 + b.LinearDamping*dt))
	b.AngularVelocity = b.AngularVelocity.Mul(1 / (1 + b.AngularDamping*dt))

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	w := b.AngularVelocity
	if w.Len() > 0 {
		spin := mgl64.Quat{W: 0, V: w}.Mul(b.Orientation)
		b.Orientation = quatAdd(b.Orientation, quatScale(spin, 0.5*dt)).Normalize()
	}
}

func quatAdd(a, b mgl64.Quat) mgl64.Quat {
	return mgl64.Quat{W: a.W + b.W, V: a.V.Add(b.V)}
}

func quatScale(q mgl64.Quat, s float64) mgl64.Quat {
	return mgl64.Quat{W: q.W * s, V: q.V.Mul(s)}
}

// Residual contact jitter below these speeds is zeroed so a resting body
// reads as resting. Applied only while the body touches a boundary;
// free-falling bodies are never clamped.
const (
	restLinearFloor  = 0.1
	restAngularFloor = 0.25
)

func (b *Body) rest() {
	if b.Velocity.Len() < restLinearFloor && b.AngularVelocity.Len() < restAngularFloor {
		b.Velocity = mgl64.Vec3{}
		b.AngularVelocity = mgl64.Vec3{}
	}
}

// deepestPoint returns the hull vertex with the smallest value of
// worldPos·normal, i.e. the support point against a plane.
func (b *Body) deepestPoint(normal mgl64.Vec3) (world mgl64.Vec3, depth float64) {
	transform := b.Transform()
	depth = math.Inf(1)
	for _, v := range b.hull {
		p := mgl64.TransformCoordinate(v, transform)
		if d := p.Dot(normal); d < depth {
			depth = d
			world = p
		}
	}
	return world, depth
}
