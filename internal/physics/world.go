package physics

import "github.com/go-gl/mathgl/mgl64"

// plane is one arena boundary. Points inside the arena satisfy
// p·Normal >= Offset.
type plane struct {
	Normal mgl64.Vec3
	Offset float64
}

// World steps a set of bodies inside a box-shaped arena: a floor at y=0
// and four walls. There is no body-to-body collision; dice are thrown
// with enough spread that tray walls dominate the final rest positions,
// and the settle detector only needs each body to come to rest.
type World struct {
	Gravity float64
	bodies  []*Body
	planes  []plane
}

// NewWorld creates an arena of the given inner dimensions, centered on
// the origin with the floor at y=0.
func NewWorld(gravity, width, depth float64) *World {
	halfW, halfD := width/2, depth/2
	return &World{
		Gravity: gravity,
		planes: []plane{
			{Normal: mgl64.Vec3{0, 1, 0}, Offset: 0},
			{Normal: mgl64.Vec3{-1, 0, 0}, Offset: -halfW},
			{Normal: mgl64.Vec3{1, 0, 0}, Offset: -halfW},
			{Normal: mgl64.Vec3{0, 0, -1}, Offset: -halfD},
			{Normal: mgl64.Vec3{0, 0, 1}, Offset: -halfD},
		},
	}
}

// Add inserts a body into the world.
func (w *World) Add(b *Body) {
	w.bodies = append(w.bodies, b)
}

// RemoveAll drops every body from the world.
func (w *World) RemoveAll() {
	w.bodies = nil
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	for _, b := range w.bodies {
		b.integrate(dt, w.Gravity)
		contact := false
		for _, p := range w.planes {
			if w.resolve(b, p) {
				contact = true
			}
		}
		if contact {
			b.rest()
		}
	}
}

// resolve pushes a body out of a boundary plane and applies the contact
// impulse with restitution and tangential friction. Reports whether the
// body touched the plane.
func (w *World) resolve(b *Body, pl plane) bool {
	point, d := b.deepestPoint(pl.Normal)
	depth := d - pl.Offset
	if depth >= 0 {
		return false
	}

	b.Position = b.Position.Add(pl.Normal.Mul(-depth))
	point = point.Add(pl.Normal.Mul(-depth))

	r := point.Sub(b.Position)
	vp := b.pointVelocity(r)
	vn := vp.Dot(pl.Normal)
	if vn >= 0 {
		return true
	}

	rxn := r.Cross(pl.Normal)
	denom := 1/b.Mass + b.invInertia*rxn.Dot(rxn)
	jn := -(1 + b.Restitution) * vn / denom
	b.ApplyImpulse(pl.Normal.Mul(jn), r)

	// Coulomb-style friction against the tangential contact velocity.
	vt := vp.Sub(pl.Normal.Mul(vn))
	if l := vt.Len(); l > 1e-9 {
		jt := b.Friction * jn
		if jt > l*b.Mass {
			jt = l * b.Mass
		}
		b.ApplyImpulse(vt.Mul(-jt/l), r)
	}
	return true
}
