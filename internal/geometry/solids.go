package geometry

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Canonical die meshes: unscaled, centered at the origin. Every generator
// hand-assembles its triangles and runs them through CorrectWinding, so a
// caller can rely on outward winding for normal-based grouping and for
// visual/physics parity.

// Tetrahedron returns the canonical d4 mesh.
func Tetrahedron() *Mesh {
	m := &Mesh{
		Positions: []mgl64.Vec3{
			{1, 1, 1},
			{-1, 1, -1},
			{1, -1, -1},
			{-1, -1, 1},
		},
		Index: []int{
			0, 1, 2,
			1, 3, 2,
			0, 2, 3,
			0, 3, 1,
		},
	}
	CorrectWinding(m)
	return m
}

// Cube returns the canonical d6 mesh, two triangles per face.
func Cube() *Mesh {
	m := &Mesh{
		Positions: []mgl64.Vec3{
			{-1, -1, -1},
			{1, -1, -1},
			{1, 1, -1},
			{-1, 1, -1},
			{-1, -1, 1},
			{1, -1, 1},
			{1, 1, 1},
			{-1, 1, 1},
		},
	}
	quads := [][4]int{
		{0, 1, 2, 3}, // back
		{4, 5, 6, 7}, // front
		{0, 3, 7, 4}, // left
		{1, 2, 6, 5}, // right
		{0, 1, 5, 4}, // bottom
		{3, 2, 6, 7}, // top
	}
	for _, q := range quads {
		m.Index = append(m.Index, q[0], q[1], q[2], q[0], q[2], q[3])
	}
	CorrectWinding(m)
	return m
}

// Octahedron returns the canonical d8 mesh.
func Octahedron() *Mesh {
	m := &Mesh{
		Positions: []mgl64.Vec3{
			{1, 0, 0},
			{-1, 0, 0},
			{0, 1, 0},
			{0, -1, 0},
			{0, 0, 1},
			{0, 0, -1},
		},
		Index: []int{
			0, 2, 4,
			2, 1, 4,
			1, 3, 4,
			3, 0, 4,
			2, 0, 5,
			1, 2, 5,
			3, 1, 5,
			0, 3, 5,
		},
	}
	CorrectWinding(m)
	return m
}

// trapezohedronRingVerts is the number of equatorial ring vertices of the
// d10 solid. Ring vertices occupy indices 0..9; the poles sit above them
// at indices 10 (bottom) and 11 (top).
const trapezohedronRingVerts = 10

// trapezohedronRingLift is how far each ring vertex sits off the equator.
// Ring vertices alternate above and below, producing the kite faces.
const trapezohedronRingLift = 0.105

// Trapezohedron returns the canonical d10 mesh: a pentagonal
// trapezohedron built from 10 zigzag ring vertices and two poles. Each of
// the 10 kite faces is one apex triangle (carrying the printed numeral)
// plus one belt triangle, joined across the kite's long diagonal between
// ring vertices two apart. GroupTrapezohedron relies on this vertex
// layout.
func Trapezohedron() *Mesh {
	m := &Mesh{}
	for i := 0; i < trapezohedronRingVerts; i++ {
		a := 2 * math.Pi * float64(i) / trapezohedronRingVerts
		y := trapezohedronRingLift
		if i%2 == 1 {
			y = -trapezohedronRingLift
		}
		m.Positions = append(m.Positions, mgl64.Vec3{math.Cos(a), y, math.Sin(a)})
	}
	m.Positions = append(m.Positions, mgl64.Vec3{0, -1, 0}) // 10: bottom pole
	m.Positions = append(m.Positions, mgl64.Vec3{0, 1, 0})  // 11: top pole

	const bottom, top = 10, 11
	for j := 0; j < 5; j++ {
		u := 2 * j // upper ring vertex
		m.Index = append(m.Index,
			top, u, (u+2)%trapezohedronRingVerts, // apex
			u, u+1, (u+2)%trapezohedronRingVerts, // belt
		)
	}
	for j := 0; j < 5; j++ {
		l := 2*j + 1 // lower ring vertex
		m.Index = append(m.Index,
			bottom, l, (l+2)%trapezohedronRingVerts, // apex
			l, (l+1)%trapezohedronRingVerts, (l+2)%trapezohedronRingVerts, // belt
		)
	}
	CorrectWinding(m)
	return m
}

// icosahedronFaces is the standard 20-triangle tiling over the 12
// icosahedron vertices returned by icosahedronVertices.
var icosahedronFaces = [][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

func icosahedronVertices() []mgl64.Vec3 {
	t := (1 + math.Sqrt(5)) / 2
	return []mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
}

// Icosahedron returns the canonical d20 mesh.
func Icosahedron() *Mesh {
	m := &Mesh{Positions: icosahedronVertices()}
	for _, f := range icosahedronFaces {
		m.Index = append(m.Index, f[0], f[1], f[2])
	}
	CorrectWinding(m)
	return m
}

// Dodecahedron returns the canonical d12 mesh, constructed as the dual of
// the icosahedron: one vertex per icosahedron face centroid, one pentagon
// per icosahedron vertex. Pentagons are fan-triangulated, so each physical
// face is three coplanar triangles that the normal-based grouper merges.
func Dodecahedron() *Mesh {
	icoVerts := icosahedronVertices()

	centroids := make([]mgl64.Vec3, len(icosahedronFaces))
	for i, f := range icosahedronFaces {
		c := icoVerts[f[0]].Add(icoVerts[f[1]]).Add(icoVerts[f[2]]).Mul(1.0 / 3.0)
		centroids[i] = c
	}

	m := &Mesh{Positions: centroids}

	for vi, axis := range icoVerts {
		// The pentagon around this vertex is the ring of centroids of
		// the five faces sharing it, ordered by angle about the vertex
		// axis.
		var ring []int
		for fi, f := range icosahedronFaces {
			if f[0] == vi || f[1] == vi || f[2] == vi {
				ring = append(ring, fi)
			}
		}

		n := axis.Normalize()
		var u mgl64.Vec3
		if math.Abs(n[0]) < 0.9 {
			u = mgl64.Vec3{1, 0, 0}.Sub(n.Mul(n[0])).Normalize()
		} else {
			u = mgl64.Vec3{0, 1, 0}.Sub(n.Mul(n[1])).Normalize()
		}
		w := n.Cross(u)

		sort.Slice(ring, func(i, j int) bool {
			return pentagonAngle(centroids[ring[i]], u, w) < pentagonAngle(centroids[ring[j]], u, w)
		})

		for k := 1; k+1 < len(ring); k++ {
			m.Index = append(m.Index, ring[0], ring[k], ring[k+1])
		}
	}

	CorrectWinding(m)
	return m
}

func pentagonAngle(p, u, w mgl64.Vec3) float64 {
	return math.Atan2(p.Dot(w), p.Dot(u))
}
