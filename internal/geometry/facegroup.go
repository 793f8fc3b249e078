package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// normalEpsilon is the quantization tolerance for merging triangles into
// one physical face by normal direction. Tuned so that every distinct face
// of each regular solid separates without over- or under-merging; the
// group count tests pin this down.
const normalEpsilon = 1e-3

// ErrNotTrapezohedron indicates a mesh handed to the trapezohedron grouper
// that does not have the expected 20 triangles.
var ErrNotTrapezohedron = errors.New("trapezohedron mesh must have exactly 20 triangles")

// FaceGroup is one physical (printed) face of a die: the set of mesh
// triangles that compose it, their shared outward unit normal, and the
// face centroid. The centroid is the unweighted mean of all constituent
// triangle vertices, which is an acceptable approximation for label
// placement and up-face detection.
type FaceGroup struct {
	Normal    mgl64.Vec3
	Centroid  mgl64.Vec3
	Triangles []int
}

// GroupFunc partitions a mesh's triangles into physical faces.
type GroupFunc func(*Mesh) ([]FaceGroup, error)

// GroupByNormal merges triangles whose outward normals agree within
// normalEpsilon. This works for every regular solid: each physical face is
// planar and distinct faces have distinguishably different normals at this
// tolerance. Group emission order is first-encountered triangle order and
// carries no geometric meaning.
func GroupByNormal(m *Mesh) ([]FaceGroup, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	byKey := make(map[quantKey]int)
	var groups []FaceGroup

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		n := triangleNormal(a, b, c)
		key := quantize(n, normalEpsilon)

		gi, ok := byKey[key]
		if !ok {
			gi = len(groups)
			byKey[key] = gi
			groups = append(groups, FaceGroup{Normal: n})
		}
		groups[gi].Triangles = append(groups[gi].Triangles, t)
	}

	finishCentroids(m, groups)
	return groups, nil
}

// GroupTrapezohedron groups the 20 triangles of the pentagonal
// trapezohedron (d10) into its 10 kite faces. Normal-based grouping does
// not apply here: each kite is an apex triangle (touching a pole, carrying
// the numeral) plus a belt triangle that is not coplanar with it. The two
// are instead joined across the kite's long diagonal, the edge between
// ring vertices whose indices differ by exactly 2 mod 10.
func GroupTrapezohedron(m *Mesh) ([]FaceGroup, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if m.TriangleCount() != 20 {
		return nil, ErrNotTrapezohedron
	}

	idx, err := m.Indices()
	if err != nil {
		return nil, err
	}

	type diagonal [2]int
	byDiagonal := make(map[diagonal]int)
	var groups []FaceGroup
	var belts []int

	// Pass 1: apex triangles, keyed by their two ring vertices.
	for t := 0; t < 20; t++ {
		tri := idx[3*t : 3*t+3]
		var ring []int
		for _, vi := range tri {
			if vi < trapezohedronRingVerts {
				ring = append(ring, vi)
			}
		}
		if len(ring) != 2 {
			belts = append(belts, t)
			continue
		}
		key := diagonal{ring[0], ring[1]}
		sort.Ints(key[:])
		byDiagonal[key] = len(groups)
		groups = append(groups, FaceGroup{Triangles: []int{t}})
	}

	// Pass 2: each belt triangle joins the apex group across its one edge
	// whose ring indices differ by 2 mod 10. The construction guarantees
	// exactly one such edge exists.
	for _, t := range belts {
		tri := idx[3*t : 3*t+3]
		assigned := false
		for e := 0; e < 3; e++ {
			u, v := tri[e], tri[(e+1)%3]
			d := (u - v + trapezohedronRingVerts) % trapezohedronRingVerts
			if d != 2 && d != trapezohedronRingVerts-2 {
				continue
			}
			key := diagonal{u, v}
			sort.Ints(key[:])
			gi, ok := byDiagonal[key]
			if !ok {
				return nil, fmt.Errorf("belt triangle %d has diagonal %v with no apex group", t, key)
			}
			groups[gi].Triangles = append(groups[gi].Triangles, t)
			assigned = true
			break
		}
		if !assigned {
			return nil, fmt.Errorf("belt triangle %d has no qualifying diagonal edge", t)
		}
	}

	finishCentroids(m, groups)

	// The kite normal is the renormalized sum of its member triangle
	// normals, flipped outward if needed. This path does not rely on
	// upstream winding correction.
	for gi := range groups {
		var sum mgl64.Vec3
		for _, t := range groups[gi].Triangles {
			a, b, c := m.Triangle(t)
			sum = sum.Add(triangleNormal(a, b, c))
		}
		if sum.Len() > 0 {
			sum = sum.Normalize()
		}
		if sum.Dot(groups[gi].Centroid) < 0 {
			sum = sum.Mul(-1)
		}
		groups[gi].Normal = sum
	}

	return groups, nil
}

// finishCentroids fills in each group's centroid as the mean of all member
// triangle vertices, three per triangle, unweighted by area.
func finishCentroids(m *Mesh, groups []FaceGroup) {
	for gi := range groups {
		var sum mgl64.Vec3
		for _, t := range groups[gi].Triangles {
			a, b, c := m.Triangle(t)
			sum = sum.Add(a).Add(b).Add(c)
		}
		n := float64(3 * len(groups[gi].Triangles))
		if n > 0 {
			groups[gi].Centroid = sum.Mul(1 / n)
		}
	}
}

// TriangleGroups inverts a grouping into a triangle-to-group lookup table.
func TriangleGroups(m *Mesh, groups []FaceGroup) []int {
	lookup := make([]int, m.TriangleCount())
	for i := range lookup {
		lookup[i] = -1
	}
	for gi, g := range groups {
		for _, t := range g.Triangles {
			lookup[t] = gi
		}
	}
	return lookup
}

// UpFace returns the index of the group whose live orientation is most
// aligned with the given world axis. The transform maps mesh-local
// positions to world space. Every triangle is scanned; the winner's group
// is returned.
func UpFace(m *Mesh, groups []FaceGroup, transform mgl64.Mat4, axis mgl64.Vec3) int {
	lookup := TriangleGroups(m, groups)

	best := -1
	bestDot := math.Inf(-1)
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		wa := mgl64.TransformCoordinate(a, transform)
		wb := mgl64.TransformCoordinate(b, transform)
		wc := mgl64.TransformCoordinate(c, transform)

		d := triangleNormal(wa, wb, wc).Dot(axis)
		if d > bestDot {
			bestDot = d
			best = t
		}
	}
	if best < 0 {
		return -1
	}
	return lookup[best]
}
