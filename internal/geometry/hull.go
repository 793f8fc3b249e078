package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// hullEpsilon is the vertex merge tolerance. Mesh generation leaves
// duplicate vertices at shared edges, and physics-engine convex hull
// construction degenerates on near-coincident points.
const hullEpsilon = 1e-6

// ConvexArgs describes a single convex collision hull: a deduplicated
// vertex list plus triangular faces indexing into it.
type ConvexArgs struct {
	Vertices []mgl64.Vec3
	Faces    [][3]int
}

// quantKey is a rounded-coordinate map key used to unify near-coincident
// vertices.
type quantKey [3]int64

func quantize(v mgl64.Vec3, eps float64) quantKey {
	return quantKey{
		int64(math.Round(v[0] / eps)),
		int64(math.Round(v[1] / eps)),
		int64(math.Round(v[2] / eps)),
	}
}

// ConvexHull converts a mesh into a ConvexArgs, merging vertices whose
// coordinates agree within hullEpsilon. Faces mirror the input triangles
// with indices remapped onto the deduplicated vertex list.
func ConvexHull(m *Mesh) (*ConvexArgs, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	idx, err := m.Indices()
	if err != nil {
		return nil, err
	}

	seen := make(map[quantKey]int)
	out := &ConvexArgs{}

	remap := func(vi int) int {
		p := m.Positions[vi]
		key := quantize(p, hullEpsilon)
		if existing, ok := seen[key]; ok {
			return existing
		}
		out.Vertices = append(out.Vertices, p)
		seen[key] = len(out.Vertices) - 1
		return len(out.Vertices) - 1
	}

	for t := 0; t < len(idx); t += 3 {
		out.Faces = append(out.Faces, [3]int{
			remap(idx[t]),
			remap(idx[t+1]),
			remap(idx[t+2]),
		})
	}
	return out, nil
}

// Mesh converts the hull back into an indexed mesh. Used by tests to
// verify that deduplication is idempotent.
func (c *ConvexArgs) Mesh() *Mesh {
	m := &Mesh{Positions: c.Vertices}
	for _, f := range c.Faces {
		m.Index = append(m.Index, f[0], f[1], f[2])
	}
	return m
}
