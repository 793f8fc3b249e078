// Package geometry implements the die mesh pipeline: triangle meshes,
// convex hull extraction for the physics layer, and grouping of mesh
// triangles into the physical (printed) faces of a die.
package geometry

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNoPositions indicates a mesh without vertex position data.
	ErrNoPositions = errors.New("mesh has no position data")

	// ErrBadIndex indicates a triangle index list whose length is not a
	// multiple of three or that points outside the vertex list.
	ErrBadIndex = errors.New("triangle index list is malformed")
)

// Mesh is an ordered list of vertex positions plus a flat triangle index
// list. Index may be nil for un-indexed triangle soup, in which case the
// vertex stream itself is triangle-ordered.
type Mesh struct {
	Positions []mgl64.Vec3
	Index     []int
}

// Indices returns the flat triangle index list for the mesh. Un-indexed
// meshes get the synthesized identity sequence, which is only valid when
// the vertex stream is already triangle-ordered.
func (m *Mesh) Indices() ([]int, error) {
	if len(m.Positions) == 0 {
		return nil, ErrNoPositions
	}
	if m.Index != nil {
		return m.Index, nil
	}
	idx := make([]int, len(m.Positions))
	for i := range idx {
		idx[i] = i
	}
	return idx, nil
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	if m.Index != nil {
		return len(m.Index) / 3
	}
	return len(m.Positions) / 3
}

// Triangle returns the three vertex positions of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c mgl64.Vec3) {
	if m.Index != nil {
		return m.Positions[m.Index[3*t]], m.Positions[m.Index[3*t+1]], m.Positions[m.Index[3*t+2]]
	}
	return m.Positions[3*t], m.Positions[3*t+1], m.Positions[3*t+2]
}

// Scaled returns a copy of the mesh with every position multiplied by s.
// The physics hull and the visual mesh of a die must both be derived from
// the same scaled instance.
func (m *Mesh) Scaled(s float64) *Mesh {
	out := &Mesh{Positions: make([]mgl64.Vec3, len(m.Positions))}
	for i, p := range m.Positions {
		out.Positions[i] = p.Mul(s)
	}
	if m.Index != nil {
		out.Index = make([]int, len(m.Index))
		copy(out.Index, m.Index)
	}
	return out
}

// validate checks the structural invariants shared by the hull extractor
// and the grouping engine.
func (m *Mesh) validate() error {
	if len(m.Positions) == 0 {
		return ErrNoPositions
	}
	idx, err := m.Indices()
	if err != nil {
		return err
	}
	if len(idx)%3 != 0 {
		return ErrBadIndex
	}
	for _, i := range idx {
		if i < 0 || i >= len(m.Positions) {
			return ErrBadIndex
		}
	}
	return nil
}

// triangleNormal computes the outward normal of a triangle as
// (C-B) x (A-B), normalized. No sign correction is applied; generators
// are expected to emit outward winding.
func triangleNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := c.Sub(b).Cross(a.Sub(b))
	if n.Len() == 0 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}
