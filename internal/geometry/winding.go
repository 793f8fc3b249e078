package geometry

// CorrectWinding flips any triangle whose normal points toward the solid's
// origin-centered body, by swapping the second and third index. Only valid
// for convex geometry centered at the origin, which holds for every die's
// canonical mesh. Generators that assemble raw hand-specified triangles
// must run their output through this before use.
func CorrectWinding(m *Mesh) {
	if m.Index == nil {
		return
	}
	for t := 0; t < len(m.Index); t += 3 {
		a := m.Positions[m.Index[t]]
		b := m.Positions[m.Index[t+1]]
		c := m.Positions[m.Index[t+2]]

		n := triangleNormal(a, b, c)
		centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)
		if n.Dot(centroid) < 0 {
			m.Index[t+1], m.Index[t+2] = m.Index[t+2], m.Index[t+1]
		}
	}
}
