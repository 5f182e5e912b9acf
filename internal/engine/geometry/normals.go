// Package geometry provides the mesh utilities the animation core treats as
// black boxes: smoothed vertex normals and surface display meshes.
package geometry

import "github.com/Faultbox/midgard-anim/pkg/math"

// Smoother recomputes vertex normals as the area-weighted average of the
// normals of adjacent faces.
type Smoother struct{}

// SmoothNormals overwrites norm from pos and the face topology. Quads are
// treated as two triangles split along the 0-2 diagonal. Vertices that touch
// no face, or whose faces cancel, keep their previous normal when it is usable
// and otherwise get math.Up.
func (Smoother) SmoothNormals(pos, norm []math.Vec3, triangles [][3]int, quads [][4]int) {
	n := len(pos)
	if len(norm) < n {
		n = len(norm)
	}
	acc := make([]math.Vec3, n)

	addFace := func(a, b, c int) {
		if a >= n || b >= n || c >= n {
			return
		}
		// The cross product length is twice the triangle area.
		fn := pos[b].Sub(pos[a]).Cross(pos[c].Sub(pos[a]))
		acc[a] = acc[a].Add(fn)
		acc[b] = acc[b].Add(fn)
		acc[c] = acc[c].Add(fn)
	}

	for _, t := range triangles {
		addFace(t[0], t[1], t[2])
	}
	for _, q := range quads {
		addFace(q[0], q[1], q[2])
		addFace(q[0], q[2], q[3])
	}

	for i := 0; i < n; i++ {
		norm[i] = acc[i].NormalizeOr(norm[i].NormalizeOr(math.Up))
	}
}

// FaceNormal returns the unit normal of triangle abc, or math.Up for a degenerate triangle.
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).NormalizeOr(math.Up)
}
