package geometry

import (
	gomath "math"

	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// DefaultSphereSegments is the longitude resolution of sphere display meshes.
const DefaultSphereSegments = 16

// Mesher builds display meshes for surfaces.
type Mesher struct {
	// Segments is the number of longitude slices of a sphere; latitude uses half.
	// Zero means DefaultSphereSegments.
	Segments int
}

// SurfaceMesh builds the renderable geometry of a surface in world space.
func (m Mesher) SurfaceMesh(frame math.Frame, radius float32, shape scene.Shape, mat scene.Material) *scene.DisplayMesh {
	var dm *scene.DisplayMesh
	switch shape {
	case scene.ShapeSphere:
		dm = sphere(frame, radius, m.segments())
	default:
		dm = quad(frame, radius)
	}
	dm.Material = mat
	return dm
}

func (m Mesher) segments() int {
	if m.Segments < 3 {
		return DefaultSphereSegments
	}
	return m.Segments
}

// quad builds a two-triangle square of half-size r in the frame's XY plane.
func quad(frame math.Frame, r float32) *scene.DisplayMesh {
	corners := [4]math.Vec3{
		{X: -r, Y: -r, Z: 0},
		{X: r, Y: -r, Z: 0},
		{X: r, Y: r, Z: 0},
		{X: -r, Y: r, Z: 0},
	}
	dm := &scene.DisplayMesh{
		Pos:       make([]math.Vec3, 4),
		Norm:      make([]math.Vec3, 4),
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
	for i, c := range corners {
		dm.Pos[i] = frame.TransformPoint(c)
		dm.Norm[i] = frame.Z
	}
	return dm
}

// sphere builds a latitude/longitude sphere of radius r around the frame origin.
func sphere(frame math.Frame, r float32, segments int) *scene.DisplayMesh {
	rings := segments / 2
	dm := &scene.DisplayMesh{}

	for j := 0; j <= rings; j++ {
		theta := gomath.Pi * float64(j) / float64(rings)
		for i := 0; i <= segments; i++ {
			phi := 2 * gomath.Pi * float64(i) / float64(segments)
			local := math.Vec3{
				X: float32(gomath.Sin(theta) * gomath.Cos(phi)),
				Y: float32(gomath.Sin(theta) * gomath.Sin(phi)),
				Z: float32(gomath.Cos(theta)),
			}
			dm.Pos = append(dm.Pos, frame.TransformPoint(local.Scale(r)))
			dm.Norm = append(dm.Norm, frame.TransformDirection(local))
		}
	}

	stride := segments + 1
	for j := 0; j < rings; j++ {
		for i := 0; i < segments; i++ {
			a := j*stride + i
			b := a + stride
			dm.Triangles = append(dm.Triangles, [3]int{a, b, b + 1}, [3]int{a, b + 1, a + 1})
		}
	}
	return dm
}
