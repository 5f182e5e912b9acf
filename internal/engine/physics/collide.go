package physics

import (
	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// Contact describes a particle found inside a surface.
type Contact struct {
	Position math.Vec3 // projected onto the surface
	Normal   math.Vec3
}

// Inside tests p against surface s and returns the corrected position and
// surface normal on a hit.
//
// A quad occupies |x|,|y| < Radius in its frame's XY plane; the space behind it
// (local z < 0) counts as inside. A sphere is centred on the frame origin.
func Inside(p math.Vec3, s *scene.Surface) (Contact, bool) {
	switch s.Shape {
	case scene.ShapeQuad:
		local := s.Frame.InverseTransformPoint(p)
		if local.Z < 0 &&
			local.X > -s.Radius && local.X < s.Radius &&
			local.Y > -s.Radius && local.Y < s.Radius {
			return Contact{
				Position: s.Frame.TransformPoint(math.Vec3{X: local.X, Y: local.Y, Z: 0}),
				Normal:   s.Frame.Z,
			}, true
		}
	case scene.ShapeSphere:
		offset := p.Sub(s.Frame.O)
		if offset.Length() < s.Radius {
			// A particle at the exact centre is pushed out along the frame's Z axis.
			n := offset.NormalizeOr(s.Frame.Z)
			return Contact{
				Position: s.Frame.O.Add(n.Scale(s.Radius)),
				Normal:   n,
			}, true
		}
	}
	return Contact{}, false
}

// Respond splits vel into normal and tangential parts around n. The tangential
// part is scaled by 1-Tangential; the normal part is reflected and scaled by 1-Normal.
func Respond(vel, n math.Vec3, bounce scene.BounceDamping) math.Vec3 {
	vn := n.Scale(n.Dot(vel))
	vt := vel.Sub(vn)
	return vt.Scale(1 - bounce.Tangential).Sub(vn.Scale(1 - bounce.Normal))
}

// Collide corrects one particle against one surface. It reports whether a hit occurred.
func Collide(pos, vel *math.Vec3, s *scene.Surface, bounce scene.BounceDamping) bool {
	c, hit := Inside(*pos, s)
	if !hit {
		return false
	}
	*pos = c.Position
	*vel = Respond(*vel, c.Normal, bounce)
	return true
}
