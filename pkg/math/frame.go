package math

// Frame is a rigid placement: three orthonormal axes and an origin.
type Frame struct {
	X, Y, Z Vec3
	O       Vec3
}

// IdentityFrame returns the world frame.
func IdentityFrame() Frame {
	return Frame{
		X: Vec3{1, 0, 0},
		Y: Vec3{0, 1, 0},
		Z: Vec3{0, 0, 1},
	}
}

// FrameAt returns an axis-aligned frame with origin o.
func FrameAt(o Vec3) Frame {
	f := IdentityFrame()
	f.O = o
	return f
}

// Mat4 returns the local-to-world matrix of the frame.
func (f Frame) Mat4() Mat4 {
	return Mat4{
		f.X.X, f.X.Y, f.X.Z, 0,
		f.Y.X, f.Y.Y, f.Y.Z, 0,
		f.Z.X, f.Z.Y, f.Z.Z, 0,
		f.O.X, f.O.Y, f.O.Z, 1,
	}
}

// TransformPoint maps a local point to world space.
func (f Frame) TransformPoint(p Vec3) Vec3 {
	return f.O.Add(f.TransformDirection(p))
}

// TransformDirection maps a local direction to world space.
func (f Frame) TransformDirection(d Vec3) Vec3 {
	return f.X.Scale(d.X).Add(f.Y.Scale(d.Y)).Add(f.Z.Scale(d.Z))
}

// InverseTransformPoint maps a world point into the frame's local space.
// Axes are assumed orthonormal.
func (f Frame) InverseTransformPoint(p Vec3) Vec3 {
	d := p.Sub(f.O)
	return Vec3{d.Dot(f.X), d.Dot(f.Y), d.Dot(f.Z)}
}

// Transform applies m to the frame: axes by the linear part, origin as a point.
// Axes are re-normalized so a rigid m keeps the frame orthonormal under float error.
func (f Frame) Transform(m Mat4) Frame {
	return Frame{
		X: m.TransformDirection(f.X).NormalizeOr(f.X),
		Y: m.TransformDirection(f.Y).NormalizeOr(f.Y),
		Z: m.TransformDirection(f.Z).NormalizeOr(f.Z),
		O: m.TransformPoint(f.O),
	}
}
