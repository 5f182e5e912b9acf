package scene

import "github.com/Faultbox/midgard-anim/pkg/math"

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// MeshStats summarizes the current state of a mesh.
type MeshStats struct {
	Name     string
	Vertices int
	Bounds   Bounds
	Centroid math.Vec3
	// Kinetic is 0.5*m*v^2 summed over particles; zero without a simulation.
	Kinetic float32
}

// Stats computes a summary of mesh id.
func (s *Scene) Stats(id MeshID) MeshStats {
	m := s.Mesh(id)
	st := MeshStats{Name: m.Name, Vertices: len(m.Pos)}
	if len(m.Pos) == 0 {
		return st
	}

	st.Bounds = Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
	var sum math.Vec3
	for _, p := range m.Pos {
		updateBounds(&st.Bounds, p)
		sum = sum.Add(p)
	}
	st.Centroid = sum.Scale(1 / float32(len(m.Pos)))

	if sim, ok := m.Simulation.Get(); ok {
		for i, v := range sim.Vel {
			if i < len(sim.Mass) {
				st.Kinetic += 0.5 * sim.Mass[i] * v.Dot(v)
			}
		}
	}
	return st
}

func updateBounds(b *Bounds, p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
