// Package physics integrates mass-spring particle systems with collisions
// against static quad and sphere surfaces.
package physics

import (
	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// NormalSmoother recomputes per-vertex normals from positions and topology.
type NormalSmoother interface {
	SmoothNormals(pos, norm []math.Vec3, triangles [][3]int, quads [][4]int)
}

// Simulate advances sim by one tick of clock, split into clock.Substeps sub-steps.
// Particle positions are read from and written to mesh.Pos. Colliders are tested
// in order. When smoother is non-nil and the mesh has faces, normals are
// recomputed after every sub-step.
//
// The simulation is validated first; on error nothing is modified.
func Simulate(mesh *scene.Mesh, sim *scene.Simulation, clock *scene.Clock, colliders []scene.Surface, smoother NormalSmoother) error {
	if err := clock.Validate(); err != nil {
		return err
	}
	if err := sim.Validate(len(mesh.Pos)); err != nil {
		return err
	}
	if len(sim.Force) != len(mesh.Pos) {
		sim.Force = make([]math.Vec3, len(mesh.Pos))
	}

	h := clock.SubstepDT()
	for step := 0; step < clock.Substeps; step++ {
		applyGravity(sim, clock.Gravity)
		applySprings(mesh.Pos, sim)
		integrate(mesh.Pos, sim, h)
		for i := range mesh.Pos {
			if sim.Pinned[i] {
				continue
			}
			for c := range colliders {
				Collide(&mesh.Pos[i], &sim.Vel[i], &colliders[c], clock.Bounce)
			}
		}

		// Once per sub-step, not once per tick.
		if smoother != nil && mesh.HasFaces() {
			smoother.SmoothNormals(mesh.Pos, mesh.Norm, mesh.Triangles, mesh.Quads)
		}
	}
	return nil
}

func applyGravity(sim *scene.Simulation, gravity math.Vec3) {
	for i := range sim.Force {
		sim.Force[i] = gravity.Scale(sim.Mass[i])
	}
}

// SpringForce returns the force a spring exerts on its A endpoint; B receives the negation.
func SpringForce(sp scene.Spring, pos []math.Vec3, vel []math.Vec3) math.Vec3 {
	delta := pos[sp.B].Sub(pos[sp.A])
	length := delta.Length()
	dir := delta.Normalize()
	relVel := vel[sp.B].Sub(vel[sp.A])

	static := dir.Scale(sp.Ks * (length - sp.RestLength))
	damping := dir.Scale(sp.Kd * relVel.Dot(dir))
	return static.Add(damping)
}

func applySprings(pos []math.Vec3, sim *scene.Simulation) {
	for _, sp := range sim.Springs {
		f := SpringForce(sp, pos, sim.Vel)
		sim.Force[sp.A] = sim.Force[sp.A].Add(f)
		sim.Force[sp.B] = sim.Force[sp.B].Sub(f)
	}
}

// integrate moves unpinned particles by one explicit Euler step with the
// second-order position term, using the velocity at the start of the step.
func integrate(pos []math.Vec3, sim *scene.Simulation, h float32) {
	for i := range pos {
		if sim.Pinned[i] {
			continue
		}
		acc := sim.Force[i].Scale(1 / sim.Mass[i])
		pos[i] = pos[i].Add(sim.Vel[i].Scale(h)).Add(acc.Scale(0.5 * h * h))
		sim.Vel[i] = sim.Vel[i].Add(acc.Scale(h))
	}
}
