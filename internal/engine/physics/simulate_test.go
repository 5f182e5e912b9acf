package physics

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

func testClock() *scene.Clock {
	return &scene.Clock{
		Length:   10,
		DT:       1,
		Substeps: 1,
		Gravity:  math.Vec3{X: 0, Y: -9.8, Z: 0},
	}
}

func particles(pos ...math.Vec3) (*scene.Mesh, *scene.Simulation) {
	sim := scene.NewSimulation(pos, 1)
	mesh := &scene.Mesh{
		Pos:  append([]math.Vec3(nil), pos...),
		Norm: make([]math.Vec3, len(pos)),
	}
	return mesh, sim
}

func near(a, b math.Vec3, eps float32) bool {
	return a.Distance(b) <= eps
}

func TestSimulate_FreeFall(t *testing.T) {
	mesh, sim := particles(math.Vec3{})

	if err := Simulate(mesh, sim, testClock(), nil, nil); err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if !near(sim.Vel[0], math.Vec3{X: 0, Y: -9.8, Z: 0}, 1e-6) {
		t.Errorf("velocity = %v, want (0, -9.8, 0)", sim.Vel[0])
	}
	if !near(mesh.Pos[0], math.Vec3{X: 0, Y: -4.9, Z: 0}, 1e-6) {
		t.Errorf("position = %v, want (0, -4.9, 0)", mesh.Pos[0])
	}
}

func TestSimulate_SubstepsConverge(t *testing.T) {
	// Constant acceleration is integrated exactly regardless of sub-step count.
	mesh, sim := particles(math.Vec3{})
	clock := testClock()
	clock.Substeps = 8

	if err := Simulate(mesh, sim, clock, nil, nil); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !near(mesh.Pos[0], math.Vec3{X: 0, Y: -4.9, Z: 0}, 1e-4) {
		t.Errorf("position = %v, want (0, -4.9, 0)", mesh.Pos[0])
	}
	if !near(sim.Vel[0], math.Vec3{X: 0, Y: -9.8, Z: 0}, 1e-4) {
		t.Errorf("velocity = %v, want (0, -9.8, 0)", sim.Vel[0])
	}
}

func TestSimulate_PinnedUnchanged(t *testing.T) {
	start := math.Vec3{X: 1, Y: 2, Z: 3}
	mesh, sim := particles(start, math.Vec3{X: 1, Y: 0, Z: 3})
	sim.Pinned[0] = true
	sim.Vel[0] = math.Vec3{X: 0.5, Y: 0, Z: 0}
	sim.AddSpring(0, 1, 50, 1)

	floor := []scene.Surface{{
		Frame:  math.FrameAt(math.Vec3{X: 1, Y: 2.5, Z: 3}),
		Radius: 5,
		Shape:  scene.ShapeSphere,
	}}

	clock := testClock()
	clock.DT = 0.01
	clock.Substeps = 4
	for i := 0; i < 20; i++ {
		if err := Simulate(mesh, sim, clock, floor, nil); err != nil {
			t.Fatalf("Simulate: %v", err)
		}
	}

	if mesh.Pos[0] != start {
		t.Errorf("pinned position = %v, want %v", mesh.Pos[0], start)
	}
	if sim.Vel[0] != (math.Vec3{X: 0.5, Y: 0, Z: 0}) {
		t.Errorf("pinned velocity = %v, want (0.5, 0, 0)", sim.Vel[0])
	}
}

func TestSpringForce_NewtonThirdLaw(t *testing.T) {
	mesh, sim := particles(math.Vec3{X: 0, Y: 0, Z: 0}, math.Vec3{X: 3, Y: 4, Z: 0})
	sim.Springs = []scene.Spring{{A: 0, B: 1, RestLength: 2, Ks: 10, Kd: 0.5}}
	sim.Vel[1] = math.Vec3{X: 1, Y: 0, Z: 0}

	clock := testClock()
	clock.Gravity = math.Vec3{}
	applyGravity(sim, clock.Gravity)
	applySprings(mesh.Pos, sim)

	sum := sim.Force[0].Add(sim.Force[1])
	if !near(sum, math.Vec3{}, 1e-6) {
		t.Errorf("net spring force = %v, want zero", sum)
	}

	// Stretched by 3 along (0.6, 0.8, 0): static 30; separating at 0.6 -> damping 0.3.
	want := math.Vec3{X: 0.6, Y: 0.8, Z: 0}.Scale(30.3)
	if !near(sim.Force[0], want, 1e-4) {
		t.Errorf("force on A = %v, want %v", sim.Force[0], want)
	}
}

func TestSimulate_SpringContracts(t *testing.T) {
	mesh, sim := particles(math.Vec3{X: 0}, math.Vec3{X: 1})
	sim.Springs = []scene.Spring{{A: 0, B: 1, RestLength: 0.5, Ks: 1}}
	clock := testClock()
	clock.Gravity = math.Vec3{}
	clock.DT = 0.1

	if err := Simulate(mesh, sim, clock, nil, nil); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if d := mesh.Pos[0].Distance(mesh.Pos[1]); d >= 1 {
		t.Errorf("stretched spring did not contract: length %v", d)
	}
}

func TestSimulate_SphereCollision(t *testing.T) {
	const r = 2
	mesh, sim := particles(math.Vec3{X: 0.5, Y: 0.5, Z: 0})
	sim.Vel[0] = math.Vec3{X: 0, Y: -1, Z: 0}
	sphere := []scene.Surface{{Frame: math.IdentityFrame(), Radius: r, Shape: scene.ShapeSphere}}
	clock := testClock()
	clock.DT = 0.01

	if err := Simulate(mesh, sim, clock, sphere, nil); err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if d := mesh.Pos[0].Length(); gomath.Abs(float64(d-r)) > 1e-5 {
		t.Errorf("distance from centre = %v, want %v", d, r)
	}
}

func TestSimulate_QuadCollision(t *testing.T) {
	// Floor at y=0 facing +Y: frame Z axis points up.
	floor := scene.Surface{
		Frame: math.Frame{
			X: math.Vec3{X: 1, Y: 0, Z: 0},
			Y: math.Vec3{X: 0, Y: 0, Z: -1},
			Z: math.Vec3{X: 0, Y: 1, Z: 0},
		},
		Radius: 10,
		Shape:  scene.ShapeQuad,
	}
	mesh, sim := particles(math.Vec3{X: 1, Y: 0.1, Z: 2})
	sim.Vel[0] = math.Vec3{X: 2, Y: -1, Z: 0}

	if err := Simulate(mesh, sim, testClock(), []scene.Surface{floor}, nil); err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if gomath.Abs(float64(mesh.Pos[0].Y)) > 1e-5 {
		t.Errorf("particle not clamped to floor: %v", mesh.Pos[0])
	}
	if sim.Vel[0].Y <= 0 {
		t.Errorf("normal velocity not reflected: %v", sim.Vel[0])
	}

	// Outside the quad extent nothing happens.
	mesh, sim = particles(math.Vec3{X: 50, Y: 0.1, Z: 0})
	if err := Simulate(mesh, sim, testClock(), []scene.Surface{floor}, nil); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if mesh.Pos[0].Y >= 0 {
		t.Errorf("particle beyond quad edge should keep falling: %v", mesh.Pos[0])
	}
}

func TestSimulate_InvalidMass(t *testing.T) {
	mesh, sim := particles(math.Vec3{}, math.Vec3{X: 1})
	sim.Mass[1] = 0

	err := Simulate(mesh, sim, testClock(), nil, nil)
	if !errors.Is(err, scene.ErrInvalidSimulationData) {
		t.Fatalf("expected ErrInvalidSimulationData, got %v", err)
	}
	if mesh.Pos[0] != (math.Vec3{}) || sim.Vel[0] != (math.Vec3{}) {
		t.Error("state modified despite invalid data")
	}
}

func TestSimulate_ResizesForce(t *testing.T) {
	mesh, sim := particles(math.Vec3{}, math.Vec3{X: 1})
	sim.Force = nil

	if err := Simulate(mesh, sim, testClock(), nil, nil); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(sim.Force) != 2 {
		t.Errorf("force accumulator has %d entries, want 2", len(sim.Force))
	}
}

type countingSmoother struct{ calls int }

func (c *countingSmoother) SmoothNormals(_, _ []math.Vec3, _ [][3]int, _ [][4]int) {
	c.calls++
}

func TestSimulate_SmoothsEverySubstep(t *testing.T) {
	mesh, sim := particles(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1})
	mesh.Triangles = [][3]int{{0, 1, 2}}
	clock := testClock()
	clock.Substeps = 4

	s := &countingSmoother{}
	if err := Simulate(mesh, sim, clock, nil, s); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if s.calls != 4 {
		t.Errorf("smoother called %d times, want 4", s.calls)
	}

	// Point clouds have no faces to smooth.
	mesh.Triangles = nil
	s.calls = 0
	if err := Simulate(mesh, sim, clock, nil, s); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if s.calls != 0 {
		t.Errorf("smoother called %d times for a point cloud, want 0", s.calls)
	}
}
