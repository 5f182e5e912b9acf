package scene

import (
	"fmt"

	"github.com/Faultbox/midgard-anim/pkg/math"
)

// MaxInfluences is the hard limit of bones that may deform a single vertex.
const MaxInfluences = 4

// KeyframeTrack animates a rigid frame. Keytimes are in ticks and strictly
// increasing; Translation and Rotation (Euler radians) are parallel to Keytimes.
type KeyframeTrack struct {
	Keytimes    []int
	Translation []math.Vec3
	Rotation    []math.Vec3
	RestFrame   math.Frame
}

// Validate checks the track shape.
func (t *KeyframeTrack) Validate() error {
	if len(t.Keytimes) < 2 {
		return fmt.Errorf("%w: %d keytimes, need at least 2", ErrInvalidAnimationTrack, len(t.Keytimes))
	}
	if len(t.Translation) != len(t.Keytimes) || len(t.Rotation) != len(t.Keytimes) {
		return fmt.Errorf("%w: %d keytimes, %d translations, %d rotations",
			ErrInvalidAnimationTrack, len(t.Keytimes), len(t.Translation), len(t.Rotation))
	}
	for i := 1; i < len(t.Keytimes); i++ {
		if t.Keytimes[i] <= t.Keytimes[i-1] {
			return fmt.Errorf("%w: keytime %d (%d) not after %d",
				ErrInvalidAnimationTrack, i, t.Keytimes[i], t.Keytimes[i-1])
		}
	}
	return nil
}

// Influence binds a vertex to a bone. Bone < 0 marks an unused slot.
type Influence struct {
	Bone   int
	Weight float32
}

// Influences is a fixed-capacity inline sequence of at most MaxInfluences entries.
type Influences struct {
	slots [MaxInfluences]Influence
	n     int
}

// NewInfluences builds an influence set. It fails if more than MaxInfluences
// entries are given.
func NewInfluences(in ...Influence) (Influences, error) {
	var inf Influences
	if len(in) > MaxInfluences {
		return inf, fmt.Errorf("%w: %d bone influences, limit is %d",
			ErrInvalidSimulationData, len(in), MaxInfluences)
	}
	inf.n = copy(inf.slots[:], in)
	return inf, nil
}

// Len returns the number of stored slots, used or not.
func (inf Influences) Len() int { return inf.n }

// At returns slot i.
func (inf Influences) At(i int) Influence { return inf.slots[i] }

// Skinning is the linear blend skinning input of a mesh. It is never mutated
// by the animation core.
type Skinning struct {
	RestPos    []math.Vec3
	RestNorm   []math.Vec3
	Influences []Influences
	// BoneXforms is indexed [tick][bone].
	BoneXforms [][]math.Mat4
}

// Spring connects particles A and B.
type Spring struct {
	A, B       int
	RestLength float32
	Ks         float32 // stiffness
	Kd         float32 // damping
}

// Simulation is the mass-spring state of a mesh. Particle positions live in
// the owning mesh's Pos array.
type Simulation struct {
	Mass   []float32
	Vel    []math.Vec3
	Force  []math.Vec3
	Pinned []bool

	InitPos []math.Vec3
	InitVel []math.Vec3

	Springs []Spring
}

// NewSimulation creates a simulation whose initial state is the given
// positions at rest, with uniform mass.
func NewSimulation(pos []math.Vec3, mass float32) *Simulation {
	n := len(pos)
	s := &Simulation{
		Mass:    make([]float32, n),
		Vel:     make([]math.Vec3, n),
		Force:   make([]math.Vec3, n),
		Pinned:  make([]bool, n),
		InitPos: append([]math.Vec3(nil), pos...),
		InitVel: make([]math.Vec3, n),
	}
	for i := range s.Mass {
		s.Mass[i] = mass
	}
	return s
}

// AddSpring appends a spring whose rest length is the current distance of its endpoints.
func (s *Simulation) AddSpring(a, b int, ks, kd float32) {
	s.Springs = append(s.Springs, Spring{
		A:          a,
		B:          b,
		RestLength: s.InitPos[a].Distance(s.InitPos[b]),
		Ks:         ks,
		Kd:         kd,
	})
}

// Validate checks the simulation against the particle count of its mesh.
func (s *Simulation) Validate(particles int) error {
	if len(s.Mass) != particles || len(s.Vel) != particles || len(s.Pinned) != particles {
		return fmt.Errorf("%w: %d particles, %d masses, %d velocities, %d pinned flags",
			ErrInvalidSimulationData, particles, len(s.Mass), len(s.Vel), len(s.Pinned))
	}
	for i, m := range s.Mass {
		if !(m > 0) {
			return fmt.Errorf("%w: particle %d has mass %v", ErrInvalidSimulationData, i, m)
		}
	}
	for i, sp := range s.Springs {
		if sp.A < 0 || sp.A >= particles || sp.B < 0 || sp.B >= particles {
			return fmt.Errorf("%w: spring %d references particles %d-%d of %d",
				ErrInvalidSimulationData, i, sp.A, sp.B, particles)
		}
	}
	return nil
}

// Mesh is a deformable or rigidly animated shape.
type Mesh struct {
	Name  string
	Frame math.Frame

	Pos  []math.Vec3
	Norm []math.Vec3

	Triangles [][3]int
	Quads     [][4]int

	Animation  Optional[*KeyframeTrack]
	Skin       Optional[*Skinning]
	Simulation Optional[*Simulation]
}

// HasFaces reports whether the mesh has triangle or quad topology.
func (m *Mesh) HasFaces() bool {
	return len(m.Triangles) > 0 || len(m.Quads) > 0
}

// Shape is the collider geometry of a surface.
type Shape uint8

const (
	ShapeQuad Shape = iota
	ShapeSphere
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeQuad:
		return "quad"
	case ShapeSphere:
		return "sphere"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Material is the render-side description of a surface.
type Material struct {
	Name  string
	Color [3]float32
}

// DisplayMesh is the renderable geometry of a surface, rebuilt whenever its frame changes.
type DisplayMesh struct {
	Pos       []math.Vec3
	Norm      []math.Vec3
	Triangles [][3]int
	Material  Material
}

// Surface is a collider: a quad of half-size Radius in the frame's XY plane
// facing +Z, or a sphere of Radius centred on the frame origin.
type Surface struct {
	Name     string
	Frame    math.Frame
	Radius   float32
	Shape    Shape
	Material Material

	Animation Optional[*KeyframeTrack]
	Display   *DisplayMesh
}

// MeshID addresses a mesh in its scene. IDs stay valid for the scene's lifetime.
type MeshID int

// SurfaceID addresses a surface in its scene.
type SurfaceID int

// Scene owns meshes and surfaces in append-only arenas, plus the clock.
type Scene struct {
	Name  string
	Clock Clock

	meshes   []Mesh
	surfaces []Surface
}

// New creates an empty scene with the given clock.
func New(name string, clock Clock) *Scene {
	return &Scene{Name: name, Clock: clock}
}

// AddMesh appends a mesh and returns its handle.
func (s *Scene) AddMesh(m Mesh) MeshID {
	s.meshes = append(s.meshes, m)
	return MeshID(len(s.meshes) - 1)
}

// AddSurface appends a surface and returns its handle.
func (s *Scene) AddSurface(sf Surface) SurfaceID {
	s.surfaces = append(s.surfaces, sf)
	return SurfaceID(len(s.surfaces) - 1)
}

// Mesh returns the mesh for id. The pointer is invalidated by a later AddMesh.
func (s *Scene) Mesh(id MeshID) *Mesh {
	return &s.meshes[id]
}

// Surface returns the surface for id. The pointer is invalidated by a later AddSurface.
func (s *Scene) Surface(id SurfaceID) *Surface {
	return &s.surfaces[id]
}

// MeshCount returns the number of meshes.
func (s *Scene) MeshCount() int { return len(s.meshes) }

// SurfaceCount returns the number of surfaces.
func (s *Scene) SurfaceCount() int { return len(s.surfaces) }

// Surfaces returns the surfaces in declaration order. Callers must not append to it.
func (s *Scene) Surfaces() []Surface {
	return s.surfaces
}
