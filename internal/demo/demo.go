// Package demo builds procedural scenes for the animsim command.
package demo

import (
	"errors"
	"fmt"
	gomath "math"
	"sort"

	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/midgard-anim/internal/engine/geometry"
	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// ErrUnknownScene is returned by Build for names it does not know.
var ErrUnknownScene = errors.New("unknown demo scene")

// Cloth parameters shared by every demo.
const (
	ClothResolution = 12
	ClothSize       = 2.0
	ClothMass       = 0.05

	structuralKs = 60
	shearKs      = 30
	bendKs       = 10
	springKd     = 0.5

	// Collider motion in the cloth demo.
	springFrequency = 4.0
	springDamping   = 0.3
	springKeyEvery  = 5
)

var (
	sphereMaterial = scene.Material{Name: "ball", Color: [3]float32{0.3, 0.5, 0.9}}
	floorMaterial  = scene.Material{Name: "floor", Color: [3]float32{0.6, 0.6, 0.6}}
)

var builders = map[string]func(s *scene.Scene){
	"cloth": buildCloth,
	"drape": buildDrape,
	"skin":  buildSkin,
	"all": func(s *scene.Scene) {
		buildCloth(s)
		buildDrape(s)
		buildSkin(s)
	},
}

// Names returns the known scene names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the named scene driven by clock. Keyframe tracks and bone
// tables are sized to clock.Length.
func Build(name string, clock scene.Clock) (*scene.Scene, error) {
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownScene, name, Names())
	}
	if err := clock.Validate(); err != nil {
		return nil, err
	}
	s := scene.New(name, clock)
	build(s)

	// Every surface starts with a display mesh at its initial frame.
	var mesher geometry.Mesher
	for i := 0; i < s.SurfaceCount(); i++ {
		sf := s.Surface(scene.SurfaceID(i))
		if sf.Display == nil {
			sf.Display = mesher.SurfaceMesh(sf.Frame, sf.Radius, sf.Shape, sf.Material)
		}
	}
	return s, nil
}

// buildCloth hangs a cloth from two pinned corners and swings a keyframed
// sphere through it.
func buildCloth(s *scene.Scene) {
	Cloth(s, "curtain", math.Vec3{X: 0, Y: 2, Z: -3}, true)

	s.AddSurface(scene.Surface{
		Name:     "pendulum",
		Frame:    math.IdentityFrame(),
		Radius:   0.3,
		Shape:    scene.ShapeSphere,
		Material: sphereMaterial,
		Animation: scene.Some(SpringTrack(keySpan(s.Clock.Length), springKeyEvery, s.Clock.DT,
			math.Vec3{X: -1.5, Y: 1.5, Z: -3},
			math.Vec3{X: 1.5, Y: 1.5, Z: -3},
		)),
	})
}

// buildDrape drops a free cloth onto a sphere resting above a floor quad.
func buildDrape(s *scene.Scene) {
	Cloth(s, "sheet", math.Vec3{X: 0, Y: 1.5, Z: 0}, false)

	s.AddSurface(scene.Surface{
		Name:     "ball",
		Frame:    math.FrameAt(math.Vec3{X: 0, Y: 0.6, Z: 0}),
		Radius:   0.5,
		Shape:    scene.ShapeSphere,
		Material: sphereMaterial,
	})
	s.AddSurface(scene.Surface{
		Name:     "floor",
		Frame:    FloorFrame(0),
		Radius:   5,
		Shape:    scene.ShapeQuad,
		Material: floorMaterial,
	})
}

// FloorFrame returns a frame whose XY plane is horizontal at height y with Z
// pointing up, so a quad surface on it collides from above.
func FloorFrame(y float32) math.Frame {
	return math.Frame{
		X: math.Vec3{X: 1},
		Y: math.Vec3{Z: -1},
		Z: math.Vec3{Y: 1},
		O: math.Vec3{Y: y},
	}
}

// Cloth adds a square grid of ClothResolution² particles in the horizontal
// plane centred on center, connected by structural, shear and bend springs.
// When pinned is set the two corners of the first row are fixed.
func Cloth(s *scene.Scene, name string, center math.Vec3, pinned bool) scene.MeshID {
	n := ClothResolution
	step := float32(ClothSize) / float32(n-1)
	half := float32(ClothSize) / 2

	pos := make([]math.Vec3, 0, n*n)
	norm := make([]math.Vec3, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pos = append(pos, math.Vec3{
				X: center.X + float32(j)*step - half,
				Y: center.Y,
				Z: center.Z + float32(i)*step - half,
			})
			norm = append(norm, math.Up)
		}
	}

	quads := make([][4]int, 0, (n-1)*(n-1))
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			a := i*n + j
			quads = append(quads, [4]int{a, a + n, a + n + 1, a + 1})
		}
	}

	sim := scene.NewSimulation(pos, ClothMass)
	if pinned {
		sim.Pinned[0] = true
		sim.Pinned[n-1] = true
	}
	addClothSprings(sim, n)

	return s.AddMesh(scene.Mesh{
		Name:       name,
		Frame:      math.IdentityFrame(),
		Pos:        pos,
		Norm:       norm,
		Quads:      quads,
		Simulation: scene.Some(sim),
	})
}

// ClothSpringCount returns the number of springs Cloth creates for an n×n grid.
func ClothSpringCount(n int) int {
	structural := 2 * n * (n - 1)
	shear := 2 * (n - 1) * (n - 1)
	bend := 2 * n * (n - 2)
	return structural + shear + bend
}

func addClothSprings(sim *scene.Simulation, n int) {
	idx := func(i, j int) int { return i*n + j }

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// Structural
			if j+1 < n {
				sim.AddSpring(idx(i, j), idx(i, j+1), structuralKs, springKd)
			}
			if i+1 < n {
				sim.AddSpring(idx(i, j), idx(i+1, j), structuralKs, springKd)
			}
			// Shear
			if i+1 < n && j+1 < n {
				sim.AddSpring(idx(i, j), idx(i+1, j+1), shearKs, springKd)
				sim.AddSpring(idx(i, j+1), idx(i+1, j), shearKs, springKd)
			}
			// Bend
			if j+2 < n {
				sim.AddSpring(idx(i, j), idx(i, j+2), bendKs, springKd)
			}
			if i+2 < n {
				sim.AddSpring(idx(i, j), idx(i+2, j), bendKs, springKd)
			}
		}
	}
}

// SpringTrack samples a damped spring carrying a body from `from` to `to` into
// a keyframe track with a key every `every` ticks and a final key at span. The
// body turns half a revolution about Y over the same travel.
func SpringTrack(span, every int, dt float32, from, to math.Vec3) *scene.KeyframeTrack {
	if every < 1 {
		every = 1
	}
	spring := harmonica.NewSpring(float64(dt), springFrequency, springDamping)

	track := &scene.KeyframeTrack{RestFrame: math.IdentityFrame()}
	var x, v float64
	for tick := 0; ; tick++ {
		if tick%every == 0 || tick == span {
			p := float32(x)
			track.Keytimes = append(track.Keytimes, tick)
			track.Translation = append(track.Translation, math.Lerp(from, to, p))
			track.Rotation = append(track.Rotation, math.Vec3{Y: p * gomath.Pi})
		}
		if tick >= span {
			return track
		}
		x, v = spring.Update(x, v, 1)
	}
}

// keySpan returns the last keytime of a track that covers a clock of length ticks.
func keySpan(length int) int {
	if length-1 < 2 {
		return 2
	}
	return length - 1
}
