package demo

import (
	gomath "math"

	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// Tube dimensions for the skinned demo.
const (
	TubeRings    = 9
	TubeSegments = 12
	TubeHeight   = 2.0
	TubeRadius   = 0.25

	// Half-height of the band around the joint where both bones contribute.
	jointBlend = 0.4
	maxBend    = gomath.Pi / 3
)

func buildSkin(s *scene.Scene) {
	Tube(s, "arm", math.Vec3{X: 3})
}

// Tube adds a vertical cylinder standing on base, skinned to two bones that
// meet halfway up. The upper bone bends about Z and back once per clock cycle
// while the whole mesh turns slowly about Y on a keyframe track.
func Tube(s *scene.Scene, name string, base math.Vec3) scene.MeshID {
	n := TubeRings * TubeSegments
	restPos := make([]math.Vec3, 0, n)
	restNorm := make([]math.Vec3, 0, n)
	influences := make([]scene.Influences, 0, n)

	for r := 0; r < TubeRings; r++ {
		y := float32(TubeHeight) * float32(r) / float32(TubeRings-1)
		upper := jointWeight(y)
		inf, _ := scene.NewInfluences(
			scene.Influence{Bone: 0, Weight: 1 - upper},
			scene.Influence{Bone: 1, Weight: upper},
		)
		for k := 0; k < TubeSegments; k++ {
			phi := 2 * gomath.Pi * float64(k) / TubeSegments
			c, sn := float32(gomath.Cos(phi)), float32(gomath.Sin(phi))
			restPos = append(restPos, math.Vec3{
				X: base.X + TubeRadius*c,
				Y: base.Y + y,
				Z: base.Z + TubeRadius*sn,
			})
			restNorm = append(restNorm, math.Vec3{X: c, Z: sn})
			influences = append(influences, inf)
		}
	}

	quads := make([][4]int, 0, (TubeRings-1)*TubeSegments)
	for r := 0; r < TubeRings-1; r++ {
		for k := 0; k < TubeSegments; k++ {
			next := (k + 1) % TubeSegments
			quads = append(quads, [4]int{
				r*TubeSegments + k,
				(r+1)*TubeSegments + k,
				(r+1)*TubeSegments + next,
				r*TubeSegments + next,
			})
		}
	}

	span := keySpan(s.Clock.Length)
	return s.AddMesh(scene.Mesh{
		Name:  name,
		Frame: math.FrameAt(base),
		Pos:   append([]math.Vec3(nil), restPos...),
		Norm:  append([]math.Vec3(nil), restNorm...),
		Quads: quads,
		Animation: scene.Some(&scene.KeyframeTrack{
			Keytimes:    []int{0, span},
			Translation: []math.Vec3{base, base},
			Rotation:    []math.Vec3{{}, {Y: 2 * gomath.Pi}},
			RestFrame:   math.IdentityFrame(),
		}),
		Skin: scene.Some(&scene.Skinning{
			RestPos:    restPos,
			RestNorm:   restNorm,
			Influences: influences,
			BoneXforms: BendTable(s.Clock.Length, base.Add(math.Vec3{Y: TubeHeight / 2})),
		}),
	})
}

// BendTable returns per-tick transforms for two bones: bone 0 stays at rest and
// bone 1 rotates about the Z axis through joint, following one sine period
// over ticks.
func BendTable(ticks int, joint math.Vec3) [][]math.Mat4 {
	if ticks < 1 {
		ticks = 1
	}
	toJoint := math.TranslateVec(joint)
	fromJoint := math.TranslateVec(joint.Neg())

	table := make([][]math.Mat4, ticks)
	for t := range table {
		angle := float32(maxBend * gomath.Sin(2*gomath.Pi*float64(t)/float64(ticks)))
		table[t] = []math.Mat4{
			math.Identity(),
			toJoint.Mul(math.RotateZ(angle)).Mul(fromJoint),
		}
	}
	return table
}

// jointWeight returns the upper bone's weight for a vertex at height y.
func jointWeight(y float32) float32 {
	w := (y - (TubeHeight/2 - jointBlend)) / (2 * jointBlend)
	switch {
	case w < 0:
		return 0
	case w > 1:
		return 1
	}
	return w
}
