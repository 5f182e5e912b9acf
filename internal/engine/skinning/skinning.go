// Package skinning deforms meshes with linear blend skinning.
package skinning

import (
	"fmt"

	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// Validate checks that skin can deform mesh at tick.
func Validate(mesh *scene.Mesh, skin *scene.Skinning, tick int) error {
	n := len(skin.RestPos)
	if len(skin.RestNorm) != n || len(skin.Influences) != n {
		return fmt.Errorf("%w: %d rest positions, %d rest normals, %d influence sets",
			scene.ErrInvalidSimulationData, n, len(skin.RestNorm), len(skin.Influences))
	}
	if len(mesh.Pos) != n || len(mesh.Norm) != n {
		return fmt.Errorf("%w: mesh has %d positions and %d normals, skin has %d vertices",
			scene.ErrInvalidSimulationData, len(mesh.Pos), len(mesh.Norm), n)
	}
	if tick < 0 || tick >= len(skin.BoneXforms) {
		return fmt.Errorf("%w: no bone transforms for tick %d (have %d)",
			scene.ErrInvalidSimulationData, tick, len(skin.BoneXforms))
	}

	bones := len(skin.BoneXforms[tick])
	for v, inf := range skin.Influences {
		for j := 0; j < inf.Len(); j++ {
			if b := inf.At(j).Bone; b >= bones {
				return fmt.Errorf("%w: vertex %d slot %d references bone %d of %d",
					scene.ErrInvalidSimulationData, v, j, b, bones)
			}
		}
	}
	return nil
}

// Skin recomputes mesh positions and normals from the bone transforms at tick.
// Nothing is written if the data fails validation.
func Skin(mesh *scene.Mesh, skin *scene.Skinning, tick int) error {
	if err := Validate(mesh, skin, tick); err != nil {
		return err
	}

	xforms := skin.BoneXforms[tick]
	// Inverse transposes are shared by every vertex bound to the same bone.
	normalXforms := make([]math.Mat4, len(xforms))
	for i, m := range xforms {
		normalXforms[i] = m.Inverse().Transpose()
	}

	for i := range skin.RestPos {
		var pos, norm math.Vec3
		inf := skin.Influences[i]
		for j := 0; j < inf.Len(); j++ {
			slot := inf.At(j)
			if slot.Bone < 0 {
				continue
			}
			pos = pos.Add(xforms[slot.Bone].TransformPoint(skin.RestPos[i]).Scale(slot.Weight))
			norm = norm.Add(normalXforms[slot.Bone].TransformDirection(skin.RestNorm[i]).Scale(slot.Weight))
		}

		mesh.Pos[i] = pos
		mesh.Norm[i] = norm.NormalizeOr(mesh.Norm[i].NormalizeOr(math.Up))
	}
	return nil
}
