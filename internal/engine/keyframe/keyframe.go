// Package keyframe computes rigid frames from keyframe tracks.
package keyframe

import (
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// Policy decides what happens to queries outside [first, last] keytime.
type Policy uint8

const (
	// PolicyClamp holds the first pose before the track and the last pose after it.
	PolicyClamp Policy = iota
	// PolicyStrict rejects queries outside the track with ErrInvalidAnimationTrack.
	PolicyStrict
)

// String returns the config name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyClamp:
		return "clamp"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy converts a config value to a Policy. Empty means clamp.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "clamp":
		return PolicyClamp, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyClamp, fmt.Errorf("unknown out-of-range policy %q", s)
	}
}

// Interpolate returns the translation and Euler rotation of track at time.
func Interpolate(track *scene.KeyframeTrack, time int, policy Policy) (translation, rotation math.Vec3, err error) {
	if err := track.Validate(); err != nil {
		return math.Vec3{}, math.Vec3{}, err
	}

	keys := track.Keytimes
	first, last := keys[0], keys[len(keys)-1]

	switch {
	case time < first:
		if policy == PolicyStrict {
			return math.Vec3{}, math.Vec3{}, fmt.Errorf("%w: time %d before first keytime %d",
				scene.ErrInvalidAnimationTrack, time, first)
		}
		return track.Translation[0], track.Rotation[0], nil
	case time >= last:
		if time > last && policy == PolicyStrict {
			return math.Vec3{}, math.Vec3{}, fmt.Errorf("%w: time %d after last keytime %d",
				scene.ErrInvalidAnimationTrack, time, last)
		}
		n := len(keys) - 1
		return track.Translation[n], track.Rotation[n], nil
	}

	// Find the interval with keys[i] <= time < keys[i+1]
	i := 0
	for i+1 < len(keys) && keys[i+1] <= time {
		i++
	}

	t := float32(time-keys[i]) / float32(keys[i+1]-keys[i])
	translation = math.Lerp(track.Translation[i], track.Translation[i+1], t)
	rotation = math.Lerp(track.Rotation[i], track.Rotation[i+1], t)
	return translation, rotation, nil
}

// Transform returns T * Rz * Ry * Rx for the pose.
func Transform(translation, rotation math.Vec3) math.Mat4 {
	return math.TranslateVec(translation).Mul(math.RotateEulerZYX(rotation))
}

// ComputeFrame returns the rest frame of track moved to its pose at time.
func ComputeFrame(track *scene.KeyframeTrack, time int, policy Policy) (math.Frame, error) {
	translation, rotation, err := Interpolate(track, time, policy)
	if err != nil {
		return math.Frame{}, err
	}
	return track.RestFrame.Transform(Transform(translation, rotation)), nil
}
