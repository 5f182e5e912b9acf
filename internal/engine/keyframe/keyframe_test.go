package keyframe

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

func testTrack() *scene.KeyframeTrack {
	return &scene.KeyframeTrack{
		Keytimes: []int{0, 10, 30},
		Translation: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 2, Y: 0, Z: 0},
			{X: 2, Y: 4, Z: -1},
		},
		Rotation: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 0.1, Y: 0.2, Z: 0.3},
			{X: -0.5, Y: 1.5, Z: 0.7},
		},
		RestFrame: math.IdentityFrame(),
	}
}

func TestInterpolate_ExactAtKeyframes(t *testing.T) {
	track := testTrack()
	for i, kt := range track.Keytimes {
		tr, rot, err := Interpolate(track, kt, PolicyStrict)
		if err != nil {
			t.Fatalf("key %d: unexpected error: %v", i, err)
		}
		if tr != track.Translation[i] {
			t.Errorf("key %d: translation = %v, want %v", i, tr, track.Translation[i])
		}
		if rot != track.Rotation[i] {
			t.Errorf("key %d: rotation = %v, want %v", i, rot, track.Rotation[i])
		}
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	track := testTrack()
	tr, _, err := Interpolate(track, 5, PolicyClamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr != (math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("translation at midpoint = %v, want (1, 0, 0)", tr)
	}
}

func TestInterpolate_RotationComponentsIndependent(t *testing.T) {
	track := testTrack()
	// A quarter of the way through the second interval.
	_, rot, err := Interpolate(track, 15, PolicyClamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Vec3{
		X: 0.1*0.75 + -0.5*0.25,
		Y: 0.2*0.75 + 1.5*0.25,
		Z: 0.3*0.75 + 0.7*0.25,
	}
	if rot.Distance(want) > 1e-6 {
		t.Errorf("rotation = %v, want %v", rot, want)
	}
}

func TestInterpolate_OutOfRange(t *testing.T) {
	track := testTrack()
	tests := []struct {
		name    string
		time    int
		policy  Policy
		wantErr bool
		wantKey int
	}{
		{"clamp before", -5, PolicyClamp, false, 0},
		{"clamp after", 100, PolicyClamp, false, 2},
		{"clamp at last", 30, PolicyClamp, false, 2},
		{"strict before", -1, PolicyStrict, true, 0},
		{"strict after", 31, PolicyStrict, true, 0},
		{"strict at last", 30, PolicyStrict, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, rot, err := Interpolate(track, tt.time, tt.policy)
			if tt.wantErr {
				if !errors.Is(err, scene.ErrInvalidAnimationTrack) {
					t.Fatalf("expected ErrInvalidAnimationTrack, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr != track.Translation[tt.wantKey] || rot != track.Rotation[tt.wantKey] {
				t.Errorf("pose = %v %v, want key %d", tr, rot, tt.wantKey)
			}
		})
	}
}

func TestComputeFrame_InvalidTrack(t *testing.T) {
	track := &scene.KeyframeTrack{
		Keytimes:    []int{0},
		Translation: []math.Vec3{{}},
		Rotation:    []math.Vec3{{}},
		RestFrame:   math.IdentityFrame(),
	}
	if _, err := ComputeFrame(track, 0, PolicyClamp); !errors.Is(err, scene.ErrInvalidAnimationTrack) {
		t.Errorf("expected ErrInvalidAnimationTrack, got %v", err)
	}
}

func TestComputeFrame_AppliesToRestFrame(t *testing.T) {
	track := testTrack()
	track.RestFrame = math.FrameAt(math.Vec3{X: 0, Y: 1, Z: 0})

	// At time 10: translate (2,0,0) after rotating by (0.1,0.2,0.3).
	f, err := ComputeFrame(track, 10, PolicyClamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := math.Translate(2, 0, 0).
		Mul(math.RotateZ(0.3)).
		Mul(math.RotateY(0.2)).
		Mul(math.RotateX(0.1))
	wantO := m.TransformPoint(math.Vec3{X: 0, Y: 1, Z: 0})
	if f.O.Distance(wantO) > 1e-5 {
		t.Errorf("origin = %v, want %v", f.O, wantO)
	}
	wantZ := m.TransformDirection(math.Vec3{X: 0, Y: 0, Z: 1})
	if f.Z.Distance(wantZ) > 1e-5 {
		t.Errorf("z axis = %v, want %v", f.Z, wantZ)
	}
}

func TestComputeFrame_CompositionOrder(t *testing.T) {
	// 90 degrees about X and about Z. With Rz*Ry*Rx the local Y axis goes to +Z;
	// the opposite order would send it to -X.
	half := float32(gomath.Pi / 2)
	track := &scene.KeyframeTrack{
		Keytimes:    []int{0, 1},
		Translation: []math.Vec3{{}, {}},
		Rotation:    []math.Vec3{{X: half, Z: half}, {X: half, Z: half}},
		RestFrame:   math.IdentityFrame(),
	}

	f, err := ComputeFrame(track, 0, PolicyClamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Y.Distance(math.Vec3{X: 0, Y: 0, Z: 1}) > 1e-5 {
		t.Errorf("frame Y axis = %v, want (0, 0, 1)", f.Y)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyClamp, false},
		{"clamp", PolicyClamp, false},
		{"STRICT", PolicyStrict, false},
		{"wrap", PolicyClamp, true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
