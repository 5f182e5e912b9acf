package scene

import (
	"errors"
	"testing"

	"github.com/Faultbox/midgard-anim/pkg/math"
)

func TestOptional(t *testing.T) {
	var absent Optional[*KeyframeTrack]
	if absent.Present() {
		t.Error("zero Optional should be absent")
	}
	if _, ok := None[int]().Get(); ok {
		t.Error("None should be absent")
	}

	v, ok := Some(42).Get()
	if !ok || v != 42 {
		t.Errorf("Some(42).Get() = %v, %v; want 42, true", v, ok)
	}
}

func TestKeyframeTrackValidate(t *testing.T) {
	pose := []math.Vec3{{}, {}, {}}
	tests := []struct {
		name    string
		track   KeyframeTrack
		wantErr bool
	}{
		{"valid", KeyframeTrack{Keytimes: []int{0, 5, 10}, Translation: pose, Rotation: pose}, false},
		{"single key", KeyframeTrack{Keytimes: []int{0}, Translation: pose[:1], Rotation: pose[:1]}, true},
		{"empty", KeyframeTrack{}, true},
		{"equal keys", KeyframeTrack{Keytimes: []int{0, 5, 5}, Translation: pose, Rotation: pose}, true},
		{"decreasing", KeyframeTrack{Keytimes: []int{0, 5, 3}, Translation: pose, Rotation: pose}, true},
		{"length mismatch", KeyframeTrack{Keytimes: []int{0, 5, 10}, Translation: pose[:2], Rotation: pose}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAnimationTrack) {
				t.Errorf("expected ErrInvalidAnimationTrack, got %v", err)
			}
		})
	}
}

func TestNewInfluencesLimit(t *testing.T) {
	inf, err := NewInfluences(Influence{0, 0.5}, Influence{1, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inf.Len() != 2 || inf.At(1).Bone != 1 {
		t.Errorf("got %d slots, slot 1 = %+v", inf.Len(), inf.At(1))
	}

	_, err = NewInfluences(Influence{0, 0.2}, Influence{1, 0.2}, Influence{2, 0.2}, Influence{3, 0.2}, Influence{4, 0.2})
	if !errors.Is(err, ErrInvalidSimulationData) {
		t.Errorf("expected ErrInvalidSimulationData for 5 influences, got %v", err)
	}
}

func TestSimulationValidate(t *testing.T) {
	pos := []math.Vec3{{X: 0}, {X: 1}}

	sim := NewSimulation(pos, 1)
	sim.AddSpring(0, 1, 10, 1)
	if err := sim.Validate(2); err != nil {
		t.Fatalf("valid simulation rejected: %v", err)
	}
	if sim.Springs[0].RestLength != 1 {
		t.Errorf("rest length = %v, want 1", sim.Springs[0].RestLength)
	}

	sim.Mass[1] = 0
	if err := sim.Validate(2); !errors.Is(err, ErrInvalidSimulationData) {
		t.Errorf("zero mass: expected ErrInvalidSimulationData, got %v", err)
	}

	sim.Mass[1] = 1
	sim.Springs = append(sim.Springs, Spring{A: 0, B: 7})
	if err := sim.Validate(2); !errors.Is(err, ErrInvalidSimulationData) {
		t.Errorf("bad spring: expected ErrInvalidSimulationData, got %v", err)
	}

	if err := NewSimulation(pos, 1).Validate(3); !errors.Is(err, ErrInvalidSimulationData) {
		t.Errorf("count mismatch: expected ErrInvalidSimulationData, got %v", err)
	}
}

func TestClockValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Clock)
		wantErr bool
	}{
		{"default", func(*Clock) {}, false},
		{"zero length", func(c *Clock) { c.Length = 0 }, true},
		{"zero dt", func(c *Clock) { c.DT = 0 }, true},
		{"zero substeps", func(c *Clock) { c.Substeps = 0 }, true},
		{"bounce above one", func(c *Clock) { c.Bounce.Normal = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultClock()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidClock) {
				t.Errorf("expected ErrInvalidClock, got %v", err)
			}
		})
	}
}

func TestSceneArenaHandlesStable(t *testing.T) {
	s := New("test", DefaultClock())
	a := s.AddMesh(Mesh{Name: "a"})
	b := s.AddMesh(Mesh{Name: "b"})
	for i := 0; i < 100; i++ {
		s.AddMesh(Mesh{})
	}

	if s.Mesh(a).Name != "a" || s.Mesh(b).Name != "b" {
		t.Errorf("handles moved: a=%q b=%q", s.Mesh(a).Name, s.Mesh(b).Name)
	}
	if s.MeshCount() != 102 {
		t.Errorf("MeshCount() = %d, want 102", s.MeshCount())
	}
}

func TestStats(t *testing.T) {
	s := New("stats", DefaultClock())
	pos := []math.Vec3{{X: -1, Y: 0, Z: 0}, {X: 1, Y: 2, Z: 0}}
	sim := NewSimulation(pos, 2)
	sim.Vel[1] = math.Vec3{X: 0, Y: 3, Z: 0}
	id := s.AddMesh(Mesh{Name: "pair", Pos: append([]math.Vec3(nil), pos...), Simulation: Some(sim)})

	st := s.Stats(id)
	if st.Centroid != (math.Vec3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("centroid = %v, want (0, 1, 0)", st.Centroid)
	}
	if st.Bounds.Min != pos[0] || st.Bounds.Max != pos[1] {
		t.Errorf("bounds = %+v", st.Bounds)
	}
	if st.Kinetic != 9 {
		t.Errorf("kinetic = %v, want 9", st.Kinetic)
	}
}
