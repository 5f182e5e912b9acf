// Package animation owns the per-tick pipeline: keyframed frames, skinning and
// particle simulation, run in that order on every Advance.
package animation

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-anim/internal/engine/geometry"
	"github.com/Faultbox/midgard-anim/internal/engine/keyframe"
	"github.com/Faultbox/midgard-anim/internal/engine/physics"
	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/internal/engine/skinning"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// SurfaceMesher rebuilds the display geometry of a surface after its frame changes.
type SurfaceMesher interface {
	SurfaceMesh(frame math.Frame, radius float32, shape scene.Shape, mat scene.Material) *scene.DisplayMesh
}

// Config configures a Driver. Zero fields get defaults.
type Config struct {
	OutOfRange keyframe.Policy
	Smoother   physics.NormalSmoother
	Mesher     SurfaceMesher
	Logger     *zap.Logger
}

// Driver advances scenes tick by tick. It is not safe for concurrent use; a
// single Driver may drive several scenes in turn.
type Driver struct {
	policy   keyframe.Policy
	smoother physics.NormalSmoother
	mesher   SurfaceMesher
	log      *zap.Logger

	// Capabilities switched off after invalid data, kept across Reset.
	disabled map[disabledKey]struct{}
}

type capability uint8

const (
	capSkin capability = iota
	capSimulation
)

func (c capability) String() string {
	if c == capSkin {
		return "skinning"
	}
	return "simulation"
}

type disabledKey struct {
	scene *scene.Scene
	mesh  scene.MeshID
	cap   capability
}

// New creates a Driver.
func New(cfg Config) *Driver {
	d := &Driver{
		policy:   cfg.OutOfRange,
		smoother: cfg.Smoother,
		mesher:   cfg.Mesher,
		log:      cfg.Logger,
		disabled: make(map[disabledKey]struct{}),
	}
	if d.smoother == nil {
		d.smoother = geometry.Smoother{}
	}
	if d.mesher == nil {
		d.mesher = geometry.Mesher{}
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	return d
}

// Reset rewinds s to tick 0 and restores every animated entity to its rest
// or initial state.
func (d *Driver) Reset(s *scene.Scene) {
	s.Clock.Tick = 0

	for i := 0; i < s.MeshCount(); i++ {
		mesh := s.Mesh(scene.MeshID(i))
		if track, ok := mesh.Animation.Get(); ok {
			mesh.Frame = track.RestFrame
		}
		if skin, ok := mesh.Skin.Get(); ok {
			restore(&mesh.Pos, skin.RestPos)
			restore(&mesh.Norm, skin.RestNorm)
		}
		if sim, ok := mesh.Simulation.Get(); ok {
			restore(&mesh.Pos, sim.InitPos)
			restore(&sim.Vel, sim.InitVel)
			if len(sim.Force) != len(sim.InitPos) {
				sim.Force = make([]math.Vec3, len(sim.InitPos))
			}
		}
	}

	for i := 0; i < s.SurfaceCount(); i++ {
		sf := s.Surface(scene.SurfaceID(i))
		if track, ok := sf.Animation.Get(); ok {
			sf.Frame = track.RestFrame
			d.rebuildDisplay(sf)
		}
	}

	d.log.Debug("scene reset", zap.String("scene", s.Name))
}

// Advance moves s forward one tick and runs the pipeline. At the final tick a
// looping scene is reset and a non-looping one is left untouched.
//
// Errors from individual meshes or surfaces are collected and returned; they
// never stop the rest of the scene from updating.
func (d *Driver) Advance(s *scene.Scene) error {
	clock := &s.Clock
	if err := clock.Validate(); err != nil {
		return err
	}

	if clock.AtEnd() {
		if !clock.Loop {
			return nil
		}
		d.Reset(s)
	} else {
		clock.Tick++
	}

	err := d.AnimateFrames(s)
	if !clock.GPUSkinning {
		err = multierr.Append(err, d.Skin(s))
	}
	err = multierr.Append(err, d.Simulate(s))

	d.log.Debug("tick advanced",
		zap.String("scene", s.Name),
		zap.Int("tick", clock.Tick),
		zap.Int("errors", len(multierr.Errors(err))),
	)
	return err
}

// AnimateFrames recomputes the frame of every mesh and surface with a keyframe
// track. An entity whose track fails keeps its previous frame for this tick.
func (d *Driver) AnimateFrames(s *scene.Scene) error {
	var errs error
	tick := s.Clock.Tick

	for i := 0; i < s.MeshCount(); i++ {
		mesh := s.Mesh(scene.MeshID(i))
		track, ok := mesh.Animation.Get()
		if !ok {
			continue
		}
		frame, err := keyframe.ComputeFrame(track, tick, d.policy)
		if err != nil {
			d.log.Warn("frame update skipped",
				zap.String("mesh", mesh.Name), zap.Int("tick", tick), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("mesh %q: %w", mesh.Name, err))
			continue
		}
		mesh.Frame = frame
	}

	for i := 0; i < s.SurfaceCount(); i++ {
		sf := s.Surface(scene.SurfaceID(i))
		track, ok := sf.Animation.Get()
		if !ok {
			continue
		}
		frame, err := keyframe.ComputeFrame(track, tick, d.policy)
		if err != nil {
			d.log.Warn("frame update skipped",
				zap.String("surface", sf.Name), zap.Int("tick", tick), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("surface %q: %w", sf.Name, err))
			continue
		}
		sf.Frame = frame
		d.rebuildDisplay(sf)
	}
	return errs
}

// Skin deforms every skinned mesh with the bone transforms of the current tick.
func (d *Driver) Skin(s *scene.Scene) error {
	var errs error
	for i := 0; i < s.MeshCount(); i++ {
		id := scene.MeshID(i)
		mesh := s.Mesh(id)
		skin, ok := mesh.Skin.Get()
		if !ok || d.isDisabled(s, id, capSkin) {
			continue
		}
		if err := skinning.Skin(mesh, skin, s.Clock.Tick); err != nil {
			errs = multierr.Append(errs, d.disable(s, id, capSkin, err))
		}
	}
	return errs
}

// Simulate runs one tick of every simulated mesh against all surfaces.
func (d *Driver) Simulate(s *scene.Scene) error {
	var errs error
	colliders := s.Surfaces()
	for i := 0; i < s.MeshCount(); i++ {
		id := scene.MeshID(i)
		mesh := s.Mesh(id)
		sim, ok := mesh.Simulation.Get()
		if !ok || d.isDisabled(s, id, capSimulation) {
			continue
		}
		if err := physics.Simulate(mesh, sim, &s.Clock, colliders, d.smoother); err != nil {
			errs = multierr.Append(errs, d.disable(s, id, capSimulation, err))
		}
	}
	return errs
}

// Disabled reports whether skinning or simulation of mesh id was switched off
// after invalid data.
func (d *Driver) Disabled(s *scene.Scene, id scene.MeshID) (skin, simulation bool) {
	return d.isDisabled(s, id, capSkin), d.isDisabled(s, id, capSimulation)
}

func (d *Driver) isDisabled(s *scene.Scene, id scene.MeshID, c capability) bool {
	_, ok := d.disabled[disabledKey{s, id, c}]
	return ok
}

// disable switches off c for mesh id for the rest of the run and logs it once.
func (d *Driver) disable(s *scene.Scene, id scene.MeshID, c capability, err error) error {
	d.disabled[disabledKey{s, id, c}] = struct{}{}
	name := s.Mesh(id).Name
	d.log.Error("mesh disabled",
		zap.String("mesh", name),
		zap.Stringer("capability", c),
		zap.Error(err),
	)
	return fmt.Errorf("mesh %q %s: %w", name, c, err)
}

func (d *Driver) rebuildDisplay(sf *scene.Surface) {
	sf.Display = d.mesher.SurfaceMesh(sf.Frame, sf.Radius, sf.Shape, sf.Material)
}

// restore copies src into *dst, reusing its storage when the lengths match.
func restore(dst *[]math.Vec3, src []math.Vec3) {
	if len(*dst) != len(src) {
		*dst = make([]math.Vec3, len(src))
	}
	copy(*dst, src)
}
