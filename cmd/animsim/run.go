package main

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-anim/internal/config"
	"github.com/Faultbox/midgard-anim/internal/demo"
	"github.com/Faultbox/midgard-anim/internal/engine/animation"
	"github.com/Faultbox/midgard-anim/internal/engine/geometry"
	"github.com/Faultbox/midgard-anim/internal/engine/scene"
)

// result is the state of a scene after a run.
type result struct {
	Scene  string
	Tick   int
	Ticks  int
	Errors int
	Meshes []scene.MeshStats
}

// run builds the configured demo scene and advances it cfg.Run.Ticks times.
// Per-entity tick errors are logged and counted; they do not end the run.
func run(cfg *config.Config, log *zap.Logger) (*result, error) {
	clock, err := cfg.Clock()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	s, err := demo.Build(cfg.Run.Scene, clock)
	if err != nil {
		return nil, err
	}

	d := animation.New(animation.Config{
		OutOfRange: policy,
		Mesher:     geometry.Mesher{Segments: cfg.Simulation.SphereSegments},
		Logger:     log.Named("animation"),
	})
	d.Reset(s)

	res := &result{Scene: s.Name, Ticks: cfg.Run.Ticks}
	for i := 0; i < cfg.Run.Ticks; i++ {
		if err := d.Advance(s); err != nil {
			res.Errors += len(multierr.Errors(err))
		}
		if ce := log.Check(zap.DebugLevel, "tick"); ce != nil {
			fields := []zap.Field{zap.Int("tick", s.Clock.Tick)}
			for id := 0; id < s.MeshCount(); id++ {
				st := s.Stats(scene.MeshID(id))
				fields = append(fields, zap.Float32(st.Name+"_kinetic", st.Kinetic))
			}
			ce.Write(fields...)
		}
	}

	res.Tick = s.Clock.Tick
	for id := 0; id < s.MeshCount(); id++ {
		res.Meshes = append(res.Meshes, s.Stats(scene.MeshID(id)))
	}
	return res, nil
}

func printSummary(w io.Writer, res *result) {
	fmt.Fprintf(w, "Scene:  %s\n", res.Scene)
	fmt.Fprintf(w, "Ticks:  %d (clock at %d)\n", res.Ticks, res.Tick)
	fmt.Fprintf(w, "Errors: %d\n\n", res.Errors)

	fmt.Fprintf(w, "  %-10s %6s  %-26s %-26s %10s\n", "MESH", "VERTS", "CENTROID", "EXTENT", "KINETIC")
	for _, st := range res.Meshes {
		ext := st.Bounds.Max.Sub(st.Bounds.Min)
		fmt.Fprintf(w, "  %-10s %6d  (%7.3f %7.3f %7.3f)  (%7.3f %7.3f %7.3f)  %10.4f\n",
			st.Name, st.Vertices,
			st.Centroid.X, st.Centroid.Y, st.Centroid.Z,
			ext.X, ext.Y, ext.Z,
			st.Kinetic)
	}
}
