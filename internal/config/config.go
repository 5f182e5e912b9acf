// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/midgard-anim/internal/engine/keyframe"
	"github.com/Faultbox/midgard-anim/internal/engine/scene"
	"github.com/Faultbox/midgard-anim/pkg/math"
)

// Config holds all simulator settings.
type Config struct {
	Animation  AnimationConfig  `yaml:"animation"`
	Simulation SimulationConfig `yaml:"simulation"`
	Run        RunConfig        `yaml:"run"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AnimationConfig holds clock and keyframe settings.
type AnimationConfig struct {
	Length      int    `yaml:"length"`       // Ticks per cycle
	Loop        bool   `yaml:"loop"`         // Restart after the last tick
	GPUSkinning bool   `yaml:"gpu_skinning"` // Skip CPU skinning
	OutOfRange  string `yaml:"out_of_range"` // clamp or strict
}

// SimulationConfig holds particle simulation settings.
type SimulationConfig struct {
	DT               float32    `yaml:"dt"`
	Substeps         int        `yaml:"substeps"`
	Gravity          [3]float32 `yaml:"gravity"`
	BounceNormal     float32    `yaml:"bounce_normal"`
	BounceTangential float32    `yaml:"bounce_tangential"`
	SphereSegments   int        `yaml:"sphere_segments"` // Display mesh resolution
}

// RunConfig holds settings for the headless runner.
type RunConfig struct {
	Scene string `yaml:"scene"`
	Ticks int    `yaml:"ticks"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	clock := scene.DefaultClock()
	return &Config{
		Animation: AnimationConfig{
			Length:      clock.Length,
			Loop:        clock.Loop,
			GPUSkinning: false,
			OutOfRange:  keyframe.PolicyClamp.String(),
		},
		Simulation: SimulationConfig{
			DT:               clock.DT,
			Substeps:         clock.Substeps,
			Gravity:          [3]float32{clock.Gravity.X, clock.Gravity.Y, clock.Gravity.Z},
			BounceNormal:     clock.Bounce.Normal,
			BounceTangential: clock.Bounce.Tangential,
			SphereSegments:   16,
		},
		Run: RunConfig{
			Scene: "all",
			Ticks: 300,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Clock builds the scene clock described by the config.
func (c *Config) Clock() (scene.Clock, error) {
	g := c.Simulation.Gravity
	clock := scene.Clock{
		Length:   c.Animation.Length,
		Loop:     c.Animation.Loop,
		DT:       c.Simulation.DT,
		Substeps: c.Simulation.Substeps,
		Gravity:  math.Vec3{X: g[0], Y: g[1], Z: g[2]},
		Bounce: scene.BounceDamping{
			Normal:     c.Simulation.BounceNormal,
			Tangential: c.Simulation.BounceTangential,
		},
		GPUSkinning: c.Animation.GPUSkinning,
	}
	if err := clock.Validate(); err != nil {
		return scene.Clock{}, err
	}
	return clock, nil
}

// Policy returns the parsed out-of-range keyframe policy.
func (c *Config) Policy() (keyframe.Policy, error) {
	return keyframe.ParsePolicy(c.Animation.OutOfRange)
}

// Validate checks that the config describes a runnable simulation.
func (c *Config) Validate() error {
	if _, err := c.Clock(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Run.Ticks < 0 {
		return fmt.Errorf("run.ticks %d must not be negative", c.Run.Ticks)
	}
	return nil
}
