package scene

import (
	"fmt"

	"github.com/Faultbox/midgard-anim/pkg/math"
)

// BounceDamping scales the velocity components of a particle after a collision.
type BounceDamping struct {
	Normal     float32 // applied to the component along the surface normal
	Tangential float32 // applied to the component in the surface plane
}

// Clock holds the global tick state. Only the animation driver mutates it.
type Clock struct {
	Tick   int
	Length int
	Loop   bool

	DT       float32 // time advanced per tick
	Substeps int     // simulation sub-steps per tick

	Gravity math.Vec3
	Bounce  BounceDamping

	// GPUSkinning delegates skinning to the renderer; the CPU pass is skipped.
	GPUSkinning bool
}

// DefaultClock returns a looping clock with earth gravity.
func DefaultClock() Clock {
	return Clock{
		Length:   200,
		Loop:     true,
		DT:       1.0 / 30.0,
		Substeps: 10,
		Gravity:  math.Vec3{X: 0, Y: -9.8, Z: 0},
		Bounce:   BounceDamping{Normal: 0.5, Tangential: 0.1},
	}
}

// SubstepDT returns the duration of one simulation sub-step.
func (c *Clock) SubstepDT() float32 {
	return c.DT / float32(c.Substeps)
}

// AtEnd reports whether the clock sits on its final tick.
func (c *Clock) AtEnd() bool {
	return c.Tick >= c.Length-1
}

// Validate checks the driver preconditions.
func (c *Clock) Validate() error {
	if c.Length < 1 {
		return fmt.Errorf("%w: length %d < 1", ErrInvalidClock, c.Length)
	}
	if !(c.DT > 0) {
		return fmt.Errorf("%w: dt %v must be positive", ErrInvalidClock, c.DT)
	}
	if c.Substeps < 1 {
		return fmt.Errorf("%w: substeps %d < 1", ErrInvalidClock, c.Substeps)
	}
	if c.Bounce.Normal < 0 || c.Bounce.Normal > 1 || c.Bounce.Tangential < 0 || c.Bounce.Tangential > 1 {
		return fmt.Errorf("%w: bounce damping %+v outside [0,1]", ErrInvalidClock, c.Bounce)
	}
	return nil
}
