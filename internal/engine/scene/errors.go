package scene

import "errors"

// Animation core errors.
var (
	ErrInvalidAnimationTrack = errors.New("invalid animation track")
	ErrInvalidSimulationData = errors.New("invalid simulation data")
	ErrInvalidClock          = errors.New("invalid scene clock")
)
