package constants

const (
	// Cycle adaptation constants:
	// - HardenThreshold is inclusive: an average completion at or above it steps difficulty up.
	// - EaseThreshold is exclusive: an average completion strictly below it steps difficulty down.
	// - The factors multiply the user's baseline difficulty, they do not compound.
	HardenThreshold = 0.8
	EaseThreshold   = 0.5
	HardenFactor    = 1.1 // applied when the cycle was completed comfortably
	EaseFactor      = 0.8 // applied when most of the cycle was missed
	SteadyFactor    = 1.0
)

func init() {
	// Runtime validation: the bands must not overlap
	if EaseThreshold >= HardenThreshold {
		panic("EaseThreshold must be below HardenThreshold")
	}
}
