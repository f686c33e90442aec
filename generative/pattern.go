package generative

// Part selects which probability map a channel follows.
type Part uint8

const (
	PartBD Part = iota // bass drum map
	PartSD             // snare map
	PartHH             // hi-hat map

	NumParts = 3
)

func (p Part) String() string {
	switch p {
	case PartBD:
		return "BD"
	case PartSD:
		return "SD"
	case PartHH:
		return "HH"
	}
	return "??"
}

// PatternConfig is the map-level configuration reasserted after every
// PatternSource reset (a reset reverts the source to its own defaults).
type PatternConfig struct {
	X, Y       uint8 // map offsets, 128 = mid-scale
	Randomness uint8 // map-space perturbation amount, 0 = deterministic
	Density    [NumParts]uint8
}

// DefaultPatternConfig returns the configuration the engine applies
// after every source reset.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		X:          128,
		Y:          128,
		Randomness: 0,
		Density:    [NumParts]uint8{128, 128, 128},
	}
}

// PatternSource is the drum-probability map the engine evaluates
// channels against. It owns its own pulse/step counters and its own
// random stream; the engine re-seeds it explicitly on init/randomize.
// Tests substitute a deterministic stub.
type PatternSource interface {
	// Reset reverts counters and configuration to source defaults.
	Reset()

	// Configure applies map offsets, randomness and per-part density.
	Configure(cfg PatternConfig)

	// SeedRandom seeds the source's internal random stream.
	SeedRandom(seed uint32)

	// TickClock advances the source clock by n pulses without
	// evaluating anything.
	TickClock(n int)

	// Step returns the source's step counter.
	Step() int

	// SetStep forces the step counter (the engine wraps it at 32; the
	// source's own wrap point may differ).
	SetStep(step int)

	// LevelAt returns the trigger-likelihood byte for a step at map
	// position (x, y). Deterministic given its inputs and the seed.
	LevelAt(step int, part Part, x, y uint8) uint8

	// IncrementPulse advances source-internal pulse bookkeeping; the
	// engine calls it exactly once per pulse, after evaluation.
	IncrementPulse()
}
