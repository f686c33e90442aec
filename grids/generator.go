// Package grids is a drum pattern generator in the style of Mutable
// Instruments Grids: a map of drum patterns indexed by a 2-D position,
// read out as per-step intensity levels. It implements
// generative.PatternSource.
package grids

import "solenoid-seq/generative"

// Generator holds the map configuration, the clock counters and the
// internal random stream used for map-space perturbation.
type Generator struct {
	cfg generative.PatternConfig

	step        int
	pulseInStep int
	pulseCount  int // running pulse counter, advanced by IncrementPulse

	rng          generative.LCG
	perturbation [numParts]uint8
}

// NewGenerator returns a generator with default configuration.
func NewGenerator() *Generator {
	g := &Generator{}
	g.Reset()
	return g
}

// Reset reverts counters and configuration to defaults. The engine
// reconfigures after every reset.
func (g *Generator) Reset() {
	g.cfg = generative.DefaultPatternConfig()
	g.step = 0
	g.pulseInStep = 0
	g.pulseCount = 0
	g.perturbation = [numParts]uint8{}
}

// Configure applies map offsets, randomness and per-part density.
func (g *Generator) Configure(cfg generative.PatternConfig) {
	g.cfg = cfg
}

// SeedRandom seeds the perturbation stream.
func (g *Generator) SeedRandom(seed uint32) {
	g.rng.Seed(seed)
}

// TickClock advances the clock by n pulses. Every third pulse starts a
// new step and redraws the per-part perturbation.
func (g *Generator) TickClock(n int) {
	for i := 0; i < n; i++ {
		g.pulseInStep++
		if g.pulseInStep >= pulsesPerStep {
			g.pulseInStep = 0
			g.step++
			g.refreshPerturbation()
		}
	}
}

// Step returns the internal step counter. It does not wrap on its own;
// the caller forces the wrap point with SetStep.
func (g *Generator) Step() int {
	return g.step
}

// SetStep forces the step counter.
func (g *Generator) SetStep(step int) {
	g.step = step
}

// IncrementPulse advances the running pulse counter. Called once per
// pulse by the engine, after evaluation.
func (g *Generator) IncrementPulse() {
	g.pulseCount++
}

// PulseCount returns the total pulses accounted so far.
func (g *Generator) PulseCount() int {
	return g.pulseCount
}

// LevelAt returns the trigger-likelihood byte for a step at map
// position (x, y), offset by the configured map origin and perturbed by
// the randomness amount (zero randomness is fully deterministic).
func (g *Generator) LevelAt(step int, part generative.Part, x, y uint8) uint8 {
	p := int(part) % numParts
	level := mapLevel(step, p, offset(x, g.cfg.X), offset(y, g.cfg.Y))

	if g.cfg.Randomness > 0 {
		level = saturate(int(level) + int(g.perturbation[p]))
	}
	return level
}

// refreshPerturbation redraws the per-part noise, scaled by the
// configured randomness.
func (g *Generator) refreshPerturbation() {
	for p := 0; p < numParts; p++ {
		g.perturbation[p] = uint8(uint16(g.rng.Byte()) * uint16(g.cfg.Randomness) >> 8)
	}
}

// offset shifts a map coordinate by the configured origin, centered on
// 128, saturating at the map edges.
func offset(v, origin uint8) uint8 {
	return saturate(int(v) + int(origin) - 128)
}

func saturate(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
