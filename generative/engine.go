package generative

import (
	"fmt"
	"strings"

	"solenoid-seq/debug"
)

// NumChannels is the number of solenoid output channels.
const NumChannels = 8

// ChannelState holds one channel's trigger + velocity dual patterns.
type ChannelState struct {
	Part     Part  // which probability map to follow
	X, Y     uint8 // map position
	Density  uint8 // trigger density threshold (higher = busier)
	Velocity VelocityMask
}

// FireEvent is returned by Tick to tell the caller which channels to
// fire this step. Channels that did not trigger have duration 0.
type FireEvent struct {
	Mask     uint8 // bit N set = channel N fires
	Duration [NumChannels]uint8
}

// Empty reports whether no channel fired.
func (e FireEvent) Empty() bool {
	return e.Mask == 0
}

// Fired reports whether channel ch fired.
func (e FireEvent) Fired(ch int) bool {
	return e.Mask&(1<<uint(ch)) != 0
}

// Pulse durations for emphasized / plain hits, in milliseconds.
const (
	durationHigh = 100
	durationLow  = 1
)

// Engine is the generative trigger engine: eight channels evaluated
// against an injected probability map once per 32nd-note step. It owns
// all of its state and is driven by Tick, one call per millisecond.
type Engine struct {
	channels [NumChannels]ChannelState
	clock    PulseClock
	rng      LCG
	source   PatternSource

	currentStep   int  // 0..31
	pulseInStep   int  // 0..PulsesPerStep-1
	stepEvaluated bool // current step already evaluated for triggers?

	verbose bool
}

// NewEngine creates an engine around a pattern source. Call Init before
// ticking.
func NewEngine(source PatternSource) *Engine {
	return &Engine{source: source}
}

// Init seeds the local generator, resets the pattern source and timing,
// and randomizes all channel assignments.
func (e *Engine) Init(seed uint32, tempoTenths uint32) {
	e.rng.Seed(seed)
	e.clock.SetTempo(tempoTenths)

	e.source.Reset()
	// Decorrelate the source's stream from ours: seed it from a draw,
	// never from the raw seed.
	e.source.SeedRandom(e.rng.Next())
	e.source.Configure(DefaultPatternConfig())

	e.clock.Reset()
	e.currentStep = 0
	e.pulseInStep = 0
	e.stepEvaluated = false

	e.Randomize()
}

// SetTempo sets the tempo in tenths of a BPM. Zero is a silent no-op.
func (e *Engine) SetTempo(tenths uint32) {
	e.clock.SetTempo(tenths)
}

// TempoTenths returns the current tempo in tenths of a BPM.
func (e *Engine) TempoTenths() uint32 {
	return e.clock.TempoTenths()
}

// SetVerbose enables per-step trigger logging through the debug log.
func (e *Engine) SetVerbose(v bool) {
	e.verbose = v
}

// Step returns the current pattern step (0..31).
func (e *Engine) Step() int {
	return e.currentStep
}

// Channel returns a copy of a channel's state for display.
func (e *Engine) Channel(ch int) ChannelState {
	return e.channels[ch]
}

// Randomize re-rolls every channel's map position, part, density and
// velocity pattern, then resets the step position and the pattern
// source (re-seeded from the local stream, configuration reasserted).
func (e *Engine) Randomize() {
	for i := range e.channels {
		ch := &e.channels[i]
		ch.Part = Part(e.rng.Next() % 3)
		ch.X = uint8(e.rng.Next())
		ch.Y = uint8(e.rng.Next())
		// 100-199: a deliberate mid-to-high density band
		ch.Density = uint8(100 + e.rng.Next()%100)
		ch.Velocity = VelocityMask{Bits: e.rng.Next()}
	}

	e.currentStep = 0
	e.pulseInStep = 0
	e.stepEvaluated = false

	e.source.Reset()
	e.source.SeedRandom(e.rng.Next())
	e.source.Configure(DefaultPatternConfig())

	if e.verbose {
		debug.Log("gen", "randomized:\n%s", e.PatternDump())
	}
}

// Tick advances the engine by one millisecond and returns the fire
// events for this tick (usually empty; at most one step's worth).
func (e *Engine) Tick() FireEvent {
	var event FireEvent

	if !e.clock.Tick() {
		return event
	}

	// Advance the map's clock by one pulse, wrapping its step counter
	// at the 32-step pattern boundary.
	e.source.TickClock(1)
	if e.source.Step() >= PatternSteps {
		e.source.SetStep(0)
	}

	e.pulseInStep++
	if e.pulseInStep >= PulsesPerStep {
		e.pulseInStep = 0
		e.currentStep = e.source.Step()
		e.stepEvaluated = false
	}

	// Triggers are evaluated once, at the first pulse of each step.
	if !e.stepEvaluated && e.pulseInStep == 0 {
		e.stepEvaluated = true
		event = e.evaluateStep()
	}

	e.source.IncrementPulse()

	return event
}

func (e *Engine) evaluateStep() FireEvent {
	var event FireEvent

	for i := range e.channels {
		ch := &e.channels[i]

		level := e.source.LevelAt(e.currentStep, ch.Part, ch.X, ch.Y)
		threshold := 255 - ch.Density
		if level <= threshold {
			continue
		}

		duration := uint8(durationLow)
		if ch.Velocity.High() {
			duration = durationHigh
		}

		event.Mask |= 1 << uint(i)
		event.Duration[i] = duration

		// Cursor advances only on actual triggers.
		ch.Velocity.Advance()
	}

	if e.verbose && event.Mask != 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "S%02d:", e.currentStep)
		for i := 0; i < NumChannels; i++ {
			if event.Fired(i) {
				tag := 'L'
				if event.Duration[i] > durationLow {
					tag = 'H'
				}
				fmt.Fprintf(&b, " %d%c", i, tag)
			}
		}
		debug.Log("gen", "%s", b.String())
	}

	return event
}

// TriggerRow computes a channel's full 32-step trigger pattern against
// the current map, for display.
func (e *Engine) TriggerRow(ch int) [PatternSteps]bool {
	var row [PatternSteps]bool
	c := e.channels[ch]
	threshold := 255 - c.Density
	for s := 0; s < PatternSteps; s++ {
		row[s] = e.source.LevelAt(s, c.Part, c.X, c.Y) > threshold
	}
	return row
}

// PatternDump renders all channel patterns as text, one line per
// channel: part, map position, density, trigger row, velocity row.
func (e *Engine) PatternDump() string {
	var b strings.Builder
	tempo := e.clock.TempoTenths()
	fmt.Fprintf(&b, "pattern dump (BPM=%d.%d):\n", tempo/10, tempo%10)
	for i := range e.channels {
		c := e.channels[i]
		fmt.Fprintf(&b, "  CH%d %s x=%3d y=%3d d=%3d T:", i, c.Part, c.X, c.Y, c.Density)
		row := e.TriggerRow(i)
		for s := 0; s < PatternSteps; s++ {
			if row[s] {
				b.WriteByte('x')
			} else {
				b.WriteByte('-')
			}
		}
		b.WriteString(" V:")
		for s := 0; s < PatternSteps; s++ {
			if c.Velocity.At(s) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
