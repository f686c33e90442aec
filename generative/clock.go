package generative

// Timing constants. The engine runs at 24 PPQN with 3 pulses per
// 32nd-note step, so one 32-step pattern spans 96 pulses (4 quarter
// notes).
const (
	PPQN          = 24
	PulsesPerStep = 3
	PatternSteps  = 32

	// TickMicros is the fixed tick granularity of the control loop.
	TickMicros = 1000
)

// PulseClock converts a tempo in tenths of a BPM into a pulse train.
// Tick is called once per millisecond; the accumulator keeps the
// surplus after each pulse so phase never drifts.
type PulseClock struct {
	tempoTenths    uint32
	microsPerPulse uint32
	accumulated    uint32
}

// SetTempo recomputes the pulse period. A zero tempo is ignored and the
// previous period is retained.
func (c *PulseClock) SetTempo(tenths uint32) {
	if tenths == 0 {
		return
	}
	c.tempoTenths = tenths
	// 24 PPQN: us_per_pulse = 60_000_000 / (bpm * 24)
	// with bpm in tenths: 600_000_000 / (tenths * 24) = 25_000_000 / tenths
	c.microsPerPulse = 25_000_000 / tenths
}

// TempoTenths returns the current tempo in tenths of a BPM.
func (c *PulseClock) TempoTenths() uint32 {
	return c.tempoTenths
}

// MicrosPerPulse returns the derived pulse period.
func (c *PulseClock) MicrosPerPulse() uint32 {
	return c.microsPerPulse
}

// Reset clears the accumulator (tempo and period are kept).
func (c *PulseClock) Reset() {
	c.accumulated = 0
}

// Tick accounts one 1 ms slice of elapsed time and reports whether a
// pulse boundary was crossed. The surplus over the period is retained,
// not discarded.
func (c *PulseClock) Tick() bool {
	if c.microsPerPulse == 0 {
		return false
	}
	c.accumulated += TickMicros
	if c.accumulated < c.microsPerPulse {
		return false
	}
	c.accumulated -= c.microsPerPulse
	return true
}
