package control_test

import (
	"testing"

	"solenoid-seq/control"
	"solenoid-seq/generative"
)

// patternStub is a deterministic pattern source whose level depends
// only on the step.
type patternStub struct {
	level       func(step int) uint8
	step        int
	pulseInStep int
}

func (p *patternStub) Reset()                             { p.step = 0; p.pulseInStep = 0 }
func (p *patternStub) Configure(generative.PatternConfig) {}
func (p *patternStub) SeedRandom(uint32)                  {}
func (p *patternStub) Step() int                          { return p.step }
func (p *patternStub) SetStep(step int)                   { p.step = step }
func (p *patternStub) IncrementPulse()                    {}

func (p *patternStub) TickClock(n int) {
	for i := 0; i < n; i++ {
		p.pulseInStep++
		if p.pulseInStep >= generative.PulsesPerStep {
			p.pulseInStep = 0
			p.step++
		}
	}
}

func (p *patternStub) LevelAt(step int, _ generative.Part, _, _ uint8) uint8 {
	return p.level(step)
}

// fakeTransport is a scripted MessageSource.
type fakeTransport struct {
	queue []control.RawMessage
}

func (f *fakeTransport) push(msgs ...control.RawMessage) {
	f.queue = append(f.queue, msgs...)
}

func (f *fakeTransport) Poll(max int) []control.RawMessage {
	n := len(f.queue)
	if n > max {
		n = max
	}
	out := f.queue[:n]
	f.queue = f.queue[n:]
	return out
}

// testTempo gives one pulse per tick, so a step is evaluated every 3
// ticks.
const testTempo = 25000

func newTestController(level func(step int) uint8) (*control.Controller, *fakeTransport) {
	engine := generative.NewEngine(&patternStub{level: level})
	c := control.NewController(engine, control.NewMemoryOutputs(), testTempo)
	c.SetSeed(func() uint32 { return 1 })
	ft := &fakeTransport{}
	c.SetMessageSource(ft)
	c.Start()
	return c, ft
}

func runTicks(c *control.Controller, n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// toReactive drives a long press through the debouncer until the mode
// toggles.
func toReactive(t *testing.T, c *control.Controller) {
	t.Helper()
	c.HoldButton()
	runTicks(c, 1200)
	if got := c.Snapshot().Mode; got != control.ModeReactive {
		t.Fatalf("mode after long press = %v, want reactive", got)
	}
}

func allLoud(int) uint8 { return 255 }
func silent(int) uint8  { return 0 }

func TestGenerativeFireThenTimedRelease(t *testing.T) {
	quiet := false
	c, _ := newTestController(func(step int) uint8 {
		if quiet {
			return 0
		}
		return 255
	})

	// First step evaluation happens on the third pulse. Randomized
	// densities are all >= 100, so every channel fires on level 255.
	runTicks(c, 3)
	snap := c.Snapshot()
	for i, on := range snap.Outputs {
		if !on {
			t.Fatalf("channel %d not energized after fire", i)
		}
	}

	// Once the engine goes quiet, the sweep must release everything:
	// the longest pulse is 100 ms.
	quiet = true
	runTicks(c, 200)
	snap = c.Snapshot()
	for i := range snap.Outputs {
		if snap.Outputs[i] {
			t.Fatalf("channel %d still energized after deadlines passed", i)
		}
		if snap.Pending[i] {
			t.Fatalf("channel %d still has a pending deadline", i)
		}
	}
}

func TestLongPressClearsOutputsImmediately(t *testing.T) {
	c, _ := newTestController(allLoud)

	runTicks(c, 3)
	if !c.Snapshot().Pending[3] {
		t.Fatal("expected channel 3 mid-deadline before the long press")
	}

	c.HoldButton()
	runTicks(c, 1200)

	snap := c.Snapshot()
	if snap.Mode != control.ModeReactive {
		t.Fatalf("mode = %v, want reactive", snap.Mode)
	}
	for i := range snap.Outputs {
		if snap.Outputs[i] || snap.Pending[i] {
			t.Fatalf("channel %d not cleared by mode toggle", i)
		}
	}
	if snap.Indicator {
		t.Fatal("indicator not cleared by mode toggle")
	}
}

func TestReenteringGenerativeReinitializes(t *testing.T) {
	seeds := 0
	engine := generative.NewEngine(&patternStub{level: silent})
	c := control.NewController(engine, control.NewMemoryOutputs(), testTempo)
	c.SetSeed(func() uint32 { seeds++; return uint32(seeds) })
	c.Start()

	c.SetTempo(2400)
	if got := c.Snapshot().TempoTenths; got != 2400 {
		t.Fatalf("tempo = %d, want 2400", got)
	}

	toReactive(t, c)
	c.HoldButton()
	runTicks(c, 1200)

	snap := c.Snapshot()
	if snap.Mode != control.ModeGenerative {
		t.Fatalf("mode = %v, want generative", snap.Mode)
	}
	if seeds != 2 {
		t.Fatalf("seed drawn %d times, want 2 (startup + re-entry)", seeds)
	}
	if snap.TempoTenths != testTempo {
		t.Fatalf("tempo after re-entry = %d, want default %d", snap.TempoTenths, testTempo)
	}
}

func TestReactiveNoteOnPulsesWithMappedDuration(t *testing.T) {
	cases := []struct {
		velocity uint8
		duration int
	}{
		{127, 100},
		{64, 50},
		{1, 1},
	}
	for _, tc := range cases {
		c, ft := newTestController(silent)
		toReactive(t, c)

		ft.push(control.RawMessage{Status: 0x90, Data1: 60, Data2: tc.velocity})
		runTicks(c, 1)

		snap := c.Snapshot()
		if !snap.Outputs[60%generative.NumChannels] {
			t.Fatalf("vel %d: channel %d not energized", tc.velocity, 60%generative.NumChannels)
		}

		runTicks(c, tc.duration-1)
		if !c.Snapshot().Outputs[60%generative.NumChannels] {
			t.Fatalf("vel %d: released before %d ms", tc.velocity, tc.duration)
		}
		runTicks(c, 1)
		if c.Snapshot().Outputs[60%generative.NumChannels] {
			t.Fatalf("vel %d: still energized past %d ms", tc.velocity, tc.duration)
		}
	}
}

func TestNoteOnVelocityZeroIsNoteOff(t *testing.T) {
	c, ft := newTestController(silent)
	toReactive(t, c)

	ft.push(control.RawMessage{Status: 0x90, Data1: 60, Data2: 0})
	runTicks(c, 1)

	snap := c.Snapshot()
	for i := range snap.Outputs {
		if snap.Outputs[i] || snap.Pending[i] {
			t.Fatalf("channel %d changed on velocity-0 note on", i)
		}
	}
	// The indicator still pulses on any message, then releases.
	if !snap.Indicator {
		t.Fatal("indicator did not pulse on inbound message")
	}
	runTicks(c, 150)
	if c.Snapshot().Indicator {
		t.Fatal("indicator stuck on")
	}
}

func TestNoteOffAndUnrecognizedIgnored(t *testing.T) {
	c, ft := newTestController(silent)
	toReactive(t, c)

	ft.push(
		control.RawMessage{Status: 0x80, Data1: 60, Data2: 100},
		control.RawMessage{Status: 0xB7, Data1: 1, Data2: 2},
	)
	runTicks(c, 1)

	snap := c.Snapshot()
	for i := range snap.Outputs {
		if snap.Outputs[i] || snap.Pending[i] {
			t.Fatalf("channel %d changed on ignored message", i)
		}
	}
}

func TestReactiveDrainIsCapped(t *testing.T) {
	c, ft := newTestController(silent)
	toReactive(t, c)

	for i := 0; i < 40; i++ {
		ft.push(control.RawMessage{Status: 0x90, Data1: uint8(i), Data2: 100})
	}
	runTicks(c, 1)
	if got := len(ft.queue); got != 8 {
		t.Fatalf("messages left after one tick = %d, want 8 (cap 32)", got)
	}
	runTicks(c, 1)
	if got := len(ft.queue); got != 0 {
		t.Fatalf("messages left after two ticks = %d, want 0", got)
	}
}

func TestShortPressRandomizesOnlyInGenerativeMode(t *testing.T) {
	c, _ := newTestController(silent)

	before := c.Snapshot().Channels
	c.TapButton()
	runTicks(c, 300)
	after := c.Snapshot().Channels
	if before == after {
		t.Fatal("short press did not randomize patterns in generative mode")
	}

	toReactive(t, c)
	before = c.Snapshot().Channels
	c.TapButton()
	runTicks(c, 300)
	after = c.Snapshot().Channels
	if before != after {
		t.Fatal("short press mutated patterns in reactive mode")
	}
}
