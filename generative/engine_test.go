package generative

import "testing"

// stubSource is a deterministic PatternSource with a scriptable level
// function, mimicking the real generator's clock behavior (step
// advances every third pulse).
type stubSource struct {
	level func(step int, part Part, x, y uint8) uint8

	step        int
	pulseInStep int
	bookkeeping int // IncrementPulse calls

	resets      int
	seeds       []uint32
	configs     []PatternConfig
	forcedSteps []int
	queries     map[int]int // evaluated step -> LevelAt calls
}

func newStubSource(level func(step int, part Part, x, y uint8) uint8) *stubSource {
	return &stubSource{level: level, queries: make(map[int]int)}
}

func (s *stubSource) Reset() {
	s.resets++
	s.step = 0
	s.pulseInStep = 0
}

func (s *stubSource) Configure(cfg PatternConfig) { s.configs = append(s.configs, cfg) }
func (s *stubSource) SeedRandom(seed uint32)      { s.seeds = append(s.seeds, seed) }

func (s *stubSource) TickClock(n int) {
	for i := 0; i < n; i++ {
		s.pulseInStep++
		if s.pulseInStep >= PulsesPerStep {
			s.pulseInStep = 0
			s.step++
		}
	}
}

func (s *stubSource) Step() int { return s.step }

func (s *stubSource) SetStep(step int) {
	s.forcedSteps = append(s.forcedSteps, s.step)
	s.step = step
}

func (s *stubSource) LevelAt(step int, part Part, x, y uint8) uint8 {
	s.queries[step]++
	return s.level(step, part, x, y)
}

func (s *stubSource) IncrementPulse() { s.bookkeeping++ }

func constLevel(v uint8) func(int, Part, uint8, uint8) uint8 {
	return func(int, Part, uint8, uint8) uint8 { return v }
}

// pulsePerTickTempo makes MicrosPerPulse exactly one tick, so the
// engine emits one pulse per Tick and evaluates a step every 3 ticks.
const pulsePerTickTempo = 25000

func collectEvents(e *Engine, ticks int) []FireEvent {
	var events []FireEvent
	for i := 0; i < ticks; i++ {
		if ev := e.Tick(); !ev.Empty() {
			events = append(events, ev)
		}
	}
	return events
}

func TestEngineEvaluatesEveryThirdPulse(t *testing.T) {
	src := newStubSource(constLevel(255))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)

	// Randomized densities are all >= 100, so level 255 beats every
	// threshold: all 8 channels fire on every evaluated step.
	events := collectEvents(e, 9)
	if len(events) != 3 {
		t.Fatalf("events over 9 ticks = %d, want 3", len(events))
	}
	for _, ev := range events {
		if ev.Mask != 0xFF {
			t.Fatalf("mask = %02x, want ff", ev.Mask)
		}
	}
}

func TestEngineQueriesEachStepOnce(t *testing.T) {
	src := newStubSource(constLevel(255))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)

	collectEvents(e, 90) // steps 1..30 evaluated
	for step, n := range src.queries {
		if n != NumChannels {
			t.Fatalf("step %d queried %d times, want %d", step, n, NumChannels)
		}
	}
	if len(src.queries) != 30 {
		t.Fatalf("evaluated %d steps, want 30", len(src.queries))
	}
}

func TestEngineIncrementsSourcePulseOncePerPulse(t *testing.T) {
	src := newStubSource(constLevel(0))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)

	collectEvents(e, 50)
	if src.bookkeeping != 50 {
		t.Fatalf("IncrementPulse calls = %d, want 50", src.bookkeeping)
	}
}

func TestDensityExtremes(t *testing.T) {
	src := newStubSource(constLevel(1))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)

	for i := range e.channels {
		e.channels[i].Density = 0 // threshold 255: can never fire
	}
	e.channels[0].Density = 255 // threshold 0: fires whenever level > 0

	events := collectEvents(e, 96)
	if len(events) == 0 {
		t.Fatal("channel with density 255 never fired on level 1")
	}
	for _, ev := range events {
		if ev.Mask != 0x01 {
			t.Fatalf("mask = %02x, want 01 (only the density-255 channel)", ev.Mask)
		}
	}
}

func TestFireConditionIsStrict(t *testing.T) {
	// level == threshold must not fire.
	src := newStubSource(constLevel(100))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)

	for i := range e.channels {
		e.channels[i].Density = 155 // threshold exactly 100
	}
	if events := collectEvents(e, 96); len(events) != 0 {
		t.Fatalf("level == threshold fired %d events", len(events))
	}
}

func TestVelocityPatternSelectsDuration(t *testing.T) {
	src := newStubSource(constLevel(255))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)

	for i := range e.channels {
		e.channels[i].Density = 0
	}
	e.channels[0].Density = 255
	e.channels[0].Velocity = VelocityMask{Bits: 0x1} // only bit 0 set

	events := collectEvents(e, 6)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Duration[0] != 100 {
		t.Fatalf("first fire duration = %d, want 100 (cursor bit set)", events[0].Duration[0])
	}
	if events[1].Duration[0] != 1 {
		t.Fatalf("second fire duration = %d, want 1 (cursor bit clear)", events[1].Duration[0])
	}
}

func TestCursorAdvancesOnlyOnTrigger(t *testing.T) {
	src := newStubSource(func(step int, _ Part, _, _ uint8) uint8 {
		if step%2 == 0 {
			return 255
		}
		return 0
	})
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)

	for i := range e.channels {
		e.channels[i].Density = 0
	}
	e.channels[0].Density = 255
	e.channels[0].Velocity = VelocityMask{}

	// 24 ticks evaluate steps 1..8; only 2, 4, 6, 8 fire.
	events := collectEvents(e, 24)
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	if got := e.Channel(0).Velocity.Cursor; got != 4 {
		t.Fatalf("cursor = %d, want 4 (one advance per fire)", got)
	}
}

func TestRandomizeRanges(t *testing.T) {
	src := newStubSource(constLevel(0))
	e := NewEngine(src)
	e.Init(0xCAFE, pulsePerTickTempo)

	for trial := 0; trial < 50; trial++ {
		e.Randomize()
		for i := 0; i < NumChannels; i++ {
			ch := e.Channel(i)
			if ch.Part >= NumParts {
				t.Fatalf("channel %d part = %d", i, ch.Part)
			}
			if ch.Density < 100 || ch.Density > 199 {
				t.Fatalf("channel %d density = %d, want 100..199", i, ch.Density)
			}
			if ch.Velocity.Cursor != 0 {
				t.Fatalf("channel %d cursor = %d after randomize", i, ch.Velocity.Cursor)
			}
		}
		if e.Step() != 0 {
			t.Fatalf("step = %d after randomize", e.Step())
		}
	}
}

func TestSourceSeedIsDecorrelated(t *testing.T) {
	src := newStubSource(constLevel(0))
	e := NewEngine(src)
	const seed = 777
	e.Init(seed, pulsePerTickTempo)

	// Init seeds the source twice (once directly, once via Randomize);
	// neither draw may be the raw seed.
	if len(src.seeds) != 2 {
		t.Fatalf("source seeded %d times, want 2", len(src.seeds))
	}
	for i, s := range src.seeds {
		if s == seed {
			t.Fatalf("seed %d passed through raw", i)
		}
	}
	if src.seeds[0] == src.seeds[1] {
		t.Fatal("both source seeds identical")
	}
}

func TestConfigReassertedAfterEveryReset(t *testing.T) {
	src := newStubSource(constLevel(0))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)
	e.Randomize()

	if len(src.configs) != src.resets {
		t.Fatalf("configs = %d, resets = %d; want one Configure per Reset", len(src.configs), src.resets)
	}
	want := DefaultPatternConfig()
	for i, cfg := range src.configs {
		if cfg != want {
			t.Fatalf("config %d = %+v, want %+v", i, cfg, want)
		}
	}
}

func TestEngineForcesStepWrap(t *testing.T) {
	src := newStubSource(constLevel(0))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)

	for i := 0; i < 300; i++ {
		e.Tick()
		if e.Step() >= PatternSteps {
			t.Fatalf("engine step = %d, want < %d", e.Step(), PatternSteps)
		}
	}
	if len(src.forcedSteps) == 0 {
		t.Fatal("SetStep never called; wrap not enforced")
	}
	for _, s := range src.forcedSteps {
		if s < PatternSteps {
			t.Fatalf("SetStep forced at source step %d, before the pattern boundary", s)
		}
	}
}

func TestZeroTempoEngineStaysSilent(t *testing.T) {
	src := newStubSource(constLevel(255))
	e := NewEngine(src)
	e.Init(1, pulsePerTickTempo)
	e.SetTempo(0) // ignored; previous tempo retained

	if got := e.TempoTenths(); got != pulsePerTickTempo {
		t.Fatalf("tempo = %d, want %d", got, pulsePerTickTempo)
	}
}
