package control

import (
	"context"
	"sync"
	"time"

	"solenoid-seq/debug"
	"solenoid-seq/generative"
)

// Mode selects what drives the solenoids.
type Mode int

const (
	// ModeGenerative: the pattern engine fires autonomously.
	ModeGenerative Mode = iota
	// ModeReactive: inbound MIDI Note On messages fire pulses.
	ModeReactive
)

func (m Mode) String() string {
	if m == ModeGenerative {
		return "GEN"
	}
	return "MIDI"
}

// RawMessage is one 3-byte channel-voice message from the transport.
type RawMessage struct {
	Status, Data1, Data2 uint8
}

// MessageSource hands the controller pending transport messages. Poll
// must not block; excess messages stay queued for the next tick.
type MessageSource interface {
	Poll(max int) []RawMessage
}

const (
	// Bounded per-tick drain so a message burst cannot blow the tick
	// budget.
	maxMessagesPerTick = 32

	indicatorBlinkMillis = 50
	indicatorPulseMillis = 100
)

// Controller owns the whole runtime state: the generative engine, the
// mode flag, the user key debouncer and the off-deadline schedule. All
// mutation happens inside Tick, one call per millisecond; within a tick
// the order is fixed: button handling, then mode-specific work, then
// the deadline sweep.
type Controller struct {
	mu      sync.Mutex
	engine  *generative.Engine
	outputs Outputs
	sched   *Schedule
	button  Debouncer
	source  MessageSource

	mode         Mode
	now          int64 // milliseconds, advanced once per tick
	defaultTempo uint32
	seed         func() uint32

	// raw user-key level; pressFor injects synthetic presses
	rawPressed bool
	pressFor   int64

	// mirrors of the last level written to each output
	outState  [generative.NumChannels]bool
	indicator bool

	// UpdateChan is pinged when display state may have changed.
	UpdateChan chan struct{}
}

// NewController wires the engine to an output driver. Call Start before
// ticking.
func NewController(engine *generative.Engine, outputs Outputs, tempoTenths uint32) *Controller {
	return &Controller{
		engine:       engine,
		outputs:      outputs,
		sched:        NewSchedule(),
		defaultTempo: tempoTenths,
		seed: func() uint32 {
			return uint32(time.Now().UnixNano())
		},
		UpdateChan: make(chan struct{}, 1),
	}
}

// SetMessageSource sets the reactive-mode transport (may be nil).
func (c *Controller) SetMessageSource(src MessageSource) {
	c.mu.Lock()
	c.source = src
	c.mu.Unlock()
}

// SetSeed overrides the seed source used on (re)initialization.
func (c *Controller) SetSeed(seed func() uint32) {
	c.mu.Lock()
	c.seed = seed
	c.mu.Unlock()
}

// SetVerbose enables per-step trigger logging.
func (c *Controller) SetVerbose(v bool) {
	c.mu.Lock()
	c.engine.SetVerbose(v)
	c.mu.Unlock()
}

// Start initializes the engine in generative mode.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeGenerative
	c.engine.Init(c.seed(), c.defaultTempo)
	debug.Log("ctrl", "generative mode on\n%s", c.engine.PatternDump())
}

// SetTempo sets the running tempo in tenths of a BPM. Zero is ignored.
// Re-entering generative mode reverts to the startup default.
func (c *Controller) SetTempo(tenths uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.SetTempo(tenths)
}

// SetButtonRaw sets the raw user-key level (true = pressed). The
// debouncer samples it on the next tick.
func (c *Controller) SetButtonRaw(pressed bool) {
	c.mu.Lock()
	c.rawPressed = pressed
	c.mu.Unlock()
}

// TapButton injects a synthetic short press of the user key.
func (c *Controller) TapButton() {
	c.mu.Lock()
	c.pressFor = DebounceMillis * 3
	c.mu.Unlock()
}

// HoldButton injects a synthetic press held past the long-press
// threshold.
func (c *Controller) HoldButton() {
	c.mu.Lock()
	c.pressFor = LongPressMillis + DebounceMillis*2
	c.mu.Unlock()
}

// Tick advances the controller by one millisecond: samples the button,
// runs the active mode, then sweeps deadlines.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now++

	raw := c.rawPressed
	if c.pressFor > 0 {
		c.pressFor--
		raw = true
	}
	switch c.button.Sample(raw, c.now) {
	case ActionShortPress:
		c.handleShortPress()
	case ActionLongPress:
		c.handleLongPress()
	}

	if c.mode == ModeGenerative {
		c.tickGenerative()
	} else {
		c.tickReactive()
	}

	c.sched.Sweep(c.now,
		func(ch int) { c.setOut(ch, false) },
		func() { c.setIndicator(false) },
	)
}

// Run drives Tick from a real 1 ms ticker until the context ends, and
// pings UpdateChan at display rate. On shutdown every output is forced
// off.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Millisecond)
	uiTicker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()
	defer uiTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.allOff()
			c.mu.Unlock()
			return
		case <-ticker.C:
			c.Tick()
		case <-uiTicker.C:
			select {
			case c.UpdateChan <- struct{}{}:
			default:
			}
		}
	}
}

func (c *Controller) handleShortPress() {
	if c.mode != ModeGenerative {
		return
	}
	debug.Log("key", "short press - randomize")
	c.engine.Randomize()
}

func (c *Controller) handleLongPress() {
	if c.mode == ModeGenerative {
		c.mode = ModeReactive
	} else {
		c.mode = ModeGenerative
	}
	c.allOff()

	if c.mode == ModeGenerative {
		c.engine.Init(c.seed(), c.defaultTempo)
		debug.Log("ctrl", "generative mode\n%s", c.engine.PatternDump())
	} else {
		debug.Log("ctrl", "midi mode")
	}
}

func (c *Controller) tickGenerative() {
	event := c.engine.Tick()
	for i := 0; i < generative.NumChannels; i++ {
		if event.Fired(i) {
			c.pulse(i, int64(event.Duration[i]))
		}
	}

	// Beat indicator: blink on every 8th step.
	if c.engine.Step()&0x07 == 0 {
		c.setIndicator(true)
		c.sched.ArmIndicator(c.now + indicatorBlinkMillis)
	}

	// Silently drain the transport to keep its buffer healthy.
	if c.source != nil {
		c.source.Poll(maxMessagesPerTick)
	}
}

func (c *Controller) tickReactive() {
	if c.source == nil {
		return
	}
	for _, msg := range c.source.Poll(maxMessagesPerTick) {
		c.handleMessage(msg)
	}
}

func (c *Controller) handleMessage(msg RawMessage) {
	// Pulse the indicator on any inbound message.
	c.setIndicator(true)
	c.sched.ArmIndicator(c.now + indicatorPulseMillis)

	msgType := msg.Status & 0xF0
	channel := msg.Status&0x0F + 1

	switch {
	case msgType == 0x90 && msg.Data2 != 0:
		ch := int(msg.Data1) % generative.NumChannels
		duration := int64(1 + int(msg.Data2)*99/127)
		c.pulse(ch, duration)
		debug.Log("midi", "note on  ch=%d note=%d vel=%d dur=%dms", channel, msg.Data1, msg.Data2, duration)

	case msgType == 0x80 || (msgType == 0x90 && msg.Data2 == 0):
		// Release is deadline-driven, never message-driven.
		debug.Log("midi", "note off ch=%d note=%d (ignored)", channel, msg.Data1)

	default:
		debug.Log("midi", "msg      ch=%d status=0x%02X d1=%d d2=%d", channel, msg.Status, msg.Data1, msg.Data2)
	}
}

// pulse energizes a channel and records its off-deadline. A pending
// deadline for the same channel is overwritten: the newest request
// wins.
func (c *Controller) pulse(ch int, durationMillis int64) {
	c.setOut(ch, true)
	c.sched.Arm(ch, c.now+durationMillis)
}

func (c *Controller) setOut(ch int, on bool) {
	c.outState[ch] = on
	c.outputs.Set(ch, on)
}

func (c *Controller) setIndicator(on bool) {
	c.indicator = on
	c.outputs.SetIndicator(on)
}

// allOff forces every output low and drops all pending deadlines.
func (c *Controller) allOff() {
	for i := 0; i < generative.NumChannels; i++ {
		c.setOut(i, false)
	}
	c.setIndicator(false)
	c.sched.ClearAll()
}

// Snapshot is a consistent copy of display state for the TUI.
type Snapshot struct {
	Mode        Mode
	Step        int
	TempoTenths uint32
	Channels    [generative.NumChannels]generative.ChannelState
	Triggers    [generative.NumChannels][generative.PatternSteps]bool
	Outputs     [generative.NumChannels]bool
	Pending     [generative.NumChannels]bool
	Indicator   bool
	ButtonDown  bool
}

// Snapshot captures the current display state under the lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Mode:        c.mode,
		Step:        c.engine.Step(),
		TempoTenths: c.engine.TempoTenths(),
		Outputs:     c.outState,
		Indicator:   c.indicator,
		ButtonDown:  c.button.Pressed(),
	}
	for i := 0; i < generative.NumChannels; i++ {
		s.Channels[i] = c.engine.Channel(i)
		s.Triggers[i] = c.engine.TriggerRow(i)
		s.Pending[i] = c.sched.Pending(i)
	}
	return s
}
