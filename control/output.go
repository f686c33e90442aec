package control

import (
	"sync"

	"solenoid-seq/generative"
)

// Outputs is the hardware abstraction for the solenoid rail: eight
// output channels plus one status indicator. Implementations must be
// cheap; Set is called from the 1 ms tick loop.
type Outputs interface {
	Set(ch int, on bool)
	SetIndicator(on bool)
}

// MemoryOutputs records output levels in memory. Used by tests and as
// the default driver when no MIDI output is configured.
type MemoryOutputs struct {
	mu        sync.Mutex
	channels  [generative.NumChannels]bool
	indicator bool
}

func NewMemoryOutputs() *MemoryOutputs {
	return &MemoryOutputs{}
}

func (m *MemoryOutputs) Set(ch int, on bool) {
	if ch < 0 || ch >= generative.NumChannels {
		return
	}
	m.mu.Lock()
	m.channels[ch] = on
	m.mu.Unlock()
}

func (m *MemoryOutputs) SetIndicator(on bool) {
	m.mu.Lock()
	m.indicator = on
	m.mu.Unlock()
}

// Snapshot returns the current levels.
func (m *MemoryOutputs) Snapshot() (channels [generative.NumChannels]bool, indicator bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels, m.indicator
}

// Tee fans writes out to several drivers (e.g. in-memory state for the
// TUI plus a MIDI note output).
func Tee(outs ...Outputs) Outputs {
	return teeOutputs(outs)
}

type teeOutputs []Outputs

func (t teeOutputs) Set(ch int, on bool) {
	for _, o := range t {
		o.Set(ch, on)
	}
}

func (t teeOutputs) SetIndicator(on bool) {
	for _, o := range t {
		o.SetIndicator(on)
	}
}
