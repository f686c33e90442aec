package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"solenoid-seq/control"
	"solenoid-seq/debug"
)

// queueCap bounds the inbound buffer between the driver callback and
// the tick loop. The controller drains at most 32 per tick; anything
// beyond the cap is dropped oldest-first.
const queueCap = 256

// InputManager watches MIDI input ports, auto-connects the configured
// one (or the first available) and queues raw 3-byte channel-voice
// messages for the controller to drain. Hot-plug is handled by polling
// the port list.
type InputManager struct {
	portName string // "" = first available
	pollRate time.Duration

	mu        sync.Mutex
	queue     []control.RawMessage
	connected string
	stopFunc  func()
}

// NewInputManager creates an input manager for the named port ("" for
// any).
func NewInputManager(portName string) *InputManager {
	return &InputManager{
		portName: portName,
		pollRate: time.Second,
	}
}

// Connected returns the connected port name, or "".
func (im *InputManager) Connected() string {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.connected
}

// Poll removes and returns up to max queued messages. Never blocks;
// implements control.MessageSource.
func (im *InputManager) Poll(max int) []control.RawMessage {
	im.mu.Lock()
	defer im.mu.Unlock()

	n := len(im.queue)
	if n == 0 {
		return nil
	}
	if n > max {
		n = max
	}
	out := make([]control.RawMessage, n)
	copy(out, im.queue[:n])
	im.queue = im.queue[:copy(im.queue, im.queue[n:])]
	return out
}

// Run starts the polling loop (blocking - run in goroutine).
func (im *InputManager) Run(ctx context.Context) {
	ticker := time.NewTicker(im.pollRate)
	defer ticker.Stop()

	im.scan()

	for {
		select {
		case <-ctx.Done():
			im.disconnect()
			return
		case <-ticker.C:
			im.scan()
		}
	}
}

func (im *InputManager) scan() {
	ports := gomidi.GetInPorts()

	im.mu.Lock()
	connected := im.connected
	im.mu.Unlock()

	if connected != "" {
		// Still present?
		for _, p := range ports {
			if p.String() == connected {
				return
			}
		}
		debug.Log("midi", "input port %q gone", connected)
		im.disconnect()
	}

	for _, p := range ports {
		if im.matches(p) {
			im.connect(p)
			return
		}
	}
}

func (im *InputManager) matches(p drivers.In) bool {
	if im.portName == "" {
		// Skip virtual through ports: they echo our own output back.
		return !strings.Contains(strings.ToLower(p.String()), "through")
	}
	return p.String() == im.portName
}

func (im *InputManager) connect(p drivers.In) {
	stop, err := gomidi.ListenTo(p, func(msg gomidi.Message, timestampms int32) {
		b := msg.Bytes()
		if len(b) == 0 {
			return
		}
		if len(b) < 3 {
			// Short channel messages still reach the controller's
			// "unrecognized" branch with zeroed data bytes.
			b = append(b, 0, 0)
		}
		im.enqueue(control.RawMessage{Status: b[0], Data1: b[1], Data2: b[2]})
	})
	if err != nil {
		debug.Log("midi", "open input %q: %v", p.String(), err)
		return
	}

	im.mu.Lock()
	im.connected = p.String()
	im.stopFunc = stop
	im.mu.Unlock()
	debug.Log("midi", "input connected: %s", p.String())
}

func (im *InputManager) enqueue(msg control.RawMessage) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if len(im.queue) >= queueCap {
		// Keep the newest; the controller is falling behind.
		im.queue = im.queue[1:]
		debug.LogEvery(100, "midi", "input queue overflow, dropping oldest")
	}
	im.queue = append(im.queue, msg)
}

func (im *InputManager) disconnect() {
	im.mu.Lock()
	stop := im.stopFunc
	im.stopFunc = nil
	im.connected = ""
	im.queue = nil
	im.mu.Unlock()

	if stop != nil {
		stop()
	}
}
