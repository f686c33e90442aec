package control

// Action is the classified result of one press/release cycle of the
// user key. Each cycle yields at most one action.
type Action int

const (
	ActionNone Action = iota
	ActionShortPress
	ActionLongPress
)

// Debounce / long-press timing (ms)
const (
	DebounceMillis  = 50
	LongPressMillis = 1000
)

// Debouncer filters a raw momentary-button level sampled once per tick
// and classifies presses as short or long. A level must hold for the
// debounce window before it is believed; a press that reaches the
// long-press threshold fires once while still held, a shorter press
// fires on release. After either fires, nothing else can fire until the
// next full press/release cycle.
type Debouncer struct {
	lastRaw      bool
	stable       bool
	changeAt     int64 // last raw level change (ms)
	pressStartAt int64 // when the current stable press began (ms)
	handled      bool
}

// Sample feeds one raw reading taken at time now (ms) and returns the
// action, if any, that this reading completes.
func (d *Debouncer) Sample(raw bool, now int64) Action {
	if raw != d.lastRaw {
		d.lastRaw = raw
		d.changeAt = now
	}

	// Within the debounce window the stable state is frozen.
	if now-d.changeAt < DebounceMillis {
		return ActionNone
	}

	prev := d.stable
	d.stable = raw

	// Press confirmed
	if d.stable && !prev {
		d.pressStartAt = now
		d.handled = false
		return ActionNone
	}

	// Held past the long-press threshold
	if d.stable && !d.handled && now-d.pressStartAt >= LongPressMillis {
		d.handled = true
		return ActionLongPress
	}

	// Released before the threshold
	if !d.stable && prev && !d.handled {
		d.handled = true
		return ActionShortPress
	}

	return ActionNone
}

// Pressed reports the debounced level.
func (d *Debouncer) Pressed() bool {
	return d.stable
}
