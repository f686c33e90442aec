package generative

// VelocityMask is a 32-step binary velocity pattern. Each trigger reads
// the bit under the cursor (1 = emphasized hit) and advances it; steps
// that do not trigger leave the cursor alone, so the velocity pattern is
// sampled per-trigger, not per-step.
type VelocityMask struct {
	Bits   uint32
	Cursor uint8 // 0..31, wraps
}

// High reports whether the bit under the cursor selects an emphasized hit.
func (v *VelocityMask) High() bool {
	return (v.Bits>>v.Cursor)&1 == 1
}

// Advance moves the cursor one step, wrapping at 32.
func (v *VelocityMask) Advance() {
	v.Cursor = (v.Cursor + 1) % PatternSteps
}

// At reports the bit at an arbitrary step (for display).
func (v *VelocityMask) At(step int) bool {
	return (v.Bits>>uint(step&31))&1 == 1
}

// Set writes the bit at a step.
func (v *VelocityMask) Set(step int, high bool) {
	bit := uint32(1) << uint(step&31)
	if high {
		v.Bits |= bit
	} else {
		v.Bits &^= bit
	}
}
