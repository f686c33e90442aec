package generative

// LCG is a 32-bit linear congruential generator with the classic
// Numerical Recipes constants. It is the sole entropy source for an
// engine instance; a second, independent stream inside the pattern
// source is seeded from a draw of this one, never from the raw seed.
type LCG struct {
	state uint32
}

// NewLCG returns a generator starting from seed.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Seed resets the generator state.
func (r *LCG) Seed(seed uint32) {
	r.state = seed
}

// Next advances the generator and returns the new 32-bit state.
func (r *LCG) Next() uint32 {
	r.state = r.state*1664525 + 1013904223
	return r.state
}

// Byte draws once and returns the high byte, which mixes better than
// the low byte for an LCG.
func (r *LCG) Byte() uint8 {
	return uint8(r.Next() >> 24)
}
