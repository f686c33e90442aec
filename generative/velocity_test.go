package generative

import "testing"

func TestVelocityCursorWraps(t *testing.T) {
	v := VelocityMask{Bits: 0xA5A5A5A5}
	for i := 0; i < PatternSteps; i++ {
		if int(v.Cursor) != i {
			t.Fatalf("cursor = %d, want %d", v.Cursor, i)
		}
		v.Advance()
	}
	if v.Cursor != 0 {
		t.Fatalf("cursor after 32 advances = %d, want 0", v.Cursor)
	}
}

func TestVelocityHighReadsCursorBit(t *testing.T) {
	v := VelocityMask{Bits: 0b10}
	if v.High() {
		t.Fatal("bit 0 is clear but High() = true")
	}
	v.Advance()
	if !v.High() {
		t.Fatal("bit 1 is set but High() = false")
	}
}

func TestVelocitySetAt(t *testing.T) {
	var v VelocityMask
	v.Set(5, true)
	v.Set(31, true)
	if !v.At(5) || !v.At(31) || v.At(6) {
		t.Fatalf("unexpected mask %032b", v.Bits)
	}
	v.Set(5, false)
	if v.At(5) {
		t.Fatal("bit 5 still set after clear")
	}
}
