package hw

import "testing"

func TestRgb555ToRGBA(t *testing.T) {
	tests := []struct {
		c    uint16
		want uint32
	}{
		{0x0000, 0xFF000000},
		{0x001F, 0xFF0000F8}, // pure red
		{0x03E0, 0xFF00F800}, // pure green
		{0x7C00, 0xFFF80000}, // pure blue
		{0x7FFF, 0xFFF8F8F8},
	}
	for _, tt := range tests {
		if got := Rgb555ToRGBA(tt.c); got != tt.want {
			t.Errorf("Rgb555ToRGBA(%04X) = %08X, want %08X", tt.c, got, tt.want)
		}
	}
}

// Every decoded color is opaque, each channel carries its source 5 bits
// in the high bits of its byte, and distinct inputs stay distinct.
func TestRgb555Sweep(t *testing.T) {
	seen := make(map[uint32]uint16, 1<<15)
	for c := uint32(0); c < 1<<15; c++ {
		got := Rgb555ToRGBA(uint16(c))
		if got>>24 != 0xFF {
			t.Fatalf("Rgb555ToRGBA(%04X) = %08X, not opaque", c, got)
		}
		r := got & 0xFF
		g := got >> 8 & 0xFF
		b := got >> 16 & 0xFF
		if r != (c&0x1F)<<3 || g != (c>>5&0x1F)<<3 || b != (c>>10&0x1F)<<3 {
			t.Fatalf("Rgb555ToRGBA(%04X) = %08X, wrong channel mapping", c, got)
		}
		if prev, dup := seen[got]; dup {
			t.Fatalf("Rgb555ToRGBA maps %04X and %04X to %08X", prev, c, got)
		}
		seen[got] = uint16(c)
	}
}

func TestRgb888ToRGBA(t *testing.T) {
	if got := Rgb888ToRGBA(0x12, 0x34, 0x56); got != 0xFF563412 {
		t.Errorf("Rgb888ToRGBA = %08X, want FF563412", got)
	}
}

func TestDmgPaletteColor(t *testing.T) {
	// Identity remap: slot i holds shade i.
	const identity = 0b11_10_01_00
	for i := uint8(0); i < 4; i++ {
		if got := dmgPaletteColor(identity, i); got != dmgShades[i] {
			t.Errorf("dmgPaletteColor(identity, %d) = %08X, want %08X", i, got, dmgShades[i])
		}
	}

	// Inverted remap.
	const inverted = 0b00_01_10_11
	for i := uint8(0); i < 4; i++ {
		if got := dmgPaletteColor(inverted, i); got != dmgShades[3-i] {
			t.Errorf("dmgPaletteColor(inverted, %d) = %08X, want %08X", i, got, dmgShades[3-i])
		}
	}
}
