package hwio

import "testing"

func TestBitFields(t *testing.T) {
	if got := Bits8(0b1011_0110, 2, 3); got != 0b101 {
		t.Errorf("Bits8 = %03b, want 101", got)
	}
	if got := Bits16(0xABCD, 4, 8); got != 0xBC {
		t.Errorf("Bits16 = %02X, want BC", got)
	}
	if got := Bits32(0xDEADBEEF, 8, 16); got != 0xADBE {
		t.Errorf("Bits32 = %04X, want ADBE", got)
	}

	if !GetBit16(1<<15, 15) {
		t.Errorf("GetBit16(1<<15, 15) = false")
	}
	if GetBit16(1<<15, 14) {
		t.Errorf("GetBit16(1<<15, 14) = true")
	}
	if got := GetBiti8(0b100, 2); got != 1 {
		t.Errorf("GetBiti8 = %d, want 1", got)
	}
}

func TestBitSetClear(t *testing.T) {
	var v8 uint8
	SetBit8(&v8, 3)
	if v8 != 0b1000 {
		t.Errorf("SetBit8: v = %08b", v8)
	}
	ClearBit8(&v8, 3)
	if v8 != 0 {
		t.Errorf("ClearBit8: v = %08b", v8)
	}

	var v16 uint16
	SetBit16(&v16, 12)
	SetBit16(&v16, 0)
	if v16 != 0x1001 {
		t.Errorf("SetBit16: v = %04X", v16)
	}
	ClearBit16(&v16, 12)
	if v16 != 0x0001 {
		t.Errorf("ClearBit16: v = %04X", v16)
	}
}
