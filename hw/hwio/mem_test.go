package hwio

import "testing"

func TestMemAccess(t *testing.T) {
	m := NewMem("test", 16)

	m.Write8(0, 0x12)
	if got := m.Read8(0); got != 0x12 {
		t.Errorf("Read8(0) = %02X, want 0x12", got)
	}

	m.Write16(2, 0xBEEF)
	if got := m.Read16(2); got != 0xBEEF {
		t.Errorf("Read16(2) = %04X, want 0xBEEF", got)
	}
	// Halfwords are little-endian.
	if got := m.Read8(2); got != 0xEF {
		t.Errorf("Read8(2) = %02X, want 0xEF", got)
	}
	if got := m.Read8(3); got != 0xBE {
		t.Errorf("Read8(3) = %02X, want 0xBE", got)
	}

	m.Write32(4, 0xCAFEBABE)
	if got := m.Read32(4); got != 0xCAFEBABE {
		t.Errorf("Read32(4) = %08X, want 0xCAFEBABE", got)
	}
	if got := m.Read16(4); got != 0xBABE {
		t.Errorf("Read16(4) = %04X, want 0xBABE", got)
	}
}

func TestMemOutOfRange(t *testing.T) {
	m := NewMem("test", 16)
	for i := range m.Data {
		m.Data[i] = 0xFF
	}

	// Reads falling even partially outside decode to 0 as a whole.
	if got := m.Read8(16); got != 0 {
		t.Errorf("Read8(16) = %02X, want 0", got)
	}
	if got := m.Read16(15); got != 0 {
		t.Errorf("Read16(15) = %04X, want 0", got)
	}
	if got := m.Read32(13); got != 0 {
		t.Errorf("Read32(13) = %08X, want 0", got)
	}
	if got := m.Read32(0xFFFFFFFF); got != 0 {
		t.Errorf("Read32(0xFFFFFFFF) = %08X, want 0", got)
	}

	// Out-of-range writes are dropped without touching the region.
	m.Write16(15, 0x1234)
	m.Write32(0xFFFFFFFE, 0x1234)
	for i, b := range m.Data {
		if b != 0xFF {
			t.Fatalf("Data[%d] = %02X, want 0xFF", i, b)
		}
	}
}

func TestMemReadOnly(t *testing.T) {
	m := NewMem("test", 8)
	m.Flags = MemFlagReadOnly | MemFlagNoROLog

	m.Write8(0, 0x12)
	if got := m.Read8(0); got != 0 {
		t.Errorf("Read8(0) = %02X, want 0 (write to readonly)", got)
	}
}

func TestMemBytes(t *testing.T) {
	m := NewMem("test", 8)
	m.Write32(0, 0x04030201)

	b := m.Bytes(1, 2)
	if len(b) != 2 || b[0] != 0x02 || b[1] != 0x03 {
		t.Errorf("Bytes(1, 2) = %v, want [2 3]", b)
	}
	if got := m.Bytes(6, 4); got != nil {
		t.Errorf("Bytes(6, 4) = %v, want nil", got)
	}
	if got := m.Bytes(0, -1); got != nil {
		t.Errorf("Bytes(0, -1) = %v, want nil", got)
	}
}
