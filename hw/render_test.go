package hw

import "testing"

// Test scenes are built through the same region accessors the host uses.

func newTestPPU() *PPU {
	p := NewPPU()
	p.Mode = ModeText
	return p
}

// setBgPal writes one RGB555 entry into the BG palette.
func (p *PPU) setBgPal(idx int, c uint16) {
	p.BgPltt.Write16(uint32(idx)*2, c)
}

// setObjPal writes one RGB555 entry into the OBJ palette.
func (p *PPU) setObjPal(idx int, c uint16) {
	p.ObjPltt.Write16(uint32(idx)*2, c)
}

// set4bppPixel sets one pixel of a 4bpp tile in the BG character window.
func (p *PPU) set4bppPixel(charBase, tile uint32, x, y uint32, color uint8) {
	addr := charBase + tile*tileBytes4bpp + y*4 + x/2
	b := p.GbaVram.Read8(addr)
	if x&1 == 0 {
		b = b&0xF0 | color&0x0F
	} else {
		b = b&0x0F | color<<4
	}
	p.GbaVram.Data[addr] = b
}

// set8bppPixel sets one pixel of an 8bpp tile in the BG character window.
func (p *PPU) set8bppPixel(charBase, tile uint32, x, y uint32, color uint8) {
	p.GbaVram.Data[charBase+tile*tileBytes8bpp+y*8+x] = color
}

// setObj4bppPixel sets one pixel of a 4bpp tile in the OBJ window.
func (p *PPU) setObj4bppPixel(tile uint32, x, y uint32, color uint8) {
	addr := uint32(objTileBase) + tile*32 + y*4 + x/2
	b := p.GbaVram.Read8(addr)
	if x&1 == 0 {
		b = b&0xF0 | color&0x0F
	} else {
		b = b&0x0F | color<<4
	}
	p.GbaVram.Data[addr] = b
}

// setOam writes the three attribute halfwords of sprite i.
func (p *PPU) setOam(i int, attr0, attr1, attr2 uint16) {
	base := uint32(i) * 8
	p.OamMem.Write16(base+0, attr0)
	p.OamMem.Write16(base+2, attr1)
	p.OamMem.Write16(base+4, attr2)
}

func wantPixel(t *testing.T, got, want uint32, x int) {
	t.Helper()
	if got != want {
		t.Errorf("pixel %d = %08X, want %08X", x, got, want)
	}
}
