package hw

import "testing"

func TestTextMapOffset(t *testing.T) {
	tests := []struct {
		col, row, mapW int
		want           uint32
	}{
		{0, 0, 32, 0},
		{1, 0, 32, 2},
		{0, 1, 32, 64},
		{31, 31, 32, (31*32 + 31) * 2},
		{32, 0, 64, 0x800},      // second screen block
		{33, 0, 64, 0x802},
		{0, 32, 64, 0x1000},     // second block row
		{40, 40, 64, 0x1800 + (8*32+8)*2},
		{0, 32, 32, 0x800},      // 32x64 layout
	}
	for _, tt := range tests {
		if got := textMapOffset(tt.col, tt.row, tt.mapW); got != tt.want {
			t.Errorf("textMapOffset(%d, %d, %d) = %#x, want %#x",
				tt.col, tt.row, tt.mapW, got, tt.want)
		}
	}
}

// One 4bpp tile with a single colored pixel, placed at map cell (0, 0).
func textBGScene(p *PPU) {
	p.IoMem.Write16(regBG0CNT, 2|1<<8) // priority 2, screen block 1
	p.setBgPal(1, 0x001F)
	p.set4bppPixel(0, 1, 0, 0, 1)
	p.GbaVram.Write16(0x800, 1) // tile 1, no flip, bank 0
}

func TestTextBGLine(t *testing.T) {
	p := newTestPPU()
	textBGScene(p)

	var line [GBAWidth]uint32
	var pri [GBAWidth]uint8
	p.renderTextBGLine(0, 0, line[:], pri[:])

	wantPixel(t, line[0], Rgb555ToRGBA(0x001F), 0)
	if pri[0] != 2 {
		t.Errorf("pri[0] = %d, want 2", pri[0])
	}
	for x := 1; x < GBAWidth; x++ {
		if line[x] != 0 {
			t.Fatalf("pixel %d = %08X, want transparent", x, line[x])
		}
	}

	// Row 1 of the tile is empty.
	clear(line[:])
	p.renderTextBGLine(0, 1, line[:], pri[:])
	wantPixel(t, line[0], 0, 0)
}

func TestTextBGScroll(t *testing.T) {
	p := newTestPPU()
	textBGScene(p)
	p.IoMem.Write16(regBG0HOFS, 252)
	p.IoMem.Write16(regBG0VOFS, 8)

	var line [GBAWidth]uint32
	var pri [GBAWidth]uint8

	// srcY = y + 8, so line 0 samples map row 8 and misses the marked
	// pixel. With the vertical scroll cleared, the map wraps horizontally:
	// srcX = (x + 252) % 256 = 0 at x = 4.
	p.renderTextBGLine(0, 0, line[:], pri[:])
	for x := range line {
		if line[x] != 0 {
			t.Fatalf("pixel %d = %08X, want transparent (scrolled off)", x, line[x])
		}
	}

	p.IoMem.Write16(regBG0VOFS, 0)
	p.renderTextBGLine(0, 0, line[:], pri[:])
	wantPixel(t, line[4], Rgb555ToRGBA(0x001F), 4)
}

func TestTextBGFlips(t *testing.T) {
	p := newTestPPU()
	p.setBgPal(1, 0x001F)
	p.set4bppPixel(0, 1, 0, 0, 1)

	var line [GBAWidth]uint32
	var pri [GBAWidth]uint8

	p.GbaVram.Write16(0, 1|1<<10) // hflip
	p.renderTextBGLine(0, 0, line[:], pri[:])
	wantPixel(t, line[7], Rgb555ToRGBA(0x001F), 7)
	wantPixel(t, line[0], 0, 0)

	clear(line[:])
	p.GbaVram.Write16(0, 1|1<<11) // vflip
	p.renderTextBGLine(0, 7, line[:], pri[:])
	wantPixel(t, line[0], Rgb555ToRGBA(0x001F), 0)
}

func TestTextBGPaletteBank(t *testing.T) {
	p := newTestPPU()
	p.setBgPal(3*16+1, 0x03E0)
	p.set4bppPixel(0, 1, 0, 0, 1)
	p.GbaVram.Write16(0, 1|3<<12) // palette bank 3

	var line [GBAWidth]uint32
	var pri [GBAWidth]uint8
	p.renderTextBGLine(0, 0, line[:], pri[:])
	wantPixel(t, line[0], Rgb555ToRGBA(0x03E0), 0)
}

func TestTextBG8bpp(t *testing.T) {
	p := newTestPPU()
	p.IoMem.Write16(regBG0CNT, 1<<7) // 8bpp
	p.setBgPal(200, 0x7C00)
	p.set8bppPixel(0, 1, 3, 0, 200)
	p.GbaVram.Write16(0, 1)

	var line [GBAWidth]uint32
	var pri [GBAWidth]uint8
	p.renderTextBGLine(0, 0, line[:], pri[:])
	wantPixel(t, line[3], Rgb555ToRGBA(0x7C00), 3)
}
