package hw

import "testing"

const (
	dmgIdentityPal = 0b11_10_01_00
	dmgLcdcBGFrame = 1<<lcdcEnable | 1<<lcdcBGOn | 1<<lcdcTileData
)

// dmgScene maps tile 1 at BG map cell (0, 0) with its top-left pixel at
// color 3, unsigned tile indexing.
func dmgScene(p *PPU) {
	p.Mode = ModeDMG
	p.Vram.Write8(dmgRegsOff+0, dmgLcdcBGFrame)
	p.Vram.Write8(dmgRegsOff+3, dmgIdentityPal)

	// Tile 1, row 0: leftmost pixel color 3.
	p.Vram.Write8(0x10, 0x80)
	p.Vram.Write8(0x11, 0x80)
	// BG map at 0x9800 - 0x8000 = 0x1800.
	p.Vram.Write8(0x1800, 1)
}

func TestDMGLcdOff(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)
	p.Vram.Write8(dmgRegsOff+0, 0)
	// Remap shade 0 to the darkest color.
	p.Vram.Write8(dmgRegsOff+3, 0b00_00_00_11)

	p.RenderFrame()
	for i, px := range p.fb[:DMGWidth*DMGHeight] {
		if px != dmgShades[3] {
			t.Fatalf("pixel %d = %08X, want darkest shade", i, px)
		}
	}
}

func TestDMGBackground(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)

	p.RenderFrame()
	if got := p.fb[0]; got != dmgShades[3] {
		t.Errorf("pixel (0,0) = %08X, want shade 3", got)
	}
	if got := p.fb[1]; got != dmgShades[0] {
		t.Errorf("pixel (1,0) = %08X, want shade 0", got)
	}
}

func TestDMGScroll(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)
	p.Vram.Write8(dmgRegsOff+2, 252) // scx

	p.RenderFrame()
	// The plane wraps at 256: column 0 samples plane x = 252, which is
	// empty, and the marked pixel at plane x = 0 shows at x = 4.
	if got := p.fb[0]; got != dmgShades[0] {
		t.Errorf("pixel (0,0) = %08X, want shade 0", got)
	}
	if got := p.fb[4]; got != dmgShades[3] {
		t.Errorf("pixel (4,0) = %08X, want shade 3", got)
	}
}

func TestDMGSignedTileIndex(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)
	p.Vram.Write8(dmgRegsOff+0, 1<<lcdcEnable|1<<lcdcBGOn)

	// Tile -2 lives at 0x9000 - 32 = 0x8FE0.
	p.Vram.Write8(0x1800, 0xFE)
	p.Vram.Write8(0xFE0, 0x80)
	p.Vram.Write8(0xFE1, 0x80)

	p.RenderFrame()
	if got := p.fb[0]; got != dmgShades[3] {
		t.Errorf("pixel (0,0) = %08X, want shade 3", got)
	}
}

func TestDMGWindow(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)
	p.Vram.Write8(dmgRegsOff+0, dmgLcdcBGFrame|1<<lcdcWinOn|1<<lcdcWinMap)
	// Window at (wx=7 -> x=0, wy=0), map at 0x9C00 showing tile 2.
	p.Vram.Write8(dmgRegsOff+6, 0)
	p.Vram.Write8(dmgRegsOff+7, 7)
	p.Vram.Write8(0x1C00, 2)
	// Tile 2, row 0: leftmost pixel color 1.
	p.Vram.Write8(0x20, 0x80)

	p.RenderFrame()
	if got := p.fb[0]; got != dmgShades[1] {
		t.Errorf("pixel (0,0) = %08X, want shade 1 from window", got)
	}
}

func TestDMGSprite(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)
	p.Vram.Write8(dmgRegsOff+0, dmgLcdcBGFrame|1<<lcdcObjOn)
	p.Vram.Write8(dmgRegsOff+4, dmgIdentityPal) // obp0

	// Sprite at screen (0, 0), tile 3 with color 2 at its top-left.
	p.Vram.Write8(dmgOamOff+0, 16)
	p.Vram.Write8(dmgOamOff+1, 8)
	p.Vram.Write8(dmgOamOff+2, 3)
	p.Vram.Write8(dmgOamOff+3, 0)
	p.Vram.Write8(0x31, 0x80)

	p.RenderFrame()
	if got := p.fb[0]; got != dmgShades[2] {
		t.Errorf("pixel (0,0) = %08X, want sprite shade 2", got)
	}
}

func TestDMGSpriteBehindBG(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)
	p.Vram.Write8(dmgRegsOff+0, dmgLcdcBGFrame|1<<lcdcObjOn)
	p.Vram.Write8(dmgRegsOff+4, dmgIdentityPal)

	p.Vram.Write8(dmgOamOff+0, 16)
	p.Vram.Write8(dmgOamOff+1, 8)
	p.Vram.Write8(dmgOamOff+2, 3)
	p.Vram.Write8(dmgOamOff+3, 1<<dmgAttrBGOver)
	p.Vram.Write8(0x31, 0x80)

	p.RenderFrame()
	// BG color 3 covers the sprite; over BG color 0 the sprite shows.
	if got := p.fb[0]; got != dmgShades[3] {
		t.Errorf("pixel (0,0) = %08X, want BG shade 3", got)
	}

	p.Vram.Write8(0x10, 0) // clear the BG pixel
	p.Vram.Write8(0x11, 0)
	p.RenderFrame()
	if got := p.fb[0]; got != dmgShades[2] {
		t.Errorf("pixel (0,0) = %08X, want sprite shade 2", got)
	}
}

func TestDMGSpriteXOrder(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)
	p.Vram.Write8(dmgRegsOff+0, 1<<lcdcEnable|1<<lcdcObjOn)
	p.Vram.Write8(dmgRegsOff+4, dmgIdentityPal)

	// Sprite 1 sits one pixel left of sprite 0: it wins their overlap.
	p.Vram.Write8(dmgOamOff+0, 16)
	p.Vram.Write8(dmgOamOff+1, 9)
	p.Vram.Write8(dmgOamOff+2, 3)
	p.Vram.Write8(dmgOamOff+4, 16)
	p.Vram.Write8(dmgOamOff+5, 8)
	p.Vram.Write8(dmgOamOff+6, 4)

	// Tile 3 row 0 all color 2, tile 4 row 0 all color 1.
	p.Vram.Write8(0x31, 0xFF)
	p.Vram.Write8(0x40, 0xFF)

	p.RenderFrame()
	if got := p.fb[1]; got != dmgShades[1] {
		t.Errorf("pixel (1,0) = %08X, want leftmost sprite's shade", got)
	}
}

func TestDMGTallSprites(t *testing.T) {
	p := newTestPPU()
	dmgScene(p)
	p.Vram.Write8(dmgRegsOff+0, 1<<lcdcEnable|1<<lcdcObjOn|1<<lcdcObjSize)
	p.Vram.Write8(dmgRegsOff+4, dmgIdentityPal)

	// 8x16 sprite: the odd tile of the pair renders rows 8-15, and the
	// stored tile index has its low bit ignored.
	p.Vram.Write8(dmgOamOff+0, 16)
	p.Vram.Write8(dmgOamOff+1, 8)
	p.Vram.Write8(dmgOamOff+2, 5)
	p.Vram.Write8(0x51, 0x80) // tile 5, row 0 -> shown at line 8

	p.RenderFrame()
	if got := p.fb[8*DMGWidth]; got != dmgShades[2] {
		t.Errorf("pixel (0,8) = %08X, want shade 2 from the odd tile", got)
	}
	if got := p.fb[0]; got != dmgShades[0] {
		t.Errorf("pixel (0,0) = %08X, want shade 0 (even tile empty)", got)
	}
}
