package hw

import "vppu/hw/hwio"

// Wide-mode VRAM layout. A single little-endian record at the start of
// the 4 MiB region; every offset below is authoritative.
//
//	0x000000  global registers (48 bytes, see wideRegs)
//	0x000040  4 x 40-byte BG control records
//	0x000100  4 x 12000 32-bit tilemap entries, row-major per BG
//	0x030000  2 MiB tile bytes, unit = one 8x8 tile
//	0x230000  6 palette banks x 256 RGB888 entries
//	0x231200  64 sprite-affine matrices, 4 x int16 each
//	0x231400  512 x 16-byte sprite records
//	0x233400  per-BG per-line scroll, 4 x 360 x {int16 x, int16 y}
//	0x234A80  per-BG per-line affine, 4 x 360 x {int32 tx, int32 ty}
const (
	WideHeight = FrameHeight

	wideBGCount        = 4
	wideOamCount       = 512
	wideObjAffineCount = 64
	wideTilemapEntries = 12000

	wideRegsOff       = 0x000000
	wideBGOff         = 0x000040
	wideBGSize        = 40
	wideTilemapOff    = 0x000100
	wideGfxOff        = 0x030000
	wideGfxSize       = 2 << 20
	widePaletteOff    = 0x230000
	widePaletteBanks  = 6
	wideObjAffineOff  = 0x231200
	wideOamOff        = 0x231400
	wideOamSize       = 16
	wideLineScrollOff = 0x233400
	wideLineAffineOff = 0x234A80
)

// Global register block, at wideRegsOff:
//
//	+0   backdrop R, G, B (one byte each), +3 pad
//	+4   master enable, layer mask bits 0..4, bit 15 = forced blank
//	+6   WIN0: x1, x2, y1, y2 (uint16), layer mask, flags (bit 0 = on)
//	+18  WIN1, same shape
//	+30  outside layer mask
//	+32  OBJ window: bit 0 = on, bits 8..13 = layer mask
//	+34  color math: mode, eva, evb, half (bytes), targetA, targetB
//	     (uint16), fade-to-white, fade-to-black, fade factor, pad (bytes)
const (
	wideRegBackdrop = wideRegsOff + 0
	wideRegMaster   = wideRegsOff + 4
	wideRegWin0     = wideRegsOff + 6
	wideRegWin1     = wideRegsOff + 18
	wideRegOutside  = wideRegsOff + 30
	wideRegObjWin   = wideRegsOff + 32
	wideRegMath     = wideRegsOff + 34

	wideMasterBlank = 15
)

// WideBGFlag bits in the BG control record flags field.
const (
	WideBGEnabled uint16 = 1 << iota
	WideBGBpp8
	WideBGWrapX
	WideBGWrapY
	WideBGAffine
	WideBGMosaic
)

// WideObjFlag bits in the sprite record flags field.
const (
	WideObjEnabled uint16 = 1 << iota
	WideObjBpp8
	WideObjHFlip
	WideObjVFlip
	WideObjMosaic
	WideObjAffine
	WideObjDouble
	WideObjSemi
	WideObjWindow
)

// Color math modes.
const (
	WideMathOff uint8 = iota
	WideMathAdd
	WideMathSub
	WideMathAvg
	WideMathEvaEvb
)

// MakeWideTileEntry packs one 32-bit tilemap entry: tile index in bits
// 0..15, palette in 16..23, priority in 24..26, then hflip, vflip and
// mosaic flags.
func MakeWideTileEntry(tile uint16, palette uint8, priority uint8, hflip, vflip, mosaic bool) uint32 {
	e := uint32(tile) | uint32(palette)<<16 | uint32(priority&7)<<24
	if hflip {
		e |= 1 << 27
	}
	if vflip {
		e |= 1 << 28
	}
	if mosaic {
		e |= 1 << 29
	}
	return e
}

type wideTile struct {
	tile     uint32
	palette  uint8
	priority uint8
	hflip    bool
	vflip    bool
	mosaic   bool
}

func decodeWideTile(e uint32) wideTile {
	return wideTile{
		tile:     e & 0xFFFF,
		palette:  uint8(e >> 16),
		priority: uint8(e >> 24 & 7),
		hflip:    e&(1<<27) != 0,
		vflip:    e&(1<<28) != 0,
		mosaic:   e&(1<<29) != 0,
	}
}

type wideWindow struct {
	x1, x2, y1, y2 int
	mask           uint16
	enabled        bool
}

func (w wideWindow) contains(x, y int) bool {
	return x >= w.x1 && x < w.x2 && y >= w.y1 && y < w.y2
}

func (w wideWindow) empty(screenW, screenH int) bool {
	return w.x1 >= w.x2 || w.y1 >= w.y2 || w.x1 >= screenW || w.y1 >= screenH
}

type wideColorMath struct {
	mode             uint8
	eva, evb         uint32
	half             bool
	targetA, targetB uint16
	fadeWhite        bool
	fadeBlack        bool
	fade             uint32
}

type wideRegs struct {
	backdrop   uint32
	master     uint16
	win0, win1 wideWindow
	outside    uint16
	objWinOn   bool
	objWinMask uint16
	math       wideColorMath
}

func (p *PPU) wideWindowAt(off uint32) wideWindow {
	return wideWindow{
		x1:      int(p.Vram.Read16(off + 0)),
		x2:      int(p.Vram.Read16(off + 2)),
		y1:      int(p.Vram.Read16(off + 4)),
		y2:      int(p.Vram.Read16(off + 6)),
		mask:    p.Vram.Read16(off + 8),
		enabled: p.Vram.Read16(off+10)&1 != 0,
	}
}

func clampFade(v uint8) uint32 {
	return uint32(min(v, 16))
}

func (p *PPU) wideRegs() wideRegs {
	objWin := p.Vram.Read16(wideRegObjWin)
	return wideRegs{
		backdrop: Rgb888ToRGBA(
			p.Vram.Read8(wideRegBackdrop+0),
			p.Vram.Read8(wideRegBackdrop+1),
			p.Vram.Read8(wideRegBackdrop+2),
		),
		master:     p.Vram.Read16(wideRegMaster),
		win0:       p.wideWindowAt(wideRegWin0),
		win1:       p.wideWindowAt(wideRegWin1),
		outside:    p.Vram.Read16(wideRegOutside),
		objWinOn:   objWin&1 != 0,
		objWinMask: hwio.Bits16(objWin, 8, 6),
		math: wideColorMath{
			mode:      p.Vram.Read8(wideRegMath + 0),
			eva:       clampFade(p.Vram.Read8(wideRegMath + 1)),
			evb:       clampFade(p.Vram.Read8(wideRegMath + 2)),
			half:      p.Vram.Read8(wideRegMath+3) != 0,
			targetA:   p.Vram.Read16(wideRegMath + 4),
			targetB:   p.Vram.Read16(wideRegMath + 6),
			fadeWhite: p.Vram.Read8(wideRegMath+8) != 0,
			fadeBlack: p.Vram.Read8(wideRegMath+9) != 0,
			fade:      clampFade(p.Vram.Read8(wideRegMath + 10)),
		},
	}
}

// BG control record, 40 bytes:
//
//	+0   base tile index (uint16, unit = tile)
//	+2   palette bank selector (uint16)
//	+4   scroll x, +6 scroll y (int16)
//	+8   flags (WideBG*)
//	+10  layer priority, +11 mosaic x, +12 mosaic y, +13 pad
//	+14  affine a, b, c, d (int16, 8.8)
//	+22  affine tx, +26 ty (int32, 24.8)
//	+30  map width, +32 map height (uint16, tiles)
//	+34  pad to 40
type wideBG struct {
	tileBase           uint32
	palBank            uint32
	scrollX, scrollY   int
	flags              uint16
	layerPri           uint8
	mosaicX, mosaicY   int
	pa, pb, pc, pd     Fix8
	tx, ty             Fix8
	mapW, mapH         int
}

func (bg wideBG) enabled() bool { return bg.flags&WideBGEnabled != 0 }
func (bg wideBG) bpp8() bool    { return bg.flags&WideBGBpp8 != 0 }
func (bg wideBG) wrapX() bool   { return bg.flags&WideBGWrapX != 0 }
func (bg wideBG) wrapY() bool   { return bg.flags&WideBGWrapY != 0 }
func (bg wideBG) affine() bool  { return bg.flags&WideBGAffine != 0 }
func (bg wideBG) mosaicOn() bool {
	return bg.flags&WideBGMosaic != 0
}

func (p *PPU) wideBG(i int) wideBG {
	off := uint32(wideBGOff + i*wideBGSize)
	return wideBG{
		tileBase: uint32(p.Vram.Read16(off + 0)),
		palBank:  uint32(p.Vram.Read16(off+2)) % widePaletteBanks,
		scrollX:  int(int16(p.Vram.Read16(off + 4))),
		scrollY:  int(int16(p.Vram.Read16(off + 6))),
		flags:    p.Vram.Read16(off + 8),
		layerPri: p.Vram.Read8(off+10) & 7,
		mosaicX:  int(p.Vram.Read8(off + 11)),
		mosaicY:  int(p.Vram.Read8(off + 12)),
		pa:       Fix8FromU16(p.Vram.Read16(off + 14)),
		pb:       Fix8FromU16(p.Vram.Read16(off + 16)),
		pc:       Fix8FromU16(p.Vram.Read16(off + 18)),
		pd:       Fix8FromU16(p.Vram.Read16(off + 20)),
		tx:       Fix8(int32(p.Vram.Read32(off + 22))),
		ty:       Fix8(int32(p.Vram.Read32(off + 26))),
		mapW:     int(p.Vram.Read16(off + 30)),
		mapH:     int(p.Vram.Read16(off + 32)),
	}
}

// wideTileEntry fetches tilemap entry (col, row) of BG bg. Cells past the
// map or past the per-BG capacity read as 0.
func (p *PPU) wideTileEntry(bg wideBG, bgIdx, col, row int) uint32 {
	if col < 0 || col >= bg.mapW || row < 0 || row >= bg.mapH {
		return 0
	}
	idx := row*bg.mapW + col
	if idx >= wideTilemapEntries {
		return 0
	}
	return p.Vram.Read32(uint32(wideTilemapOff + (bgIdx*wideTilemapEntries+idx)*4))
}

// widePaletteColor converts entry idx of a palette bank. Entries are
// three bytes, R then G then B.
func (p *PPU) widePaletteColor(bank, idx uint32) uint32 {
	off := widePaletteOff + (bank*256+idx)*3
	return Rgb888ToRGBA(
		p.Vram.Read8(off+0),
		p.Vram.Read8(off+1),
		p.Vram.Read8(off+2),
	)
}

// Sprite record, 16 bytes:
//
//	+0   y, +2 x (int16, signed screen position)
//	+4   height in tiles, +5 width in tiles (uint8)
//	+6   palette selector (uint16)
//	+8   base tile index (uint16)
//	+10  priority (0..7), +11 affine matrix index
//	+12  flags (WideObj*)
//	+14  mosaic x, +15 mosaic y (uint8)
type wideOAM struct {
	y, x             int
	w, h             int
	palette          uint32
	tileBase         uint32
	priority         uint8
	affineIdx        int
	flags            uint16
	mosaicX, mosaicY int
}

func (oa wideOAM) enabled() bool { return oa.flags&WideObjEnabled != 0 }
func (oa wideOAM) bpp8() bool    { return oa.flags&WideObjBpp8 != 0 }
func (oa wideOAM) hflip() bool   { return oa.flags&WideObjHFlip != 0 }
func (oa wideOAM) vflip() bool   { return oa.flags&WideObjVFlip != 0 }
func (oa wideOAM) affine() bool  { return oa.flags&WideObjAffine != 0 }
func (oa wideOAM) double() bool  { return oa.affine() && oa.flags&WideObjDouble != 0 }
func (oa wideOAM) semi() bool    { return oa.flags&WideObjSemi != 0 }
func (oa wideOAM) objWin() bool  { return oa.flags&WideObjWindow != 0 }
func (oa wideOAM) mosaicOn() bool {
	return oa.flags&WideObjMosaic != 0
}

func (p *PPU) wideOAM(i int) wideOAM {
	off := uint32(wideOamOff + i*wideOamSize)
	return wideOAM{
		y:         int(int16(p.Vram.Read16(off + 0))),
		x:         int(int16(p.Vram.Read16(off + 2))),
		h:         int(p.Vram.Read8(off+4)) * 8,
		w:         int(p.Vram.Read8(off+5)) * 8,
		palette:   uint32(p.Vram.Read16(off + 6)),
		tileBase:  uint32(p.Vram.Read16(off + 8)),
		priority:  p.Vram.Read8(off+10) & 7,
		affineIdx: int(p.Vram.Read8(off+11)) % wideObjAffineCount,
		flags:     p.Vram.Read16(off + 12),
		mosaicX:   int(p.Vram.Read8(off + 14)),
		mosaicY:   int(p.Vram.Read8(off + 15)),
	}
}

func (p *PPU) wideObjAffine(i int) (pa, pb, pc, pd Fix8) {
	off := uint32(wideObjAffineOff + i*8)
	pa = Fix8FromU16(p.Vram.Read16(off + 0))
	pb = Fix8FromU16(p.Vram.Read16(off + 2))
	pc = Fix8FromU16(p.Vram.Read16(off + 4))
	pd = Fix8FromU16(p.Vram.Read16(off + 6))
	return pa, pb, pc, pd
}

func (p *PPU) wideLineScroll(bg, line int) (sx, sy int) {
	off := uint32(wideLineScrollOff + (bg*WideHeight+line)*4)
	return int(int16(p.Vram.Read16(off))), int(int16(p.Vram.Read16(off + 2)))
}

// wideLineAffine returns the tx/ty override for (bg, line), or ok=false
// when the table entry is zero.
func (p *PPU) wideLineAffine(bg, line int) (tx, ty Fix8, ok bool) {
	off := uint32(wideLineAffineOff + (bg*WideHeight+line)*8)
	tx = Fix8(int32(p.Vram.Read32(off)))
	ty = Fix8(int32(p.Vram.Read32(off + 4)))
	return tx, ty, tx != 0 || ty != 0
}

// Scene accessors. Hosts and tests build wide-mode scenes through these
// instead of hand-computing record offsets.

// WideBGConfig mirrors one BG control record.
type WideBGConfig struct {
	TileBase         uint16
	PaletteBank      uint16
	ScrollX, ScrollY int16
	Flags            uint16
	LayerPriority    uint8
	MosaicX, MosaicY uint8
	PA, PB, PC, PD   int16
	TX, TY           int32
	MapW, MapH       uint16
}

func (p *PPU) SetWideBG(i int, c WideBGConfig) {
	if i < 0 || i >= wideBGCount {
		return
	}
	off := uint32(wideBGOff + i*wideBGSize)
	p.Vram.Write16(off+0, c.TileBase)
	p.Vram.Write16(off+2, c.PaletteBank)
	p.Vram.Write16(off+4, uint16(c.ScrollX))
	p.Vram.Write16(off+6, uint16(c.ScrollY))
	p.Vram.Write16(off+8, c.Flags)
	p.Vram.Write8(off+10, c.LayerPriority)
	p.Vram.Write8(off+11, c.MosaicX)
	p.Vram.Write8(off+12, c.MosaicY)
	p.Vram.Write16(off+14, uint16(c.PA))
	p.Vram.Write16(off+16, uint16(c.PB))
	p.Vram.Write16(off+18, uint16(c.PC))
	p.Vram.Write16(off+20, uint16(c.PD))
	p.Vram.Write32(off+22, uint32(c.TX))
	p.Vram.Write32(off+26, uint32(c.TY))
	p.Vram.Write16(off+30, c.MapW)
	p.Vram.Write16(off+32, c.MapH)
}

func (p *PPU) SetWideTileEntry(bg, idx int, entry uint32) {
	if bg < 0 || bg >= wideBGCount || idx < 0 || idx >= wideTilemapEntries {
		return
	}
	p.Vram.Write32(uint32(wideTilemapOff+(bg*wideTilemapEntries+idx)*4), entry)
}

// WideOAMConfig mirrors one sprite record.
type WideOAMConfig struct {
	Y, X                     int16
	HeightTiles, WidthTiles  uint8
	Palette                  uint16
	TileBase                 uint16
	Priority, AffineIndex    uint8
	Flags                    uint16
	MosaicX, MosaicY         uint8
}

func (p *PPU) SetWideOAM(i int, c WideOAMConfig) {
	if i < 0 || i >= wideOamCount {
		return
	}
	off := uint32(wideOamOff + i*wideOamSize)
	p.Vram.Write16(off+0, uint16(c.Y))
	p.Vram.Write16(off+2, uint16(c.X))
	p.Vram.Write8(off+4, c.HeightTiles)
	p.Vram.Write8(off+5, c.WidthTiles)
	p.Vram.Write16(off+6, c.Palette)
	p.Vram.Write16(off+8, c.TileBase)
	p.Vram.Write8(off+10, c.Priority)
	p.Vram.Write8(off+11, c.AffineIndex)
	p.Vram.Write16(off+12, c.Flags)
	p.Vram.Write8(off+14, c.MosaicX)
	p.Vram.Write8(off+15, c.MosaicY)
}

func (p *PPU) SetWideObjAffine(i int, pa, pb, pc, pd int16) {
	if i < 0 || i >= wideObjAffineCount {
		return
	}
	off := uint32(wideObjAffineOff + i*8)
	p.Vram.Write16(off+0, uint16(pa))
	p.Vram.Write16(off+2, uint16(pb))
	p.Vram.Write16(off+4, uint16(pc))
	p.Vram.Write16(off+6, uint16(pd))
}

func (p *PPU) SetWidePaletteColor(bank, idx int, r, g, b uint8) {
	if bank < 0 || bank >= widePaletteBanks || idx < 0 || idx >= 256 {
		return
	}
	off := uint32(widePaletteOff + (bank*256+idx)*3)
	p.Vram.Write8(off+0, r)
	p.Vram.Write8(off+1, g)
	p.Vram.Write8(off+2, b)
}

func (p *PPU) SetWideGfx(off uint32, data []byte) {
	if uint64(off)+uint64(len(data)) > wideGfxSize {
		return
	}
	copy(p.Vram.Data[wideGfxOff+off:], data)
}

func (p *PPU) SetWideLineScroll(bg, line int, sx, sy int16) {
	if bg < 0 || bg >= wideBGCount || line < 0 || line >= WideHeight {
		return
	}
	off := uint32(wideLineScrollOff + (bg*WideHeight+line)*4)
	p.Vram.Write16(off+0, uint16(sx))
	p.Vram.Write16(off+2, uint16(sy))
}

func (p *PPU) SetWideLineAffine(bg, line int, tx, ty int32) {
	if bg < 0 || bg >= wideBGCount || line < 0 || line >= WideHeight {
		return
	}
	off := uint32(wideLineAffineOff + (bg*WideHeight+line)*8)
	p.Vram.Write32(off+0, uint32(tx))
	p.Vram.Write32(off+4, uint32(ty))
}

// WideRegsConfig mirrors the global register block.
type WideRegsConfig struct {
	BackdropR, BackdropG, BackdropB uint8
	Master                          uint16
	Win0, Win1                      WideWindowConfig
	Outside                         uint16
	ObjWindow                       uint16
	Math                            WideColorMathConfig
}

type WideWindowConfig struct {
	X1, X2, Y1, Y2 uint16
	Mask           uint16
	Flags          uint16
}

type WideColorMathConfig struct {
	Mode, Eva, Evb   uint8
	Half             uint8
	TargetA, TargetB uint16
	FadeToWhite      uint8
	FadeToBlack      uint8
	FadeFactor       uint8
}

func (p *PPU) SetWideRegs(c WideRegsConfig) {
	p.Vram.Write8(wideRegBackdrop+0, c.BackdropR)
	p.Vram.Write8(wideRegBackdrop+1, c.BackdropG)
	p.Vram.Write8(wideRegBackdrop+2, c.BackdropB)
	p.Vram.Write16(wideRegMaster, c.Master)
	for i, w := range []WideWindowConfig{c.Win0, c.Win1} {
		off := uint32(wideRegWin0 + i*12)
		p.Vram.Write16(off+0, w.X1)
		p.Vram.Write16(off+2, w.X2)
		p.Vram.Write16(off+4, w.Y1)
		p.Vram.Write16(off+6, w.Y2)
		p.Vram.Write16(off+8, w.Mask)
		p.Vram.Write16(off+10, w.Flags)
	}
	p.Vram.Write16(wideRegOutside, c.Outside)
	p.Vram.Write16(wideRegObjWin, c.ObjWindow)
	p.Vram.Write8(wideRegMath+0, c.Math.Mode)
	p.Vram.Write8(wideRegMath+1, c.Math.Eva)
	p.Vram.Write8(wideRegMath+2, c.Math.Evb)
	p.Vram.Write8(wideRegMath+3, c.Math.Half)
	p.Vram.Write16(wideRegMath+4, c.Math.TargetA)
	p.Vram.Write16(wideRegMath+6, c.Math.TargetB)
	p.Vram.Write8(wideRegMath+8, c.Math.FadeToWhite)
	p.Vram.Write8(wideRegMath+9, c.Math.FadeToBlack)
	p.Vram.Write8(wideRegMath+10, c.Math.FadeFactor)
}
