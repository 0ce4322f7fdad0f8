package hw

import "vppu/hw/hwio"

// I/O register byte offsets (GBA-like modes, little-endian halfwords).
const (
	regDISPCNT  = 0x00
	regBG0CNT   = 0x08 // +2 per BG
	regBG0HOFS  = 0x10 // +4 per BG
	regBG0VOFS  = 0x12 // +4 per BG
	regBG2PA    = 0x20 // pa,pb,pc,pd halfwords, then 32-bit refX, refY
	regBG3PA    = 0x30
	regWIN0H    = 0x40
	regWIN1H    = 0x42
	regWIN0V    = 0x44
	regWIN1V    = 0x46
	regWININ    = 0x48
	regWINOUT   = 0x4A
	regMOSAIC   = 0x4C
	regBLDCNT   = 0x50
	regBLDALPHA = 0x52
	regBLDY     = 0x54
)

const (
	// DISPCNT bits

	// OBJ character mapping (0: 2-D, 1: 1-D)
	dispObj1D = 6

	// Forced blank: the frame is cleared to opaque white.
	dispForcedBlank = 7

	// Layer enables, BG0..BG3 then OBJ.
	dispBG0On = 8
	dispBG1On = 9
	dispBG2On = 10
	dispBG3On = 11
	dispObjOn = 12

	// Window enables.
	dispWin0On   = 13
	dispWin1On   = 14
	dispObjWinOn = 15
)

// Text BG map dimensions in 8-pixel tiles, indexed by the BGxCNT size flag.
var textBGSizes = [4]struct{ w, h int }{
	{32, 32},
	{64, 32},
	{32, 64},
	{64, 64},
}

// Affine BG map sizes in pixels (square), indexed by the BGxCNT size flag.
var affineBGSizes = [4]int{128, 256, 512, 1024}

// bgControl is a decoded BGxCNT register.
type bgControl struct {
	priority   uint8
	charBase   uint32 // byte offset of tile pixel data
	bpp8       bool
	screenBase uint32 // byte offset of tilemap data
	wrap       bool   // affine BGs only
	size       uint
}

func (p *PPU) bgControl(bg int) bgControl {
	cnt := p.IoMem.Read16(regBG0CNT + uint32(bg)*2)
	return bgControl{
		priority:   uint8(hwio.Bits16(cnt, 0, 2)),
		charBase:   uint32(hwio.Bits16(cnt, 2, 2)) * 0x4000,
		bpp8:       hwio.GetBit16(cnt, 7),
		screenBase: uint32(hwio.Bits16(cnt, 8, 5)) * 0x800,
		wrap:       hwio.GetBit16(cnt, 13),
		size:       uint(hwio.Bits16(cnt, 14, 2)),
	}
}

// bgScroll returns the 9-bit scroll registers of a text BG.
func (p *PPU) bgScroll(bg int) (sx, sy int) {
	sx = int(hwio.Bits16(p.IoMem.Read16(regBG0HOFS+uint32(bg)*4), 0, 9))
	sy = int(hwio.Bits16(p.IoMem.Read16(regBG0VOFS+uint32(bg)*4), 0, 9))
	return sx, sy
}

// affineParams is a decoded affine parameter block: an 8.8 matrix and a
// 20.8 reference point.
type affineParams struct {
	pa, pb, pc, pd Fix8
	refX, refY     Fix8
}

func (p *PPU) bgAffineParams(bg int) affineParams {
	base := uint32(regBG2PA)
	if bg == 3 {
		base = regBG3PA
	}
	return affineParams{
		pa:   Fix8FromU16(p.IoMem.Read16(base + 0)),
		pb:   Fix8FromU16(p.IoMem.Read16(base + 2)),
		pc:   Fix8FromU16(p.IoMem.Read16(base + 4)),
		pd:   Fix8FromU16(p.IoMem.Read16(base + 6)),
		refX: SignExtend28(p.IoMem.Read32(base + 8)),
		refY: SignExtend28(p.IoMem.Read32(base + 12)),
	}
}

// Color math effects (BLDCNT bits 6..7).
const (
	blendNone     = 0
	blendAlpha    = 1
	blendBrighten = 2
	blendDarken   = 3
)

// blendControl is the decoded BLDCNT/BLDALPHA/BLDY register group.
// Target masks use bit 0..3 for BG0..BG3, bit 4 for OBJ, bit 5 for the
// backdrop.
type blendControl struct {
	effect        uint
	targetA       uint16
	targetB       uint16
	eva, evb, evy uint32 // clamped to 0..16
}

func clamp16(v uint16) uint32 {
	return uint32(min(v, 16))
}

func (p *PPU) blendControl() blendControl {
	cnt := p.IoMem.Read16(regBLDCNT)
	alpha := p.IoMem.Read16(regBLDALPHA)
	return blendControl{
		effect:  uint(hwio.Bits16(cnt, 6, 2)),
		targetA: hwio.Bits16(cnt, 0, 6),
		targetB: hwio.Bits16(cnt, 8, 6),
		eva:     clamp16(hwio.Bits16(alpha, 0, 5)),
		evb:     clamp16(hwio.Bits16(alpha, 8, 5)),
		evy:     clamp16(hwio.Bits16(p.IoMem.Read16(regBLDY), 0, 5)),
	}
}

// window is a decoded WIN0/WIN1 rectangle. x2/y2 are exclusive; an
// inverted or off-screen bound makes the window empty.
type window struct {
	x1, x2, y1, y2 int
}

func (w window) contains(x, y int) bool {
	return x >= w.x1 && x < w.x2 && y >= w.y1 && y < w.y2
}

func (w window) empty(screenW, screenH int) bool {
	return w.x1 >= w.x2 || w.y1 >= w.y2 || w.x2 > screenW || w.y2 > screenH
}

func (p *PPU) windowRect(win int) window {
	h := p.IoMem.Read16(regWIN0H + uint32(win)*2)
	v := p.IoMem.Read16(regWIN0V + uint32(win)*2)
	return window{
		x1: int(h >> 8),
		x2: int(h & 0xFF),
		y1: int(v >> 8),
		y2: int(v & 0xFF),
	}
}
