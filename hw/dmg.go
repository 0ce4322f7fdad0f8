package hw

import "vppu/hw/hwio"

// DMG layout, living at the start of the VRAM region: an 8 KiB tile/map
// image addressed 0x8000-0x9FFF on the original bus, the 160-byte sprite
// table, then 8 register bytes.
const (
	dmgVramOff  = 0x0000
	dmgVramSize = 0x2000
	dmgOamOff   = 0x2000
	dmgOamCount = 40
	dmgRegsOff  = 0x20A0
)

const (
	// LCDC bits
	lcdcBGOn     = 0
	lcdcObjOn    = 1
	lcdcObjSize  = 2 // 0: 8x8 sprites, 1: 8x16
	lcdcBGMap    = 3 // 0: map at 0x9800, 1: 0x9C00
	lcdcTileData = 4 // 0: signed indexing from 0x9000, 1: unsigned from 0x8000
	lcdcWinOn    = 5
	lcdcWinMap   = 6
	lcdcEnable   = 7
)

// Sprite attribute bits.
const (
	dmgAttrPalette = 4 // 0: OBP0, 1: OBP1
	dmgAttrHFlip   = 5
	dmgAttrVFlip   = 6
	dmgAttrBGOver  = 7 // BG colors 1-3 cover the sprite
)

type dmgRegs struct {
	lcdc, scy, scx, bgp, obp0, obp1, wy, wx uint8
}

func (p *PPU) dmgRegs() dmgRegs {
	base := uint32(dmgRegsOff)
	return dmgRegs{
		lcdc: p.Vram.Read8(base + 0),
		scy:  p.Vram.Read8(base + 1),
		scx:  p.Vram.Read8(base + 2),
		bgp:  p.Vram.Read8(base + 3),
		obp0: p.Vram.Read8(base + 4),
		obp1: p.Vram.Read8(base + 5),
		wy:   p.Vram.Read8(base + 6),
		wx:   p.Vram.Read8(base + 7),
	}
}

// dmgVramRead reads one byte at a bus address. Only 0x8000-0x9FFF is
// backed; everything else reads as 0.
func (p *PPU) dmgVramRead(addr uint16) uint8 {
	if addr < 0x8000 || addr >= 0xA000 {
		return 0
	}
	return p.Vram.Read8(dmgVramOff + uint32(addr-0x8000))
}

// dmgTileColor fetches the 2-bit color of pixel (x, y) of the 256x256
// plane mapped at mapBase. Tile indices are signed relative to 0x9000
// when signedIdx is set.
func (p *PPU) dmgTileColor(mapBase, dataBase uint16, signedIdx bool, x, y uint8) uint8 {
	mapAddr := mapBase + uint16(y/8)*32 + uint16(x/8)
	tileIdx := p.dmgVramRead(mapAddr)

	tileID := int32(tileIdx)
	if signedIdx {
		tileID = int32(int8(tileIdx))
	}
	rowAddr := uint16(int32(dataBase)+tileID*16) + uint16(y%8)*2

	lo := p.dmgVramRead(rowAddr)
	hi := p.dmgVramRead(rowAddr + 1)
	bit := uint(7 - x%8)
	return hwio.GetBiti8(hi, bit)<<1 | hwio.GetBiti8(lo, bit)
}

type dmgSprite struct {
	x, tile, attr, line, index uint8
}

type dmgScratch struct {
	sprites [10]dmgSprite
	count   int
}

func newDMGScratch() *dmgScratch {
	return new(dmgScratch)
}

// evalDMGSprites selects the sprites covering scanline ly, ordered by x
// then table index, keeping at most 10.
func (p *PPU) evalDMGSprites(s *dmgScratch, ly int, height int) {
	var cands [dmgOamCount]dmgSprite
	n := 0

	for i := 0; i < dmgOamCount; i++ {
		base := uint32(dmgOamOff + i*4)
		y := p.Vram.Read8(base + 0)
		x := p.Vram.Read8(base + 1)
		tile := p.Vram.Read8(base + 2)
		attr := p.Vram.Read8(base + 3)

		spriteY := int(y) - 16
		if ly < spriteY || ly >= spriteY+height {
			continue
		}
		if x == 0 || x >= 168 {
			continue
		}

		line := uint8(ly - spriteY)
		if hwio.GetBit8(attr, dmgAttrVFlip) {
			line = uint8(height-1) - line
		}
		cands[n] = dmgSprite{x: x, tile: tile, attr: attr, line: line, index: uint8(i)}
		n++
	}

	// Insertion sort on (x, index), both ascending.
	for i := 1; i < n; i++ {
		key := cands[i]
		j := i - 1
		for j >= 0 && (cands[j].x > key.x || (cands[j].x == key.x && cands[j].index > key.index)) {
			cands[j+1] = cands[j]
			j--
		}
		cands[j+1] = key
	}

	s.count = min(n, len(s.sprites))
	copy(s.sprites[:s.count], cands[:s.count])
}

func (p *PPU) renderDMGFrame() {
	regs := p.dmgRegs()

	// LCD off shows the backdrop shade, not forced-blank white.
	if !hwio.GetBit8(regs.lcdc, lcdcEnable) {
		p.fillRect(DMGWidth, DMGHeight, dmgPaletteColor(regs.bgp, 0))
		return
	}

	forEachLine(p, DMGHeight, newDMGScratch, func(s *dmgScratch, y int) {
		p.renderDMGLine(s, y, regs)
	})
}

func (p *PPU) renderDMGLine(s *dmgScratch, y int, regs dmgRegs) {
	spriteHeight := 8
	if hwio.GetBit8(regs.lcdc, lcdcObjSize) {
		spriteHeight = 16
	}
	objOn := hwio.GetBit8(regs.lcdc, lcdcObjOn)
	s.count = 0
	if objOn {
		p.evalDMGSprites(s, y, spriteHeight)
	}

	bgMap := uint16(0x9800)
	if hwio.GetBit8(regs.lcdc, lcdcBGMap) {
		bgMap = 0x9C00
	}
	winMap := uint16(0x9800)
	if hwio.GetBit8(regs.lcdc, lcdcWinMap) {
		winMap = 0x9C00
	}
	dataBase, signedIdx := uint16(0x9000), true
	if hwio.GetBit8(regs.lcdc, lcdcTileData) {
		dataBase, signedIdx = 0x8000, false
	}
	winOn := hwio.GetBit8(regs.lcdc, lcdcWinOn)

	row := p.fb[y*DMGWidth : (y+1)*DMGWidth]
	for x := range row {
		bgColorID := uint8(0)
		bgColor := dmgPaletteColor(regs.bgp, 0)

		if hwio.GetBit8(regs.lcdc, lcdcBGOn) {
			bgColorID = p.dmgTileColor(bgMap, dataBase, signedIdx, uint8(x)+regs.scx, uint8(y)+regs.scy)

			if winOn && int(regs.wy) <= y {
				wx := 0
				if regs.wx > 7 {
					wx = int(regs.wx) - 7
				}
				if x >= wx && regs.wx <= 166 {
					bgColorID = p.dmgTileColor(winMap, dataBase, signedIdx, uint8(x-wx), uint8(y-int(regs.wy)))
				}
			}

			bgColor = dmgPaletteColor(regs.bgp, bgColorID)
		}

		final := bgColor

		for i := 0; i < s.count; i++ {
			spr := &s.sprites[i]
			screenX := int(spr.x) - 8
			if x < screenX || x >= screenX+8 {
				continue
			}

			pixelX := uint8(x - screenX)
			if hwio.GetBit8(spr.attr, dmgAttrHFlip) {
				pixelX = 7 - pixelX
			}

			tileIdx := spr.tile
			line := spr.line
			if spriteHeight == 16 {
				tileIdx &= 0xFE
				if line >= 8 {
					tileIdx |= 1
				}
				line &= 0x07
			}

			rowAddr := 0x8000 + uint16(tileIdx)*16 + uint16(line)*2
			lo := p.dmgVramRead(rowAddr)
			hi := p.dmgVramRead(rowAddr + 1)
			bit := uint(7 - pixelX)
			colorID := hwio.GetBiti8(hi, bit)<<1 | hwio.GetBiti8(lo, bit)
			if colorID == 0 {
				continue
			}

			pal := regs.obp0
			if hwio.GetBit8(spr.attr, dmgAttrPalette) {
				pal = regs.obp1
			}
			if hwio.GetBit8(spr.attr, dmgAttrBGOver) && bgColorID != 0 {
				final = bgColor
			} else {
				final = dmgPaletteColor(pal, colorID)
			}
			break
		}

		row[x] = final
	}
}
