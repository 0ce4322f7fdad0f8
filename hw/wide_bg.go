package hw

import "vppu/hw/hwio"

// mosaicCoord coarsens coordinate c to the nearest lower multiple of m.
// m <= 1 disables the effect.
func mosaicCoord(c, m int) int {
	if m <= 1 {
		return c
	}
	return c - c%m
}

// renderWideBGLine rasterizes one BG for scanline y into line and pri.
//
// skip, when non-nil, marks columns already fully covered by layers in
// front; 32-pixel blocks whose columns are all marked are not rendered.
// cover receives the columns this BG fills. The caller only passes the
// bitsets when skipping cannot change the composed output.
func (p *PPU) renderWideBGLine(bg wideBG, bgIdx, y int, line []uint32, pri []uint8, skip, cover *hwio.Bitset) {
	if bg.mapW <= 0 || bg.mapH <= 0 {
		return
	}
	mapPxW, mapPxH := bg.mapW*8, bg.mapH*8

	sx, sy := p.wideLineScroll(bgIdx, y)
	scrollX := bg.scrollX + sx
	scrollY := bg.scrollY + sy

	tx, ty := bg.tx, bg.ty
	if otx, oty, ok := p.wideLineAffine(bgIdx, y); ok {
		tx, ty = otx, oty
	}

	tileBytes := uint32(tileBytes4bpp)
	if bg.bpp8() {
		tileBytes = tileBytes8bpp
	}
	mosaic := bg.mosaicOn() && (bg.mosaicX > 1 || bg.mosaicY > 1)

	width := len(line)
	for x0 := 0; x0 < width; x0 += 32 {
		x1 := min(x0+32, width)
		if skip != nil && skip.TestAll(uint(x0), uint(x1)) {
			continue
		}

		for x := x0; x < x1; x++ {
			var srcX, srcY int
			if bg.affine() {
				srcX = (bg.pa.MulInt(x) + bg.pb.MulInt(y) + tx).Int()
				srcY = (bg.pc.MulInt(x) + bg.pd.MulInt(y) + ty).Int()
			} else {
				srcX = x + scrollX
				srcY = y + scrollY
			}

			if bg.wrapX() {
				srcX = FloorMod(srcX, mapPxW)
			} else if srcX < 0 || srcX >= mapPxW {
				continue
			}
			if bg.wrapY() {
				srcY = FloorMod(srcY, mapPxH)
			} else if srcY < 0 || srcY >= mapPxH {
				continue
			}

			tile := decodeWideTile(p.wideTileEntry(bg, bgIdx, srcX/8, srcY/8))
			if mosaic && tile.mosaic {
				srcX = mosaicCoord(srcX, bg.mosaicX)
				srcY = mosaicCoord(srcY, bg.mosaicY)
				tile = decodeWideTile(p.wideTileEntry(bg, bgIdx, srcX/8, srcY/8))
			}

			lx, ly := uint32(srcX%8), uint32(srcY%8)
			if tile.hflip {
				lx = 7 - lx
			}
			if tile.vflip {
				ly = 7 - ly
			}

			tileIdx := bg.tileBase + tile.tile
			if (tileIdx+1)*tileBytes > wideGfxSize {
				continue
			}
			gfxOff := uint32(wideGfxOff) + tileIdx*tileBytes

			var colorIdx uint8
			if bg.bpp8() {
				colorIdx = pix8bpp(p.Vram, gfxOff, lx, ly)
			} else {
				colorIdx = pix4bpp(p.Vram, gfxOff, lx, ly)
			}
			if colorIdx == 0 {
				continue
			}

			if bg.bpp8() {
				line[x] = p.widePaletteColor(bg.palBank, uint32(colorIdx))
			} else {
				line[x] = p.widePaletteColor(bg.palBank, uint32(tile.palette&0x0F)*16+uint32(colorIdx))
			}
			pri[x] = tile.priority
			if cover != nil {
				cover.Set(uint(x))
			}
		}
	}
}
