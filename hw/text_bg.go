package hw

import "vppu/hw/hwio"

// renderTextBGLine renders one scanline of a text BG into line (0 =
// transparent) and its per-pixel priority into pri.
func (p *PPU) renderTextBGLine(bg, y int, line []uint32, pri []uint8) {
	cnt := p.bgControl(bg)
	sx, sy := p.bgScroll(bg)
	size := textBGSizes[cnt.size]
	mapW, mapH := size.w*8, size.h*8

	srcY := (y + sy) % mapH
	tileRow := srcY / 8
	pixY := uint32(srcY % 8)

	for x := range line {
		srcX := (x + sx) % mapW
		tileCol := srcX / 8
		pixX := uint32(srcX % 8)

		entry := p.GbaVram.Read16(cnt.screenBase + textMapOffset(tileCol, tileRow, size.w))
		tileIdx := uint32(hwio.Bits16(entry, 0, 10))

		lx, ly := pixX, pixY
		if hwio.GetBit16(entry, 10) {
			lx = 7 - lx
		}
		if hwio.GetBit16(entry, 11) {
			ly = 7 - ly
		}

		var colorIdx uint8
		if cnt.bpp8 {
			colorIdx = pix8bpp(p.GbaVram, cnt.charBase+tileIdx*tileBytes8bpp, lx, ly)
		} else {
			colorIdx = pix4bpp(p.GbaVram, cnt.charBase+tileIdx*tileBytes4bpp, lx, ly)
		}
		if colorIdx == 0 {
			continue
		}
		if !cnt.bpp8 {
			palBank := uint8(hwio.Bits16(entry, 12, 4))
			colorIdx = palBank*16 + colorIdx
		}
		line[x] = p.bgColor(colorIdx)
		pri[x] = cnt.priority
	}
}

// textMapOffset converts tile coordinates to a byte offset inside a text
// tilemap. Maps are tiled in 32x32-tile screen blocks of 2 KiB each,
// packed row-major: a 64-wide map has block 0 at (0,0), block 1 at
// (32,0), then the next row of blocks.
func textMapOffset(col, row, mapTilesW int) uint32 {
	sb := col/32 + row/32*(mapTilesW/32)
	return uint32(sb)*0x800 + uint32((row%32)*32+col%32)*2
}
