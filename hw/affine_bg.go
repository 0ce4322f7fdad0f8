package hw

// renderAffineBGLine renders one scanline of an affine BG. The texture
// cursor starts at the reference point advanced by pb/pd down the frame,
// then steps by pa/pc per output column. Affine tilemaps are flat 8-bit
// tile indices and tiles are always 8bpp.
func (p *PPU) renderAffineBGLine(bg, y int, line []uint32, pri []uint8) {
	cnt := p.bgControl(bg)
	aff := p.bgAffineParams(bg)
	mapSize := affineBGSizes[cnt.size]
	mapTiles := mapSize / 8

	tx := aff.refX + aff.pb.MulInt(y)
	ty := aff.refY + aff.pd.MulInt(y)

	for x := range line {
		srcX := tx.Int()
		srcY := ty.Int()
		tx += aff.pa
		ty += aff.pc

		if cnt.wrap {
			srcX = FloorMod(srcX, mapSize)
			srcY = FloorMod(srcY, mapSize)
		} else if srcX < 0 || srcX >= mapSize || srcY < 0 || srcY >= mapSize {
			continue
		}

		tileIdx := uint32(p.GbaVram.Read8(cnt.screenBase + uint32(srcY/8*mapTiles+srcX/8)))
		colorIdx := pix8bpp(p.GbaVram, cnt.charBase+tileIdx*tileBytes8bpp, uint32(srcX%8), uint32(srcY%8))
		if colorIdx == 0 {
			continue
		}
		line[x] = p.bgColor(colorIdx)
		pri[x] = cnt.priority
	}
}
