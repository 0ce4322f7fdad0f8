package hw

// renderWideObjLine evaluates all 512 sprite records for scanline y.
// Iteration runs from the last record to the first with the same
// overwrite rule as the GBA evaluator, so the lower index wins ties.
// The return value reports whether any semi-transparent pixel was
// written; the caller uses it to decide if lower layers may be skipped.
func (p *PPU) renderWideObjLine(y int, line []uint32, pri []uint8, attr []uint8) bool {
	anySemi := false

	for i := wideOamCount - 1; i >= 0; i-- {
		oa := p.wideOAM(i)
		if !oa.enabled() || oa.w == 0 || oa.h == 0 {
			continue
		}

		boundsW, boundsH := oa.w, oa.h
		if oa.double() {
			boundsW *= 2
			boundsH *= 2
		}
		if y < oa.y || y >= oa.y+boundsH {
			continue
		}

		tileBytes := uint32(tileBytes4bpp)
		if oa.bpp8() {
			tileBytes = tileBytes8bpp
		}
		tilesW := uint32(oa.w / 8)

		isAffine := oa.affine()
		pa, pb, pc, pd := Fix8(0x100), Fix8(0), Fix8(0), Fix8(0x100)
		if isAffine {
			pa, pb, pc, pd = p.wideObjAffine(oa.affineIdx)
		}

		sy := y - oa.y
		if oa.mosaicOn() {
			sy = mosaicCoord(sy, oa.mosaicY)
		}
		iry := sy - boundsH/2

		for sx := 0; sx < boundsW; sx++ {
			screenX := oa.x + sx
			if screenX < 0 || screenX >= len(line) {
				continue
			}

			lsx := sx
			if oa.mosaicOn() {
				lsx = mosaicCoord(sx, oa.mosaicX)
			}

			var texX, texY int
			if isAffine {
				irx := lsx - boundsW/2
				texX = (pa.MulInt(irx) + pb.MulInt(iry)).Int() + oa.w/2
				texY = (pc.MulInt(irx) + pd.MulInt(iry)).Int() + oa.h/2
			} else {
				texX = lsx
				if oa.hflip() {
					texX = oa.w - 1 - lsx
				}
				texY = sy
				if oa.vflip() {
					texY = oa.h - 1 - texY
				}
			}
			if texX < 0 || texX >= oa.w || texY < 0 || texY >= oa.h {
				continue
			}

			tileIdx := oa.tileBase + uint32(texY/8)*tilesW + uint32(texX/8)
			if (tileIdx+1)*tileBytes > wideGfxSize {
				continue
			}
			gfxOff := uint32(wideGfxOff) + tileIdx*tileBytes

			var colorIdx uint8
			if oa.bpp8() {
				colorIdx = pix8bpp(p.Vram, gfxOff, uint32(texX%8), uint32(texY%8))
			} else {
				colorIdx = pix4bpp(p.Vram, gfxOff, uint32(texX%8), uint32(texY%8))
			}
			if colorIdx == 0 {
				continue
			}

			if oa.objWin() {
				attr[screenX] |= objAttrWindow
				continue
			}

			if line[screenX] != 0 && pri[screenX] < oa.priority {
				continue
			}

			if oa.bpp8() {
				line[screenX] = p.widePaletteColor(oa.palette%widePaletteBanks, uint32(colorIdx))
			} else {
				bank := oa.palette / 16 % widePaletteBanks
				line[screenX] = p.widePaletteColor(bank, oa.palette%16*16+uint32(colorIdx))
			}
			pri[screenX] = oa.priority
			if oa.semi() {
				attr[screenX] |= objAttrSemi
				anySemi = true
			} else {
				attr[screenX] &^= objAttrSemi
			}
		}
	}

	return anySemi
}
