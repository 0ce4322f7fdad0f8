package hw

import "vppu/hw/hwio"

// OBJ tile data window inside VRAM.
const objTileBase = 0x10000

const (
	oamSprites  = 128
	objPriEmpty = 0xFF
)

// Sprite modes (attr0 bits 10..11).
const (
	objModeNormal = 0
	objModeSemi   = 1
	objModeWindow = 2
)

// Per-column sprite attribute bits forwarded to the compositor.
const (
	objAttrSemi uint8 = 1 << iota
	objAttrWindow
)

// OBJ dimensions in pixels, indexed by [shape][size].
var (
	objWidths  = [3][4]int{{8, 16, 32, 64}, {16, 32, 32, 64}, {8, 8, 16, 32}}
	objHeights = [3][4]int{{8, 16, 32, 64}, {8, 8, 16, 32}, {16, 32, 32, 64}}
)

// oamAttr is one raw OAM entry (three attribute halfwords).
type oamAttr struct {
	attr0, attr1, attr2 uint16
}

func (p *PPU) oamAttr(i int) oamAttr {
	base := uint32(i) * 8
	return oamAttr{
		attr0: p.OamMem.Read16(base + 0),
		attr1: p.OamMem.Read16(base + 2),
		attr2: p.OamMem.Read16(base + 4),
	}
}

func (oa oamAttr) yPos() int        { return int(hwio.Bits16(oa.attr0, 0, 8)) }
func (oa oamAttr) affine() bool     { return hwio.GetBit16(oa.attr0, 8) }
func (oa oamAttr) doubleSize() bool { return oa.affine() && hwio.GetBit16(oa.attr0, 9) }
func (oa oamAttr) hidden() bool     { return !oa.affine() && hwio.GetBit16(oa.attr0, 9) }
func (oa oamAttr) mode() uint       { return uint(hwio.Bits16(oa.attr0, 10, 2)) }
func (oa oamAttr) bpp8() bool       { return hwio.GetBit16(oa.attr0, 13) }
func (oa oamAttr) shape() uint      { return uint(hwio.Bits16(oa.attr0, 14, 2)) }

func (oa oamAttr) xPos() int       { return int(hwio.Bits16(oa.attr1, 0, 9)) }
func (oa oamAttr) affineIdx() int  { return int(hwio.Bits16(oa.attr1, 9, 5)) }
func (oa oamAttr) hflip() bool     { return hwio.GetBit16(oa.attr1, 12) }
func (oa oamAttr) vflip() bool     { return hwio.GetBit16(oa.attr1, 13) }
func (oa oamAttr) size() uint      { return uint(hwio.Bits16(oa.attr1, 14, 2)) }

func (oa oamAttr) tileIndex() uint32 { return uint32(hwio.Bits16(oa.attr2, 0, 10)) }
func (oa oamAttr) priority() uint8   { return uint8(hwio.Bits16(oa.attr2, 10, 2)) }
func (oa oamAttr) palette() uint8    { return uint8(hwio.Bits16(oa.attr2, 12, 4)) }

// objAffineMatrix reads matrix grp from the sprite-affine table. Matrices
// occupy one halfword in each of four consecutive OAM entries, so the
// four parameters sit 8 bytes apart.
func (p *PPU) objAffineMatrix(grp int) (pa, pb, pc, pd Fix8) {
	base := uint32(grp) * 32
	pa = Fix8FromU16(p.OamMem.Read16(base + 6))
	pb = Fix8FromU16(p.OamMem.Read16(base + 14))
	pc = Fix8FromU16(p.OamMem.Read16(base + 22))
	pd = Fix8FromU16(p.OamMem.Read16(base + 30))
	return pa, pb, pc, pd
}

// renderObjLine evaluates the whole sprite table for one scanline.
//
// Sprites are iterated from the last entry to the first, and a candidate
// pixel overwrites the stored one when the column is empty or the
// candidate's priority is not worse. At equal priority the lower-indexed
// sprite therefore wins.
func (p *PPU) renderObjLine(y int, obj1d bool, line []uint32, pri []uint8, attr []uint8) {
	for i := oamSprites - 1; i >= 0; i-- {
		oa := p.oamAttr(i)
		if oa.hidden() {
			continue
		}
		shape := oa.shape()
		if shape == 3 {
			// no size table entry for this shape
			continue
		}
		objW := objWidths[shape][oa.size()]
		objH := objHeights[shape][oa.size()]

		boundsW, boundsH := objW, objH
		if oa.doubleSize() {
			boundsW *= 2
			boundsH *= 2
		}

		objY := oa.yPos()
		if objY >= 160 {
			objY -= 256
		}
		if y < objY || y >= objY+boundsH {
			continue
		}

		objX := oa.xPos()
		if objX >= 240 {
			objX -= 512
		}

		bpp8 := oa.bpp8()
		priority := oa.priority()
		baseTile := oa.tileIndex()
		mode := oa.mode()
		tilesW := uint32(objW / 8)

		isAffine := oa.affine()
		pa, pb, pc, pd := Fix8(0x100), Fix8(0), Fix8(0), Fix8(0x100)
		if isAffine {
			pa, pb, pc, pd = p.objAffineMatrix(oa.affineIdx())
		}

		iry := y - objY - boundsH/2

		for sx := 0; sx < boundsW; sx++ {
			screenX := objX + sx
			if screenX < 0 || screenX >= len(line) {
				continue
			}

			var texX, texY int
			if isAffine {
				irx := sx - boundsW/2
				texX = (pa.MulInt(irx) + pb.MulInt(iry)).Int() + objW/2
				texY = (pc.MulInt(irx) + pd.MulInt(iry)).Int() + objH/2
				if texX < 0 || texX >= objW || texY < 0 || texY >= objH {
					continue
				}
			} else {
				texX = sx
				if oa.hflip() {
					texX = objW - 1 - sx
				}
				texY = y - objY
				if oa.vflip() {
					texY = objH - 1 - texY
				}
			}

			tileCol := uint32(texX / 8)
			tileRow := uint32(texY / 8)
			pixX := uint32(texX % 8)
			pixY := uint32(texY % 8)

			var tileIdx uint32
			switch {
			case obj1d && bpp8:
				tileIdx = baseTile + (tileRow*tilesW+tileCol)*2
			case obj1d:
				tileIdx = baseTile + tileRow*tilesW + tileCol
			case bpp8:
				tileIdx = baseTile + tileRow*32 + tileCol*2
			default:
				tileIdx = baseTile + tileRow*32 + tileCol
			}

			var colorIdx uint8
			if bpp8 {
				colorIdx = pix8bpp(p.GbaVram, objTileBase+tileIdx*32, pixX, pixY)
			} else {
				colorIdx = pix4bpp(p.GbaVram, objTileBase+tileIdx*32, pixX, pixY)
			}
			if colorIdx == 0 {
				continue
			}

			if mode == objModeWindow {
				attr[screenX] |= objAttrWindow
				continue
			}

			if line[screenX] != 0 && pri[screenX] < priority {
				continue
			}

			if bpp8 {
				line[screenX] = p.objColor(colorIdx)
			} else {
				line[screenX] = p.objColor(oa.palette()*16 + colorIdx)
			}
			pri[screenX] = priority
			if mode == objModeSemi {
				attr[screenX] |= objAttrSemi
			} else {
				attr[screenX] &^= objAttrSemi
			}
		}
	}
}
