package hw

import "vppu/hw/hwio"

// Rgb555ToRGBA expands a 15-bit BGR color (0BBBBBGGGGGRRRRR) to an
// opaque 32-bit pixel in RGBA memory order (word A<<24 | B<<16 | G<<8 | R).
// Each 5-bit channel lands in the high 5 bits of its byte.
func Rgb555ToRGBA(c uint16) uint32 {
	r := (uint32(c) << 3) & 0xF8
	g := (uint32(c) >> 2) & 0xF8
	b := (uint32(c) >> 7) & 0xF8
	return 0xFF000000 | b<<16 | g<<8 | r
}

// Rgb888ToRGBA packs 8-bit channels into the same pixel format.
func Rgb888ToRGBA(r, g, b uint8) uint32 {
	return 0xFF000000 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// bgColor converts BG palette entry idx.
func (p *PPU) bgColor(idx uint8) uint32 {
	return Rgb555ToRGBA(p.BgPltt.Read16(uint32(idx) * 2))
}

// objColor converts OBJ palette entry idx.
func (p *PPU) objColor(idx uint8) uint32 {
	return Rgb555ToRGBA(p.ObjPltt.Read16(uint32(idx) * 2))
}

// Classic green-tinted shades, lightest to darkest.
var dmgShades = [4]uint32{0xFF0FBC9B, 0xFF0FAC8B, 0xFF306230, 0xFF0F380F}

// dmgPaletteColor maps a 2-bit color index through a BGP/OBP remap
// register (2 bits per slot) and returns the resulting shade.
func dmgPaletteColor(reg uint8, idx uint8) uint32 {
	return dmgShades[hwio.Bits8(reg, uint(idx)*2, 2)]
}
