package hw

import (
	"vppu/emu/log"
	"vppu/hw/hwio"
)

// wideScratch is the per-worker scanline state for the wide mode.
// The opaque set holds columns fully covered by already-rendered layer
// priority classes; cover accumulates the class being rendered.
type wideScratch struct {
	bg      [wideBGCount][FrameWidth]uint32
	bgPri   [wideBGCount][FrameWidth]uint8
	obj     [FrameWidth]uint32
	objPri  [FrameWidth]uint8
	objAttr [FrameWidth]uint8
	opaque  *hwio.Bitset
	cover   *hwio.Bitset
}

func newWideScratch() *wideScratch {
	return &wideScratch{
		opaque: hwio.NewBitset(FrameWidth),
		cover:  hwio.NewBitset(FrameWidth),
	}
}

func (p *PPU) renderWideFrame() {
	regs := p.wideRegs()
	w := p.wideWidth()

	if hwio.GetBit16(regs.master, wideMasterBlank) {
		p.fillRect(w, WideHeight, colorWhite)
		return
	}

	log.ModPPU.DebugZ("frame start").
		Stringer("mode", p.Mode).
		Int("width", w).
		Hex16("master", regs.master).
		End()

	// An inverted or off-screen bound empties the window.
	if regs.win0.empty(w, WideHeight) {
		regs.win0.x1, regs.win0.x2, regs.win0.y1, regs.win0.y2 = 0, 0, 0, 0
	}
	if regs.win1.empty(w, WideHeight) {
		regs.win1.x1, regs.win1.x2, regs.win1.y1, regs.win1.y2 = 0, 0, 0, 0
	}

	var bgs [wideBGCount]wideBG
	for i := range bgs {
		bgs[i] = p.wideBG(i)
	}

	// Draw order: layer priority, then BG index. Lower draws first and
	// composes in front.
	order := [wideBGCount]int{0, 1, 2, 3}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := bgs[order[j]], bgs[order[j-1]]
			if a.layerPri < b.layerPri {
				order[j], order[j-1] = order[j-1], order[j]
			}
		}
	}

	forEachLine(p, WideHeight, newWideScratch, func(s *wideScratch, y int) {
		p.renderWideLine(s, y, w, &regs, &bgs, order)
	})
}

func (p *PPU) renderWideLine(s *wideScratch, y, w int, regs *wideRegs, bgs *[wideBGCount]wideBG, order [wideBGCount]int) {
	for i := range s.bg {
		clear(s.bg[i][:w])
		clear(s.bgPri[i][:w])
	}
	clear(s.obj[:w])
	clear(s.objAttr[:w])
	for i := 0; i < w; i++ {
		s.objPri[i] = objPriEmpty
	}

	anySemi := false
	if regs.master&(1<<layerOBJ) != 0 {
		anySemi = p.renderWideObjLine(y, s.obj[:w], s.objPri[:w], s.objAttr[:w])
	}

	// The block skip discards BG pixels hidden behind an already-opaque
	// column. Windows, color math and semi-transparent sprites can all
	// resurrect hidden pixels, so any of them disables it.
	windowed := regs.win0.enabled || regs.win1.enabled || regs.objWinOn
	fast := regs.math.mode == WideMathOff &&
		!regs.math.fadeWhite && !regs.math.fadeBlack &&
		!windowed && !anySemi

	s.opaque.Reset()
	s.cover.Reset()
	prevPri := -1

	for _, i := range order {
		bg := bgs[i]
		if !bg.enabled() || regs.master&(1<<i) == 0 {
			continue
		}
		var skip, cover *hwio.Bitset
		if fast {
			// Commit the previous class before a lower one starts.
			// BGs inside one class cannot skip on each other: the
			// per-tile priority may reorder them per pixel.
			if prevPri >= 0 && int(bg.layerPri) != prevPri {
				s.opaque.Or(s.cover)
				s.cover.Reset()
			}
			prevPri = int(bg.layerPri)
			skip, cover = s.opaque, s.cover
		}
		p.renderWideBGLine(bg, i, y, s.bg[i][:w], s.bgPri[i][:w], skip, cover)
	}

	p.compositeWideLine(s, y, w, regs, bgs)
}

// wideLayerMask returns the layer enable mask at (x, y). WIN0 wins over
// WIN1, then the OBJ window, then the outside mask. With no window
// enabled every layer contributes and color math is allowed.
func wideLayerMask(regs *wideRegs, x, y int, objWin bool) uint16 {
	if !regs.win0.enabled && !regs.win1.enabled && !regs.objWinOn {
		return 0x3F
	}
	if regs.win0.enabled && regs.win0.contains(x, y) {
		return regs.win0.mask
	}
	if regs.win1.enabled && regs.win1.contains(x, y) {
		return regs.win1.mask
	}
	if regs.objWinOn && objWin {
		return regs.objWinMask
	}
	return regs.outside
}

// Saturating add and sub over whole RGBA words, with the optional halve
// applied before clamping.

func mathAdd(top, bot uint32, half bool) uint32 {
	out := uint32(0xFF000000)
	for shift := uint(0); shift <= 16; shift += 8 {
		v := (top>>shift)&0xFF + (bot>>shift)&0xFF
		if half {
			v /= 2
		}
		out |= min(v, 255) << shift
	}
	return out
}

func mathSub(top, bot uint32, half bool) uint32 {
	out := uint32(0xFF000000)
	for shift := uint(0); shift <= 16; shift += 8 {
		v := int((top>>shift)&0xFF) - int((bot>>shift)&0xFF)
		if v < 0 {
			v = 0
		}
		if half {
			v /= 2
		}
		out |= uint32(v) << shift
	}
	return out
}

// Effective priority keys compared by the compositor, lower in front.
// Sprites order before BGs inside the same layer class; BGs compare the
// per-tile priority, then the BG index.
func wideBGKey(layerPri, tilePri uint8, bgIdx int) int {
	return int(layerPri)<<8 | 1<<7 | int(tilePri)<<4 | bgIdx
}

func wideObjKey(pri uint8) int {
	return int(pri) << 8
}

const wideBackdropKey = 1 << 12

// compositeWideLine merges the per-layer line buffers into framebuffer
// row y, picking the two front-most contributors per column, then
// applying windowing, color math and the global fades.
func (p *PPU) compositeWideLine(s *wideScratch, y, w int, regs *wideRegs, bgs *[wideBGCount]wideBG) {
	m := &regs.math
	objOn := regs.master&(1<<layerOBJ) != 0

	row := p.fb[y*w : (y+1)*w]
	for x := range row {
		mask := wideLayerMask(regs, x, y, s.objAttr[x]&objAttrWindow != 0)

		topColor, botColor := regs.backdrop, regs.backdrop
		topLayer, botLayer := layerBackdrop, layerBackdrop
		topKey, botKey := wideBackdropKey, wideBackdropKey

		consider := func(color uint32, layer, key int) {
			switch {
			case key < topKey:
				botColor, botLayer, botKey = topColor, topLayer, topKey
				topColor, topLayer, topKey = color, layer, key
			case key < botKey:
				botColor, botLayer, botKey = color, layer, key
			}
		}

		if objOn && mask&(1<<layerOBJ) != 0 && s.obj[x] != 0 {
			consider(s.obj[x], layerOBJ, wideObjKey(s.objPri[x]))
		}
		for bg := 0; bg < wideBGCount; bg++ {
			if s.bg[bg][x] == 0 || mask&(1<<bg) == 0 || regs.master&(1<<bg) == 0 {
				continue
			}
			consider(s.bg[bg][x], bg, wideBGKey(bgs[bg].layerPri, s.bgPri[bg][x], bg))
		}

		pixel := topColor
		if mask&winMaskMath != 0 {
			secondOK := hwio.GetBit16(m.targetB, uint(botLayer))
			semi := topLayer == layerOBJ && s.objAttr[x]&objAttrSemi != 0
			switch {
			case semi && secondOK:
				pixel = alphaBlend(topColor, botColor, m.eva, m.evb)
			case m.mode == WideMathOff || !hwio.GetBit16(m.targetA, uint(topLayer)):
				// keep the top color
			case m.mode == WideMathAdd && secondOK:
				pixel = mathAdd(topColor, botColor, m.half)
			case m.mode == WideMathSub && secondOK:
				pixel = mathSub(topColor, botColor, m.half)
			case m.mode == WideMathAvg && secondOK:
				pixel = mathAdd(topColor, botColor, true)
			case m.mode == WideMathEvaEvb && secondOK:
				pixel = alphaBlend(topColor, botColor, m.eva, m.evb)
			}
		}

		if m.fadeWhite {
			pixel = brighten(pixel, m.fade)
		}
		if m.fadeBlack {
			pixel = darken(pixel, m.fade)
		}

		row[x] = pixel
	}
}
