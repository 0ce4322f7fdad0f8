package hw

import "vppu/hw/hwio"

// Layer ids used by the blend target masks and window masks.
// Bits 0..3 are BG0..BG3, then OBJ. Bit 5 is the backdrop in blend target
// masks and the color math enable in window masks (winMaskMath).
const (
	layerOBJ      = 4
	layerBackdrop = 5
)

// Window mask bit gating color math (WININ/WINOUT bit 5).
const winMaskMath = 1 << 5

// winControl is the decoded window state for a frame.
type winControl struct {
	enabled        bool
	win0On, win1On bool
	objWinOn       bool
	win0, win1     window
	in0, in1       uint16 // layer masks inside WIN0 / WIN1
	out, objWin    uint16 // outside mask, OBJ window mask
}

func (p *PPU) windowControl(dispcnt uint16, screenW, screenH int) winControl {
	wc := winControl{
		win0On:   hwio.GetBit16(dispcnt, dispWin0On),
		win1On:   hwio.GetBit16(dispcnt, dispWin1On),
		objWinOn: hwio.GetBit16(dispcnt, dispObjWinOn),
	}
	wc.enabled = wc.win0On || wc.win1On || wc.objWinOn
	if !wc.enabled {
		return wc
	}

	winin := p.IoMem.Read16(regWININ)
	winout := p.IoMem.Read16(regWINOUT)
	wc.in0 = hwio.Bits16(winin, 0, 6)
	wc.in1 = hwio.Bits16(winin, 8, 6)
	wc.out = hwio.Bits16(winout, 0, 6)
	wc.objWin = hwio.Bits16(winout, 8, 6)

	wc.win0 = p.windowRect(0)
	wc.win1 = p.windowRect(1)
	// An inverted or off-screen bound empties the window.
	if wc.win0.empty(screenW, screenH) {
		wc.win0 = window{}
	}
	if wc.win1.empty(screenW, screenH) {
		wc.win1 = window{}
	}
	return wc
}

// layerMask returns the layer enable mask applying at (x, y). Window
// precedence is WIN0, then WIN1, then the OBJ window, then outside. With
// no window enabled everything contributes and color math is allowed.
func (wc *winControl) layerMask(x, y int, objWin bool) uint16 {
	if !wc.enabled {
		return 0x3F
	}
	if wc.win0On && wc.win0.contains(x, y) {
		return wc.in0
	}
	if wc.win1On && wc.win1.contains(x, y) {
		return wc.in1
	}
	if wc.objWinOn && objWin {
		return wc.objWin
	}
	return wc.out
}

// Blend helpers operate on whole RGBA words, per channel, saturating.

func alphaBlend(top, bot, eva, evb uint32) uint32 {
	out := uint32(0xFF000000)
	for shift := uint(0); shift <= 16; shift += 8 {
		t := (top >> shift) & 0xFF
		b := (bot >> shift) & 0xFF
		out |= min((t*eva+b*evb)/16, 255) << shift
	}
	return out
}

func brighten(c, evy uint32) uint32 {
	out := uint32(0xFF000000)
	for shift := uint(0); shift <= 16; shift += 8 {
		ch := (c >> shift) & 0xFF
		out |= (ch + (255-ch)*evy/16) << shift
	}
	return out
}

func darken(c, evy uint32) uint32 {
	out := uint32(0xFF000000)
	for shift := uint(0); shift <= 16; shift += 8 {
		ch := (c >> shift) & 0xFF
		out |= (ch - ch*evy/16) << shift
	}
	return out
}

// compositeGBALine merges the per-layer line buffers into framebuffer
// row y. For each column it finds the two topmost contributors in
// priority class order, sprites in front of BGs within a class and BGs
// ordered by their priority register with lower index winning ties, then
// applies windowing and color math.
func (p *PPU) compositeGBALine(s *gbaScratch, y int, dispcnt uint16) {
	bd := p.bgColor(0)
	blend := p.blendControl()
	wc := p.windowControl(dispcnt, GBAWidth, GBAHeight)

	var enabled [4]bool
	var prio [4]uint8
	for bg := 0; bg < 4; bg++ {
		enabled[bg] = hwio.GetBit16(dispcnt, dispBG0On+uint(bg))
		prio[bg] = p.bgControl(bg).priority
	}

	// Stable sort of the BG draw order on the priority register.
	order := [4]int{0, 1, 2, 3}
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && prio[order[j]] < prio[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	objEnabled := hwio.GetBit16(dispcnt, dispObjOn)

	row := p.fb[y*GBAWidth : (y+1)*GBAWidth]
	for x := range row {
		mask := wc.layerMask(x, y, s.objAttr[x]&objAttrWindow != 0)

		topColor, botColor := bd, bd
		topLayer, botLayer := layerBackdrop, layerBackdrop
		foundTop, foundBot := false, false

		push := func(color uint32, layer int) {
			if !foundTop {
				topColor, topLayer = color, layer
				foundTop = true
			} else if !foundBot {
				botColor, botLayer = color, layer
				foundBot = true
			}
		}

		for pri := uint8(0); pri <= 3 && !foundBot; pri++ {
			if objEnabled && mask&(1<<layerOBJ) != 0 && s.obj[x] != 0 && s.objPri[x] == pri {
				push(s.obj[x], layerOBJ)
			}
			for _, bg := range order {
				if foundBot {
					break
				}
				if !enabled[bg] || mask&(1<<bg) == 0 {
					continue
				}
				if prio[bg] != pri || s.bg[bg][x] == 0 {
					continue
				}
				push(s.bg[bg][x], bg)
			}
		}

		pixel := topColor
		if mask&winMaskMath != 0 {
			semi := topLayer == layerOBJ && s.objAttr[x]&objAttrSemi != 0
			switch {
			case semi && hwio.GetBit16(blend.targetB, uint(botLayer)):
				pixel = alphaBlend(topColor, botColor, blend.eva, blend.evb)
			case blend.effect == blendAlpha:
				if hwio.GetBit16(blend.targetA, uint(topLayer)) && hwio.GetBit16(blend.targetB, uint(botLayer)) {
					pixel = alphaBlend(topColor, botColor, blend.eva, blend.evb)
				}
			case blend.effect == blendBrighten:
				if hwio.GetBit16(blend.targetA, uint(topLayer)) {
					pixel = brighten(topColor, blend.evy)
				}
			case blend.effect == blendDarken:
				if hwio.GetBit16(blend.targetA, uint(topLayer)) {
					pixel = darken(topColor, blend.evy)
				}
			}
		}

		row[x] = pixel
	}
}
