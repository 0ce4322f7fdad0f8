package hw

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"vppu/emu/log"
	"vppu/hw/hwio"
)

// Output dimensions. The framebuffer is sized for the widest mode; the
// other modes use the top-left rectangle with their own row stride.
const (
	FrameWidth  = 1280
	FrameHeight = 360

	GBAWidth  = 240
	GBAHeight = 160

	DMGWidth  = 160
	DMGHeight = 144
)

// Memory region sizes.
const (
	VramSize    = 4 << 20  // wide and DMG layouts
	GbaVramSize = 0x18000  // BG window 0x00000, OBJ window 0x10000
	IoMemSize   = 0x400    // I/O registers
	PlttSize    = 0x200    // 256 RGB555 entries
	OamSize     = 0x400    // 128 sprites x 4 halfwords
)

const colorWhite = 0xFFFFFFFF

// Mode selects the rendering pipeline used by RenderFrame.
type Mode uint8

const (
	ModeWide  Mode = 0 // wide BGs, per-line tables, banked RGB888 palettes
	ModeText  Mode = 1 // 4 text BGs + OBJ
	ModeMixed Mode = 2 // BG0/BG1 text, BG2 affine, no BG3, + OBJ
	ModeDMG   Mode = 7 // monochrome tiles, window, 8/16-tall sprites
)

//go:generate go tool stringer -type=Mode

// PPU owns the video memory regions and the framebuffer. The host writes
// regions and registers between frames and calls RenderFrame; it must not
// mutate anything while a render call is in flight.
type PPU struct {
	// Mode selects the pipeline at frame entry.
	Mode Mode

	// Wide is the wide-mode output width in pixels, 1 to 1280.
	// Values out of range fall back to the maximum.
	Wide int

	Vram    *hwio.Mem // 4 MiB. Wide-mode record, or the DMG layout at its start.
	GbaVram *hwio.Mem // tile and map window for the GBA-like modes
	IoMem   *hwio.Mem // GBA-like I/O registers
	BgPltt  *hwio.Mem // BG palette, RGB555
	ObjPltt *hwio.Mem // OBJ palette, RGB555
	OamMem  *hwio.Mem // object attribute memory

	// Regions addresses every memory region above by name.
	Regions *hwio.Table

	// Parallel renders scanline bands on a worker pool. Workers is the
	// pool size, 0 meaning one worker per CPU.
	Parallel bool
	Workers  int

	fb []uint32
}

func NewPPU() *PPU {
	p := &PPU{
		Mode:    ModeText,
		Wide:    FrameWidth,
		Vram:    hwio.NewMem("vram", VramSize),
		GbaVram: hwio.NewMem("gba_vram", GbaVramSize),
		IoMem:   hwio.NewMem("io", IoMemSize),
		BgPltt:  hwio.NewMem("bg_pltt", PlttSize),
		ObjPltt: hwio.NewMem("obj_pltt", PlttSize),
		OamMem:  hwio.NewMem("oam", OamSize),
		fb:      make([]uint32, FrameWidth*FrameHeight),
	}
	p.Regions = hwio.NewTable("ppu")
	p.Regions.Map(p.Vram)
	p.Regions.Map(p.GbaVram)
	p.Regions.Map(p.IoMem)
	p.Regions.Map(p.BgPltt)
	p.Regions.Map(p.ObjPltt)
	p.Regions.Map(p.OamMem)
	return p
}

// Framebuffer returns the backing pixel array. Pixels are 32-bit words in
// RGBA memory order, rows packed at the current mode's output width.
func (p *PPU) Framebuffer() []uint32 {
	return p.fb
}

// OutputSize returns the dimensions of the rectangle RenderFrame writes.
func (p *PPU) OutputSize() (w, h int) {
	switch p.Mode {
	case ModeWide:
		return p.wideWidth(), FrameHeight
	case ModeText, ModeMixed:
		return GBAWidth, GBAHeight
	case ModeDMG:
		return DMGWidth, DMGHeight
	}
	return 0, 0
}

func (p *PPU) wideWidth() int {
	if p.Wide < 1 || p.Wide > FrameWidth {
		return FrameWidth
	}
	return p.Wide
}

// RenderFrame renders one frame into the framebuffer using the current
// mode, registers and memory contents. Unknown modes leave the
// framebuffer untouched.
func (p *PPU) RenderFrame() {
	switch p.Mode {
	case ModeWide:
		p.renderWideFrame()
	case ModeText, ModeMixed:
		p.renderGBAFrame()
	case ModeDMG:
		p.renderDMGFrame()
	default:
		log.ModPPU.DebugZ("unknown mode, frame skipped").
			Uint("mode", uint(p.Mode)).
			End()
	}
}

func (p *PPU) fillRect(w, h int, color uint32) {
	for y := 0; y < h; y++ {
		row := p.fb[y*w : (y+1)*w]
		for x := range row {
			row[x] = color
		}
	}
}

// forEachLine runs render for every scanline in [0, h), serially or on a
// band-partitioned worker pool. Each worker gets its own scratch value,
// and bands write disjoint framebuffer rows, so no synchronization is
// needed beyond the final join.
func forEachLine[S any](p *PPU, h int, scratch func() *S, render func(s *S, y int)) {
	if !p.Parallel || h < 2 {
		s := scratch()
		for y := 0; y < h; y++ {
			render(s, y)
		}
		return
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, h)
	band := (h + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < h; start += band {
		start := start
		end := min(start+band, h)
		g.Go(func() error {
			s := scratch()
			for y := start; y < end; y++ {
				render(s, y)
			}
			return nil
		})
	}
	// Workers never fail, the pipelines are total.
	_ = g.Wait()
}

// gbaScratch is the per-worker scanline state for the GBA-like modes.
type gbaScratch struct {
	bg      [4][GBAWidth]uint32
	bgPri   [4][GBAWidth]uint8
	obj     [GBAWidth]uint32
	objPri  [GBAWidth]uint8
	objAttr [GBAWidth]uint8
}

func newGBAScratch() *gbaScratch {
	return new(gbaScratch)
}

func (p *PPU) renderGBAFrame() {
	dispcnt := p.IoMem.Read16(regDISPCNT)

	if hwio.GetBit16(dispcnt, dispForcedBlank) {
		p.fillRect(GBAWidth, GBAHeight, colorWhite)
		return
	}

	log.ModPPU.DebugZ("frame start").
		Stringer("mode", p.Mode).
		Hex16("dispcnt", dispcnt).
		End()

	forEachLine(p, GBAHeight, newGBAScratch, func(s *gbaScratch, y int) {
		p.renderGBALine(s, y, dispcnt)
	})
}

func (p *PPU) renderGBALine(s *gbaScratch, y int, dispcnt uint16) {
	for i := range s.bg {
		clear(s.bg[i][:])
		clear(s.bgPri[i][:])
	}
	clear(s.obj[:])
	clear(s.objAttr[:])
	for i := range s.objPri {
		s.objPri[i] = objPriEmpty
	}

	switch p.Mode {
	case ModeText:
		for bg := 0; bg < 4; bg++ {
			if hwio.GetBit16(dispcnt, dispBG0On+uint(bg)) {
				p.renderTextBGLine(bg, y, s.bg[bg][:], s.bgPri[bg][:])
			}
		}
	case ModeMixed:
		for bg := 0; bg < 2; bg++ {
			if hwio.GetBit16(dispcnt, dispBG0On+uint(bg)) {
				p.renderTextBGLine(bg, y, s.bg[bg][:], s.bgPri[bg][:])
			}
		}
		if hwio.GetBit16(dispcnt, dispBG2On) {
			p.renderAffineBGLine(2, y, s.bg[2][:], s.bgPri[2][:])
		}
	}

	if hwio.GetBit16(dispcnt, dispObjOn) {
		p.renderObjLine(y, hwio.GetBit16(dispcnt, dispObj1D), s.obj[:], s.objPri[:], s.objAttr[:])
	}

	p.compositeGBALine(s, y, dispcnt)
}
