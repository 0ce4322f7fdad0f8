package hw

import "sync"

// A process-wide instance mirroring the C-style entry points, created on
// first use. Hosts that want ownership create their own PPU instead.
var defaultPPU = sync.OnceValue(NewPPU)

// Default returns the process-wide PPU.
func Default() *PPU {
	return defaultPPU()
}

// RenderFrame renders one frame on the process-wide PPU.
func RenderFrame() {
	defaultPPU().RenderFrame()
}

// Framebuffer returns the process-wide PPU framebuffer.
func Framebuffer() []uint32 {
	return defaultPPU().Framebuffer()
}
