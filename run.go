package main

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"runtime/debug"
	"time"

	"vppu/emu"
	"vppu/hw"
)

// renderMain loads a scene, renders the requested number of frames and
// reports a frame hash plus timing. With --out, raw RGBA frames are
// streamed to the given file as they render.
func renderMain(args Render, conf emu.Config) {
	sc, err := emu.LoadScene(args.ScenePath)
	checkf(err, "failed to load scene")

	ppu := hw.NewPPU()
	ppu.Parallel = conf.Render.Parallel && !args.Serial
	ppu.Workers = conf.Render.NumWorkers()
	checkf(sc.Apply(ppu), "failed to apply scene")

	frames := sc.Frames
	if args.Frames > 0 {
		frames = args.Frames
	}
	if frames < 1 {
		frames = 1
	}

	w, h := ppu.OutputSize()
	if w == 0 {
		fatalf("scene selects unknown mode %d", sc.Mode)
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		ppu.RenderFrame()
		if args.Out != nil {
			checkf(writeFrame(args.Out, ppu, w, h), "failed to write frame")
		}
	}
	elapsed := time.Since(start)

	if args.Out != nil {
		defer args.Out.Close()
	}

	fmt.Printf("mode:   %s\n", ppu.Mode)
	fmt.Printf("output: %dx%d\n", w, h)
	fmt.Printf("frames: %d in %s (%.2f ms/frame)\n",
		frames, elapsed.Round(time.Millisecond),
		float64(elapsed.Milliseconds())/float64(frames))
	fmt.Printf("crc32:  %08x\n", frameHash(ppu, w, h))
}

// frameHash hashes the output rectangle of the last rendered frame,
// each pixel as 4 little-endian bytes.
func frameHash(ppu *hw.PPU, w, h int) uint32 {
	crc := crc32.NewIEEE()
	var word [4]byte
	for _, pixel := range ppu.Framebuffer()[:w*h] {
		binary.LittleEndian.PutUint32(word[:], pixel)
		crc.Write(word[:])
	}
	return crc.Sum32()
}

func writeFrame(out io.Writer, ppu *hw.PPU, w, h int) error {
	buf := make([]byte, w*h*4)
	for i, pixel := range ppu.Framebuffer()[:w*h] {
		binary.LittleEndian.PutUint32(buf[i*4:], pixel)
	}
	_, err := out.Write(buf)
	return err
}

func infosMain(args SceneInfos) {
	sc, err := emu.LoadScene(args.ScenePath)
	checkf(err, "failed to load scene")
	sc.PrintInfos(os.Stdout)
}

func versionMain() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("vppu", version)
}
