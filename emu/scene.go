package emu

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-faster/jx"

	"vppu/hw"
)

// Scene is a headless render input: a mode, an output width, raw byte
// images for any subset of the memory regions, and register pokes
// applied on top of the images. It exists for offline rendering,
// benchmarking and golden tests; producing the byte images is up to
// external tools.
type Scene struct {
	Mode       uint8
	FrameWidth int
	Frames     int
	Regions    map[string][]byte
	Pokes      []Poke
}

// Poke writes one little-endian value into a named region.
type Poke struct {
	Region string
	Offset uint32
	Size   int // 8, 16 or 32; 0 means 16
	Value  uint32
}

// LoadScene reads and decodes a scene file.
func LoadScene(path string) (*Scene, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	sc, err := DecodeScene(buf)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return sc, nil
}

// DecodeScene decodes the JSON scene document:
//
//	{
//	  "mode": 1,
//	  "frame_width": 1280,
//	  "frames": 1,
//	  "regions": {"gba_vram": "<base64>", ...},
//	  "pokes": [{"region": "io", "offset": 0, "size": 16, "value": 256}]
//	}
//
// Unknown keys are skipped so scene files can carry annotations.
func DecodeScene(buf []byte) (*Scene, error) {
	sc := &Scene{
		Frames:  1,
		Regions: make(map[string][]byte),
	}

	d := jx.DecodeBytes(buf)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "mode":
			v, err := d.Int()
			sc.Mode = uint8(v)
			return err
		case "frame_width":
			v, err := d.Int()
			sc.FrameWidth = v
			return err
		case "frames":
			v, err := d.Int()
			sc.Frames = v
			return err
		case "regions":
			return d.Obj(func(d *jx.Decoder, name string) error {
				s, err := d.Str()
				if err != nil {
					return err
				}
				data, err := base64.StdEncoding.DecodeString(s)
				if err != nil {
					return fmt.Errorf("region %q: %w", name, err)
				}
				sc.Regions[name] = data
				return nil
			})
		case "pokes":
			return d.Arr(func(d *jx.Decoder) error {
				pk, err := decodePoke(d)
				if err != nil {
					return err
				}
				sc.Pokes = append(sc.Pokes, pk)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return sc, nil
}

func decodePoke(d *jx.Decoder) (Poke, error) {
	var pk Poke
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "region":
			s, err := d.Str()
			pk.Region = s
			return err
		case "offset":
			v, err := d.Int()
			pk.Offset = uint32(v)
			return err
		case "size":
			v, err := d.Int()
			pk.Size = v
			return err
		case "value":
			v, err := d.Int()
			pk.Value = uint32(v)
			return err
		default:
			return d.Skip()
		}
	})
	return pk, err
}

// PrintInfos writes a human-readable summary of the scene.
func (sc *Scene) PrintInfos(w io.Writer) {
	fmt.Fprintf(w, "mode:        %s\n", hw.Mode(sc.Mode))
	fmt.Fprintf(w, "frame width: %d\n", sc.FrameWidth)
	fmt.Fprintf(w, "frames:      %d\n", sc.Frames)

	names := make([]string, 0, len(sc.Regions))
	for name := range sc.Regions {
		names = append(names, name)
	}
	slices.Sort(names)
	fmt.Fprintf(w, "regions:     %d\n", len(names))
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %d bytes\n", name, len(sc.Regions[name]))
	}

	fmt.Fprintf(w, "pokes:       %d\n", len(sc.Pokes))
	for _, pk := range sc.Pokes {
		size := pk.Size
		if size == 0 {
			size = 16
		}
		fmt.Fprintf(w, "  %s[0x%06X] <- 0x%X (%d-bit)\n", pk.Region, pk.Offset, pk.Value, size)
	}
}

// Apply copies the scene into the PPU: mode and width first, then the
// region images, then the pokes.
func (sc *Scene) Apply(p *hw.PPU) error {
	p.Mode = hw.Mode(sc.Mode)
	if sc.FrameWidth != 0 {
		p.Wide = sc.FrameWidth
	}

	for name, data := range sc.Regions {
		if err := p.Regions.Load(name, data); err != nil {
			return fmt.Errorf("apply scene: %w", err)
		}
	}

	for _, pk := range sc.Pokes {
		mem := p.Regions.Lookup(pk.Region)
		if mem == nil {
			return fmt.Errorf("apply scene: no region named %q", pk.Region)
		}
		switch pk.Size {
		case 8:
			mem.Write8(pk.Offset, uint8(pk.Value))
		case 0, 16:
			mem.Write16(pk.Offset, uint16(pk.Value))
		case 32:
			mem.Write32(pk.Offset, pk.Value)
		default:
			return fmt.Errorf("apply scene: poke size must be 8, 16 or 32, got %d", pk.Size)
		}
	}
	return nil
}
