package hwio

import (
	"encoding/binary"

	"vppu/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = (1 << iota) // writes are dropped and logged
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear memory region with bounds-guarded accessors.
//
// Reads are total: an access that falls even partially outside the region
// returns zero instead of faulting. Multi-byte accesses are little-endian
// and never assembled from partial bytes, so a 32-bit read crossing the
// end of the region is zero as a whole.
type Mem struct {
	Name  string   // name of the memory region (for debugging)
	Data  []byte   // actual memory buffer
	Flags MemFlags // flags determining how the memory can be accessed
}

func NewMem(name string, size int) *Mem {
	return &Mem{Name: name, Data: make([]byte, size)}
}

func (m *Mem) Size() uint32 {
	return uint32(len(m.Data))
}

func (m *Mem) Read8(addr uint32) uint8 {
	if uint64(addr) >= uint64(len(m.Data)) {
		return 0
	}
	return m.Data[addr]
}

func (m *Mem) Read16(addr uint32) uint16 {
	if uint64(addr)+2 > uint64(len(m.Data)) {
		return 0
	}
	return binary.LittleEndian.Uint16(m.Data[addr:])
}

func (m *Mem) Read32(addr uint32) uint32 {
	if uint64(addr)+4 > uint64(len(m.Data)) {
		return 0
	}
	return binary.LittleEndian.Uint32(m.Data[addr:])
}

func (m *Mem) Write8(addr uint32, val uint8) {
	if !m.writable(addr, 1, uint64(val)) {
		return
	}
	m.Data[addr] = val
}

func (m *Mem) Write16(addr uint32, val uint16) {
	if !m.writable(addr, 2, uint64(val)) {
		return
	}
	binary.LittleEndian.PutUint16(m.Data[addr:], val)
}

func (m *Mem) Write32(addr uint32, val uint32) {
	if !m.writable(addr, 4, uint64(val)) {
		return
	}
	binary.LittleEndian.PutUint32(m.Data[addr:], val)
}

func (m *Mem) writable(addr uint32, n int, val uint64) bool {
	if uint64(addr)+uint64(n) > uint64(len(m.Data)) {
		log.ModHwIo.ErrorZ("write out of range").
			String("area", m.Name).
			Hex32("addr", addr).
			Hex64("val", val).
			End()
		return false
	}
	if m.Flags&MemFlagReadOnly != 0 {
		if m.Flags&MemFlagNoROLog == 0 {
			log.ModHwIo.ErrorZ("write to readonly memory").
				String("area", m.Name).
				Hex32("addr", addr).
				Hex64("val", val).
				End()
		}
		return false
	}
	return true
}

// Bytes returns the subslice [addr, addr+n) of the region, or nil if the
// range is out of bounds.
func (m *Mem) Bytes(addr uint32, n int) []byte {
	if n < 0 || uint64(addr)+uint64(n) > uint64(len(m.Data)) {
		return nil
	}
	return m.Data[addr : addr+uint32(n)]
}
