package hwio

import (
	"fmt"

	"vppu/emu/log"
)

// Table is a named collection of memory regions. It gives hosts, scene
// loaders and tests a uniform way to address the regions of a device by
// name, without knowing which field of the device each one lives in.
type Table struct {
	Name string

	regions []*Mem
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	return t
}

// Map registers a region into the table. Region names are unique within
// a table.
func (t *Table) Map(mem *Mem) {
	log.ModHwIo.DebugZ("mapping region").
		String("area", mem.Name).
		Hex32("size", mem.Size()).
		String("table", t.Name).
		End()

	if t.Lookup(mem.Name) != nil {
		panic(fmt.Sprintf("region %q mapped twice in table %q", mem.Name, t.Name))
	}
	t.regions = append(t.regions, mem)
}

// Lookup returns the region with the given name, or nil.
func (t *Table) Lookup(name string) *Mem {
	for _, m := range t.regions {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Names returns the region names in mapping order.
func (t *Table) Names() []string {
	names := make([]string, len(t.regions))
	for i, m := range t.regions {
		names[i] = m.Name
	}
	return names
}

// Load copies buf into the named region, starting at offset 0. The buffer
// must fit into the region.
func (t *Table) Load(name string, buf []byte) error {
	m := t.Lookup(name)
	if m == nil {
		return fmt.Errorf("no region named %q in table %q", name, t.Name)
	}
	if len(buf) > len(m.Data) {
		return fmt.Errorf("region %q is %d bytes, can't hold %d", name, len(m.Data), len(buf))
	}
	copy(m.Data, buf)
	return nil
}
