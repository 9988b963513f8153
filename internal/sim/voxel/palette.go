package voxel

import (
	"fmt"

	"voxelhouse.ai/internal/sim/catalogs"
)

// Palette interns block keys. Id 0 is always air.
type Palette struct {
	keys   []string
	blocks []catalogs.Block
	index  map[string]uint16
}

func NewPalette() *Palette {
	return &Palette{
		keys:   []string{catalogs.AirID},
		blocks: []catalogs.Block{catalogs.Air},
		index:  map[string]uint16{catalogs.AirID: 0},
	}
}

// PaletteFromKeys rebuilds a palette in the given id order.
func PaletteFromKeys(keys []string) (*Palette, error) {
	if len(keys) == 0 || keys[0] != catalogs.AirID {
		return nil, fmt.Errorf("palette must start with %q", catalogs.AirID)
	}
	p := NewPalette()
	for _, k := range keys[1:] {
		b, err := catalogs.ParseBlockKey(k)
		if err != nil {
			return nil, err
		}
		if _, dup := p.index[b.Key()]; dup {
			return nil, fmt.Errorf("duplicate palette key %q", k)
		}
		p.intern(b)
	}
	return p, nil
}

func (p *Palette) intern(b catalogs.Block) uint16 {
	if b.IsAir() {
		return 0
	}
	k := b.Key()
	if id, ok := p.index[k]; ok {
		return id
	}
	if len(p.keys) > 0xFFFF {
		panic("voxel palette overflow")
	}
	id := uint16(len(p.keys))
	p.keys = append(p.keys, k)
	p.blocks = append(p.blocks, b)
	p.index[k] = id
	return id
}

func (p *Palette) Block(id uint16) (catalogs.Block, bool) {
	if int(id) >= len(p.blocks) {
		return catalogs.Block{}, false
	}
	return p.blocks[id], true
}

func (p *Palette) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

func (p *Palette) Len() int { return len(p.keys) }
