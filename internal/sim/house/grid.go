package house

import (
	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/house/logic/mathx"
)

// GridMargin is the number of extra cells allocated around the volume on
// every side, so rings, ramps and eaves outside the footprint stay addressable.
const GridMargin = 10

// Tag values carried by grid cells.
const (
	TagNone   uint8 = 0
	TagFloor  uint8 = 1 // footprint cell claimed by the room search
	TagShared uint8 = 2 // confirmed shared wall above base
)

type Cell struct {
	Occupied bool
	Tag      uint8
}

// Grid annotates the volume with what each stage has claimed.
type Grid struct {
	min   geom.Vec3i // lowest addressable cell
	max   geom.Vec3i // highest addressable cell
	sx    int
	sy    int
	sz    int
	cells []Cell
}

// NewGrid allocates a grid covering vol plus GridMargin on every side and
// enough headroom above vol for the tallest roof a footprint of this size
// can produce.
func NewGrid(vol Volume) *Grid {
	headroom := mathx.MaxInt(GridMargin, mathx.MaxInt(vol.Width(), vol.Depth())/4+4)
	lo := geom.Vec3i{X: vol.Min.X - GridMargin, Y: vol.Min.Y - GridMargin, Z: vol.Min.Z - GridMargin}
	hi := geom.Vec3i{X: vol.Max.X + GridMargin, Y: vol.Max.Y + headroom, Z: vol.Max.Z + GridMargin}
	g := &Grid{
		min: lo,
		max: hi,
		sx:  hi.X - lo.X + 1,
		sy:  hi.Y - lo.Y + 1,
		sz:  hi.Z - lo.Z + 1,
	}
	g.cells = make([]Cell, g.sx*g.sy*g.sz)
	return g
}

func (g *Grid) InBounds(p geom.Vec3i) bool {
	return p.X >= g.min.X && p.X <= g.max.X &&
		p.Y >= g.min.Y && p.Y <= g.max.Y &&
		p.Z >= g.min.Z && p.Z <= g.max.Z
}

func (g *Grid) index(p geom.Vec3i) int {
	if !g.InBounds(p) {
		panic(&OutOfBoundsError{Pos: p, Min: g.min, Max: g.max})
	}
	x := p.X - g.min.X
	y := p.Y - g.min.Y
	z := p.Z - g.min.Z
	return (y*g.sz+z)*g.sx + x
}

func (g *Grid) Get(p geom.Vec3i) Cell { return g.cells[g.index(p)] }

func (g *Grid) Set(p geom.Vec3i, occupied bool, tag uint8) {
	g.cells[g.index(p)] = Cell{Occupied: occupied, Tag: tag}
}

// Mark sets occupied and keeps the tag.
func (g *Grid) Mark(p geom.Vec3i) { g.cells[g.index(p)].Occupied = true }

func (g *Grid) Clear(p geom.Vec3i) { g.cells[g.index(p)] = Cell{} }

func (g *Grid) Occupied(p geom.Vec3i) bool { return g.Get(p).Occupied }
