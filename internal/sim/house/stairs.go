package house

import (
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

// switchback is the slab sequence climbing one storey around the central
// column, relative to the column at the storey's floor level.
var switchback = []struct {
	off geom.Vec3i
	top bool
}{
	{geom.Vec3i{X: -1, Y: 1, Z: -1}, false},
	{geom.Vec3i{X: 0, Y: 1, Z: -1}, true},
	{geom.Vec3i{X: 1, Y: 2, Z: -1}, false},
	{geom.Vec3i{X: 1, Y: 2, Z: 0}, true},
	{geom.Vec3i{X: 1, Y: 3, Z: 1}, false},
	{geom.Vec3i{X: 0, Y: 3, Z: 1}, true},
	{geom.Vec3i{X: -1, Y: 4, Z: 1}, false},
	{geom.Vec3i{X: -1, Y: 4, Z: 0}, true},
}

// placeStairs connects consecutive storeys with a slab spiral around a
// column at the primary room's centre.
func (h *House) placeStairs() {
	primary, ok := h.skel.Primary()
	if !ok {
		return
	}
	column := h.block(catalogs.SlotFloor)
	slab := h.block(catalogs.SlotStairsSlab)
	bottom := slab.With("type", "bottom")
	top := slab.With("type", "top")
	cx := primary.X + primary.Width/2
	cz := primary.Z + primary.Depth/2
	for f := 0; f+1 < h.floors; f++ {
		b := h.base() + FloorHeight*f
		ceil := b + FloorHeight
		for dx := -1; dx <= 1; dx++ {
			for dz := -1; dz <= 1; dz++ {
				p := geom.Vec3i{X: cx + dx, Y: ceil, Z: cz + dz}
				h.place(p, catalogs.Air)
				h.grid.Clear(p)
			}
		}
		for j := 1; j <= FloorHeight; j++ {
			h.place(geom.Vec3i{X: cx, Y: b + j, Z: cz}, column)
		}
		anchor := geom.Vec3i{X: cx, Y: b, Z: cz}
		for _, s := range switchback {
			blk := bottom
			if s.top {
				blk = top
			}
			h.place(anchor.Add(s.off), blk)
		}
	}
}
