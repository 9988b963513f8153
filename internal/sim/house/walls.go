package house

import (
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

// ringCells visits every boundary cell of r exactly once.
func ringCells(r geom.Room, fn func(x, z int)) {
	if r.Width <= 0 || r.Depth <= 0 {
		return
	}
	x2, z2 := r.MaxX()-1, r.MaxZ()-1
	for x := r.X; x <= x2; x++ {
		fn(x, r.Z)
		if z2 != r.Z {
			fn(x, z2)
		}
	}
	for z := r.Z + 1; z < z2; z++ {
		fn(r.X, z)
		if x2 != r.X {
			fn(x2, z)
		}
	}
}

// placeWalls rasterises every room's wall ring from base to the top of the
// room. A column cell above base that another ring already claimed is
// confirmed as shared and is not written again by later passes.
func (h *House) placeWalls() {
	wall := h.block(catalogs.SlotWall)
	base := h.base()
	for i, r := range h.skel.rooms {
		height := r.Height
		ringCells(wallRing(i, r), func(x, z int) {
			for y := base; y < base+height; y++ {
				p := geom.Vec3i{X: x, Y: y, Z: z}
				c := h.grid.Get(p)
				if y == base || !(c.Occupied && c.Tag == TagShared) {
					h.place(p, wall)
				}
				if y > base && c.Occupied {
					h.grid.Set(p, true, TagShared)
				} else {
					h.grid.Mark(p)
				}
			}
		})
	}
}

// placeFloors lays the floor slot over every room footprint.
func (h *House) placeFloors() {
	floor := h.block(catalogs.SlotFloor)
	base := h.base()
	for _, r := range h.skel.rooms {
		for x := r.X; x < r.MaxX(); x++ {
			for z := r.Z; z < r.MaxZ(); z++ {
				h.place(geom.Vec3i{X: x, Y: base, Z: z}, floor)
			}
		}
	}
}

// placeCeilings fills the interior of every room at each storey boundary.
func (h *House) placeCeilings() {
	ceiling := h.block(catalogs.SlotCeiling)
	base := h.base()
	for i, r := range h.skel.rooms {
		in := interior(i, r)
		for f := 1; f <= h.floors; f++ {
			y := base + FloorHeight*f
			if y >= base+r.Height {
				break
			}
			for x := in.X; x < in.MaxX(); x++ {
				for z := in.Z; z < in.MaxZ(); z++ {
					p := geom.Vec3i{X: x, Y: y, Z: z}
					h.place(p, ceiling)
					h.grid.Mark(p)
				}
			}
		}
	}
}
